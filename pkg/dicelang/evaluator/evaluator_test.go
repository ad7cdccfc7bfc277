package evaluator

import (
	"testing"

	"github.com/ewens/dicelang/pkg/dicelang/ast"
	"github.com/ewens/dicelang/pkg/dicelang/errors"
	"github.com/ewens/dicelang/pkg/dicelang/operator"
	"github.com/ewens/dicelang/pkg/dicelang/parser"
)

// fixedSource makes every die land on the same value, clamped to the
// legal range.
type fixedSource struct{ v int }

func (s fixedSource) UniformInt(low, high int) int {
	if s.v < low {
		return low
	}
	if s.v > high {
		return high
	}
	return s.v
}

func (s fixedSource) Choice(values []float64) float64 {
	for _, v := range values {
		if v == float64(s.v) {
			return v
		}
	}
	return values[0]
}

func fixDie(t *testing.T, v int) {
	t.Helper()
	old := operator.SetSource(fixedSource{v: v})
	t.Cleanup(func() { operator.SetSource(old) })
}

func mustParse(t *testing.T, source string) *ast.EvalTree {
	t.Helper()
	tree, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", source, err)
	}
	return tree
}

func evaluate(t *testing.T, source string) float64 {
	t.Helper()
	v, err := Evaluate(mustParse(t, source))
	if err != nil {
		t.Fatalf("Evaluate(%q) error: %v", source, err)
	}
	return v
}

func TestEvaluate(t *testing.T) {
	fixDie(t, 4)
	tests := []struct {
		input string
		want  float64
	}{
		{"1+2*4", 9},
		{"(1+2)*4", 12},
		{"2^3^2", 512},
		{"7/2", 3.5},
		{"7%3", 1},
		{"5!", 120},
		{"-5+3", -2},
		{"3d4", 12},
		{"3da4", 7.5},
		{"3d6", 12},
		{"2d20h1", 4},
		{"2d20l1", 4},
		{"1d20>=15", 0},
		{"1d4>=4", 1},
		{"8d6t4", 8},
		{"8d6t5", 0},
		{"2d[4, 6, 8]", 8},
		{"1=1", 1},
		{"1>2|2>1", 1},
		{"1>2&2>1", 0},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := evaluate(t, tt.input); got != tt.want {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestEvaluateModes(t *testing.T) {
	fixDie(t, 3)
	tests := []struct {
		name    string
		rewrite func(*ast.EvalTree) *ast.EvalTree
		input   string
		want    float64
	}{
		{"average", (*ast.EvalTree).Averageify, "3d6", 10.5},
		{"critical", (*ast.EvalTree).Critify, "3d6", 18},
		{"maximum", (*ast.EvalTree).Maxify, "3d6", 18},
		{"maximum over average", (*ast.EvalTree).Maxify, "3da6", 18},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := tt.rewrite(mustParse(t, tt.input))
			got, err := Evaluate(tree)
			if err != nil {
				t.Fatalf("Evaluate error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMaxifyAfterCritifyMatchesMaxifyAlone(t *testing.T) {
	fixDie(t, 2)
	both := mustParse(t, "2d6+1d4").Critify().Maxify()
	alone := mustParse(t, "2d6+1d4").Maxify()
	a, err := Evaluate(both)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Evaluate(alone)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("critify+maxify = %v, maxify = %v", a, b)
	}
}

func TestEvaluateErrorsAreWrapped(t *testing.T) {
	tests := []string{"1/0", "(-1)!", "4d6R>0", "2d0"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := Evaluate(mustParse(t, input))
			if err == nil {
				t.Fatal("Evaluate succeeded, want error")
			}
			if !errors.IsEval(err) {
				t.Errorf("error class not eval: %v", err)
			}
		})
	}
}

func TestVerboseResult(t *testing.T) {
	fixDie(t, 4)
	tests := []struct {
		input string
		want  string
	}{
		{"1+2*4", "1+2*4 = 9"},
		{"(1+2)*4", "(1+2)*4 = 12"},
		{"3d4", "[d4: 4, 4, 4] = 12"},
		{"1d20+5", "[d20: 4]+5 = 9"},
		{"-1d4", "-[d4: 4] = -4"},
		{"2d20h1+3", "[d20: 4; (4)]+3 = 7"},
		{"3da4", "[d4: 2.5, 2.5, 2.5] = 7.5"},
		{"1d4>=4", "[d4: 4]>=4 = 1"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tree := mustParse(t, tt.input)
			got, err := VerboseResult(tree)
			if err != nil {
				t.Fatalf("VerboseResult error: %v", err)
			}
			if got != tt.want {
				t.Errorf("VerboseResult(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestVerboseResultEmptyTree(t *testing.T) {
	got, err := VerboseResult(ast.New(nil))
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestIsCriticalAndIsFail(t *testing.T) {
	build := func(values []float64, sides float64) *ast.EvalTree {
		roll := operator.NewRoll(values, operator.Number(sides))
		tree := ast.FromValue(operator.Number(0))
		tree.Root.Value = roll
		return tree
	}

	if !IsCritical(build([]float64{20}, 20)) {
		t.Error("a natural 20 on a d20 should be critical")
	}
	if IsCritical(build([]float64{17}, 20)) {
		t.Error("no natural 20 rolled")
	}
	if IsCritical(build([]float64{20}, 30)) {
		t.Error("a 20 on a d30 is not critical")
	}
	if !IsFail(build([]float64{1}, 20)) {
		t.Error("a natural 1 on a d20 should be a fail")
	}
	if IsFail(build([]float64{1}, 6)) {
		t.Error("a 1 on a d6 is not a fail")
	}
}

func TestIsCriticalAfterEvaluate(t *testing.T) {
	fixDie(t, 20)
	tree := mustParse(t, "1d20+5")
	if _, err := Evaluate(tree); err != nil {
		t.Fatal(err)
	}
	if !IsCritical(tree) {
		t.Error("fixed d20 at 20 should be critical")
	}
	if IsFail(tree) {
		t.Error("fixed d20 at 20 is not a fail")
	}
}

func TestEvaluateCachesNodeValues(t *testing.T) {
	fixDie(t, 3)
	tree := mustParse(t, "2d6+1")
	if _, err := Evaluate(tree); err != nil {
		t.Fatal(err)
	}
	if tree.Root.Value == nil || tree.Root.Left.Value == nil {
		t.Error("node values not populated during evaluation")
	}
}
