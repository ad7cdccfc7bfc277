package parser

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/ewens/dicelang/pkg/dicelang/ast"
	"github.com/ewens/dicelang/pkg/dicelang/errors"
	"github.com/ewens/dicelang/pkg/dicelang/operator"
)

// shape renders a tree as a parenthesized prefix expression so tests can
// assert on structure.
func shape(n *ast.Node) string {
	if n == nil {
		return "_"
	}
	if n.IsLeaf() {
		return n.Val.Inspect()
	}
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(n.Op.Code)
	sb.WriteString(" ")
	sb.WriteString(shape(n.Left))
	sb.WriteString(" ")
	sb.WriteString(shape(n.Right))
	sb.WriteString(")")
	return sb.String()
}

func TestParseShapes(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1d20", "(d 1 20)"},
		{"1+2*3", "(+ 1 (* 2 3))"},
		{"(1+2)*3", "(* (+ 1 2) 3)"},
		{"1-2-3", "(- (- 1 2) 3)"},
		{"2^3^2", "(^ 2 (^ 3 2))"},
		{"2d20h1+5", "(+ (h (d 2 20) 1) 5)"},
		{"4d6R1h3", "(h (R (d 4 6) 1) 3)"},
		{"-5+3", "(+ (m _ 5) 3)"},
		{"-2d4", "(m _ (d 2 4))"},
		{"5!", "(! 5 _)"},
		{"5!+1", "(+ (! 5 _) 1)"},
		{"1d100<=18", "(<= (d 1 100) 18)"},
		{"2d(1d4)", "(d 2 (d 1 4))"},
		{"2d[1, 3, 5]", "(d 2 (1, 3, 5))"},
		{"4dF", "(d 4 (-1, 0, 1))"},
		{"1d20>=15&1d20>=15", "(& (>= (d 1 20) 15) (>= (d 1 20) 15))"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tree, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}
			if got := shape(tree.Root); got != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	tree, err := Parse("")
	if err != nil {
		t.Fatalf("Parse(\"\") error: %v", err)
	}
	if tree.Root == nil || !tree.Root.IsLeaf() || tree.Root.Val != operator.Number(0) {
		t.Errorf("empty expression should parse to the literal 0, got %s", shape(tree.Root))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"two values", "1 2"},
		{"doubled dice operator", "1dd4"},
		{"dangling operand", "2(1d4)"},
		{"lone operator", "+"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", tt.input)
			}
			if !errors.IsParse(err) {
				t.Errorf("error class not parse: %v", err)
			}
		})
	}
}

func TestParseErrorCarriesSource(t *testing.T) {
	_, err := Parse("1 2")
	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("error is %T, want *errors.Error", err)
	}
	if e.Expr != "1 2" {
		t.Errorf("Expr = %q, want the source expression", e.Expr)
	}
}

func TestParseLexErrorsPropagate(t *testing.T) {
	_, err := Parse("1d6?")
	if err == nil {
		t.Fatal("Parse succeeded, want lex error")
	}
	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("error is %T, want *errors.Error", err)
	}
	if e.Code != "PARSE-0001" {
		t.Errorf("Code = %q, want PARSE-0001", e.Code)
	}
}
