package lexer

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/ewens/dicelang/pkg/dicelang/errors"
)

// tokenString joins the compact forms of a token stream for easy
// comparison.
func tokenString(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1d20", "1 d 20"},
		{"2d20h1", "2 d 20 h 1"},
		{"1d20+5", "1 d 20 + 5"},
		{"3d6-2", "3 d 6 - 2"},
		{"2da6", "2 da 6"},
		{"2dc6", "2 dc 6"},
		{"2dm6", "2 dm 6"},
		{"1d100<=18", "1 d 100 <= 18"},
		{"1d20>=15", "1 d 20 >= 15"},
		{"4d6R1", "4 d 6 R 1"},
		{"4d6r<2", "4 d 6 r< 2"},
		{"4d6rl2", "4 d 6 rl 2"},
		{"4d6Rh5", "4 d 6 Rh 5"},
		{"8d6t5", "8 d 6 t 5"},
		{"2^3", "2 ^ 3"},
		{"5!", "5 !"},
		{"7%3", "7 % 3"},
		{"1|0", "1 | 0"},
		{"1&1", "1 & 1"},
		{"1gt0", "1 gt 0"},
		{"1ge1", "1 ge 1"},
		{"(1+2)*3", "( 1 + 2 ) * 3"},
		{"2d(1d4)", "2 d ( 1 d 4 )"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("Tokenize(%q) error: %v", tt.input, err)
			}
			if got := tokenString(tokens); got != tt.want {
				t.Errorf("Tokenize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestUnarySigns(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"-5", "m 5"},
		{"+5", "p 5"},
		{"2*-1d4", "2 * m 1 d 4"},
		{"(-5)", "( m 5 )"},
		{"1--2", "1 - m 2"},
		{"1-+2", "1 - p 2"},
		{"1-2", "1 - 2"},
		{"5!-2", "5 ! - 2"},
		{"  -5", "m 5"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("Tokenize(%q) error: %v", tt.input, err)
			}
			if got := tokenString(tokens); got != tt.want {
				t.Errorf("Tokenize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSideLists(t *testing.T) {
	tokens, err := Tokenize("2d[1, 3, 5]")
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	if got := tokenString(tokens); got != "2 d (1, 3, 5)" {
		t.Errorf("got %q, want %q", got, "2 d (1, 3, 5)")
	}

	tokens, err = Tokenize("2d[0.5, 1.5]")
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	last := tokens[len(tokens)-1]
	if last.Type != TUPLE || last.Sides[0] != 0.5 || last.Sides[1] != 1.5 {
		t.Errorf("fractional sides mislexed: %+v", last)
	}
}

func TestFudgeDie(t *testing.T) {
	tokens, err := Tokenize("4dF")
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	if got := tokenString(tokens); got != "4 d (-1, 0, 1)" {
		t.Errorf("got %q, want %q", got, "4 d (-1, 0, 1)")
	}
}

func TestWhitespaceSeparates(t *testing.T) {
	tokens, err := Tokenize(" 2 d 6 + 1 ")
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	if got := tokenString(tokens); got != "2 d 6 + 1" {
		t.Errorf("got %q, want %q", got, "2 d 6 + 1")
	}
}

func TestTokenOffsets(t *testing.T) {
	tokens, err := Tokenize("10d20")
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	wantOffsets := []int{0, 2, 3}
	for i, want := range wantOffsets {
		if tokens[i].Offset != want {
			t.Errorf("token %d offset = %d, want %d", i, tokens[i].Offset, want)
		}
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantOffset int
	}{
		{"unrecognized char", "1d6?", 3},
		{"invalid operator", "1a4", 1},
		{"unclosed paren", "(1d4d2", 0},
		{"unopened paren", "1+4)", 3},
		{"misplaced list", "2+[1,2]", 2},
		{"list after number", "2d6[1,2]", 3},
		{"unterminated list", "2d[1,2", 2},
		{"bad list element", "2d[1,a]", 6},
		{"misplaced fudge", "4+F", 2},
		{"operator before close", "(1d4+)", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			if err == nil {
				t.Fatalf("Tokenize(%q) succeeded, want error", tt.input)
			}
			var e *errors.Error
			if !stderrors.As(err, &e) {
				t.Fatalf("error is %T, want *errors.Error", err)
			}
			if !errors.IsParse(err) {
				t.Errorf("error class = %v, want parse", e.Class)
			}
			if e.Offset != tt.wantOffset {
				t.Errorf("offset = %d, want %d\n%v", e.Offset, tt.wantOffset, err)
			}
		})
	}
}

func TestSideListAfterSpace(t *testing.T) {
	// The die operator may be separated from its side list.
	tokens, err := Tokenize("3d [1,2]")
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	if got := tokenString(tokens); got != "3 d (1, 2)" {
		t.Errorf("got %q, want %q", got, "3 d (1, 2)")
	}
}
