// Package lexer splits a roll expression into tokens: integers, explicit
// die side lists, operators, and parentheses.
//
// The scan is a single left-to-right pass over the source maintaining two
// accumulators, one for digit runs and one for operator characters.
// Operator characters aggregate greedily while the aggregate remains a
// registered operator code, which is how multi-character codes like ">="
// and "da" are recognized. The '+' and '-' characters are resolved to the
// distinct unary sign operators when they appear where no left operand
// exists: at the start of input, directly after another operator, or
// directly after an open parenthesis.
package lexer

import (
	"strconv"
	"strings"

	"github.com/ewens/dicelang/pkg/dicelang/errors"
	"github.com/ewens/dicelang/pkg/dicelang/operator"
)

// TokenType represents different types of tokens.
type TokenType int

const (
	ILLEGAL TokenType = iota
	INT               // 42
	FLOAT             // 2.5; never lexed from source, only synthesized for modifiers
	TUPLE             // [1, 3, 5] or the fudge die F
	OPERATOR          // d, >=, +, ...
	LPAREN            // (
	RPAREN            // )
)

// Token is a single token along with where in the source it started.
type Token struct {
	Type    TokenType
	Literal string
	Offset  int

	Int   int                // populated for INT
	Float float64            // populated for FLOAT
	Sides []float64          // populated for TUPLE
	Op    *operator.Operator // populated for OPERATOR
}

// String returns a compact representation used in tests and debugging.
// Operators display their code, so unary minus shows as "m".
func (t Token) String() string {
	switch t.Type {
	case INT:
		return strconv.Itoa(t.Int)
	case FLOAT:
		return operator.FormatNumber(t.Float)
	case TUPLE:
		return operator.Tuple(t.Sides).Inspect()
	case OPERATOR:
		return t.Op.Code
	case LPAREN:
		return "("
	case RPAREN:
		return ")"
	}
	return "ILLEGAL"
}

// operatorChars marks every character that can be part of an operator
// code. The unary plus code "p" is excluded: it is never written
// literally, the lexer produces it from '+' by position.
var operatorChars [256]bool

func init() {
	for _, code := range operator.Codes() {
		if code == "p" {
			continue
		}
		for i := 0; i < len(code); i++ {
			operatorChars[code[i]] = true
		}
	}
}

// Lexer scans one expression.
type Lexer struct {
	input  string
	tokens []Token

	numRun   string
	numStart int
	opRun    string
	opStart  int
}

// New creates a lexer for the given expression.
func New(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokenize scans the whole expression and returns its tokens.
func Tokenize(input string) ([]Token, error) {
	return New(input).Tokenize()
}

// Tokenize runs the scan. It returns a parse-class error on the first
// lexical problem: an unrecognized character, an invalid operator
// aggregate, unbalanced parentheses, or a misplaced side list.
func (l *Lexer) Tokenize() ([]Token, error) {
	if err := l.checkParens(); err != nil {
		return nil, err
	}
	i := 0
	for i < len(l.input) {
		ch := l.input[i]
		switch {
		case ch >= '0' && ch <= '9':
			if err := l.flushOperator(i); err != nil {
				return nil, err
			}
			if l.numRun == "" {
				l.numStart = i
			}
			l.numRun += string(ch)

		case operatorChars[ch] || ch == '(' || ch == ')':
			if err := l.flushNumber(); err != nil {
				return nil, err
			}
			if (ch == '+' || ch == '-') && l.signIsUnary(i) {
				if err := l.flushOperator(i); err != nil {
					return nil, err
				}
				code := "p"
				if ch == '-' {
					code = "m"
				}
				op, _ := operator.Lookup(code)
				l.emit(Token{Type: OPERATOR, Literal: string(ch), Offset: i, Op: op})
			} else if ch == '(' || ch == ')' {
				// Parentheses can never be part of an operator code, so
				// any pending aggregate must resolve first. A ')' cannot
				// follow an operator that still wants a right operand,
				// and a '(' cannot follow one that does not.
				if l.opRun != "" {
					if err := l.flushOperator(i); err != nil {
						return nil, err
					}
					last := l.tokens[len(l.tokens)-1]
					wantsRight := last.Op.Arity&operator.SideRight != 0
					if (ch == ')' && wantsRight) || (ch == '(' && !wantsRight) {
						return nil, errors.NewParse("PARSE-0009", i, l.input, nil)
					}
				}
				if ch == '(' {
					l.emit(Token{Type: LPAREN, Literal: "(", Offset: i})
				} else {
					l.emit(Token{Type: RPAREN, Literal: ")", Offset: i})
				}
			} else if l.opRun == "" {
				l.opRun = string(ch)
				l.opStart = i
			} else if operator.IsCode(l.opRun + string(ch)) {
				// Part of a multi-character operator like <= or da.
				l.opRun += string(ch)
			} else {
				// Two separate operators; resolve the old one and start
				// collecting the new one.
				if err := l.flushOperator(i); err != nil {
					return nil, err
				}
				l.opRun = string(ch)
				l.opStart = i
			}

		case ch == '[':
			next, err := l.readSideList(i)
			if err != nil {
				return nil, err
			}
			i = next
			continue

		case ch == 'F':
			if err := l.requireDieContext(i, "PARSE-0008"); err != nil {
				return nil, err
			}
			if err := l.flushOperator(i); err != nil {
				return nil, err
			}
			l.emit(Token{Type: TUPLE, Literal: "F", Offset: i, Sides: []float64{-1, 0, 1}})

		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			// Whitespace separates tokens but means nothing itself.
			if err := l.flushNumber(); err != nil {
				return nil, err
			}
			if err := l.flushOperator(i); err != nil {
				return nil, err
			}

		default:
			return nil, errors.NewParse("PARSE-0001", i, l.input, nil)
		}
		i++
	}
	if err := l.flushNumber(); err != nil {
		return nil, err
	}
	if err := l.flushOperator(len(l.input)); err != nil {
		return nil, err
	}
	return l.tokens, nil
}

// checkParens validates parenthesis balance up front, pointing at the
// first unclosed '(' or the last unopened ')'.
func (l *Lexer) checkParens() error {
	opens := strings.Count(l.input, "(")
	closes := strings.Count(l.input, ")")
	if opens > closes {
		return errors.NewParse("PARSE-0003", strings.Index(l.input, "("), l.input, nil)
	}
	if closes > opens {
		return errors.NewParse("PARSE-0004", strings.LastIndex(l.input, ")"), l.input, nil)
	}
	return nil
}

// signIsUnary decides whether a '+' or '-' at offset i denotes the unary
// sign operator rather than binary addition or subtraction.
func (l *Lexer) signIsUnary(i int) bool {
	if i == 0 {
		return true
	}
	if l.opRun != "" {
		// A pending '!' is the postfix factorial, which does leave a
		// value on its left.
		return l.opRun != "!"
	}
	if len(l.tokens) == 0 {
		// Only whitespace so far.
		return true
	}
	last := l.tokens[len(l.tokens)-1]
	if last.Type == LPAREN {
		return true
	}
	return last.Type == OPERATOR && last.Op.Arity&operator.SideRight != 0
}

// requireDieContext enforces that a side list or fudge marker appears
// only as the right operand of a dice operator.
func (l *Lexer) requireDieContext(i int, code string) error {
	if operator.IsDiceCode(l.opRun) {
		return nil
	}
	if l.opRun == "" && l.numRun == "" && len(l.tokens) > 0 {
		last := l.tokens[len(l.tokens)-1]
		if last.Type == OPERATOR && operator.IsDiceCode(last.Op.Code) {
			return nil
		}
	}
	return errors.NewParse(code, i, l.input, nil)
}

// readSideList consumes "[...]" starting at the '[' at offset i and
// returns the offset just past the closing ']'.
func (l *Lexer) readSideList(i int) (int, error) {
	if err := l.requireDieContext(i, "PARSE-0005"); err != nil {
		return 0, err
	}
	if err := l.flushOperator(i); err != nil {
		return 0, err
	}
	end := strings.IndexByte(l.input[i:], ']')
	if end < 0 {
		return 0, errors.NewParse("PARSE-0006", i, l.input, nil)
	}
	end += i
	var sides []float64
	for _, part := range strings.Split(l.input[i+1:end], ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return 0, errors.NewParse("PARSE-0007", end, l.input, nil)
		}
		sides = append(sides, v)
	}
	l.emit(Token{Type: TUPLE, Literal: l.input[i : end+1], Offset: i, Sides: sides})
	return end + 1, nil
}

func (l *Lexer) flushNumber() error {
	if l.numRun == "" {
		return nil
	}
	n, err := strconv.Atoi(l.numRun)
	if err != nil {
		return errors.NewParse("PARSE-0011", l.numStart, l.input, nil)
	}
	l.emit(Token{Type: INT, Literal: l.numRun, Offset: l.numStart, Int: n})
	l.numRun = ""
	return nil
}

// flushOperator resolves any pending operator aggregate, where i is the
// offset just past the aggregate (used to locate errors).
func (l *Lexer) flushOperator(i int) error {
	if l.opRun == "" {
		return nil
	}
	op, ok := operator.Lookup(l.opRun)
	if !ok {
		return errors.NewParse("PARSE-0002", i-len(l.opRun), l.input, nil)
	}
	l.emit(Token{Type: OPERATOR, Literal: l.opRun, Offset: l.opStart, Op: op})
	l.opRun = ""
	return nil
}

func (l *Lexer) emit(t Token) {
	l.tokens = append(l.tokens, t)
}
