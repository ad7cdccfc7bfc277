// Package dicelang parses and evaluates roll expressions written in a
// compact dice notation that extends D&D's: "2d20h1+5", "8d6f2",
// "1d100<=18", and so on.
//
// Basic and Verbose are the two ways of performing a roll, depending on
// whether you want just the end result or a detailed record of the dice
// that were actually rolled. Compile precompiles an expression into an
// evaluation tree for repeated use; that is worth it for rolls performed
// over and over, like d20 checks with advantage.
package dicelang

import (
	"fmt"
	"strings"

	"github.com/ewens/dicelang/pkg/dicelang/ast"
	"github.com/ewens/dicelang/pkg/dicelang/errors"
	"github.com/ewens/dicelang/pkg/dicelang/evaluator"
	"github.com/ewens/dicelang/pkg/dicelang/lexer"
	"github.com/ewens/dicelang/pkg/dicelang/operator"
	"github.com/ewens/dicelang/pkg/dicelang/parser"
)

// Mode changes the way a roll is performed. Average makes each die yield
// its average value, critical rolls twice as many dice, and maximum
// makes each die yield its highest face. Higher modes supersede lower:
// max over crit over average.
type Mode int

const (
	ModeNormal Mode = iota
	ModeAverage
	ModeCrit
	ModeMax
)

// ModeFromString maps a mode name to its Mode. The empty string counts
// as normal.
func ModeFromString(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "normal":
		return ModeNormal, nil
	case "average":
		return ModeAverage, nil
	case "critical":
		return ModeCrit, nil
	case "maximum":
		return ModeMax, nil
	}
	return ModeNormal, fmt.Errorf("unknown mode %q", s)
}

func (m Mode) String() string {
	switch m {
	case ModeAverage:
		return "average"
	case ModeCrit:
		return "critical"
	case ModeMax:
		return "maximum"
	}
	return "normal"
}

// Basic rolls an expression and returns just the end result. The
// expression may be a source string, a plain number (returned with
// modifiers added), or a tree from Compile. Precompiled trees are never
// mutated: a non-normal mode works on a copy.
func Basic(expr any, mode Mode, modifiers float64) (float64, error) {
	switch e := expr.(type) {
	case int:
		return float64(e) + modifiers, nil
	case float64:
		return e + modifiers, nil
	case string:
		tree, err := parser.Parse(e)
		if err != nil {
			return 0, err
		}
		applyMode(tree, mode)
		value, err := evaluator.Evaluate(tree)
		if err != nil {
			return 0, err
		}
		return value + modifiers, nil
	case *ast.EvalTree:
		tree := e
		if mode != ModeNormal {
			tree = e.Copy()
			applyMode(tree, mode)
		}
		value, err := evaluator.Evaluate(tree)
		if err != nil {
			return 0, err
		}
		return value + modifiers, nil
	}
	return 0, errors.New("INPUT-0001", map[string]any{
		"Function": "Basic", "Got": fmt.Sprintf("%T", expr),
	})
}

// Verbose rolls an expression and returns a string showing the values
// each die actually landed on alongside the final result, for example
// "[d20: 16]+5 = 21".
func Verbose(expr any, mode Mode, modifiers float64) (string, error) {
	var tree *ast.EvalTree
	switch e := expr.(type) {
	case int:
		tree = ast.FromValue(operator.Number(float64(e)))
	case float64:
		tree = ast.FromValue(operator.Number(e))
	case string:
		var err error
		if tree, err = parser.Parse(e); err != nil {
			return "", err
		}
	case *ast.EvalTree:
		tree = e
		if mode != ModeNormal || modifiers != 0 {
			// Mode rewrites and modifier nodes must not leak into the
			// caller's precompiled tree.
			tree = e.Copy()
		}
	default:
		return "", errors.New("INPUT-0001", map[string]any{
			"Function": "Verbose", "Got": fmt.Sprintf("%T", expr),
		})
	}
	applyMode(tree, mode)
	if modifiers != 0 {
		addModifiers(tree, modifiers)
	}
	// Evaluate unconditionally so repeated calls on a precompiled tree
	// roll fresh dice instead of reusing cached values.
	if _, err := evaluator.Evaluate(tree); err != nil {
		return "", err
	}
	return evaluator.VerboseResult(tree)
}

// Compile parses an expression into an evaluation tree to save time at
// later executions.
func Compile(expr any, modifiers float64) (*ast.EvalTree, error) {
	var tree *ast.EvalTree
	switch e := expr.(type) {
	case int:
		tree = ast.FromValue(operator.Number(float64(e)))
	case float64:
		tree = ast.FromValue(operator.Number(e))
	case string:
		var err error
		if tree, err = parser.Parse(e); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("INPUT-0002", map[string]any{
			"Got": fmt.Sprintf("%T", expr),
		})
	}
	if modifiers != 0 {
		addModifiers(tree, modifiers)
	}
	return tree, nil
}

// Tokenize splits an expression into its tokens. A nonzero modifiers
// value wraps the expression in parentheses and appends "+ modifiers",
// mirroring what Compile builds.
func Tokenize(expr any, modifiers float64) ([]lexer.Token, error) {
	switch e := expr.(type) {
	case int:
		tokens := []lexer.Token{numberToken(float64(e))}
		if modifiers != 0 {
			tokens = append(tokens, plusToken(), numberToken(modifiers))
		}
		return tokens, nil
	case float64:
		tokens := []lexer.Token{numberToken(e)}
		if modifiers != 0 {
			tokens = append(tokens, plusToken(), numberToken(modifiers))
		}
		return tokens, nil
	case string:
		tokens, err := lexer.Tokenize(e)
		if err != nil {
			return nil, err
		}
		if modifiers == 0 {
			return tokens, nil
		}
		wrapped := make([]lexer.Token, 0, len(tokens)+4)
		wrapped = append(wrapped, lexer.Token{Type: lexer.LPAREN, Literal: "("})
		wrapped = append(wrapped, tokens...)
		wrapped = append(wrapped,
			lexer.Token{Type: lexer.RPAREN, Literal: ")"},
			plusToken(),
			numberToken(modifiers))
		return wrapped, nil
	}
	return nil, errors.New("INPUT-0003", map[string]any{
		"Got": fmt.Sprintf("%T", expr),
	})
}

func applyMode(tree *ast.EvalTree, mode Mode) {
	switch mode {
	case ModeAverage:
		tree.Averageify()
	case ModeCrit:
		tree.Critify()
	case ModeMax:
		tree.Maxify()
	}
}

// addModifiers sticks "+ modifiers" onto the root so it is applied after
// everything else.
func addModifiers(tree *ast.EvalTree, modifiers float64) {
	plus, _ := operator.Lookup("+")
	tree.Root = ast.OperatorNode(plus, tree.Root, ast.ValueNode(operator.Number(modifiers)))
}

func numberToken(v float64) lexer.Token {
	if v == float64(int(v)) {
		return lexer.Token{Type: lexer.INT, Literal: operator.FormatNumber(v), Int: int(v)}
	}
	return lexer.Token{Type: lexer.FLOAT, Literal: operator.FormatNumber(v), Float: v}
}

func plusToken() lexer.Token {
	plus, _ := operator.Lookup("+")
	return lexer.Token{Type: lexer.OPERATOR, Literal: "+", Op: plus}
}
