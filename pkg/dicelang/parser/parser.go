// Package parser builds evaluation trees from token streams using a
// shunting-yard pass: an output stack of partially-built subtrees and an
// operator stack, with reductions ordered by operator precedence and
// associativity.
package parser

import (
	stderrors "errors"

	"github.com/ewens/dicelang/pkg/dicelang/ast"
	"github.com/ewens/dicelang/pkg/dicelang/errors"
	"github.com/ewens/dicelang/pkg/dicelang/lexer"
	"github.com/ewens/dicelang/pkg/dicelang/operator"
)

// Parse tokenizes source and builds its evaluation tree.
func Parse(source string) (*ast.EvalTree, error) {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}
	tree, err := Build(tokens)
	if err != nil {
		var e *errors.Error
		if stderrors.As(err, &e) && e.Expr == "" {
			e.Expr = source
		}
		return nil, err
	}
	return tree, nil
}

// Build constructs the evaluation tree for an infix token stream. An
// empty stream yields a tree holding the literal zero.
func Build(tokens []lexer.Token) (*ast.EvalTree, error) {
	b := &builder{}
	for _, t := range tokens {
		switch t.Type {
		case lexer.INT:
			b.output = append(b.output, ast.ValueNode(operator.Number(float64(t.Int))))
		case lexer.FLOAT:
			b.output = append(b.output, ast.ValueNode(operator.Number(t.Float)))
		case lexer.TUPLE:
			b.output = append(b.output, ast.ValueNode(operator.Tuple(t.Sides)))
		case lexer.LPAREN:
			b.ops = append(b.ops, t)
		case lexer.RPAREN:
			if err := b.closeParen(); err != nil {
				return nil, err
			}
		case lexer.OPERATOR:
			// Reduce everything that binds at least as tightly before
			// this operator goes on the stack. Right-associative
			// operators stay put on a precedence tie.
			for len(b.ops) > 0 {
				top := b.ops[len(b.ops)-1]
				if top.Type != lexer.OPERATOR {
					break
				}
				if top.Op.Precedence > t.Op.Precedence ||
					(top.Op.Precedence == t.Op.Precedence && top.Op.Associativity == operator.SideLeft) {
					if err := b.reduce(); err != nil {
						return nil, err
					}
					continue
				}
				break
			}
			b.ops = append(b.ops, t)
		default:
			return nil, errors.New("PARSE-0010", nil)
		}
	}
	for len(b.ops) > 0 {
		if b.ops[len(b.ops)-1].Type != lexer.OPERATOR {
			return nil, errors.New("PARSE-0010", nil)
		}
		if err := b.reduce(); err != nil {
			return nil, err
		}
	}
	switch len(b.output) {
	case 0:
		return ast.FromValue(operator.Number(0)), nil
	case 1:
		return ast.New(b.output[0]), nil
	}
	return nil, errors.New("PARSE-0010", nil)
}

type builder struct {
	output []*ast.Node
	ops    []lexer.Token
}

// reduce pops the top operator and gives it the top one or two subtrees
// from the output stack, per its arity, then pushes the resulting
// subtree back.
func (b *builder) reduce() error {
	op := b.ops[len(b.ops)-1].Op
	b.ops = b.ops[:len(b.ops)-1]
	node := &ast.Node{Op: op}
	if op.Arity&operator.SideRight != 0 {
		right, err := b.pop()
		if err != nil {
			return err
		}
		node.Right = right
	}
	if op.Arity&operator.SideLeft != 0 {
		left, err := b.pop()
		if err != nil {
			return err
		}
		node.Left = left
	}
	b.output = append(b.output, node)
	return nil
}

func (b *builder) pop() (*ast.Node, error) {
	if len(b.output) == 0 {
		return nil, errors.New("PARSE-0010", nil)
	}
	node := b.output[len(b.output)-1]
	b.output = b.output[:len(b.output)-1]
	return node, nil
}

// closeParen reduces until the matching open parenthesis, then discards
// the sentinel.
func (b *builder) closeParen() error {
	for {
		if len(b.ops) == 0 {
			return errors.New("PARSE-0010", nil)
		}
		if b.ops[len(b.ops)-1].Type == lexer.LPAREN {
			b.ops = b.ops[:len(b.ops)-1]
			return nil
		}
		if err := b.reduce(); err != nil {
			return err
		}
	}
}
