// Package evaluator computes the value of an evaluation tree and renders
// the verbose trace that shows every die rolled.
package evaluator

import (
	stderrors "errors"

	"github.com/ewens/dicelang/pkg/dicelang/ast"
	"github.com/ewens/dicelang/pkg/dicelang/errors"
	"github.com/ewens/dicelang/pkg/dicelang/operator"
)

// opaquePrecedence marks where subexpressions stop being rendered
// structurally. Operators at or above this level (dice and the
// roll-postprocessing family) display as their computed roll value, so a
// verbose trace shows "[d6: 2, 5]" rather than the d operator's operands.
const opaquePrecedence = 6

// Evaluate computes the tree's final value, annotating every node with
// the value of its subexpression along the way. A roll at the root is
// collapsed to its sum, so a bare "3d6" yields a plain total. Any
// failure surfaces as a single uniform evaluation-class error wrapping
// the original cause.
func Evaluate(t *ast.EvalTree) (float64, error) {
	if t.Root == nil {
		// An empty tree evaluates to nothing.
		return 0, nil
	}
	value, err := evalNode(t.Root)
	if err != nil {
		return 0, wrapEval(err)
	}
	return operator.Sum(value), nil
}

func wrapEval(err error) error {
	var e *errors.Error
	if stderrors.As(err, &e) && e.Code == "EVAL-0001" {
		return err
	}
	return errors.Wrap("EVAL-0001", err, nil)
}

func evalNode(n *ast.Node) (operator.Value, error) {
	if n.IsLeaf() {
		// Leaves are guaranteed to be concrete values.
		n.Value = n.Val
		return n.Value, nil
	}
	var left, right operator.Value
	var err error
	if n.Left != nil {
		if left, err = evalNode(n.Left); err != nil {
			return nil, err
		}
	}
	if n.Right != nil {
		if right, err = evalNode(n.Right); err != nil {
			return nil, err
		}
	}
	value, err := n.Op.Apply(left, right)
	if err != nil {
		return nil, err
	}
	n.Value = value
	return value, nil
}

// VerboseResult renders an infix string of the result that looks like
// the original expression with each roll replaced by its concrete values,
// followed by " = " and the final total. The tree is evaluated first if
// it has not been already. Parentheses are minimal: a subexpression is
// wrapped only when its operator binds more loosely than its parent's.
func VerboseResult(t *ast.EvalTree) (string, error) {
	if t.Root == nil {
		return "", nil
	}
	if t.Root.Value == nil {
		if _, err := Evaluate(t); err != nil {
			return "", err
		}
	}
	base := render(t.Root, nil)
	final := operator.FormatNumber(operator.Sum(t.Root.Value))
	return base + " = " + final, nil
}

func render(n *ast.Node, parent *operator.Operator) string {
	if n.IsLeaf() || n.Op.Precedence >= opaquePrecedence {
		return n.Value.Inspect()
	}
	s := ""
	if n.Left != nil {
		s += render(n.Left, n.Op)
	}
	s += n.Op.String()
	if n.Right != nil {
		s += render(n.Right, n.Op)
	}
	if parent != nil && parent.Precedence > n.Op.Precedence {
		return "(" + s + ")"
	}
	return s
}

// IsCritical reports whether an evaluated tree contains a d20 roll whose
// active values include a natural 20.
func IsCritical(t *ast.EvalTree) bool {
	return hasNatural(t, 20)
}

// IsFail reports whether an evaluated tree contains a d20 roll whose
// active values include a natural 1.
func IsFail(t *ast.EvalTree) bool {
	return hasNatural(t, 1)
}

func hasNatural(t *ast.EvalTree, face float64) bool {
	found := false
	isD20 := func(n *ast.Node) (*operator.Roll, bool) {
		roll, ok := n.Value.(*operator.Roll)
		if !ok {
			return nil, false
		}
		die, ok := roll.Die.(operator.Number)
		return roll, ok && die == 20
	}
	t.PreOrderUntil(
		func(n *ast.Node) bool {
			_, ok := isD20(n)
			return ok
		},
		func(n *ast.Node) {
			if roll, ok := isD20(n); ok && roll.Contains(face) {
				found = true
			}
		},
	)
	return found
}
