// Package ast defines the expression tree that roll expressions are
// parsed into and the structural operations on it: traversal, deep
// copying, combination, and the mode-transform rewrites.
//
// A node is a leaf exactly when it holds a concrete value and has no
// children; every non-leaf node holds an operator whose arity matches
// which children are populated. Trees are strictly owned: nodes are
// never shared between trees, so Copy is the only way to get an
// independent duplicate.
package ast

import "github.com/ewens/dicelang/pkg/dicelang/operator"

// Node is one node of an evaluation tree. Exactly one of Op or Val is
// set: Op for internal nodes, Val for leaves. Value caches the result
// computed for this node during evaluation, so a verbose trace can be
// assembled afterwards.
type Node struct {
	Op  *operator.Operator
	Val operator.Value

	Left  *Node
	Right *Node

	Value operator.Value
}

// ValueNode creates a leaf node holding a concrete value.
func ValueNode(v operator.Value) *Node {
	return &Node{Val: v}
}

// OperatorNode creates an internal node applying op to the given
// children. Children the operator's arity does not cover must be nil.
func OperatorNode(op *operator.Operator, left, right *Node) *Node {
	return &Node{Op: op, Left: left, Right: right}
}

// IsLeaf reports whether this node has no children.
func (n *Node) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// Copy deep-copies the subtree rooted at this node, including any cached
// evaluation values.
func (n *Node) Copy() *Node {
	if n == nil {
		return nil
	}
	out := &Node{Op: n.Op, Left: n.Left.Copy(), Right: n.Right.Copy()}
	if n.Val != nil {
		out.Val = operator.CopyValue(n.Val)
	}
	if n.Value != nil {
		out.Value = operator.CopyValue(n.Value)
	}
	return out
}

// EvalTree owns the root of an expression tree. A nil root represents
// the empty expression, which evaluates to zero.
type EvalTree struct {
	Root *Node
}

// New creates a tree with the given root.
func New(root *Node) *EvalTree {
	return &EvalTree{Root: root}
}

// FromValue creates a single-leaf tree holding a concrete value.
func FromValue(v operator.Value) *EvalTree {
	return &EvalTree{Root: ValueNode(v)}
}

// Copy deep-clones the tree so the result can be evaluated and rewritten
// without touching the original.
func (t *EvalTree) Copy() *EvalTree {
	return &EvalTree{Root: t.Root.Copy()}
}

// PreOrder visits every node, parents before children.
func (t *EvalTree) PreOrder(visit func(*Node)) {
	t.PreOrderUntil(func(*Node) bool { return false }, visit)
}

// PreOrderUntil visits nodes parents-first, skipping the children of any
// node for which abort returns true. The aborting node itself is still
// visited.
func (t *EvalTree) PreOrderUntil(abort func(*Node) bool, visit func(*Node)) {
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		visit(n)
		if abort(n) {
			return
		}
		walk(n.Left)
		walk(n.Right)
	}
	walk(t.Root)
}

// InOrder visits every node in infix order.
func (t *EvalTree) InOrder(visit func(*Node)) {
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		walk(n.Left)
		visit(n)
		walk(n.Right)
	}
	walk(t.Root)
}

// Combine joins this tree and other under the given binary operator,
// deep-copying both so that evaluating the result can never pollute the
// cached values of the inputs.
func (t *EvalTree) Combine(op *operator.Operator, other *EvalTree) *EvalTree {
	return &EvalTree{Root: OperatorNode(op, t.Root.Copy(), other.Root.Copy())}
}

// CombineInPlace joins this tree and other under the given binary
// operator without copying. It is much cheaper than Combine but takes
// ownership of both operands: after the call, neither this tree nor
// other may be used on its own again.
func (t *EvalTree) CombineInPlace(op *operator.Operator, other *EvalTree) *EvalTree {
	t.Root = OperatorNode(op, t.Root, other.Root)
	return t
}

// rewriteDice swaps the payload operator of matching dice nodes in
// place, leaving the tree shape untouched.
func (t *EvalTree) rewriteDice(target string, from ...string) *EvalTree {
	to, _ := operator.Lookup(target)
	t.PreOrder(func(n *Node) {
		if n.Op == nil {
			return
		}
		for _, code := range from {
			if n.Op.Code == code {
				n.Op = to
				return
			}
		}
	})
	return t
}

// Critify turns every basic or average roll into a critical roll, which
// rolls twice as many dice. Maximum rolls are left alone; max supersedes
// crit.
func (t *EvalTree) Critify() *EvalTree {
	return t.rewriteDice("dc", "d", "da")
}

// Averageify turns every basic roll into an average roll. Crit and max
// rolls are left alone; both supersede average.
func (t *EvalTree) Averageify() *EvalTree {
	return t.rewriteDice("da", "d")
}

// Maxify turns every roll into a maximum roll. Max supersedes all other
// modes, so applying it after Critify converges to the same tree as
// applying it alone.
func (t *EvalTree) Maxify() *EvalTree {
	return t.rewriteDice("dm", "d", "da", "dc")
}
