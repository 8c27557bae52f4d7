package ast

import (
	"github.com/sable-lang/sable/internal/exprtree"
	"github.com/sable-lang/sable/internal/ids"
	"github.com/sable-lang/sable/internal/source"
)

// ErrorVarName is the sentinel loop variable substituted when the 'for'
// command text could not be parsed.
const ErrorVarName = "__error__"

// ForNode is the loop construct. Children are ordered: exactly one
// ForBodyNode first, then at most one ForEmptyNode. The collection
// expression is nil only in the error-recovery case.
type ForNode struct {
	parentBase
	varName     string
	expr        exprtree.Expr
	commandText string
}

// NewForNode constructs a loop node. The builder wires body and empty-branch
// children after construction.
func NewForNode(gen ids.Generator, varName string, expr exprtree.Expr, commandText string, loc source.Location) *ForNode {
	return &ForNode{
		parentBase:  parentBase{base: newBase(gen, loc)},
		varName:     varName,
		expr:        expr,
		commandText: commandText,
	}
}

// Kind returns KindFor.
func (n *ForNode) Kind() Kind { return KindFor }

// Var returns the loop variable name, without the '$'.
func (n *ForNode) Var() string { return n.varName }

// Expr returns the collection expression, or nil after a failed parse.
func (n *ForNode) Expr() exprtree.Expr { return n.expr }

// CommandText returns the original command text.
func (n *ForNode) CommandText() string { return n.commandText }

// AddChild appends a child and wires its parent back-pointer.
func (n *ForNode) AddChild(c Node) { n.appendChild(n, c) }

// AddChildren appends children in order.
func (n *ForNode) AddChildren(cs []Node) { n.appendChildren(n, cs) }

// Body returns the non-empty-branch child.
func (n *ForNode) Body() *ForBodyNode {
	if len(n.children) == 0 {
		return nil
	}
	body, _ := n.children[0].(*ForBodyNode)
	return body
}

// EmptyBody returns the empty-branch child, or nil when absent.
func (n *ForNode) EmptyBody() *ForEmptyNode {
	if len(n.children) < 2 {
		return nil
	}
	empty, _ := n.children[1].(*ForEmptyNode)
	return empty
}

// Clone deep-copies the loop, its expression tree, and both branches.
func (n *ForNode) Clone(gen ids.Generator) Node {
	clone := &ForNode{
		parentBase:  parentBase{base: newBase(gen, n.loc)},
		varName:     n.varName,
		commandText: n.commandText,
	}
	if n.expr != nil {
		clone.expr = n.expr.Copy()
	}
	cloneChildrenInto(gen, clone, n)
	return clone
}

// ForBodyNode holds the loop body, rendered once per collection element.
type ForBodyNode struct {
	parentBase
	varName string
}

// NewForBodyNode constructs the loop body branch.
func NewForBodyNode(gen ids.Generator, varName string, loc source.Location) *ForBodyNode {
	return &ForBodyNode{parentBase: parentBase{base: newBase(gen, loc)}, varName: varName}
}

// Kind returns KindForBody.
func (n *ForBodyNode) Kind() Kind { return KindForBody }

// Var returns the loop variable bound inside this body.
func (n *ForBodyNode) Var() string { return n.varName }

// AddChild appends a body statement.
func (n *ForBodyNode) AddChild(c Node) { n.appendChild(n, c) }

// AddChildren appends body statements in order.
func (n *ForBodyNode) AddChildren(cs []Node) { n.appendChildren(n, cs) }

// Clone deep-copies the body branch.
func (n *ForBodyNode) Clone(gen ids.Generator) Node {
	clone := &ForBodyNode{parentBase: parentBase{base: newBase(gen, n.loc)}, varName: n.varName}
	cloneChildrenInto(gen, clone, n)
	return clone
}

// ForEmptyNode holds the branch rendered when the collection is empty. It
// binds no variable.
type ForEmptyNode struct {
	parentBase
}

// NewForEmptyNode constructs the empty branch.
func NewForEmptyNode(gen ids.Generator, loc source.Location) *ForEmptyNode {
	return &ForEmptyNode{parentBase: parentBase{base: newBase(gen, loc)}}
}

// Kind returns KindForEmpty.
func (n *ForEmptyNode) Kind() Kind { return KindForEmpty }

// AddChild appends a branch statement.
func (n *ForEmptyNode) AddChild(c Node) { n.appendChild(n, c) }

// AddChildren appends branch statements in order.
func (n *ForEmptyNode) AddChildren(cs []Node) { n.appendChildren(n, cs) }

// Clone deep-copies the empty branch.
func (n *ForEmptyNode) Clone(gen ids.Generator) Node {
	clone := &ForEmptyNode{parentBase: parentBase{base: newBase(gen, n.loc)}}
	cloneChildrenInto(gen, clone, n)
	return clone
}
