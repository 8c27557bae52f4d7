package ast

import (
	"github.com/sable-lang/sable/internal/exprtree"
	"github.com/sable-lang/sable/internal/ids"
	"github.com/sable-lang/sable/internal/source"
)

// RawTextNode holds a run of literal template text.
type RawTextNode struct {
	base
	text string
}

// NewRawTextNode constructs a raw text node.
func NewRawTextNode(gen ids.Generator, text string, loc source.Location) *RawTextNode {
	return &RawTextNode{base: newBase(gen, loc), text: text}
}

// Kind returns KindRawText.
func (n *RawTextNode) Kind() Kind { return KindRawText }

// Text returns the literal text.
func (n *RawTextNode) Text() string { return n.text }

// Clone deep-copies the node with a fresh identity.
func (n *RawTextNode) Clone(gen ids.Generator) Node {
	return &RawTextNode{base: newBase(gen, n.loc), text: n.text}
}

// PrintNode renders the value of an expression.
type PrintNode struct {
	base
	expr        exprtree.Expr
	commandText string
}

// NewPrintNode constructs a print node. expr is nil only in error recovery.
func NewPrintNode(gen ids.Generator, expr exprtree.Expr, commandText string, loc source.Location) *PrintNode {
	return &PrintNode{base: newBase(gen, loc), expr: expr, commandText: commandText}
}

// Kind returns KindPrint.
func (n *PrintNode) Kind() Kind { return KindPrint }

// Expr returns the printed expression, or nil in the error-recovery case.
func (n *PrintNode) Expr() exprtree.Expr { return n.expr }

// CommandText returns the original command text.
func (n *PrintNode) CommandText() string { return n.commandText }

// Clone deep-copies the node, including its owned expression tree.
func (n *PrintNode) Clone(gen ids.Generator) Node {
	clone := &PrintNode{base: newBase(gen, n.loc), commandText: n.commandText}
	if n.expr != nil {
		clone.expr = n.expr.Copy()
	}
	return clone
}
