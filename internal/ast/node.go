// Package ast defines the template syntax tree. Nodes form a closed set of
// kinds; each node owns its children, carries a source location, and exposes
// a non-owning parent back-pointer. Nodes are created exclusively through the
// builders in internal/parser and are immutable afterwards, except for the
// documented late-binding setters on CallDelegateNode and the escaping
// directive list on call nodes.
package ast

import (
	"github.com/sable-lang/sable/internal/ids"
	"github.com/sable-lang/sable/internal/source"
)

// Kind tags the concrete type of a node so consumers can switch exhaustively.
type Kind int

const (
	KindRawText Kind = iota
	KindPrint
	KindFor
	KindForBody
	KindForEmpty
	KindCallBasic
	KindCallDelegate
	KindCallParam
	KindTemplate
	KindTemplateDelegate
	KindFile
)

var kindNames = [...]string{
	KindRawText:          "RawText",
	KindPrint:            "Print",
	KindFor:              "For",
	KindForBody:          "ForBody",
	KindForEmpty:         "ForEmpty",
	KindCallBasic:        "CallBasic",
	KindCallDelegate:     "CallDelegate",
	KindCallParam:        "CallParam",
	KindTemplate:         "Template",
	KindTemplateDelegate: "TemplateDelegate",
	KindFile:             "File",
}

// String returns the kind's name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Node represents any template AST node.
type Node interface {
	// ID returns the node's process-unique identity, assigned once at
	// construction and never reassigned.
	ID() int32
	// Kind returns the node's kind tag.
	Kind() Kind
	// Location returns the node's source location.
	Location() source.Location
	// Parent returns the enclosing node, or nil for roots. The reference is
	// non-owning and used only for lookups.
	Parent() Node
	// Clone deep-copies the node and its owned children and expression
	// trees. Every node in the copy receives a fresh identity from gen.
	Clone(gen ids.Generator) Node

	setParent(Node)
}

// ParentNode is a node that owns an ordered sequence of children.
type ParentNode interface {
	Node
	Children() []Node
	NumChildren() int
	AddChild(Node)
	AddChildren([]Node)
}

// base carries the fields shared by every node.
type base struct {
	id     int32
	loc    source.Location
	parent Node
}

func newBase(gen ids.Generator, loc source.Location) base {
	return base{id: gen.NextID(), loc: loc}
}

func (b *base) ID() int32                 { return b.id }
func (b *base) Location() source.Location { return b.loc }
func (b *base) Parent() Node              { return b.parent }
func (b *base) setParent(n Node)          { b.parent = n }

// parentBase carries the child list shared by every parent node.
type parentBase struct {
	base
	children []Node
}

func (p *parentBase) Children() []Node { return p.children }
func (p *parentBase) NumChildren() int { return len(p.children) }

// appendChild wires the parent back-pointer; self is the outer node that
// embeds this parentBase.
func (p *parentBase) appendChild(self, child Node) {
	child.setParent(self)
	p.children = append(p.children, child)
}

func (p *parentBase) appendChildren(self Node, children []Node) {
	for _, c := range children {
		p.appendChild(self, c)
	}
}

// cloneChildrenInto clones every child of src into dst.
func cloneChildrenInto(gen ids.Generator, dst ParentNode, src ParentNode) {
	for _, c := range src.Children() {
		dst.AddChild(c.Clone(gen))
	}
}
