package ast

import (
	"github.com/sable-lang/sable/internal/exprtree"
	"github.com/sable-lang/sable/internal/ids"
	"github.com/sable-lang/sable/internal/source"
)

// CallParamNode passes one named value to a call. A value param carries an
// expression; a block param carries rendered children instead.
type CallParamNode struct {
	parentBase
	key         string
	valueExpr   exprtree.Expr
	commandText string
}

// NewCallParamNode constructs a param node. valueExpr is nil for block
// params, whose content arrives as children.
func NewCallParamNode(gen ids.Generator, key string, valueExpr exprtree.Expr, commandText string, loc source.Location) *CallParamNode {
	return &CallParamNode{
		parentBase:  parentBase{base: newBase(gen, loc)},
		key:         key,
		valueExpr:   valueExpr,
		commandText: commandText,
	}
}

// Kind returns KindCallParam.
func (n *CallParamNode) Kind() Kind { return KindCallParam }

// Key returns the param name.
func (n *CallParamNode) Key() string { return n.key }

// ValueExpr returns the value expression, or nil for block params.
func (n *CallParamNode) ValueExpr() exprtree.Expr { return n.valueExpr }

// CommandText returns the original command text.
func (n *CallParamNode) CommandText() string { return n.commandText }

// AddChild appends block content.
func (n *CallParamNode) AddChild(c Node) { n.appendChild(n, c) }

// AddChildren appends block content in order.
func (n *CallParamNode) AddChildren(cs []Node) { n.appendChildren(n, cs) }

// Clone deep-copies the param and any block content.
func (n *CallParamNode) Clone(gen ids.Generator) Node {
	clone := &CallParamNode{
		parentBase:  parentBase{base: newBase(gen, n.loc)},
		key:         n.key,
		commandText: n.commandText,
	}
	if n.valueExpr != nil {
		clone.valueExpr = n.valueExpr.Copy()
	}
	cloneChildrenInto(gen, clone, n)
	return clone
}
