package ast

import (
	"github.com/sable-lang/sable/internal/exprtree"
	"github.com/sable-lang/sable/internal/ids"
	"github.com/sable-lang/sable/internal/source"
)

// CallFields holds the shared, already-validated field values of a call
// node. Builders assemble a CallFields and hand it to a constructor; nodes
// never re-validate.
type CallFields struct {
	CommandText string
	// IsPassingData is set when the call passes caller data, either all of
	// it or via an explicit data expression.
	IsPassingData bool
	// IsPassingAllData implies IsPassingData and excludes DataExpr.
	IsPassingAllData bool
	// DataExpr supplies the data record; mutually exclusive with
	// IsPassingAllData.
	DataExpr exprtree.Expr
	// PlaceholderName is the user-supplied phname, or empty.
	PlaceholderName string
}

// callBase carries the state common to basic and delegate calls.
type callBase struct {
	parentBase
	commandText            string
	isPassingData          bool
	isPassingAllData       bool
	dataExpr               exprtree.Expr
	placeholderName        string
	escapingDirectiveNames []string
}

func newCallBase(gen ids.Generator, fields CallFields, loc source.Location) callBase {
	return callBase{
		parentBase:      parentBase{base: newBase(gen, loc)},
		commandText:     fields.CommandText,
		isPassingData:   fields.IsPassingData,
		isPassingAllData: fields.IsPassingAllData,
		dataExpr:        fields.DataExpr,
		placeholderName: fields.PlaceholderName,
	}
}

// CommandText returns the command text, re-derivable whether the node was
// built from raw text or synthesized from structured fields.
func (c *callBase) CommandText() string { return c.commandText }

// IsPassingData reports whether the call passes caller data.
func (c *callBase) IsPassingData() bool { return c.isPassingData }

// IsPassingAllData reports whether the call passes all caller data.
func (c *callBase) IsPassingAllData() bool { return c.isPassingAllData }

// DataExpr returns the data expression, or nil.
func (c *callBase) DataExpr() exprtree.Expr { return c.dataExpr }

// PlaceholderName returns the user-supplied placeholder name, or empty.
func (c *callBase) PlaceholderName() string { return c.placeholderName }

// EscapingDirectiveNames returns the escaping directives applied after
// rendering, in application order.
func (c *callBase) EscapingDirectiveNames() []string { return c.escapingDirectiveNames }

// SetEscapingDirectiveNames replaces the escaping directive list. This is a
// late-binding setter used by the autoescaper pass; callers must finish all
// writes before any reader pass runs.
func (c *callBase) SetEscapingDirectiveNames(names []string) {
	c.escapingDirectiveNames = append([]string(nil), names...)
}

func (c *callBase) cloneInto(gen ids.Generator, dst *callBase) {
	dst.parentBase = parentBase{base: newBase(gen, c.loc)}
	dst.commandText = c.commandText
	dst.isPassingData = c.isPassingData
	dst.isPassingAllData = c.isPassingAllData
	if c.dataExpr != nil {
		dst.dataExpr = c.dataExpr.Copy()
	}
	dst.placeholderName = c.placeholderName
	dst.escapingDirectiveNames = append([]string(nil), c.escapingDirectiveNames...)
}

// CallBasicNode is a call whose callee is statically resolvable by name.
type CallBasicNode struct {
	callBase
	// calleeName is the fully-qualified callee, filled in from the source
	// name plus the file namespace when the source name is relative.
	calleeName    string
	srcCalleeName string
}

// NewCallBasicNode constructs a basic call node from validated fields.
func NewCallBasicNode(gen ids.Generator, fields CallFields, calleeName, srcCalleeName string, loc source.Location) *CallBasicNode {
	return &CallBasicNode{
		callBase:      newCallBase(gen, fields, loc),
		calleeName:    calleeName,
		srcCalleeName: srcCalleeName,
	}
}

// Kind returns KindCallBasic.
func (n *CallBasicNode) Kind() Kind { return KindCallBasic }

// CalleeName returns the fully-qualified callee name. Empty until a relative
// source name has been resolved against its namespace.
func (n *CallBasicNode) CalleeName() string { return n.calleeName }

// SrcCalleeName returns the callee name as written in the source.
func (n *CallBasicNode) SrcCalleeName() string { return n.srcCalleeName }

// SetCalleeName resolves a relative source name to its fully-qualified form.
// Late-binding: called once by the name-resolution pass.
func (n *CallBasicNode) SetCalleeName(name string) { n.calleeName = name }

// AddChild appends a call param child.
func (n *CallBasicNode) AddChild(c Node) { n.appendChild(n, c) }

// AddChildren appends call param children in order.
func (n *CallBasicNode) AddChildren(cs []Node) { n.appendChildren(n, cs) }

// Clone deep-copies the call, its data expression, and its params.
func (n *CallBasicNode) Clone(gen ids.Generator) Node {
	clone := &CallBasicNode{calleeName: n.calleeName, srcCalleeName: n.srcCalleeName}
	n.callBase.cloneInto(gen, &clone.callBase)
	cloneChildrenInto(gen, clone, n)
	return clone
}
