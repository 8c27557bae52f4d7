package ast

import (
	"fmt"

	"github.com/sable-lang/sable/internal/exprtree"
	"github.com/sable-lang/sable/internal/ids"
	"github.com/sable-lang/sable/internal/source"
)

// CallDelegateNode is a call to a delegate template: a logical name with
// potentially many competing implementations, disambiguated at resolution
// time by variant and priority.
type CallDelegateNode struct {
	callBase

	delCalleeName string
	// variantExpr narrows which implementation applies; nil when the call
	// has no variant.
	variantExpr exprtree.Expr

	// allowsEmptyDefault is tri-state: nil means the attribute was not
	// written and the whole-program default has not been applied yet.
	allowsEmptyDefault *bool

	// paramsToRuntimeCheck maps each candidate callee to the subset of that
	// callee's declared params that static analysis could not prove
	// compatible. A nil map, or a callee absent from it, means "check every
	// param" — the conservative default.
	paramsToRuntimeCheck map[*TemplateDelegateNode][]TemplateParam
}

// NewCallDelegateNode constructs a delegate call node from validated fields.
// allowsEmptyDefault is nil when the attribute was not written.
func NewCallDelegateNode(gen ids.Generator, fields CallFields, delCalleeName string, variantExpr exprtree.Expr, allowsEmptyDefault *bool, loc source.Location) *CallDelegateNode {
	return &CallDelegateNode{
		callBase:           newCallBase(gen, fields, loc),
		delCalleeName:      delCalleeName,
		variantExpr:        variantExpr,
		allowsEmptyDefault: allowsEmptyDefault,
	}
}

// Kind returns KindCallDelegate.
func (n *CallDelegateNode) Kind() Kind { return KindCallDelegate }

// DelCalleeName returns the logical delegate name being called.
func (n *CallDelegateNode) DelCalleeName() string { return n.delCalleeName }

// DelCalleeVariantExpr returns the variant expression, or nil.
func (n *CallDelegateNode) DelCalleeVariantExpr() exprtree.Expr { return n.variantExpr }

// EmptyDefaultDecided reports whether the empty-default policy has been
// fixed, either by the source attribute or by MaybeSetAllowsEmptyDefault.
func (n *CallDelegateNode) EmptyDefaultDecided() bool { return n.allowsEmptyDefault != nil }

// AllowsEmptyDefault reports whether this call renders as empty output when
// no implementation matches. Reading it before the policy has been decided
// is a programming error and panics.
func (n *CallDelegateNode) AllowsEmptyDefault() bool {
	if n.allowsEmptyDefault == nil {
		panic(fmt.Sprintf("ast: AllowsEmptyDefault read before resolution on delegate call %q", n.delCalleeName))
	}
	return *n.allowsEmptyDefault
}

// MaybeSetAllowsEmptyDefault applies the whole-program default unless the
// source already specified the attribute. Late-binding: must be called from
// the single owning analysis pass before any reader pass runs.
func (n *CallDelegateNode) MaybeSetAllowsEmptyDefault(def bool) {
	if n.allowsEmptyDefault == nil {
		v := def
		n.allowsEmptyDefault = &v
	}
}

// SetParamsToRuntimeCheck records, per candidate callee, the params that
// still need a runtime type check. Late-binding: called once by the
// whole-program type-check pass.
func (n *CallDelegateNode) SetParamsToRuntimeCheck(m map[*TemplateDelegateNode][]TemplateParam) {
	if m == nil {
		panic("ast: SetParamsToRuntimeCheck called with nil map")
	}
	n.paramsToRuntimeCheck = m
}

// ParamsToRuntimeCheck returns the params of callee that must be checked at
// runtime. Callees absent from the recorded map fall back to every declared
// param, which is always safe.
func (n *CallDelegateNode) ParamsToRuntimeCheck(callee *TemplateDelegateNode) []TemplateParam {
	if n.paramsToRuntimeCheck == nil {
		return callee.Params()
	}
	params, ok := n.paramsToRuntimeCheck[callee]
	if !ok {
		// The callee was not known during static checking.
		return callee.Params()
	}
	return params
}

// AddChild appends a call param child.
func (n *CallDelegateNode) AddChild(c Node) { n.appendChild(n, c) }

// AddChildren appends call param children in order.
func (n *CallDelegateNode) AddChildren(cs []Node) { n.appendChildren(n, cs) }

// Clone deep-copies the call. The variant expression is deep-cloned so two
// calls never alias a subtree; the decided empty-default flag and the
// populated runtime-check map are preserved without re-validation.
func (n *CallDelegateNode) Clone(gen ids.Generator) Node {
	clone := &CallDelegateNode{delCalleeName: n.delCalleeName}
	n.callBase.cloneInto(gen, &clone.callBase)
	if n.variantExpr != nil {
		clone.variantExpr = n.variantExpr.Copy()
	}
	if n.allowsEmptyDefault != nil {
		v := *n.allowsEmptyDefault
		clone.allowsEmptyDefault = &v
	}
	if n.paramsToRuntimeCheck != nil {
		m := make(map[*TemplateDelegateNode][]TemplateParam, len(n.paramsToRuntimeCheck))
		for callee, params := range n.paramsToRuntimeCheck {
			m[callee] = params
		}
		clone.paramsToRuntimeCheck = m
	}
	cloneChildrenInto(gen, clone, n)
	return clone
}
