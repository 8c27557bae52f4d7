package parser

import (
	"strings"

	"github.com/sable-lang/sable/internal/ast"
	"github.com/sable-lang/sable/internal/diag"
	"github.com/sable-lang/sable/internal/exprtree"
	"github.com/sable-lang/sable/internal/ids"
	"github.com/sable-lang/sable/internal/source"
)

// callBuilderBase carries the state shared by the basic and delegate call
// builders. A builder is fed either raw command text or structured fields;
// the two paths are mutually exclusive per builder instance, and mixing them
// is a programming error.
type callBuilderBase struct {
	gen ids.Generator
	loc source.Location

	commandText    string
	hasCommandText bool
	structured     bool

	isPassingData          bool
	isPassingAllData       bool
	dataExpr               exprtree.Expr
	placeholderName        string
	escapingDirectiveNames []string
}

func (b *callBuilderBase) setCommandText(commandText string) {
	if b.structured {
		panic("parser: command text and structured fields are mutually exclusive")
	}
	b.commandText = commandText
	b.hasCommandText = true
}

func (b *callBuilderBase) markStructured() {
	if b.hasCommandText {
		panic("parser: command text and structured fields are mutually exclusive")
	}
	b.structured = true
}

// promoteLeadingCallee rewrites a leading bare callee name into the
// canonical name="..." attribute form, so the generic attribute parser can
// handle the rest uniformly.
func promoteLeadingCallee(commandText string) string {
	trimmed := strings.TrimSpace(commandText)
	if trimmed == "" {
		return commandText
	}
	head := trimmed
	rest := ""
	if i := strings.IndexAny(trimmed, " \t\r\n"); i >= 0 {
		head, rest = trimmed[:i], trimmed[i:]
	}
	if strings.ContainsAny(head, `="`) {
		return commandText
	}
	return `name="` + head + `"` + rest
}

// parseDataAttribute applies the data attribute's union rule: absent means
// no caller data, "all" passes everything, and any other value is parsed as
// an expression supplying a data record.
func parseDataAttribute(value string, present bool, commandName string, loc source.Location, r diag.Reporter) (isPassingData, isPassingAllData bool, dataExpr exprtree.Expr) {
	if !present {
		return false, false, nil
	}
	if value == "all" {
		return true, true, nil
	}
	expr, err := exprtree.Parse(value)
	if err != nil {
		r.Report(diag.Errorf(diag.StageParse, diag.CodeExprSyntax, loc,
			"invalid data expression %q in '%s' command text", value, commandName).WithCause(err))
		return true, false, nil
	}
	return true, false, expr
}

// parsePlaceholderAttribute validates the user-supplied placeholder name.
func parsePlaceholderAttribute(value string, present bool, commandName string, loc source.Location, r diag.Reporter) string {
	if !present {
		return ""
	}
	if !exprtree.IsIdentifier(value) {
		r.Report(diag.Errorf(diag.StageParse, diag.CodeInvalidPlaceholder, loc,
			"invalid placeholder name %q in '%s' command text", value, commandName))
		return ""
	}
	return value
}

// synthesizeDataAndPlaceholder appends the shared trailing attributes when
// command text is rebuilt from structured fields.
func (b *callBuilderBase) synthesizeDataAndPlaceholder(sb *strings.Builder) {
	if b.isPassingAllData {
		sb.WriteString(` data="all"`)
	} else if b.isPassingData && b.dataExpr != nil {
		sb.WriteString(` data="` + b.dataExpr.SourceString() + `"`)
	}
	if b.placeholderName != "" {
		sb.WriteString(` phname="` + b.placeholderName + `"`)
	}
}

func (b *callBuilderBase) checkStructuredDataFields() {
	if b.isPassingAllData && !b.isPassingData {
		panic("parser: IsPassingAllData implies IsPassingData")
	}
	if b.dataExpr != nil && (!b.isPassingData || b.isPassingAllData) {
		panic("parser: a data expression requires IsPassingData and excludes IsPassingAllData")
	}
}

func (b *callBuilderBase) fields() ast.CallFields {
	return ast.CallFields{
		CommandText:      b.commandText,
		IsPassingData:    b.isPassingData,
		IsPassingAllData: b.isPassingAllData,
		DataExpr:         b.dataExpr,
		PlaceholderName:  b.placeholderName,
	}
}

// callBasicAttrs parses 'call' command text.
var callBasicAttrs = NewAttributesParser("call",
	OptionalAttr("name", nil),
	OptionalAttr("data", nil),
	OptionalAttr("phname", nil),
)

// CallBasicBuilder builds calls to a statically-named template.
type CallBasicBuilder struct {
	callBuilderBase
	calleeName    string
	srcCalleeName string
}

// NewCallBasicBuilder creates a builder for one basic call node.
func NewCallBasicBuilder(gen ids.Generator, loc source.Location) *CallBasicBuilder {
	return &CallBasicBuilder{callBuilderBase: callBuilderBase{gen: gen, loc: loc}}
}

// CommandText feeds the builder raw command text. Mutually exclusive with
// the structured setters.
func (b *CallBasicBuilder) CommandText(commandText string) *CallBasicBuilder {
	b.setCommandText(commandText)
	return b
}

// SourceCalleeName sets the callee name as written in the source.
func (b *CallBasicBuilder) SourceCalleeName(name string) *CallBasicBuilder {
	b.markStructured()
	b.srcCalleeName = name
	return b
}

// CalleeName sets the fully-qualified callee name.
func (b *CallBasicBuilder) CalleeName(name string) *CallBasicBuilder {
	b.markStructured()
	b.calleeName = name
	return b
}

// IsPassingData marks the call as passing caller data.
func (b *CallBasicBuilder) IsPassingData(v bool) *CallBasicBuilder {
	b.markStructured()
	b.isPassingData = v
	return b
}

// IsPassingAllData marks the call as passing all caller data.
func (b *CallBasicBuilder) IsPassingAllData(v bool) *CallBasicBuilder {
	b.markStructured()
	b.isPassingAllData = v
	if v {
		b.isPassingData = true
	}
	return b
}

// DataExpr sets the data expression.
func (b *CallBasicBuilder) DataExpr(expr exprtree.Expr) *CallBasicBuilder {
	b.markStructured()
	b.dataExpr = expr
	if expr != nil {
		b.isPassingData = true
	}
	return b
}

// PlaceholderName sets the user-supplied placeholder name.
func (b *CallBasicBuilder) PlaceholderName(name string) *CallBasicBuilder {
	b.markStructured()
	b.placeholderName = name
	return b
}

// EscapingDirectiveNames sets the escaping directives applied post-render.
func (b *CallBasicBuilder) EscapingDirectiveNames(names []string) *CallBasicBuilder {
	b.escapingDirectiveNames = names
	return b
}

// Build validates and assembles the node. If this call reported any new
// diagnostic to r, a freshly-constructed, already-valid sentinel node is
// returned instead, so the caller can proceed without nil checks.
func (b *CallBasicBuilder) Build(r diag.Reporter) *ast.CallBasicNode {
	before := r.Count()

	if b.hasCommandText {
		b.parseCommandText(r)
	} else {
		b.buildCommandText()
	}

	if r.Count() != before {
		return NewErrorCallBasicNode(b.gen)
	}

	node := ast.NewCallBasicNode(b.gen, b.fields(), b.calleeName, b.srcCalleeName, b.loc)
	node.SetEscapingDirectiveNames(b.escapingDirectiveNames)
	return node
}

// BuildOrError is the fail-fast entry point for contexts without a sink of
// their own: it returns the node, or the first diagnostic as an error.
func (b *CallBasicBuilder) BuildOrError() (*ast.CallBasicNode, error) {
	sink := diag.NewSink()
	node := b.Build(sink)
	if errs := sink.Errors(); len(errs) > 0 {
		return nil, errs[0]
	}
	return node, nil
}

func (b *CallBasicBuilder) parseCommandText(r diag.Reporter) {
	attrs := callBasicAttrs.Parse(promoteLeadingCallee(b.commandText), b.loc, r)

	name, ok := attrs["name"]
	switch {
	case !ok:
		r.Report(diag.Errorf(diag.StageParse, diag.CodeMissingAttribute, b.loc,
			"the 'call' command text must contain the callee name (encountered command text %q)",
			b.commandText))
	case isValidCalleeName(name):
		b.srcCalleeName = name
		if !strings.HasPrefix(name, ".") {
			b.calleeName = name
		}
	default:
		r.Report(diag.Errorf(diag.StageParse, diag.CodeInvalidCalleeName, b.loc,
			"invalid callee name %q for 'call' command", name))
	}

	data, dataOK := attrs["data"]
	b.isPassingData, b.isPassingAllData, b.dataExpr =
		parseDataAttribute(data, dataOK, "call", b.loc, r)

	phname, phnameOK := attrs["phname"]
	b.placeholderName = parsePlaceholderAttribute(phname, phnameOK, "call", b.loc, r)
}

func (b *CallBasicBuilder) buildCommandText() {
	b.checkStructuredDataFields()
	name := b.srcCalleeName
	if name == "" {
		name = b.calleeName
	}
	if !isValidCalleeName(name) {
		panic("parser: CallBasicBuilder requires a valid callee name, got " + name)
	}

	var sb strings.Builder
	sb.WriteString(name)
	b.synthesizeDataAndPlaceholder(&sb)
	b.commandText = sb.String()
}

// isValidCalleeName accepts either a fully-qualified dotted identifier or a
// relative name: a dot followed by a single identifier.
func isValidCalleeName(name string) bool {
	if strings.HasPrefix(name, ".") {
		return exprtree.IsIdentifier(name[1:])
	}
	return exprtree.IsDottedIdentifier(name)
}

// callDelegateAttrs parses 'delcall' command text.
var callDelegateAttrs = NewAttributesParser("delcall",
	OptionalAttr("name", nil),
	OptionalAttr("variant", nil),
	OptionalAttr("data", nil),
	OptionalAttr("allowemptydefault", BooleanValues),
	OptionalAttr("phname", nil),
)

// CallDelegateBuilder builds calls to a delegate template.
type CallDelegateBuilder struct {
	callBuilderBase
	delCalleeName      string
	variantExpr        exprtree.Expr
	allowsEmptyDefault *bool
}

// NewCallDelegateBuilder creates a builder for one delegate call node.
func NewCallDelegateBuilder(gen ids.Generator, loc source.Location) *CallDelegateBuilder {
	return &CallDelegateBuilder{callBuilderBase: callBuilderBase{gen: gen, loc: loc}}
}

// CommandText feeds the builder raw command text. Mutually exclusive with
// the structured setters.
func (b *CallDelegateBuilder) CommandText(commandText string) *CallDelegateBuilder {
	b.setCommandText(commandText)
	return b
}

// DelCalleeName sets the logical delegate name.
func (b *CallDelegateBuilder) DelCalleeName(name string) *CallDelegateBuilder {
	b.markStructured()
	b.delCalleeName = name
	return b
}

// DelCalleeVariantExpr sets the variant expression.
func (b *CallDelegateBuilder) DelCalleeVariantExpr(expr exprtree.Expr) *CallDelegateBuilder {
	b.markStructured()
	b.variantExpr = expr
	return b
}

// AllowEmptyDefault decides the empty-default policy. On the structured
// path the policy is always decided; leaving it unset is equivalent to
// AllowEmptyDefault(false).
func (b *CallDelegateBuilder) AllowEmptyDefault(v bool) *CallDelegateBuilder {
	b.markStructured()
	b.allowsEmptyDefault = &v
	return b
}

// IsPassingData marks the call as passing caller data.
func (b *CallDelegateBuilder) IsPassingData(v bool) *CallDelegateBuilder {
	b.markStructured()
	b.isPassingData = v
	return b
}

// IsPassingAllData marks the call as passing all caller data.
func (b *CallDelegateBuilder) IsPassingAllData(v bool) *CallDelegateBuilder {
	b.markStructured()
	b.isPassingAllData = v
	if v {
		b.isPassingData = true
	}
	return b
}

// DataExpr sets the data expression.
func (b *CallDelegateBuilder) DataExpr(expr exprtree.Expr) *CallDelegateBuilder {
	b.markStructured()
	b.dataExpr = expr
	if expr != nil {
		b.isPassingData = true
	}
	return b
}

// PlaceholderName sets the user-supplied placeholder name.
func (b *CallDelegateBuilder) PlaceholderName(name string) *CallDelegateBuilder {
	b.markStructured()
	b.placeholderName = name
	return b
}

// EscapingDirectiveNames sets the escaping directives applied post-render.
func (b *CallDelegateBuilder) EscapingDirectiveNames(names []string) *CallDelegateBuilder {
	b.escapingDirectiveNames = names
	return b
}

// Build validates and assembles the node. If this call reported any new
// diagnostic to r, a freshly-constructed, already-valid sentinel node is
// returned instead, so the caller can proceed without nil checks.
func (b *CallDelegateBuilder) Build(r diag.Reporter) *ast.CallDelegateNode {
	before := r.Count()

	if b.hasCommandText {
		b.parseCommandText(r)
	} else {
		b.buildCommandText()
	}

	if r.Count() != before {
		return NewErrorCallDelegateNode(b.gen)
	}

	node := ast.NewCallDelegateNode(b.gen, b.fields(), b.delCalleeName, b.variantExpr,
		b.allowsEmptyDefault, b.loc)
	node.SetEscapingDirectiveNames(b.escapingDirectiveNames)
	return node
}

// BuildOrError is the fail-fast entry point for contexts without a sink of
// their own: it returns the node, or the first diagnostic as an error.
func (b *CallDelegateBuilder) BuildOrError() (*ast.CallDelegateNode, error) {
	sink := diag.NewSink()
	node := b.Build(sink)
	if errs := sink.Errors(); len(errs) > 0 {
		return nil, errs[0]
	}
	return node, nil
}

// parseCommandText validates the delcall attributes. Each check reports
// independently: a bad name and a bad variant in the same command text both
// get their own diagnostic.
func (b *CallDelegateBuilder) parseCommandText(r diag.Reporter) {
	attrs := callDelegateAttrs.Parse(promoteLeadingCallee(b.commandText), b.loc, r)

	name, ok := attrs["name"]
	switch {
	case !ok:
		r.Report(diag.Errorf(diag.StageParse, diag.CodeMissingAttribute, b.loc,
			"the 'delcall' command text must contain the callee name (encountered command text %q)",
			b.commandText))
	case !exprtree.IsDottedIdentifier(name):
		r.Report(diag.Errorf(diag.StageParse, diag.CodeInvalidDelegateName, b.loc,
			"invalid delegate name %q for 'delcall' command", name))
	default:
		b.delCalleeName = name
	}

	if variantText, variantOK := attrs["variant"]; variantOK {
		expr, err := exprtree.Parse(variantText)
		switch {
		case err != nil:
			r.Report(diag.Errorf(diag.StageParse, diag.CodeExprSyntax, b.loc,
				"invalid variant expression %q in 'delcall'", variantText).WithCause(err))
		default:
			// A variant that is a fixed string becomes part of the dispatch
			// key, so the constant must itself be an identifier.
			if lit, isLit := exprtree.AsStringLiteral(expr); isLit && !exprtree.IsIdentifier(lit) {
				r.Report(diag.Errorf(diag.StageParse, diag.CodeInvalidVariant, b.loc,
					"invalid variant expression %q in 'delcall' (variant expression must evaluate to an identifier)",
					variantText))
			} else {
				b.variantExpr = expr
			}
		}
	}

	data, dataOK := attrs["data"]
	b.isPassingData, b.isPassingAllData, b.dataExpr =
		parseDataAttribute(data, dataOK, "delcall", b.loc, r)

	if v, aedOK := attrs["allowemptydefault"]; aedOK {
		decided := v == "true"
		b.allowsEmptyDefault = &decided
	}

	phname, phnameOK := attrs["phname"]
	b.placeholderName = parsePlaceholderAttribute(phname, phnameOK, "delcall", b.loc, r)
}

func (b *CallDelegateBuilder) buildCommandText() {
	b.checkStructuredDataFields()
	if !exprtree.IsDottedIdentifier(b.delCalleeName) {
		panic("parser: CallDelegateBuilder requires a valid delegate name, got " + b.delCalleeName)
	}

	var sb strings.Builder
	sb.WriteString(b.delCalleeName)
	if b.variantExpr != nil {
		sb.WriteString(` variant="` + b.variantExpr.SourceString() + `"`)
	}
	b.synthesizeDataAndPlaceholder(&sb)
	if b.allowsEmptyDefault != nil && *b.allowsEmptyDefault {
		sb.WriteString(` allowemptydefault="true"`)
	}
	b.commandText = sb.String()
}

// NewErrorCallBasicNode constructs a fresh, already-valid sentinel call
// node. Each failed build gets its own instance to avoid aliasing across
// compilation units.
func NewErrorCallBasicNode(gen ids.Generator) *ast.CallBasicNode {
	return ast.NewCallBasicNode(gen, ast.CallFields{CommandText: "error.error"},
		"error.error", "error.error", source.Unknown)
}

// NewErrorCallDelegateNode constructs a fresh, already-valid sentinel
// delegate call node.
func NewErrorCallDelegateNode(gen ids.Generator) *ast.CallDelegateNode {
	return ast.NewCallDelegateNode(gen, ast.CallFields{CommandText: "error.error"},
		"error.error", nil, nil, source.Unknown)
}
