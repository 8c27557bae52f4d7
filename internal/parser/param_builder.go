package parser

import (
	"regexp"

	"github.com/sable-lang/sable/internal/ast"
	"github.com/sable-lang/sable/internal/diag"
	"github.com/sable-lang/sable/internal/exprtree"
	"github.com/sable-lang/sable/internal/ids"
	"github.com/sable-lang/sable/internal/source"
)

// paramValuePattern captures "key: expr"; paramBlockPattern a bare "key".
var (
	paramValuePattern = regexp.MustCompile(`(?s)^(\w+)\s*:\s*(\S.*)$`)
	paramBlockPattern = regexp.MustCompile(`^(\w+)$`)
)

// ParamBuilder builds one {param ...} child of a call. A "key: expr" form
// yields a value param; a bare "key" form yields a block param whose content
// is supplied as children by the caller.
type ParamBuilder struct {
	gen ids.Generator
	loc source.Location

	commandText    string
	hasCommandText bool
	content        []ast.Node
}

// NewParamBuilder creates a builder for one param node.
func NewParamBuilder(gen ids.Generator, loc source.Location) *ParamBuilder {
	return &ParamBuilder{gen: gen, loc: loc}
}

// SetCommandText records the raw command text.
func (b *ParamBuilder) SetCommandText(commandText string) *ParamBuilder {
	b.commandText = commandText
	b.hasCommandText = true
	return b
}

// SetContent records a block param's rendered children.
func (b *ParamBuilder) SetContent(children []ast.Node) *ParamBuilder {
	b.content = children
	return b
}

// Build validates and assembles the param node. Invalid command text is
// reported and a sentinel-keyed node is returned so the caller can proceed.
func (b *ParamBuilder) Build(r diag.Reporter) *ast.CallParamNode {
	if !b.hasCommandText {
		panic("parser: ParamBuilder.Build called before SetCommandText")
	}

	key := ast.ErrorVarName
	var valueExpr exprtree.Expr

	if m := paramValuePattern.FindStringSubmatch(b.commandText); m != nil {
		key = m[1]
		expr, err := exprtree.Parse(m[2])
		if err != nil {
			r.Report(diag.Errorf(diag.StageParse, diag.CodeExprSyntax, b.loc,
				"invalid value expression in 'param' command text %q", b.commandText).WithCause(err))
		} else {
			valueExpr = expr
		}
	} else if m := paramBlockPattern.FindStringSubmatch(b.commandText); m != nil {
		key = m[1]
	} else {
		r.Report(diag.Errorf(diag.StageParse, diag.CodeMalformedCommandText, b.loc,
			"invalid 'param' command text %q", b.commandText))
	}

	node := ast.NewCallParamNode(b.gen, key, valueExpr, b.commandText, b.loc)
	node.AddChildren(b.content)
	return node
}
