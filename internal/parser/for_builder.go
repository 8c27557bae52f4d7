package parser

import (
	"regexp"

	"github.com/sable-lang/sable/internal/ast"
	"github.com/sable-lang/sable/internal/diag"
	"github.com/sable-lang/sable/internal/exprtree"
	"github.com/sable-lang/sable/internal/ids"
	"github.com/sable-lang/sable/internal/source"
)

// forCommandTextPattern captures the loop variable and the collection
// expression from 'for' command text: "$var in <expr>".
var forCommandTextPattern = regexp.MustCompile(`(?s)^\$(\w+)\s+in\s+(\S.*)$`)

// ForBuilder accumulates the pieces of a loop construct and assembles the
// ForNode with its body and optional empty branch. Construction is
// fail-soft: invalid command text is reported to the sink and the loop
// variable and expression fall back to sentinels, so Build always returns a
// structurally complete node.
type ForBuilder struct {
	gen      ids.Generator
	reporter diag.Reporter

	commandText    string
	hasCommandText bool
	commandLoc     source.Location
	hasCommandLoc  bool
	body           []ast.Node
	hasBody        bool
	emptyLoc       source.Location
	emptyBody      []ast.Node
	hasEmptyBody   bool
}

// NewForBuilder creates a builder reporting to r and drawing node IDs from
// gen.
func NewForBuilder(gen ids.Generator, r diag.Reporter) *ForBuilder {
	return &ForBuilder{gen: gen, reporter: r}
}

// SetCommandLocation records the location of the {for ...} tag.
func (b *ForBuilder) SetCommandLocation(loc source.Location) *ForBuilder {
	b.commandLoc = loc
	b.hasCommandLoc = true
	return b
}

// SetCommandText records the raw command text.
func (b *ForBuilder) SetCommandText(commandText string) *ForBuilder {
	b.commandText = commandText
	b.hasCommandText = true
	return b
}

// SetLoopBody records the children rendered for each collection element.
func (b *ForBuilder) SetLoopBody(children []ast.Node) *ForBuilder {
	b.body = children
	b.hasBody = true
	return b
}

// SetIfEmptyBody records the optional branch rendered when the collection is
// empty, with the {ifempty} tag's own location.
func (b *ForBuilder) SetIfEmptyBody(loc source.Location, children []ast.Node) *ForBuilder {
	b.emptyLoc = loc
	b.emptyBody = children
	b.hasEmptyBody = true
	return b
}

// Build assembles the loop node. Calling Build before SetCommandText,
// SetCommandLocation and SetLoopBody is a programming error and panics.
// Recoverable problems in the command text are reported to the sink; the
// returned node is never nil, so callers can keep walking a best-effort tree.
func (b *ForBuilder) Build() *ast.ForNode {
	if !b.hasCommandText {
		panic("parser: ForBuilder.Build called before SetCommandText")
	}
	if !b.hasCommandLoc {
		panic("parser: ForBuilder.Build called before SetCommandLocation")
	}
	if !b.hasBody {
		panic("parser: ForBuilder.Build called before SetLoopBody")
	}

	varName := ast.ErrorVarName
	var expr exprtree.Expr

	m := forCommandTextPattern.FindStringSubmatch(b.commandText)
	if m == nil {
		b.reporter.Report(diag.Errorf(diag.StageParse, diag.CodeMalformedCommandText, b.commandLoc,
			"invalid 'for' command text %q", b.commandText))
	} else {
		// The variable name and the expression are validated independently
		// so one command text can surface both problems at once.
		if exprtree.IsIdentifier(m[1]) {
			varName = m[1]
		} else {
			b.reporter.Report(diag.Errorf(diag.StageParse, diag.CodeInvalidVarName, b.commandLoc,
				"invalid variable name in 'for' command text %q", b.commandText))
		}

		parsed, err := exprtree.Parse(m[2])
		if err != nil {
			b.reporter.Report(diag.Errorf(diag.StageParse, diag.CodeExprSyntax, b.commandLoc,
				"invalid expression in 'for' command text %q", b.commandText).WithCause(err))
		} else {
			expr = parsed
		}
	}

	loop := ast.NewForNode(b.gen, varName, expr, b.commandText, b.commandLoc)

	body := ast.NewForBodyNode(b.gen, varName, b.commandLoc)
	body.AddChildren(b.body)
	loop.AddChild(body)

	if b.hasEmptyBody {
		empty := ast.NewForEmptyNode(b.gen, b.emptyLoc)
		empty.AddChildren(b.emptyBody)
		loop.AddChild(empty)
	}

	return loop
}
