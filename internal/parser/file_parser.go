package parser

import (
	"strings"

	"github.com/sable-lang/sable/internal/ast"
	"github.com/sable-lang/sable/internal/diag"
	"github.com/sable-lang/sable/internal/exprtree"
	"github.com/sable-lang/sable/internal/ids"
	"github.com/sable-lang/sable/internal/lexer"
)

// deltemplateAttrs parses 'deltemplate' command text.
var deltemplateAttrs = NewAttributesParser("deltemplate",
	OptionalAttr("name", nil),
	OptionalAttr("variant", nil),
)

// FileParser assembles one compilation unit from template source. Tag
// recognition comes from the lexer; command text is handed to the
// directive-specific builders. All recoverable problems go to the sink and
// parsing continues, so one pass surfaces every problem in the file.
type FileParser struct {
	lx       *lexer.Lexer
	gen      ids.Generator
	reporter diag.Reporter
	filename string
	cur      lexer.Token
}

// NewFileParser creates a parser over src, attributing locations to
// filename.
func NewFileParser(src, filename string, gen ids.Generator, r diag.Reporter) *FileParser {
	p := &FileParser{
		lx:       lexer.New(src, filename),
		gen:      gen,
		reporter: r,
		filename: filename,
	}
	p.next()
	return p
}

func (p *FileParser) next() {
	p.cur = p.lx.NextToken()
}

func (p *FileParser) report(code diag.Code, format string, args ...any) {
	p.reporter.Report(diag.Errorf(diag.StageParse, code, p.cur.Location, format, args...))
}

// ParseFile parses the whole unit and returns a best-effort FileNode; it is
// never nil, even when diagnostics were reported.
func (p *FileParser) ParseFile() *ast.FileNode {
	p.skipBlankText()

	delPackage := ""
	if p.cur.Type == lexer.TAG && p.cur.Command == "delpackage" {
		delPackage = strings.TrimSpace(p.cur.CommandText)
		if !exprtree.IsIdentifier(delPackage) {
			p.report(diag.CodeMalformedCommandText, "invalid 'delpackage' name %q", delPackage)
			delPackage = ""
		}
		p.next()
		p.skipBlankText()
	}

	namespace := ""
	fileLoc := p.cur.Location
	if p.cur.Type == lexer.TAG && p.cur.Command == "namespace" {
		namespace = strings.TrimSpace(p.cur.CommandText)
		if !exprtree.IsDottedIdentifier(namespace) {
			p.report(diag.CodeMalformedCommandText, "invalid 'namespace' name %q", namespace)
			namespace = ""
		}
		p.next()
	} else {
		p.report(diag.CodeMissingNamespace, "template file must start with a 'namespace' declaration")
	}

	file := ast.NewFileNode(p.gen, p.filename, namespace, delPackage, fileLoc)

	for p.cur.Type != lexer.EOF {
		switch {
		case p.cur.Type == lexer.RAW_TEXT:
			if strings.TrimSpace(p.cur.Raw) != "" {
				p.report(diag.CodeUnexpectedTag, "unexpected text between templates")
			}
			p.next()
		case p.cur.Command == "template":
			file.AddChild(p.parseTemplate())
		case p.cur.Command == "deltemplate":
			file.AddChild(p.parseDelTemplate(delPackage != ""))
		default:
			p.report(diag.CodeUnexpectedTag, "unexpected tag {%s} between templates", p.cur.Command)
			p.next()
		}
	}

	for _, e := range p.lx.Errors {
		p.reporter.Report(e.ToDiagnostic())
	}

	return file
}

func (p *FileParser) skipBlankText() {
	for p.cur.Type == lexer.RAW_TEXT && strings.TrimSpace(p.cur.Raw) == "" {
		p.next()
	}
}

func (p *FileParser) parseTemplate() ast.Node {
	loc := p.cur.Location
	name := strings.TrimSpace(p.cur.CommandText)
	if !isValidCalleeName(name) {
		p.report(diag.CodeInvalidCalleeName, "invalid 'template' name %q", name)
		name = ".__error__"
	}
	p.next()

	var params []ast.TemplateParam
	children, stop := p.parseBody([]string{"/template"}, &params)
	if stop.Type == lexer.EOF {
		p.reporter.Report(diag.Errorf(diag.StageParse, diag.CodeUnclosedTag, loc,
			"unclosed 'template' %q", name))
	}

	tpl := ast.NewTemplateNode(p.gen, name, params, loc)
	tpl.AddChildren(children)
	return tpl
}

func (p *FileParser) parseDelTemplate(inDelPackage bool) ast.Node {
	loc := p.cur.Location
	attrs := deltemplateAttrs.Parse(promoteLeadingCallee(p.cur.CommandText), loc, p.reporter)

	name, ok := attrs["name"]
	switch {
	case !ok:
		p.reporter.Report(diag.Errorf(diag.StageParse, diag.CodeMissingAttribute, loc,
			"the 'deltemplate' command text must contain the delegate name"))
		name = "error.error"
	case !exprtree.IsDottedIdentifier(name):
		p.reporter.Report(diag.Errorf(diag.StageParse, diag.CodeInvalidDelegateName, loc,
			"invalid delegate name %q for 'deltemplate' command", name))
		name = "error.error"
	}

	variant := ""
	if variantText, variantOK := attrs["variant"]; variantOK {
		// A deltemplate's variant is part of its registration key, so unlike
		// a call-site variant it must be a static string literal.
		expr, err := exprtree.Parse(variantText)
		lit, isLit := "", false
		if err == nil {
			lit, isLit = exprtree.AsStringLiteral(expr)
		}
		if err != nil || !isLit || !exprtree.IsIdentifier(lit) {
			d := diag.Errorf(diag.StageParse, diag.CodeInvalidVariant, loc,
				"invalid variant %q in 'deltemplate' (must be a string literal identifier)", variantText)
			if err != nil {
				d = d.WithCause(err)
			}
			p.reporter.Report(d)
		} else {
			variant = lit
		}
	}
	p.next()

	var params []ast.TemplateParam
	children, stop := p.parseBody([]string{"/deltemplate"}, &params)
	if stop.Type == lexer.EOF {
		p.reporter.Report(diag.Errorf(diag.StageParse, diag.CodeUnclosedTag, loc,
			"unclosed 'deltemplate' %q", name))
	}

	priority := 0
	if inDelPackage {
		priority = 1
	}

	tpl := ast.NewTemplateDelegateNode(p.gen, name, variant, priority, params, loc)
	tpl.AddChildren(children)
	return tpl
}

// parseBody parses statements until a closing tag named in stops, which is
// consumed and returned. On EOF the returned token has type EOF and the
// caller reports the unclosed construct. When params is non-nil, {@param}
// declarations are collected instead of rejected.
func (p *FileParser) parseBody(stops []string, params *[]ast.TemplateParam) ([]ast.Node, lexer.Token) {
	var children []ast.Node

	for {
		switch {
		case p.cur.Type == lexer.EOF:
			return children, p.cur

		case p.cur.Type == lexer.RAW_TEXT:
			if p.cur.Raw != "" {
				children = append(children, ast.NewRawTextNode(p.gen, p.cur.Raw, p.cur.Location))
			}
			p.next()

		case contains(stops, p.cur.Command):
			stop := p.cur
			p.next()
			return children, stop

		case p.cur.Command == "@param" || p.cur.Command == "@param?":
			if params == nil {
				p.report(diag.CodeUnexpectedTag, "{@param} is only allowed directly inside a template")
			} else {
				paramName := strings.TrimSpace(p.cur.CommandText)
				if !exprtree.IsIdentifier(paramName) {
					p.report(diag.CodeMalformedCommandText, "invalid param name %q", paramName)
				} else {
					*params = append(*params, ast.TemplateParam{
						Name:     paramName,
						Required: p.cur.Command == "@param",
					})
				}
			}
			p.next()

		case p.cur.Command == "print":
			children = append(children, p.parsePrint())

		case p.cur.Command == "for":
			children = append(children, p.parseFor())

		case p.cur.Command == "call":
			children = append(children, p.parseCall())

		case p.cur.Command == "delcall":
			children = append(children, p.parseDelCall())

		default:
			p.report(diag.CodeUnexpectedTag, "unexpected tag {%s}", p.cur.Command)
			p.next()
		}
	}
}

func (p *FileParser) parsePrint() ast.Node {
	loc := p.cur.Location
	text := p.cur.CommandText

	var printExpr exprtree.Expr
	expr, err := exprtree.Parse(text)
	if err != nil {
		p.reporter.Report(diag.Errorf(diag.StageParse, diag.CodeExprSyntax, loc,
			"invalid expression in 'print' command text %q", text).WithCause(err))
	} else {
		printExpr = expr
	}
	p.next()
	return ast.NewPrintNode(p.gen, printExpr, text, loc)
}

func (p *FileParser) parseFor() ast.Node {
	b := NewForBuilder(p.gen, p.reporter).
		SetCommandText(p.cur.CommandText).
		SetCommandLocation(p.cur.Location)
	openLoc := p.cur.Location
	p.next()

	body, stop := p.parseBody([]string{"ifempty", "/for"}, nil)
	b.SetLoopBody(body)

	if stop.Type == lexer.TAG && stop.Command == "ifempty" {
		emptyBody, stop2 := p.parseBody([]string{"/for"}, nil)
		b.SetIfEmptyBody(stop.Location, emptyBody)
		stop = stop2
	}
	if stop.Type == lexer.EOF {
		p.reporter.Report(diag.Errorf(diag.StageParse, diag.CodeUnclosedTag, openLoc,
			"unclosed 'for' command"))
	}

	return b.Build()
}

func (p *FileParser) parseCall() ast.Node {
	b := NewCallBasicBuilder(p.gen, p.cur.Location).CommandText(p.cur.CommandText)
	children := p.parseCallBody("call")
	node := b.Build(p.reporter)
	node.AddChildren(children)
	return node
}

func (p *FileParser) parseDelCall() ast.Node {
	b := NewCallDelegateBuilder(p.gen, p.cur.Location).CommandText(p.cur.CommandText)
	children := p.parseCallBody("delcall")
	node := b.Build(p.reporter)
	node.AddChildren(children)
	return node
}

// parseCallBody consumes a call's params. Self-closing calls have none;
// otherwise only {param} tags and blank text may appear before the close.
func (p *FileParser) parseCallBody(command string) []ast.Node {
	openLoc := p.cur.Location
	selfClosing := p.cur.SelfClosing
	p.next()
	if selfClosing {
		return nil
	}

	var params []ast.Node
	for {
		switch {
		case p.cur.Type == lexer.EOF:
			p.reporter.Report(diag.Errorf(diag.StageParse, diag.CodeUnclosedTag, openLoc,
				"unclosed '%s' command", command))
			return params

		case p.cur.Type == lexer.RAW_TEXT:
			if strings.TrimSpace(p.cur.Raw) != "" {
				p.report(diag.CodeUnexpectedTag, "unexpected text inside '%s' command", command)
			}
			p.next()

		case p.cur.CloseOf(command):
			p.next()
			return params

		case p.cur.Command == "param":
			params = append(params, p.parseParam())

		default:
			p.report(diag.CodeUnexpectedTag, "unexpected tag {%s} inside '%s' command", p.cur.Command, command)
			p.next()
		}
	}
}

func (p *FileParser) parseParam() ast.Node {
	b := NewParamBuilder(p.gen, p.cur.Location).SetCommandText(p.cur.CommandText)
	openLoc := p.cur.Location
	selfClosing := p.cur.SelfClosing
	p.next()

	if !selfClosing {
		content, stop := p.parseBody([]string{"/param"}, nil)
		b.SetContent(content)
		if stop.Type == lexer.EOF {
			p.reporter.Report(diag.Errorf(diag.StageParse, diag.CodeUnclosedTag, openLoc,
				"unclosed 'param' command"))
		}
	}

	return b.Build(p.reporter)
}
