package parser_test

import (
	"testing"

	"github.com/sable-lang/sable/internal/ast"
	"github.com/sable-lang/sable/internal/diag"
	"github.com/sable-lang/sable/internal/ids"
	"github.com/sable-lang/sable/internal/parser"
)

func parseSource(t *testing.T, src string) (*ast.FileNode, *diag.Sink) {
	t.Helper()

	sink := diag.NewSink()
	file := parser.NewFileParser(src, "test.sable", ids.NewSequence(), sink).ParseFile()
	if file == nil {
		t.Fatalf("ParseFile() must never return nil")
	}
	return file, sink
}

func findNodes(root ast.Node, kind ast.Kind) []ast.Node {
	var out []ast.Node
	ast.Walk(root, func(n ast.Node) bool {
		if n.Kind() == kind {
			out = append(out, n)
		}
		return true
	})
	return out
}

const demoSource = `{namespace demo.app}

{template .main}
{@param items}
{@param? title}
Hello
{for $item in $items}
  {$item.name}
  {call .row data="$item" /}
{ifempty}
  no items
{/for}
{delcall brand.banner variant="'alt'" allowemptydefault="true"}
  {param title: $title /}
  {param body}text{/param}
{/delcall}
{/template}

{deltemplate brand.banner variant="'alt'"}
fallback
{/deltemplate}
`

func TestFileParserEndToEnd(t *testing.T) {
	file, sink := parseSource(t, demoSource)
	if sink.Count() != 0 {
		t.Fatalf("unexpected diagnostics: %v", sink.Errors())
	}
	if file.Namespace() != "demo.app" {
		t.Errorf("Namespace() = %q", file.Namespace())
	}
	if file.DelPackage() != "" {
		t.Errorf("DelPackage() = %q, want empty", file.DelPackage())
	}

	templates := findNodes(file, ast.KindTemplate)
	if len(templates) != 1 {
		t.Fatalf("expected one template, got %d", len(templates))
	}
	tpl := templates[0].(*ast.TemplateNode)
	if tpl.Name() != ".main" {
		t.Errorf("template name = %q", tpl.Name())
	}
	wantParams := []ast.TemplateParam{{Name: "items", Required: true}, {Name: "title", Required: false}}
	if len(tpl.Params()) != 2 || tpl.Params()[0] != wantParams[0] || tpl.Params()[1] != wantParams[1] {
		t.Errorf("template params = %v, want %v", tpl.Params(), wantParams)
	}

	loops := findNodes(file, ast.KindFor)
	if len(loops) != 1 {
		t.Fatalf("expected one loop, got %d", len(loops))
	}
	loop := loops[0].(*ast.ForNode)
	if loop.Var() != "item" || loop.Expr().SourceString() != "$items" {
		t.Errorf("loop header lost: var=%q expr=%v", loop.Var(), loop.Expr())
	}
	if loop.EmptyBody() == nil {
		t.Errorf("ifempty branch lost")
	}

	prints := findNodes(file, ast.KindPrint)
	if len(prints) != 1 {
		t.Fatalf("expected one print, got %d", len(prints))
	}
	if got := prints[0].(*ast.PrintNode).Expr().SourceString(); got != "$item.name" {
		t.Errorf("print expression = %q", got)
	}

	calls := findNodes(file, ast.KindCallBasic)
	if len(calls) != 1 {
		t.Fatalf("expected one basic call, got %d", len(calls))
	}
	call := calls[0].(*ast.CallBasicNode)
	if call.SrcCalleeName() != ".row" || !call.IsPassingData() || call.IsPassingAllData() {
		t.Errorf("call lost its callee or data flags")
	}
	if call.NumChildren() != 0 {
		t.Errorf("a self-closing call has no params")
	}

	delcalls := findNodes(file, ast.KindCallDelegate)
	if len(delcalls) != 1 {
		t.Fatalf("expected one delegate call, got %d", len(delcalls))
	}
	delcall := delcalls[0].(*ast.CallDelegateNode)
	if delcall.DelCalleeName() != "brand.banner" {
		t.Errorf("DelCalleeName() = %q", delcall.DelCalleeName())
	}
	if !delcall.EmptyDefaultDecided() || !delcall.AllowsEmptyDefault() {
		t.Errorf("allowemptydefault lost")
	}
	params := findNodes(delcall, ast.KindCallParam)
	if len(params) != 2 {
		t.Fatalf("expected two params, got %d", len(params))
	}
	title := params[0].(*ast.CallParamNode)
	body := params[1].(*ast.CallParamNode)
	if title.Key() != "title" || title.ValueExpr() == nil {
		t.Errorf("value param lost: %q", title.Key())
	}
	if body.Key() != "body" || body.ValueExpr() != nil || body.NumChildren() != 1 {
		t.Errorf("block param lost: %q with %d children", body.Key(), body.NumChildren())
	}

	deltemplates := findNodes(file, ast.KindTemplateDelegate)
	if len(deltemplates) != 1 {
		t.Fatalf("expected one deltemplate, got %d", len(deltemplates))
	}
	deltpl := deltemplates[0].(*ast.TemplateDelegateNode)
	if deltpl.DelTemplateName() != "brand.banner" || deltpl.Variant() != "alt" {
		t.Errorf("deltemplate key lost: %q / %q", deltpl.DelTemplateName(), deltpl.Variant())
	}
	if deltpl.Priority() != 0 {
		t.Errorf("priority outside a delpackage must be 0, got %d", deltpl.Priority())
	}
}

func TestFileParserDelPackagePriority(t *testing.T) {
	file, sink := parseSource(t, `{delpackage fancy}
{namespace demo.fancy}

{deltemplate brand.banner}
override
{/deltemplate}
`)
	if sink.Count() != 0 {
		t.Fatalf("unexpected diagnostics: %v", sink.Errors())
	}
	if file.DelPackage() != "fancy" {
		t.Errorf("DelPackage() = %q", file.DelPackage())
	}
	deltpl := findNodes(file, ast.KindTemplateDelegate)[0].(*ast.TemplateDelegateNode)
	if deltpl.Priority() != 1 {
		t.Errorf("priority inside a delpackage must be 1, got %d", deltpl.Priority())
	}
	if deltpl.Variant() != "" {
		t.Errorf("no variant declared, got %q", deltpl.Variant())
	}
}

func TestFileParserMissingNamespace(t *testing.T) {
	_, sink := parseSource(t, "{template .main}{/template}\n")
	if got := codesOf(sink); len(got) != 1 || got[0] != diag.CodeMissingNamespace {
		t.Fatalf("expected one missing-namespace diagnostic, got %v", sink.Errors())
	}
}

func TestFileParserUnclosedTemplate(t *testing.T) {
	_, sink := parseSource(t, "{namespace demo.app}\n{template .main}\nHello\n")
	if got := codesOf(sink); len(got) != 1 || got[0] != diag.CodeUnclosedTag {
		t.Fatalf("expected one unclosed-tag diagnostic, got %v", sink.Errors())
	}
}

func TestFileParserUnexpectedTagRecovers(t *testing.T) {
	file, sink := parseSource(t, `{namespace demo.app}
{template .main}
{bogus}
Hello
{/template}
`)
	if got := codesOf(sink); len(got) != 1 || got[0] != diag.CodeUnexpectedTag {
		t.Fatalf("expected one unexpected-tag diagnostic, got %v", sink.Errors())
	}
	// Parsing continues past the bad tag and the template still closes.
	if len(findNodes(file, ast.KindTemplate)) != 1 {
		t.Errorf("template lost after recovery")
	}
}

func TestFileParserInvalidDelTemplateVariant(t *testing.T) {
	_, sink := parseSource(t, `{namespace demo.app}
{deltemplate brand.banner variant="'not an identifier'"}
{/deltemplate}
`)
	if got := codesOf(sink); len(got) != 1 || got[0] != diag.CodeInvalidVariant {
		t.Fatalf("expected one invalid-variant diagnostic, got %v", sink.Errors())
	}
}
