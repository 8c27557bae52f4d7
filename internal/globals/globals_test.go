package globals_test

import (
	"testing"

	"github.com/sable-lang/sable/internal/ast"
	"github.com/sable-lang/sable/internal/diag"
	"github.com/sable-lang/sable/internal/globals"
	"github.com/sable-lang/sable/internal/ids"
	"github.com/sable-lang/sable/internal/parser"
)

func checkSource(t *testing.T, src string, defined map[string]string) *diag.Sink {
	t.Helper()

	sink := diag.NewSink()
	file := parser.NewFileParser(src, "test.sable", ids.NewSequence(), sink).ParseFile()
	if sink.Count() != 0 {
		t.Fatalf("unexpected parse diagnostics: %v", sink.Errors())
	}
	globals.Check([]*ast.FileNode{file}, defined, sink)
	return sink
}

func TestCheckReportsUndefinedGlobals(t *testing.T) {
	sink := checkSource(t, `{namespace demo.app}
{template .main}
{print app.BRAND}
{print app.TYPO}
{/template}
`, map[string]string{"app.BRAND": "'acme'"})

	errs := sink.Errors()
	if len(errs) != 1 {
		t.Fatalf("expected one warning, got %v", errs)
	}
	if errs[0].Code != diag.CodeUnknownGlobal || errs[0].Severity != diag.SeverityWarning {
		t.Errorf("got %+v", errs[0])
	}
	if sink.HasErrors() {
		t.Errorf("an undefined global is a warning, not an error")
	}
}

func TestCheckIgnoresVarsAndFunctions(t *testing.T) {
	sink := checkSource(t, `{namespace demo.app}
{template .main}
{$user.name}
{for $x in keys($data)}
  {$x}
{/for}
{/template}
`, map[string]string{"app.BRAND": "'acme'"})

	if sink.Count() != 0 {
		t.Errorf("variables and function calls are not globals, got %v", sink.Errors())
	}
}

func TestCheckSkippedWhenNoGlobalsDefined(t *testing.T) {
	sink := checkSource(t, `{namespace demo.app}
{template .main}
{print app.WHATEVER}
{/template}
`, nil)

	if sink.Count() != 0 {
		t.Errorf("a unit without defined globals opts out, got %v", sink.Errors())
	}
}

func TestCheckSeesNestedExpressions(t *testing.T) {
	sink := checkSource(t, `{namespace demo.app}
{template .main}
{delcall brand.banner variant="$v ? app.A : app.B" allowemptydefault="true" /}
{/template}
`, map[string]string{"app.A": "'a'"})

	if sink.Count() != 1 {
		t.Fatalf("expected one warning for app.B, got %v", sink.Errors())
	}
}
