package delegates_test

import (
	"errors"
	"testing"

	"github.com/sable-lang/sable/internal/ast"
	"github.com/sable-lang/sable/internal/delegates"
	"github.com/sable-lang/sable/internal/diag"
	"github.com/sable-lang/sable/internal/ids"
	"github.com/sable-lang/sable/internal/parser"
)

func parseUnit(t *testing.T, srcs ...string) []*ast.FileNode {
	t.Helper()

	gen := ids.NewSequence()
	sink := diag.NewSink()
	var files []*ast.FileNode
	for _, src := range srcs {
		files = append(files, parser.NewFileParser(src, "test.sable", gen, sink).ParseFile())
	}
	if sink.Count() != 0 {
		t.Fatalf("unexpected parse diagnostics: %v", sink.Errors())
	}
	return files
}

func collectAll(files []*ast.FileNode) *delegates.Registry {
	reg := delegates.NewRegistry()
	for _, f := range files {
		reg.CollectFromFile(f, nil)
	}
	return reg
}

func firstDelCall(t *testing.T, files []*ast.FileNode) *ast.CallDelegateNode {
	t.Helper()

	var call *ast.CallDelegateNode
	for _, f := range files {
		ast.Walk(f, func(n ast.Node) bool {
			if c, ok := n.(*ast.CallDelegateNode); ok && call == nil {
				call = c
			}
			return true
		})
	}
	if call == nil {
		t.Fatalf("no delegate call in unit")
	}
	return call
}

const defaultImpl = `{namespace demo.base}
{deltemplate brand.banner}
default
{/deltemplate}
`

const variantImpl = `{namespace demo.base}
{deltemplate brand.banner variant="'alt'"}
alternate
{/deltemplate}
`

const overrideImpl = `{delpackage fancy}
{namespace demo.fancy}
{deltemplate brand.banner}
fancy
{/deltemplate}
`

func TestResolveExactVariantWins(t *testing.T) {
	files := parseUnit(t, defaultImpl, variantImpl)
	reg := collectAll(files)

	impl, err := reg.Resolve("brand.banner", "alt")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if impl == nil || impl.Variant() != "alt" {
		t.Errorf("exact-variant implementation must win, got %v", impl)
	}
}

func TestResolveFallsBackToDefault(t *testing.T) {
	files := parseUnit(t, defaultImpl)
	reg := collectAll(files)

	impl, err := reg.Resolve("brand.banner", "unregistered")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if impl == nil || impl.Variant() != "" {
		t.Errorf("an unregistered variant must fall back to the default, got %v", impl)
	}
}

func TestResolveHighestPriorityWins(t *testing.T) {
	files := parseUnit(t, defaultImpl, overrideImpl)
	reg := collectAll(files)

	impl, err := reg.Resolve("brand.banner", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if impl == nil || impl.Priority() != 1 {
		t.Errorf("the delegate package implementation must shadow the default, got %v", impl)
	}
}

func TestResolvePriorityTieIsAmbiguous(t *testing.T) {
	other := `{delpackage plain}
{namespace demo.plain}
{deltemplate brand.banner}
plain
{/deltemplate}
`
	files := parseUnit(t, overrideImpl, other)
	reg := collectAll(files)

	_, err := reg.Resolve("brand.banner", "")
	var ambiguity *delegates.AmbiguityError
	if !errors.As(err, &ambiguity) {
		t.Fatalf("expected an AmbiguityError, got %v", err)
	}
	if ambiguity.Priority != 1 || len(ambiguity.DelPackage) != 2 {
		t.Errorf("ambiguity should name both packages at the tied priority, got %+v", ambiguity)
	}
}

func TestResolvePriorityOverrideBreaksTie(t *testing.T) {
	other := `{delpackage plain}
{namespace demo.plain}
{deltemplate brand.banner}
plain
{/deltemplate}
`
	files := parseUnit(t, overrideImpl, other)
	reg := delegates.NewRegistry()
	for _, f := range files {
		reg.CollectFromFile(f, map[string]int{"plain": 0})
	}

	impl, err := reg.Resolve("brand.banner", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if impl == nil || impl.DelTemplateName() != "brand.banner" {
		t.Fatalf("Resolve returned %v", impl)
	}
}

func TestResolveUnknownName(t *testing.T) {
	reg := delegates.NewRegistry()
	impl, err := reg.Resolve("never.registered", "")
	if impl != nil || err != nil {
		t.Errorf("absence is (nil, nil) at the registry level, got (%v, %v)", impl, err)
	}
}

func TestResolveCallAbsence(t *testing.T) {
	caller := `{namespace demo.caller}
{template .main}
{delcall brand.banner /}
{/template}
`
	files := parseUnit(t, caller)
	call := firstDelCall(t, files)
	reg := collectAll(files)

	// Policy decided as allowing: absence renders empty.
	delegates.ApplyEmptyDefaultPolicy(files, true)
	impl, err := reg.ResolveCall(call, "")
	if impl != nil || err != nil {
		t.Errorf("absence with an empty default allowed must be (nil, nil), got (%v, %v)", impl, err)
	}
}

func TestResolveCallAbsenceForbidden(t *testing.T) {
	caller := `{namespace demo.caller}
{template .main}
{delcall brand.banner allowemptydefault="false" /}
{/template}
`
	files := parseUnit(t, caller)
	call := firstDelCall(t, files)
	reg := collectAll(files)

	_, err := reg.ResolveCall(call, "")
	var absence *delegates.AbsenceError
	if !errors.As(err, &absence) {
		t.Fatalf("expected an AbsenceError, got %v", err)
	}
}

func TestApplyEmptyDefaultPolicyKeepsExplicitDecision(t *testing.T) {
	caller := `{namespace demo.caller}
{template .main}
{delcall brand.banner allowemptydefault="true" /}
{delcall brand.banner /}
{/template}
`
	files := parseUnit(t, caller)

	var calls []*ast.CallDelegateNode
	ast.Walk(files[0], func(n ast.Node) bool {
		if c, ok := n.(*ast.CallDelegateNode); ok {
			calls = append(calls, c)
		}
		return true
	})

	delegates.ApplyEmptyDefaultPolicy(files, false)
	if !calls[0].AllowsEmptyDefault() {
		t.Errorf("the explicit decision must survive the unit default")
	}
	if calls[1].AllowsEmptyDefault() {
		t.Errorf("the undecided call must take the unit default")
	}
}

func TestResolveAllReportsAbsenceAndAmbiguity(t *testing.T) {
	caller := `{namespace demo.caller}
{template .main}
{delcall missing.banner allowemptydefault="false" /}
{delcall brand.banner /}
{/template}
`
	other := `{delpackage plain}
{namespace demo.plain}
{deltemplate brand.banner}
plain
{/deltemplate}
`
	files := parseUnit(t, caller, overrideImpl, other)
	reg := collectAll(files)
	delegates.ApplyEmptyDefaultPolicy(files, false)

	sink := diag.NewSink()
	delegates.ResolveAll(reg, files, sink)

	var codes []diag.Code
	for _, d := range sink.Errors() {
		codes = append(codes, d.Code)
	}
	if len(codes) != 2 || codes[0] != diag.CodeDelegateAbsent || codes[1] != diag.CodeDelegateAmbiguous {
		t.Fatalf("expected absence then ambiguity, got %v", sink.Errors())
	}
}

func TestResolveAllVariantAbsenceHasOwnCode(t *testing.T) {
	caller := `{namespace demo.caller}
{template .main}
{delcall brand.banner variant="'other'" allowemptydefault="false" /}
{/template}
`
	files := parseUnit(t, caller, variantImpl)
	reg := collectAll(files)
	delegates.ApplyEmptyDefaultPolicy(files, false)

	sink := diag.NewSink()
	delegates.ResolveAll(reg, files, sink)

	errs := sink.Errors()
	if len(errs) != 1 || errs[0].Code != diag.CodeDelegateVariant {
		t.Fatalf("a missing variant with no default is a variant absence, got %v", errs)
	}
}

func TestResolveAllPopulatesRuntimeChecks(t *testing.T) {
	impl := `{namespace demo.base}
{deltemplate brand.banner}
{@param title}
{@param? subtitle}
body
{/deltemplate}
`
	caller := `{namespace demo.caller}
{template .main}
{delcall brand.banner}
  {param title: 'hi' /}
{/delcall}
{/template}
`
	files := parseUnit(t, impl, caller)
	call := firstDelCall(t, files)
	reg := collectAll(files)
	delegates.ApplyEmptyDefaultPolicy(files, true)

	sink := diag.NewSink()
	delegates.ResolveAll(reg, files, sink)
	if sink.Count() != 0 {
		t.Fatalf("unexpected diagnostics: %v", sink.Errors())
	}

	callee := reg.Implementations("brand.banner")[0]
	unchecked := call.ParamsToRuntimeCheck(callee)
	if len(unchecked) != 1 || unchecked[0].Name != "subtitle" {
		t.Errorf("only the unpassed param needs a runtime check, got %v", unchecked)
	}
}

func TestResolveAllDynamicVariantSkipsStaticDispatch(t *testing.T) {
	caller := `{namespace demo.caller}
{template .main}
{delcall brand.banner variant="$variant" allowemptydefault="false" /}
{/template}
`
	files := parseUnit(t, caller, variantImpl)
	reg := collectAll(files)
	delegates.ApplyEmptyDefaultPolicy(files, false)

	sink := diag.NewSink()
	delegates.ResolveAll(reg, files, sink)
	// The name is registered, so dispatch is deferred to render time and no
	// diagnostic is reported even though no exact match can be proven.
	if sink.Count() != 0 {
		t.Fatalf("unexpected diagnostics: %v", sink.Errors())
	}
}
