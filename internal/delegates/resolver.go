package delegates

import (
	"errors"

	"github.com/sable-lang/sable/internal/ast"
	"github.com/sable-lang/sable/internal/diag"
	"github.com/sable-lang/sable/internal/exprtree"
)

// ApplyEmptyDefaultPolicy decides the empty-default policy of every delegate
// call that did not decide it in source, using the unit-wide default. Calls
// that wrote allowemptydefault explicitly keep their own decision.
func ApplyEmptyDefaultPolicy(files []*ast.FileNode, defaultAllow bool) {
	for _, file := range files {
		ast.Walk(file, func(n ast.Node) bool {
			if call, ok := n.(*ast.CallDelegateNode); ok {
				call.MaybeSetAllowsEmptyDefault(defaultAllow)
			}
			return true
		})
	}
}

// ResolveAll checks every delegate call in the unit against the registry and
// fills in the per-callee runtime-check maps. Every empty-default policy
// must be decided before this pass runs. Calls with a dynamic variant
// expression cannot be dispatched statically; their dispatch is checked at
// render time, but their runtime-check maps are still populated for every
// implementation sharing the name.
func ResolveAll(registry *Registry, files []*ast.FileNode, r diag.Reporter) {
	for _, file := range files {
		ast.Walk(file, func(n ast.Node) bool {
			call, ok := n.(*ast.CallDelegateNode)
			if !ok {
				return true
			}
			resolveCall(registry, call, r)
			populateRuntimeChecks(registry, call)
			return true
		})
	}
}

func resolveCall(registry *Registry, call *ast.CallDelegateNode, r diag.Reporter) {
	variant, static := staticVariant(call)
	if !static {
		if !registry.HasName(call.DelCalleeName()) && !call.AllowsEmptyDefault() {
			r.Report(diag.Errorf(diag.StageResolve, diag.CodeDelegateAbsent, call.Location(),
				"no implementation of delegate %q", call.DelCalleeName()))
		}
		return
	}

	_, err := registry.ResolveCall(call, variant)
	var ambiguity *AmbiguityError
	var absence *AbsenceError
	switch {
	case errors.As(err, &ambiguity):
		r.Report(diag.Errorf(diag.StageResolve, diag.CodeDelegateAmbiguous, call.Location(),
			"%s", ambiguity.Error()))
	case errors.As(err, &absence):
		code := diag.CodeDelegateAbsent
		if absence.Key.Variant != "" {
			code = diag.CodeDelegateVariant
		}
		r.Report(diag.Errorf(diag.StageResolve, code, call.Location(), "%s", absence.Error()))
	}
}

// staticVariant extracts the variant a call dispatches on when it is known
// at compile time: no variant expression at all, or a string literal.
func staticVariant(call *ast.CallDelegateNode) (string, bool) {
	expr := call.DelCalleeVariantExpr()
	if expr == nil {
		return "", true
	}
	if lit, ok := exprtree.AsStringLiteral(expr); ok {
		return lit, true
	}
	return "", false
}

// populateRuntimeChecks records, for every implementation the call could
// dispatch to, the declared params that are not explicitly passed at the
// call site. The renderer checks those against the runtime data record.
func populateRuntimeChecks(registry *Registry, call *ast.CallDelegateNode) {
	impls := registry.Implementations(call.DelCalleeName())
	if len(impls) == 0 {
		return
	}

	passed := make(map[string]bool)
	for _, child := range call.Children() {
		if p, ok := child.(*ast.CallParamNode); ok {
			passed[p.Key()] = true
		}
	}

	m := make(map[*ast.TemplateDelegateNode][]ast.TemplateParam, len(impls))
	for _, impl := range impls {
		var unchecked []ast.TemplateParam
		for _, param := range impl.Params() {
			if !passed[param.Name] {
				unchecked = append(unchecked, param)
			}
		}
		m[impl] = unchecked
	}
	call.SetParamsToRuntimeCheck(m)
}
