// Package globals checks global identifier references against the set of
// globals defined by the unit configuration. Undefined globals are reported
// as warnings: the renderer treats them as opaque values, but a typo in a
// global name is almost always a bug worth surfacing.
package globals

import (
	"github.com/sable-lang/sable/internal/ast"
	"github.com/sable-lang/sable/internal/diag"
	"github.com/sable-lang/sable/internal/exprtree"
)

// Check walks every expression in the unit and reports a warning for each
// global reference not present in defined. A unit that defines no globals
// opts out of the check.
func Check(files []*ast.FileNode, defined map[string]string, r diag.Reporter) {
	if len(defined) == 0 {
		return
	}
	for _, file := range files {
		ast.Walk(file, func(n ast.Node) bool {
			for _, expr := range nodeExprs(n) {
				checkExpr(expr, n, defined, r)
			}
			return true
		})
	}
}

// nodeExprs extracts the expression trees owned by one AST node.
func nodeExprs(n ast.Node) []exprtree.Expr {
	switch node := n.(type) {
	case *ast.PrintNode:
		return []exprtree.Expr{node.Expr()}
	case *ast.ForNode:
		return []exprtree.Expr{node.Expr()}
	case *ast.CallBasicNode:
		return []exprtree.Expr{node.DataExpr()}
	case *ast.CallDelegateNode:
		return []exprtree.Expr{node.DataExpr(), node.DelCalleeVariantExpr()}
	case *ast.CallParamNode:
		return []exprtree.Expr{node.ValueExpr()}
	default:
		return nil
	}
}

func checkExpr(expr exprtree.Expr, owner ast.Node, defined map[string]string, r diag.Reporter) {
	exprtree.Walk(expr, func(e exprtree.Expr) bool {
		g, ok := e.(*exprtree.GlobalRef)
		if !ok {
			return true
		}
		if _, known := defined[g.Name]; !known {
			r.Report(diag.Diagnostic{
				Stage:    diag.StageResolve,
				Severity: diag.SeverityWarning,
				Code:     diag.CodeUnknownGlobal,
				Message:  "reference to undefined global '" + g.Name + "'",
				Location: owner.Location(),
			})
		}
		return true
	})
}
