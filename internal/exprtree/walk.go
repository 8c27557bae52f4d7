package exprtree

// Walk traverses the expression tree in prefix order. fn returning false
// skips the node's operands.
func Walk(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	switch n := e.(type) {
	case *FieldAccess:
		Walk(n.Base, fn)
	case *FuncCall:
		for _, arg := range n.Args {
			Walk(arg, fn)
		}
	case *PrefixExpr:
		Walk(n.Operand, fn)
	case *BinaryExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *CondExpr:
		Walk(n.Cond, fn)
		Walk(n.Then, fn)
		Walk(n.Else, fn)
	}
}
