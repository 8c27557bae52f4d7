package ast

// Walk traverses the tree starting from node, calling fn for each node.
// If fn returns false, Walk stops traversing that branch. Children are
// visited in order; tree passes such as delegate resolution rely on this to
// see call sites in document order.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	if parent, ok := node.(ParentNode); ok {
		for _, child := range parent.Children() {
			Walk(child, fn)
		}
	}
}
