package ast

// Inspect walks the tree in pre-order. When fn returns false the children of
// that node are skipped.
func Inspect(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	for _, child := range node.Children() {
		Inspect(child, fn)
	}
}

// Count returns the number of nodes for which match reports true.
func Count(node Node, match func(Node) bool) int {
	n := 0
	Inspect(node, func(cur Node) bool {
		if match(cur) {
			n++
		}
		return true
	})
	return n
}

// OfKind matches nodes of kind k.
func OfKind(k Kind) func(Node) bool {
	return func(n Node) bool { return n.Kind() == k }
}

// Any matches every node.
func Any(Node) bool { return true }

// Named builds a type reference with optional type arguments.
func Named(name string, args ...*TypeRef) *TypeRef {
	return &TypeRef{Name: name, Args: args}
}
