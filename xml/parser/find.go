package parser

import "sort"

// FindNode returns the deepest node whose full span contains offset, a
// 0-based byte index into the parsed text. Spans are half-open, so the last
// character of a node is found at FullSpan.End-1. It returns nil for
// negative offsets and offsets at or past the end of the text. Zero-width
// missing tokens are never returned.
func FindNode(root *Node, offset int) *Node {
	if root == nil || !root.FullSpan.Contains(offset) {
		return nil
	}
	n := root
	for {
		next := childAt(n, offset)
		if next == nil {
			return n
		}
		n = next
	}
}

func childAt(n *Node, offset int) *Node {
	i := sort.Search(len(n.Children), func(i int) bool {
		return n.Children[i].FullSpan.End > offset
	})
	if i < len(n.Children) && n.Children[i].FullSpan.Contains(offset) {
		return n.Children[i]
	}
	return nil
}

// FindToken returns the token node containing offset, or nil.
func FindToken(root *Node, offset int) *Node {
	n := FindNode(root, offset)
	if n == nil || !n.IsToken() {
		return nil
	}
	return n
}

// EnclosingElement returns the innermost element containing offset.
func EnclosingElement(root *Node, offset int) *Node {
	for n := FindNode(root, offset); n != nil; n = n.Parent() {
		if n.Kind == KindElement {
			return n
		}
	}
	return nil
}
