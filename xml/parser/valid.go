package parser

// ToValidTree parses text and returns the tree with every invalid attribute
// and element removed.
func ToValidTree(text string) *Node {
	return RemoveInvalid(Parse(text))
}

// RemoveInvalid builds a new tree from root without the attributes and
// elements that carry diagnostics in their subtree. Attributes are dropped
// before their parent is descended into; an element is judged after its own
// content has been cleaned. When a removed node ended a line, that line
// break is kept so the surrounding text stays on separate lines. The input
// tree is not modified.
func RemoveInvalid(root *Node) *Node {
	if root == nil {
		return nil
	}
	b := &rebuilder{}
	out, _, _ := b.rebuild(root)
	finishTree(out)
	return out
}

type rebuildState struct {
	pending      []Trivia
	lastEndsLine bool
}

type rebuilder struct {
	rebuildState
}

// rebuild returns the copy of n, whether diagnostics remain anywhere in that
// copy, and the last source token of n itself. Each node is visited once.
func (b *rebuilder) rebuild(n *Node) (*Node, bool, *Token) {
	if n.IsToken() {
		tok := n.Token.clone()
		if len(b.pending) > 0 {
			tok.Leading = append(append([]Trivia(nil), b.pending...), tok.Leading...)
			b.pending = nil
		}
		var last *Token
		if !tok.Missing {
			b.lastEndsLine = tok.EndsLine()
			last = n.Token
		}
		return &Node{Kind: KindToken, Token: tok}, false, last
	}

	out := &Node{
		Kind:        n.Kind,
		Diagnostics: append([]Diagnostic(nil), n.Diagnostics...),
	}
	invalid := len(n.Diagnostics) > 0
	var last *Token
	for _, child := range n.Children {
		if child.Kind == KindAttribute && child.ContainsDiagnostics() {
			if tok := lastSourceToken(child); tok != nil {
				last = tok
				b.remove(tok)
			}
			continue
		}
		saved := b.rebuildState
		rebuilt, childInvalid, childLast := b.rebuild(child)
		if childLast != nil {
			last = childLast
		}
		if rebuilt.Kind == KindElement && childInvalid {
			b.rebuildState = saved
			if childLast != nil {
				b.remove(childLast)
			}
			continue
		}
		if rebuilt.IsList() && len(rebuilt.Children) == 0 {
			continue
		}
		invalid = invalid || childInvalid
		out.Children = append(out.Children, rebuilt)
	}
	return out, invalid, last
}

func lastSourceToken(n *Node) *Token {
	tokens := n.Tokens()
	for i := len(tokens) - 1; i >= 0; i-- {
		if !tokens[i].Missing {
			return tokens[i]
		}
	}
	return nil
}

// remove keeps the trailing end of line of a removed node, given its last
// source token, unless the text before it already ends a line.
func (b *rebuilder) remove(last *Token) {
	if last.EndsLine() && !b.lastEndsLine {
		b.pending = append(b.pending, last.Trailing[len(last.Trailing)-1])
		b.lastEndsLine = true
	}
}
