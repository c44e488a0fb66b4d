package parser

import "testing"

func TestFindNode(t *testing.T) {
	input := "<a><b/></a>"
	root := Parse(input)

	tests := []struct {
		offset int
		kind   TokenKind
		text   string
	}{
		{0, TokenLessThan, "<"},
		{1, TokenName, "a"},
		{3, TokenLessThan, "<"},
		{4, TokenName, "b"},
		{5, TokenSlashGreaterThan, "/>"},
		{6, TokenSlashGreaterThan, "/>"},
		{7, TokenLessThanSlash, "</"},
		{10, TokenGreaterThan, ">"},
	}
	for _, tt := range tests {
		n := FindNode(root, tt.offset)
		if n == nil || !n.IsToken() {
			t.Errorf("offset %d: got %v, want token", tt.offset, n)
			continue
		}
		if n.Token.Kind != tt.kind || n.Token.Text != tt.text {
			t.Errorf("offset %d: got %v %q, want %v %q", tt.offset, n.Token.Kind, n.Token.Text, tt.kind, tt.text)
		}
	}

	b := FindNode(root, 5).ParentElement()
	if b == nil || b.Name() != "b" {
		t.Errorf("offset 5 should be inside element b")
	}
}

func TestFindNodeOutOfRange(t *testing.T) {
	root := Parse("<a/>")
	for _, offset := range []int{-1, 4, 100} {
		if n := FindNode(root, offset); n != nil {
			t.Errorf("offset %d: got %v, want nil", offset, n.Kind)
		}
	}
	if FindNode(nil, 0) != nil {
		t.Errorf("nil root should yield nil")
	}
	if FindNode(Parse(""), 0) != nil {
		t.Errorf("empty document has no nodes at offset 0")
	}
}

func TestFindNodeSpanEnd(t *testing.T) {
	root := Parse("<r><item>x</item></r>")
	item := findElement(root, "item")
	for _, offset := range []int{item.FullSpan.Start, item.FullSpan.End - 1} {
		n := FindNode(root, offset)
		if n == nil || EnclosingElement(root, offset) != item {
			t.Errorf("offset %d should resolve inside item", offset)
		}
	}
}

func TestFindNodeTrivia(t *testing.T) {
	input := "<a>\n  <b/>\n</a>"
	root := Parse(input)
	// The indentation before <b/> is leading trivia of its '<'.
	n := FindToken(root, 5)
	if n == nil || n.Token.Kind != TokenLessThan {
		t.Fatalf("offset 5: got %v", n)
	}
	if n.ParentElement().Name() != "b" {
		t.Errorf("indentation should belong to b")
	}
}

func TestFindNodeSkipsMissingTokens(t *testing.T) {
	root := Parse("<a")
	n := FindNode(root, 1)
	if n == nil || n.Token == nil || n.Token.Kind != TokenName {
		t.Fatalf("offset 1: got %v", n)
	}
	root.Walk(func(c *Node) bool {
		if c.IsToken() && c.Token.Missing {
			if FindNode(root, c.FullSpan.Start) == c {
				t.Errorf("missing %v token was found", c.Token.Kind)
			}
		}
		return true
	})
}
