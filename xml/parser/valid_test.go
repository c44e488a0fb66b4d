package parser

import (
	"strings"
	"testing"

	"github.com/beevik/etree"
)

func TestToValidTree(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"<a><b/></a>", "<a><b/></a>"},
		{"<a><b></a>", "<a></a>"},
		{"<a><b><c></a>", "<a></a>"},
		{"<r><a b=></a><c/></r>", "<r><a ></a><c/></r>"},
		{`<a x="1" x="2"/>`, `<a x="1" />`},
		{"<a><b c=/></a>", "<a><b /></a>"},
		{"<a/><b/>", "<a/>"},
		{"</x><a/>", "<a/>"},
		{"<a>", ""},
		{"<a>\n  <b>\n</a>", "<a>\n</a>"},
		{"<r><a></b>\n<c/></r>", "<r>\n<c/></r>"},
		{"<a>\n\t<b x=\"unterminated>\n</a>", "<a>\n</a>"},
		{"<!-- keep -->\n<a><b></a>\n", "<!-- keep -->\n<a></a>\n"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ToValidTree(tt.input)
			if s := got.ToFullString(); s != tt.want {
				t.Errorf("got %q, want %q", s, tt.want)
			}
			checkSpans(t, got)
			if got.ID != 1 {
				t.Errorf("projection root id: got %d, want 1", got.ID)
			}
		})
	}
}

func TestToValidTreeIdempotent(t *testing.T) {
	inputs := []string{
		"<a/>",
		"<?xml version=\"1.0\"?>\n<root>\n  <child attr=\"v\">text</child>\n  <!-- c -->\n</root>\n",
		"<a x='1' y=\"2\"><![CDATA[<x>]]></a>",
		"<!DOCTYPE a>\r\n<a>\r\n\t<b/>\r\n</a>\r\n",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			valid := ToValidTree(input)
			if got := valid.ToFullString(); got != input {
				t.Errorf("got %q, want %q", got, input)
			}
			again := RemoveInvalid(valid)
			if got := again.ToFullString(); got != input {
				t.Errorf("second projection: got %q", got)
			}
		})
	}
}

func TestRemoveInvalidLeavesInputTree(t *testing.T) {
	input := "<a><b></a>"
	root := Parse(input)
	RemoveInvalid(root)
	if root.ToFullString() != input {
		t.Errorf("input tree was modified")
	}
	if findElement(root, "b") == nil {
		t.Errorf("element b disappeared from the input tree")
	}
}

func TestToValidTreeIsWellFormed(t *testing.T) {
	inputs := []string{
		"<a><b></a>",
		"<r><a b=></a><c/></r>",
		`<a x="1" x="2"/>`,
		"<a/><b/>",
		"</x><a/>",
		"<a><b><c></a>",
		"<a>\n\t<b x=\"unterminated>\n</a>",
		"<r><a></b>\n<c/></r>",
		"<r><ok v='1'/><bad v=/><ok v='2'/></r>",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			text := ToValidTree(input).ToFullString()
			doc := etree.NewDocument()
			if err := doc.ReadFromString(text); err != nil {
				t.Fatalf("projection %q is not well-formed: %v", text, err)
			}
			if doc.Root() == nil {
				t.Errorf("projection %q has no root element", text)
			}
			if Parse(text).ContainsDiagnostics() {
				t.Errorf("projection %q still has diagnostics", text)
			}
		})
	}
}

func TestRemoveInvalidDeepNesting(t *testing.T) {
	const depth = 20000
	input := strings.Repeat("<a>", depth) + strings.Repeat("</a>", depth)
	if got := RemoveInvalid(Parse(input)).ToFullString(); got != input {
		t.Fatal("valid deep document changed by projection")
	}

	truncated := strings.Repeat("<a>", depth)
	if got := RemoveInvalid(Parse(truncated)).ToFullString(); got != "" {
		t.Errorf("got %d bytes, want an empty projection", len(got))
	}
}

func TestRemoveInvalidTriviaIsNotShared(t *testing.T) {
	root := Parse("<r><a></b>\n<x></y>\n<c/></r>")
	valid := RemoveInvalid(root)
	if got, want := valid.ToFullString(), "<r>\n<c/></r>"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	seen := map[*Trivia]bool{}
	for _, tok := range root.Tokens() {
		for i := range tok.Leading {
			seen[&tok.Leading[i]] = true
		}
	}
	for _, tok := range valid.Tokens() {
		for i := range tok.Leading {
			if seen[&tok.Leading[i]] {
				t.Fatalf("token %s shares leading trivia storage", tok.Kind)
			}
			seen[&tok.Leading[i]] = true
		}
	}
}
