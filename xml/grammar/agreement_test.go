package grammar_test

import (
	"testing"

	"github.com/dhamidi/xmlsyntax/xml/grammar"
	"github.com/dhamidi/xmlsyntax/xml/parser"
)

// The parser reports no diagnostics exactly when the grammar accepts the
// whole document.
func TestGrammarAgreesWithParser(t *testing.T) {
	g, err := grammar.Load()
	if err != nil {
		t.Fatal(err)
	}

	inputs := []string{
		"<a/>",
		"<a>\n  <b x = '1' />\n</a>\n",
		"<?xml version=\"1.0\" encoding=\"utf-8\"?>\n<root><child attr=\"v\">text &amp; more</child></root>",
		"<!-- head -->\n<!DOCTYPE r [<!ELEMENT r ANY>]>\n<r><![CDATA[ <raw> ]]><?pi x?></r>\n<!-- tail -->",
		"<a><b></a>",
		"<a b=></a>",
		"<a/><b/>",
		"hi<a/>",
		"<a><!-- x -- y --></a>",
		"<a x=\"1\" x=\"2\"/>",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			accepted, err := grammar.Matches(g, grammar.Start, input)
			if err != nil {
				t.Fatal(err)
			}
			clean := !parser.Parse(input).ContainsDiagnostics()
			if input == "<a x=\"1\" x=\"2\"/>" {
				// Attribute uniqueness is not expressible in the grammar.
				if !accepted || clean {
					t.Errorf("grammar accepted %v, parser clean %v", accepted, clean)
				}
				return
			}
			if accepted != clean {
				t.Errorf("grammar accepted %v, parser clean %v\n%s", accepted, clean, parser.Parse(input))
			}
		})
	}
}

func TestNameTokensMatchGrammar(t *testing.T) {
	g, err := grammar.Load()
	if err != nil {
		t.Fatal(err)
	}
	for _, tok := range parser.Tokenize(`<ns:a-1 é.x="v"><_b/></ns:a-1>`) {
		if tok.Kind != parser.TokenName {
			continue
		}
		ok, err := grammar.Matches(g, "name", tok.Text)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Errorf("name token %q rejected by the grammar", tok.Text)
		}
	}
}
