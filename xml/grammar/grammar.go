// Package grammar carries the EBNF description of the XML the parser
// accepts without diagnostics, and a matcher that runs its productions over
// text.
package grammar

import (
	_ "embed"
	"fmt"
	"strings"

	"golang.org/x/exp/ebnf"
)

// Start is the start production of the grammar.
const Start = "Document"

const filename = "xml.ebnf"

//go:embed xml.ebnf
var source string

// Source returns the grammar text.
func Source() string {
	return source
}

// Load parses the embedded grammar.
func Load() (ebnf.Grammar, error) {
	grammar, err := ebnf.Parse(filename, strings.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	return grammar, nil
}

// Verify parses the embedded grammar and checks that every production is
// defined and reachable from Start.
func Verify() error {
	grammar, err := Load()
	if err != nil {
		return err
	}
	if err := ebnf.Verify(grammar, Start); err != nil {
		return fmt.Errorf("verify grammar: %w", err)
	}
	return nil
}

// Productions returns the production names in source order.
func Productions(grammar ebnf.Grammar) []string {
	names := make([]string, 0, len(grammar))
	for name := range grammar {
		names = append(names, name)
	}
	sortByPosition(grammar, names)
	return names
}

// IsLexical reports whether name denotes a lexical production.
func IsLexical(name string) bool {
	return name != "" && !(name[0] >= 'A' && name[0] <= 'Z')
}
