package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/xmlsyntax/xml/parser"
)

func newTokensCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the token stream of an XML file with trivia and spans",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(cmd, opts, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, tok := range parser.Tokenize(doc.Text) {
				span := tok.Span()
				line := fmt.Sprintf("%d-%d\t%s\t%s", span.Start, span.End, tok.Kind, strconv.Quote(tok.Text))
				if len(tok.Leading) > 0 {
					line += "\tleading=" + formatTrivia(tok.Leading)
				}
				if len(tok.Trailing) > 0 {
					line += "\ttrailing=" + formatTrivia(tok.Trailing)
				}
				if _, err := fmt.Fprintln(out, line); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func formatTrivia(trivia []parser.Trivia) string {
	parts := make([]string, 0, len(trivia))
	for _, t := range trivia {
		parts = append(parts, t.Kind.String()+":"+strconv.Quote(t.Text))
	}
	return "[" + strings.Join(parts, " ") + "]"
}
