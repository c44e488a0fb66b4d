package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/xmlsyntax/format"
	"github.com/dhamidi/xmlsyntax/xml/parser"
)

func newFindCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "find <file> <line>:<column>",
		Short: "Describe the syntax node at a 1-based position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, column, err := parsePosition(args[1])
			if err != nil {
				return err
			}
			doc, err := readDocument(cmd, opts, args[0])
			if err != nil {
				return err
			}
			offset := doc.Index().OffsetOf(line, column)
			node := parser.FindNode(doc.Root, offset)
			if node == nil {
				return fmt.Errorf("%s:%d:%d: no node at this position", args[0], line, column)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, format.NewHover(doc.Index(), node))
			fmt.Fprintln(out)
			_, err = fmt.Fprint(out, format.CaretInfo(node))
			return err
		},
	}
}

func parsePosition(s string) (line, column int, err error) {
	l, c, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid position %q (want line:column)", s)
	}
	line, err = strconv.Atoi(l)
	if err != nil || line < 1 {
		return 0, 0, fmt.Errorf("invalid line in %q", s)
	}
	column, err = strconv.Atoi(c)
	if err != nil || column < 1 {
		return 0, 0, fmt.Errorf("invalid column in %q", s)
	}
	return line, column, nil
}
