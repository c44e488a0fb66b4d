package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/dhamidi/xmlsyntax/xml/parser"
)

func newValidCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "valid <file>",
		Short: "Print the file with every invalid element and attribute removed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(cmd, opts, args[0])
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), parser.RemoveInvalid(doc.Root).ToFullString())
			return err
		},
	}
}
