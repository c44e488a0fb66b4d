package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/xmlsyntax/format"
	"github.com/dhamidi/xmlsyntax/xml/workspace"
)

func newParseCmd(opts *globalOptions) *cobra.Command {
	var outputFormat string
	var includePositions bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse an XML file and dump its syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(cmd, opts, args[0])
			if err != nil {
				return err
			}

			encoder, err := format.NewEncoder(outputFormat, cmd.OutOrStdout(), includePositions)
			if err != nil {
				return err
			}
			if err := encoder.Encode(doc.Root); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format ("+strings.Join(format.Formats, ", ")+")")
	cmd.Flags().BoolVar(&includePositions, "positions", false, "include spans in the tree dump")

	return cmd
}

// readDocument parses path with the configured input encoding.
func readDocument(cmd *cobra.Command, opts *globalOptions, path string) (*workspace.Document, error) {
	ws := workspace.New(opts.config)
	doc, err := ws.ScanFile(cmd.Context(), path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return doc, nil
}
