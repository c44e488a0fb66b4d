package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/xmlsyntax/xml/workspace"
)

func newLSPCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := workspace.NewLSPServer(opts.config, version)
			return server.RunStdio()
		},
	}
}
