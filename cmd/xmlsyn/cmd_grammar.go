package main

import (
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/spf13/cobra"

	"github.com/dhamidi/xmlsyntax/xml/grammar"
)

func newGrammarCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Print or verify the EBNF grammar of well-formed input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !check {
				_, err := io.WriteString(out, grammar.Source())
				return err
			}

			if err := grammar.Verify(); err != nil {
				printErrors(out, err)
				return err
			}
			g, err := grammar.Load()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "ok: %d productions, start %s\n", len(grammar.Productions(g)), grammar.Start)
			return err
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "verify the grammar instead of printing it")
	cmd.AddCommand(newGrammarMatchCmd())

	return cmd
}

func newGrammarMatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match <production> <file|->",
		Short: "Report whether a production matches the whole input",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			production, path := args[0], args[1]

			var data []byte
			var err error
			if path == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(path)
			}
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			g, err := grammar.Load()
			if err != nil {
				return err
			}
			ok, err := grammar.Matches(g, production, string(data))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: no match\n", production)
				return errDiagnostics
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: match\n", production)
			return err
		},
	}
}

// printErrors prints each error of an ebnf error list on its own line.
func printErrors(w io.Writer, err error) {
	for err != nil {
		v := reflect.ValueOf(err)
		if v.Kind() == reflect.Slice {
			for i := 0; i < v.Len(); i++ {
				fmt.Fprintln(w, v.Index(i).Interface())
			}
			return
		}
		next, ok := err.(interface{ Unwrap() error })
		if !ok {
			fmt.Fprintln(w, err)
			return
		}
		err = next.Unwrap()
	}
}
