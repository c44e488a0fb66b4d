package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/xmlsyntax/format"
	"github.com/dhamidi/xmlsyntax/xml/workspace"
)

func newCheckCmd(opts *globalOptions) *cobra.Command {
	var maxDiagnostics int
	var watch bool

	cmd := &cobra.Command{
		Use:   "check <paths...>",
		Short: "Parse files and directories and report syntax errors",
		Long: `Parse every file given and every file with a configured extension below
the given directories, then print the diagnostics with source excerpts.
The exit status is 1 when any file has diagnostics.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("max") {
				maxDiagnostics = opts.config.MaxDiagnostics
			}
			out := cmd.OutOrStdout()
			printer := format.NewDiagnosticPrinter(out, format.PrettyOpts{
				Color: opts.useColor(out),
				Max:   maxDiagnostics,
			})

			ws := workspace.New(opts.config)
			var watchers []*workspace.FileWatcher
			if watch {
				var err error
				watchers, err = newWatchers(ws, printer, args)
				if err != nil {
					return err
				}
			}
			docs, err := ws.ScanAll(cmd.Context(), args...)
			if err != nil {
				return err
			}

			failed := 0
			for _, doc := range docs {
				diags := doc.Diagnostics()
				if len(diags) == 0 {
					continue
				}
				failed++
				if _, err := printer.Print(doc.Path, doc.Text, diags); err != nil {
					return err
				}
			}

			if watch {
				return runWatchers(cmd.Context(), watchers)
			}
			if failed > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d files have errors\n", failed, len(docs))
				return errDiagnostics
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxDiagnostics, "max", 0, "maximum number of diagnostics to print per file (0 = no limit)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep watching the directories and re-check changed files")

	return cmd
}

// newWatchers creates one primed watcher per directory in paths, so files
// reported by the initial check are only printed again once they change.
func newWatchers(ws *workspace.Workspace, printer *format.DiagnosticPrinter, paths []string) ([]*workspace.FileWatcher, error) {
	var watchers []*workspace.FileWatcher
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			continue
		}
		fw := workspace.NewFileWatcher(ws, root, func(path string, doc *workspace.Document) {
			if doc == nil {
				return
			}
			if _, err := printer.Print(path, doc.Text, doc.Diagnostics()); err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
			}
		})
		fw.Prime()
		watchers = append(watchers, fw)
	}
	return watchers, nil
}

// runWatchers polls until interrupted.
func runWatchers(ctx context.Context, watchers []*workspace.FileWatcher) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	for _, fw := range watchers {
		g.Go(func() error {
			fw.Start(gctx)
			<-gctx.Done()
			fw.Stop()
			return nil
		})
	}
	return g.Wait()
}
