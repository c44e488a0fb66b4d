package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	"golang.org/x/term"

	"github.com/dhamidi/xmlsyntax/xml/workspace"
)

var version = "0.1.0"

// errDiagnostics makes the process exit with status 1 without printing an
// error message; the diagnostics were already printed.
var errDiagnostics = errors.New("diagnostics found")

type globalOptions struct {
	configPath string
	color      string
	verbose    int

	config workspace.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "xmlsyn",
		Short:         "Lossless XML syntax trees",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to xmlsyn.toml (default: search upwards from the working directory)")
	rootCmd.PersistentFlags().StringVar(&opts.color, "color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().CountVarP(&opts.verbose, "verbose", "v", "increase log verbosity")

	rootCmd.AddCommand(newParseCmd(opts))
	rootCmd.AddCommand(newTokensCmd(opts))
	rootCmd.AddCommand(newCheckCmd(opts))
	rootCmd.AddCommand(newValidCmd(opts))
	rootCmd.AddCommand(newFindCmd(opts))
	rootCmd.AddCommand(newLSPCmd(opts))
	rootCmd.AddCommand(newGrammarCmd())

	return rootCmd
}

func (o *globalOptions) load() error {
	var err error
	if o.configPath != "" {
		o.config, err = workspace.LoadConfig(o.configPath)
	} else {
		o.config, _, err = workspace.FindAndLoadConfig(".")
	}
	if err != nil {
		return err
	}

	switch o.color {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("invalid --color value %q (want auto, on or off)", o.color)
	}

	verbosity := max(o.verbose, o.config.Log.Verbosity)
	if o.config.Log.File != "" {
		commonlog.Configure(verbosity, &o.config.Log.File)
	} else {
		commonlog.Configure(verbosity, nil)
	}
	return nil
}

// useColor resolves --color for w. "auto" colors only terminals.
func (o *globalOptions) useColor(w io.Writer) bool {
	switch o.color {
	case "on":
		return true
	case "off":
		return false
	}
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
