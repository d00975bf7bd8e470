// Package commands implements the scitrans CLI.
package commands

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/spherical-ai/scitrans/cmd/scitrans/ui"
	"github.com/spherical-ai/scitrans/internal/app"
	"github.com/spherical-ai/scitrans/internal/config"
	"github.com/spherical-ai/scitrans/internal/observability"
)

// Set at build time with -ldflags "-X .../commands.version=...".
var version = "dev"

type globalOptions struct {
	cfgFile string
	verbose bool
	noColor bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "scitrans",
		Short: "SciTransNet - turn scientific text into plain-language explanations",
		Long: `scitrans extracts text from PDF, DOCX, XLSX, TXT and Markdown documents and asks
a hosted text generation model to rewrite it as a summary, an explanation and a
list of key terms, in one of the simplify, academic, concept or default modes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadDotEnv()
			ui.InitUI(opts.noColor, opts.verbose)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.cfgFile, "config", "c", "", "config file path (defaults to $CONFIG_PATH)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		newTranslateCmd(opts),
		newExtractCmd(opts),
		newBatchCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// loadApp reads configuration and builds the services. CLI logs go to stderr
// and stay quiet unless --verbose is set.
func loadApp(opts *globalOptions) (*app.App, error) {
	path := opts.cfgFile
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	logger := observability.NewLogger(observability.LogConfig{
		Level:       level,
		Format:      "console",
		Output:      os.Stderr,
		ServiceName: "scitrans-cli",
	})

	return app.New(cfg, logger)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
