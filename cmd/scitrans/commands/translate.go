package commands

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/spherical-ai/scitrans/cmd/scitrans/ui"
	"github.com/spherical-ai/scitrans/internal/domain"
)

type translateOptions struct {
	mode    string
	file    string
	jsonOut bool
	timeout time.Duration
}

func newTranslateCmd(global *globalOptions) *cobra.Command {
	opts := &translateOptions{}

	cmd := &cobra.Command{
		Use:   "translate [text]",
		Short: "Translate a passage or a document",
		Long: `Translate the given text, the contents of --file, or standard input when no
text is given (or the text is "-").`,
		Example: `  scitrans translate --mode simplify "Mitochondria generate ATP via oxidative phosphorylation."
  scitrans translate --mode concept --file paper.pdf --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, global, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.mode, "mode", "m", string(domain.ModeSimplify), "simplify, academic, concept or default")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "document to extract and translate")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the result as JSON")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 2*time.Minute, "overall deadline")
	return cmd
}

func runTranslate(cmd *cobra.Command, global *globalOptions, opts *translateOptions, args []string) error {
	mode := domain.Mode(opts.mode)
	if !mode.Valid() {
		return domain.ValidationError("unknown mode "+opts.mode, nil)
	}

	a, err := loadApp(global)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	var result domain.TranslationResult
	start := time.Now()

	if opts.file != "" {
		data, err := os.ReadFile(opts.file)
		if err != nil {
			return domain.IOError("read "+opts.file, err)
		}

		spin := startSpinner(opts.jsonOut, "Extracting and translating "+filepath.Base(opts.file)+"...")
		out, err := a.Documents.TranslateDocument(ctx, domain.Document{FileName: filepath.Base(opts.file), Data: data}, mode)
		spin.Stop()
		if err != nil {
			return err
		}
		ui.Info("Extracted %d words from %s", out.Document.Words, out.Document.FileName)
		result = out.Result
	} else {
		text, err := inputText(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}

		spin := startSpinner(opts.jsonOut, "Translating...")
		result, err = a.Translator.Translate(ctx, domain.TranslationRequest{OriginalText: text, Mode: mode})
		spin.Stop()
		if err != nil {
			return err
		}
	}

	if opts.jsonOut {
		return writeJSON(cmd.OutOrStdout(), result)
	}

	ui.Result(result)
	ui.Info("Finished in %s", ui.FormatDuration(time.Since(start)))
	if result.Quality == domain.QualityError {
		return domain.APIError("translation failed", nil)
	}
	return nil
}

// inputText joins args, or reads stdin when there are none or the only one is "-".
func inputText(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", domain.IOError("read stdin", err)
	}
	return string(data), nil
}

type stopper interface{ Stop() }

type noSpinner struct{}

func (noSpinner) Stop() {}

// startSpinner skips the spinner when stdout carries machine-readable output.
func startSpinner(quiet bool, message string) stopper {
	if quiet {
		return noSpinner{}
	}
	s := ui.NewSpinner(message)
	s.Start()
	return s
}
