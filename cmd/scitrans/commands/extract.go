package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/spherical-ai/scitrans/cmd/scitrans/ui"
	"github.com/spherical-ai/scitrans/internal/config"
	"github.com/spherical-ai/scitrans/internal/domain"
	"github.com/spherical-ai/scitrans/internal/extract"
	"github.com/spherical-ai/scitrans/internal/observability"
)

type extractOptions struct {
	output     string
	jsonOut    bool
	pdfBackend string
}

func newExtractCmd(global *globalOptions) *cobra.Command {
	opts := &extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Extract and clean the text of a document",
		Long:  "Extract text from a PDF, DOCX, XLSX, TXT or Markdown file. No API key is needed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, global, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the text to this file instead of stdout")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print {fileName, format, content, pages, words} as JSON")
	cmd.Flags().StringVar(&opts.pdfBackend, "pdf-backend", config.PDFBackendPure, "pure or mupdf")
	return cmd
}

func runExtract(cmd *cobra.Command, global *globalOptions, opts *extractOptions, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.IOError("read "+path, err)
	}

	extractor := extract.NewService(observability.Nop(), extract.Options{PDFBackend: opts.pdfBackend})
	doc, err := extractor.Extract(cmd.Context(), domain.Document{FileName: filepath.Base(path), Data: data})
	if err != nil {
		return err
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(doc.Content+"\n"), 0o644); err != nil {
			return domain.IOError("write "+opts.output, err)
		}
		ui.Success("Wrote %d words to %s", doc.Words, opts.output)
		if global.verbose {
			ui.Table([]string{"Format", "Pages", "Words"}, [][]string{
				{string(doc.Format), strconv.Itoa(doc.Pages), strconv.Itoa(doc.Words)},
			})
		}
		return nil
	}

	if opts.jsonOut {
		return writeJSON(cmd.OutOrStdout(), doc)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), doc.Content)
	return err
}
