package commands

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/spherical-ai/scitrans/cmd/scitrans/ui"
	"github.com/spherical-ai/scitrans/internal/app"
	"github.com/spherical-ai/scitrans/internal/domain"
)

type batchOptions struct {
	mode    string
	output  string
	workers int
	timeout time.Duration
}

// BatchItem is one file's outcome in batch output.
type BatchItem struct {
	File     string                    `json:"file"`
	Words    int                       `json:"words,omitempty"`
	Result   *domain.TranslationResult `json:"result,omitempty"`
	Error    string                    `json:"error,omitempty"`
	Duration string                    `json:"duration"`
}

func newBatchCmd(global *globalOptions) *cobra.Command {
	opts := &batchOptions{}

	cmd := &cobra.Command{
		Use:   "batch <file>...",
		Short: "Translate many documents concurrently",
		Long: `Extract and translate every file given. Failures are reported per file and do
not stop the run. Results are written as a JSON array in argument order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, global, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.mode, "mode", "m", string(domain.ModeSimplify), "simplify, academic, concept or default")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write JSON results to this file instead of stdout")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "concurrent files (defaults to translation.batch_workers)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Minute, "deadline for the whole batch")
	return cmd
}

func runBatch(cmd *cobra.Command, global *globalOptions, opts *batchOptions, files []string) error {
	mode := domain.Mode(opts.mode)
	if !mode.Valid() {
		return domain.ValidationError("unknown mode "+opts.mode, nil)
	}

	a, err := loadApp(global)
	if err != nil {
		return err
	}

	workers := opts.workers
	if workers <= 0 {
		workers = a.Config.Translation.BatchWorkers
	}
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	// JSON on stdout means scripted use, so no bar.
	done := func() {}
	var bar *ui.ProgressBar
	if opts.output != "" {
		bar = ui.NewProgressBar(len(files), "Translating")
		done = bar.Add
	}

	items := translateFiles(ctx, a, files, mode, workers, done)
	if bar != nil {
		bar.Finish()
	}

	failed := 0
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		status := "failed"
		if it.Error == "" {
			status = string(it.Result.Quality)
		}
		if it.Error != "" || it.Result.Quality == domain.QualityError {
			failed++
		}
		rows = append(rows, []string{it.File, status, it.Duration})
	}

	if opts.output == "" {
		if err := writeJSON(cmd.OutOrStdout(), items); err != nil {
			return err
		}
	} else {
		f, err := os.Create(opts.output)
		if err != nil {
			return domain.IOError("create "+opts.output, err)
		}
		defer f.Close()
		if err := writeJSON(f, items); err != nil {
			return domain.IOError("write "+opts.output, err)
		}

		ui.Section("Batch summary")
		ui.Table([]string{"File", "Quality", "Duration"}, rows)
		ui.Success("Results saved to %s", opts.output)
	}

	if failed > 0 {
		return domain.APIError(pluralFiles(failed)+" failed", nil)
	}
	return nil
}

// translateFiles fans out over files with at most workers in flight. The
// returned slice is in input order. done is called after each file.
func translateFiles(ctx context.Context, a *app.App, files []string, mode domain.Mode, workers int, done func()) []BatchItem {
	items := make([]BatchItem, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range files {
		g.Go(func() error {
			items[i] = translateFile(gctx, a, path, mode)
			done()
			return nil
		})
	}
	_ = g.Wait()

	return items
}

func translateFile(ctx context.Context, a *app.App, path string, mode domain.Mode) BatchItem {
	start := time.Now()
	item := BatchItem{File: path}

	data, err := os.ReadFile(path)
	if err != nil {
		item.Error = err.Error()
		item.Duration = ui.FormatDuration(time.Since(start))
		return item
	}

	out, err := a.Documents.TranslateDocument(ctx, domain.Document{FileName: filepath.Base(path), Data: data}, mode)
	if err != nil {
		item.Error = err.Error()
	} else {
		item.Words = out.Document.Words
		item.Result = &out.Result
	}
	item.Duration = ui.FormatDuration(time.Since(start))
	return item
}

func pluralFiles(n int) string {
	if n == 1 {
		return "1 file"
	}
	return strconv.Itoa(n) + " files"
}
