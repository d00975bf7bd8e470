package ui

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/spherical-ai/scitrans/internal/domain"
)

// Section prints an underlined heading.
func Section(title string) {
	color.New(color.FgMagenta, color.Bold).Fprintf(stdout, "\n%s\n", title)
	fmt.Fprintf(stdout, "%s\n\n", strings.Repeat("=", len([]rune(title))))
}

// Table prints rows aligned under headers.
func Table(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, strings.Join(headers, "\t"))
	sep := make([]string, len(headers))
	for i, h := range headers {
		sep[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(w, strings.Join(sep, "\t"))

	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

// KeyValue prints an indented key: value pair.
func KeyValue(key, value string) {
	color.New(color.FgYellow).Fprintf(stdout, "  %s: ", key)
	fmt.Fprintln(stdout, value)
}

// Result renders a translation for humans.
func Result(r domain.TranslationResult) {
	switch r.Quality {
	case domain.QualityError:
		Error("%s", r.Summary)
		return
	case domain.QualityRaw:
		Warning("Model reply could not be parsed; showing it verbatim")
	case domain.QualityPartial:
		Warning("Model reply was missing fields")
	}

	Section("Summary")
	fmt.Fprintln(stdout, r.Summary)

	if r.Explanation != "" {
		Section("Explanation")
		fmt.Fprintln(stdout, r.Explanation)
	}

	if len(r.KeyTerms) > 0 {
		Section("Key terms")
		for _, t := range r.KeyTerms {
			fmt.Fprintf(stdout, "  • %s\n", t)
		}
	}
}

// FormatDuration formats d as 1h 2m 3s, 2m 3s, 3s or 450ms.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	d = d.Round(time.Second)

	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}
