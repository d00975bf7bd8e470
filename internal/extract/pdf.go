package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"

	"github.com/spherical-ai/scitrans/internal/domain"
)

// PurePDF reads PDF text with a pure Go parser.
type PurePDF struct {
	MaxPages int
}

func (p PurePDF) Parse(ctx context.Context, data []byte) (parsed *Parsed, err error) {
	// The parser panics on some malformed xref tables.
	defer func() {
		if r := recover(); r != nil {
			parsed, err = nil, fmt.Errorf("reading PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}

	total := reader.NumPage()
	if total == 0 {
		return nil, domain.ValidationError("PDF has no pages", nil)
	}

	var sb strings.Builder
	for i := 1; i <= limitPages(total, p.MaxPages); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Broken content streams are common; keep what the other pages give.
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}

	return &Parsed{Text: sb.String(), Pages: total}, nil
}

// MuPDF reads PDF text through MuPDF. It needs cgo or a bundled libmupdf.
type MuPDF struct {
	MaxPages int
}

func (m MuPDF) Parse(ctx context.Context, data []byte) (*Parsed, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	total := doc.NumPage()
	if total == 0 {
		return nil, domain.ValidationError("PDF has no pages", nil)
	}

	var sb strings.Builder
	for i := 0; i < limitPages(total, m.MaxPages); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := doc.Text(i)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}

	return &Parsed{Text: sb.String(), Pages: total}, nil
}

func limitPages(total, max int) int {
	if max > 0 && total > max {
		return max
	}
	return total
}
