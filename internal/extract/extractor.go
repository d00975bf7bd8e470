// Package extract turns uploaded documents into cleaned plain text.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/spherical-ai/scitrans/internal/domain"
	"github.com/spherical-ai/scitrans/internal/observability"
)

// Parser reads the raw text of one document format.
type Parser interface {
	Parse(ctx context.Context, data []byte) (*Parsed, error)
}

// ParserFunc adapts a function to Parser.
type ParserFunc func(ctx context.Context, data []byte) (*Parsed, error)

func (f ParserFunc) Parse(ctx context.Context, data []byte) (*Parsed, error) { return f(ctx, data) }

// Parsed is a parser's uncleaned output.
type Parsed struct {
	Text  string
	Pages int
}

// Options configures the Service.
type Options struct {
	PDFBackend string // "pure" (default) or "mupdf"
	MaxPages   int
}

// Service implements domain.Extractor over a format registry.
type Service struct {
	parsers map[domain.Format]Parser
	logger  *observability.Logger
}

var _ domain.Extractor = (*Service)(nil)

// NewService creates an extractor with every built-in format registered.
func NewService(logger *observability.Logger, opts Options) *Service {
	if logger == nil {
		logger = observability.Nop()
	}

	var pdf Parser = PurePDF{MaxPages: opts.MaxPages}
	if opts.PDFBackend == "mupdf" {
		pdf = MuPDF{MaxPages: opts.MaxPages}
	}

	s := &Service{
		parsers: make(map[domain.Format]Parser),
		logger:  logger.WithOperation("extract"),
	}
	s.Register(domain.FormatPDF, pdf)
	s.Register(domain.FormatDOCX, ParserFunc(parseDOCX))
	s.Register(domain.FormatXLSX, ParserFunc(parseXLSX))
	s.Register(domain.FormatText, ParserFunc(parsePlainText))
	s.Register(domain.FormatMarkdown, ParserFunc(parsePlainText))
	return s
}

// Register adds or replaces the parser for format.
func (s *Service) Register(format domain.Format, p Parser) {
	s.parsers[format] = p
}

// Supported reports whether format has a parser.
func (s *Service) Supported(format domain.Format) bool {
	_, ok := s.parsers[format]
	return ok
}

// Extract parses and cleans doc. When doc.Format is empty it is detected from
// the file name and content.
func (s *Service) Extract(ctx context.Context, doc domain.Document) (*domain.ExtractedDocument, error) {
	if len(doc.Data) == 0 {
		return nil, domain.ValidationError("document is empty", nil)
	}

	format := doc.Format
	if format == "" {
		format = DetectFormat(doc.FileName, doc.Data)
	}

	parser, ok := s.parsers[format]
	if !ok {
		return nil, domain.UnsupportedFormatError(displayFormat(format, doc.FileName))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parsed, err := parser.Parse(ctx, doc.Data)
	if err != nil {
		s.logger.WithContext(ctx).Warn().Err(err).Str("file", doc.FileName).Str("format", string(format)).Msg("Extraction failed")
		if domain.TypeOf(err) != "" {
			return nil, err
		}
		return nil, domain.ExtractionError(fmt.Sprintf("could not read %s document", format), err)
	}

	content := Clean(parsed.Text)
	out := &domain.ExtractedDocument{
		FileName: doc.FileName,
		Format:   format,
		Content:  content,
		Pages:    parsed.Pages,
		Words:    len(strings.FieldsFunc(content, unicode.IsSpace)),
	}

	s.logger.WithContext(ctx).Info().
		Str("file", doc.FileName).
		Str("format", string(format)).
		Int("pages", out.Pages).
		Int("words", out.Words).
		Msg("Document extracted")

	return out, nil
}

var (
	pdfMagic = []byte("%PDF-")
	zipMagic = []byte("PK\x03\x04")
)

// DetectFormat maps a file name extension to a Format, falling back to magic
// bytes for PDF and office containers. The result may be unsupported.
func DetectFormat(fileName string, data []byte) domain.Format {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), ".")); ext {
	case "pdf":
		return domain.FormatPDF
	case "docx":
		return domain.FormatDOCX
	case "xlsx":
		return domain.FormatXLSX
	case "txt", "text":
		return domain.FormatText
	case "md", "markdown":
		return domain.FormatMarkdown
	case "":
		// sniff below
	default:
		return domain.Format(ext)
	}

	switch {
	case bytes.HasPrefix(data, pdfMagic):
		return domain.FormatPDF
	case bytes.HasPrefix(data, zipMagic):
		if bytes.Contains(data, []byte("word/")) {
			return domain.FormatDOCX
		}
		if bytes.Contains(data, []byte("xl/")) {
			return domain.FormatXLSX
		}
	}
	return ""
}

func displayFormat(format domain.Format, fileName string) string {
	if format != "" {
		return string(format)
	}
	if fileName != "" {
		return fileName
	}
	return "unknown"
}
