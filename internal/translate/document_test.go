package translate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical-ai/scitrans/internal/domain"
)

type stubExtractor struct {
	doc *domain.ExtractedDocument
	err error
}

func (s stubExtractor) Extract(ctx context.Context, doc domain.Document) (*domain.ExtractedDocument, error) {
	return s.doc, s.err
}

func TestTranslateDocument(t *testing.T) {
	gen := &fakeGenerator{resp: okResponse(`{"summary":"S","explanation":"E","keyTerms":["k"]}`)}
	ext := stubExtractor{doc: &domain.ExtractedDocument{FileName: "notes.txt", Format: domain.FormatText, Content: "Enzymes lower activation energy.", Words: 4}}
	svc := NewDocumentService(ext, NewService(gen, nil, Options{}))

	got, err := svc.TranslateDocument(context.Background(), domain.Document{FileName: "notes.txt"}, domain.ModeAcademic)

	require.NoError(t, err)
	assert.Equal(t, "notes.txt", got.Document.FileName)
	assert.Equal(t, "Enzymes lower activation energy.", got.Result.Original)
	assert.Equal(t, "S", got.Result.Summary)
	assert.Contains(t, gen.prompts[0], "academic researcher")
}

func TestTranslateDocumentPropagatesExtractionErrors(t *testing.T) {
	gen := &fakeGenerator{}
	svc := NewDocumentService(stubExtractor{err: domain.UnsupportedFormatError("odt")}, NewService(gen, nil, Options{}))

	_, err := svc.TranslateDocument(context.Background(), domain.Document{FileName: "x.odt"}, domain.ModeSimplify)

	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	assert.Empty(t, gen.prompts)
}

func TestTranslateDocumentEmptyContentIsValidationError(t *testing.T) {
	gen := &fakeGenerator{}
	ext := stubExtractor{doc: &domain.ExtractedDocument{FileName: "blank.pdf", Content: ""}}
	svc := NewDocumentService(ext, NewService(gen, nil, Options{}))

	_, err := svc.TranslateDocument(context.Background(), domain.Document{FileName: "blank.pdf"}, domain.ModeSimplify)

	assert.Equal(t, domain.ErrorTypeValidation, domain.TypeOf(err))
	assert.Empty(t, gen.prompts)
}
