package translate

import (
	"context"

	"github.com/spherical-ai/scitrans/internal/domain"
)

// DocumentResult pairs an extracted document with its translation.
type DocumentResult struct {
	Document *domain.ExtractedDocument `json:"document"`
	Result   domain.TranslationResult  `json:"result"`
}

// DocumentService extracts an uploaded document and translates its text.
type DocumentService struct {
	extractor  domain.Extractor
	translator domain.Translator
}

// NewDocumentService creates a new document service.
func NewDocumentService(extractor domain.Extractor, translator domain.Translator) *DocumentService {
	return &DocumentService{extractor: extractor, translator: translator}
}

// TranslateDocument fails for unreadable documents, documents without text,
// and invalid modes. Upstream failures are reported inside the result.
func (d *DocumentService) TranslateDocument(ctx context.Context, doc domain.Document, mode domain.Mode) (*DocumentResult, error) {
	extracted, err := d.extractor.Extract(ctx, doc)
	if err != nil {
		return nil, err
	}

	result, err := d.translator.Translate(ctx, domain.TranslationRequest{
		OriginalText: extracted.Content,
		Mode:         mode,
	})
	if err != nil {
		return nil, err
	}

	return &DocumentResult{Document: extracted, Result: result}, nil
}
