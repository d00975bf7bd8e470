package domain

import "context"

// Extractor turns an uploaded document into plain text.
type Extractor interface {
	// Extract returns ErrUnsupportedFormat (wrapped) for formats it cannot read.
	Extract(ctx context.Context, doc Document) (*ExtractedDocument, error)
}

// Translator produces a TranslationResult for a request.
type Translator interface {
	// Translate only returns an error for requests rejected by validation.
	Translate(ctx context.Context, req TranslationRequest) (TranslationResult, error)
}
