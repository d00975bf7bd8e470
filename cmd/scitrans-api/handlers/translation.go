package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/spherical-ai/scitrans/internal/domain"
	"github.com/spherical-ai/scitrans/internal/observability"
	"github.com/spherical-ai/scitrans/internal/translate"
)

// TranslationHandler serves translation requests.
type TranslationHandler struct {
	logger     *observability.Logger
	translator domain.Translator
	documents  *translate.DocumentService
	maxBytes   int64
}

// NewTranslationHandler creates a new translation handler.
func NewTranslationHandler(logger *observability.Logger, translator domain.Translator, documents *translate.DocumentService, maxBytes int64) *TranslationHandler {
	return &TranslationHandler{
		logger:     logger,
		translator: translator,
		documents:  documents,
		maxBytes:   maxBytes,
	}
}

// DocumentResponseDTO is returned by Document.
type DocumentResponseDTO struct {
	FileName string                   `json:"fileName"`
	Format   domain.Format            `json:"format"`
	Words    int                      `json:"words"`
	Result   domain.TranslationResult `json:"result"`
}

// Translate handles POST /api/translate.
func (h *TranslationHandler) Translate(w http.ResponseWriter, r *http.Request) {
	var req domain.TranslationRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "request body must be JSON {originalText, mode}")
		return
	}

	result, err := h.translator.Translate(r.Context(), req)
	if err != nil {
		writeDomainError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Document handles POST /api/translate/document?mode=<mode>.
func (h *TranslationHandler) Document(w http.ResponseWriter, r *http.Request) {
	doc, status, err := readDocument(w, r, h.maxBytes)
	if err != nil {
		writeError(w, status, "invalid_upload", err.Error())
		return
	}

	// The multipart form is parsed by now, so a "mode" form field works too.
	mode := domain.Mode(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = domain.Mode(r.FormValue("mode"))
	}

	out, err := h.documents.TranslateDocument(r.Context(), doc, mode)
	if err != nil {
		writeDomainError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, DocumentResponseDTO{
		FileName: out.Document.FileName,
		Format:   out.Document.Format,
		Words:    out.Document.Words,
		Result:   out.Result,
	})
}
