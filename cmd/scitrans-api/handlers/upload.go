package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/spherical-ai/scitrans/internal/domain"
	"github.com/spherical-ai/scitrans/internal/observability"
)

const formFileField = "file"

// UploadHandler extracts text from uploaded documents.
type UploadHandler struct {
	logger    *observability.Logger
	extractor domain.Extractor
	maxBytes  int64
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(logger *observability.Logger, extractor domain.Extractor, maxBytes int64) *UploadHandler {
	return &UploadHandler{
		logger:    logger,
		extractor: extractor,
		maxBytes:  maxBytes,
	}
}

// UploadResponseDTO is returned by Upload.
type UploadResponseDTO struct {
	FileName string        `json:"fileName"`
	Format   domain.Format `json:"format"`
	Content  string        `json:"content"`
	Pages    int           `json:"pages,omitempty"`
	Words    int           `json:"words"`
}

// Upload handles POST /api/translate/upload.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	doc, status, err := readDocument(w, r, h.maxBytes)
	if err != nil {
		writeError(w, status, "invalid_upload", err.Error())
		return
	}

	extracted, err := h.extractor.Extract(r.Context(), doc)
	if err != nil {
		writeDomainError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, UploadResponseDTO{
		FileName: extracted.FileName,
		Format:   extracted.Format,
		Content:  extracted.Content,
		Pages:    extracted.Pages,
		Words:    extracted.Words,
	})
}

// readDocument pulls the multipart file field into memory, bounded by maxBytes.
func readDocument(w http.ResponseWriter, r *http.Request, maxBytes int64) (domain.Document, int, error) {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}

	file, header, err := r.FormFile(formFileField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.Document{}, http.StatusRequestEntityTooLarge, errors.New("file exceeds upload limit")
		}
		return domain.Document{}, http.StatusBadRequest, errors.New("multipart field \"file\" is required")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return domain.Document{}, http.StatusBadRequest, errors.New("could not read uploaded file")
	}
	if len(data) == 0 {
		return domain.Document{}, http.StatusBadRequest, errors.New("no file uploaded")
	}

	return domain.Document{FileName: header.Filename, Data: data}, http.StatusOK, nil
}
