// Package handlers provides HTTP handlers for the scitrans API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/spherical-ai/scitrans/internal/domain"
	"github.com/spherical-ai/scitrans/internal/observability"
)

// ErrorDTO is the body of every non-2xx response.
type ErrorDTO struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorDTO{Error: code, Message: message})
}

// writeDomainError maps err onto a status code. Client errors are 400; anything
// else is logged and reported as 500.
func writeDomainError(w http.ResponseWriter, logger *observability.Logger, r *http.Request, err error) {
	var de *domain.DomainError
	if errors.As(err, &de) && domain.IsClientError(err) {
		writeError(w, http.StatusBadRequest, string(de.Type), de.Message)
		return
	}

	logger.WithContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	writeError(w, http.StatusInternalServerError, "internal", "request could not be processed")
}
