// Package main provides the API router setup.
package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/spherical-ai/scitrans/cmd/scitrans-api/handlers"
	"github.com/spherical-ai/scitrans/cmd/scitrans-api/middleware"
	"github.com/spherical-ai/scitrans/internal/app"
)

// NewRouter creates the main API router with all routes configured.
func NewRouter(a *app.App) http.Handler {
	cfg := a.Config
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(a.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.Use(chimiddleware.Timeout(cfg.Server.RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"healthy","service":"scitrans"}`))
	})

	translation := handlers.NewTranslationHandler(a.Logger, a.Translator, a.Documents, cfg.Server.MaxUploadBytes)
	upload := handlers.NewUploadHandler(a.Logger, a.Extractor, cfg.Server.MaxUploadBytes)

	r.Route("/api/translate", func(r chi.Router) {
		if cfg.RateLimit.Enabled {
			r.Use(middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst).Middleware)
		}

		r.Post("/", translation.Translate)
		r.Post("/upload", upload.Upload)
		r.Post("/document", translation.Document)
	})

	return r
}
