// Package app wires configuration into the services shared by every entrypoint.
package app

import (
	"github.com/spherical-ai/scitrans/internal/config"
	"github.com/spherical-ai/scitrans/internal/extract"
	"github.com/spherical-ai/scitrans/internal/inference"
	"github.com/spherical-ai/scitrans/internal/observability"
	"github.com/spherical-ai/scitrans/internal/translate"
)

// App holds the constructed services.
type App struct {
	Config     *config.Config
	Logger     *observability.Logger
	Client     *inference.Client
	Translator *translate.Service
	Extractor  *extract.Service
	Documents  *translate.DocumentService
}

// NewLogger builds the logger described by cfg.
func NewLogger(cfg *config.Config, service string) *observability.Logger {
	name := cfg.Observability.ServiceName
	if service != "" {
		name = service
	}
	return observability.NewLogger(observability.LogConfig{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: name,
	})
}

// New constructs every service from cfg. It fails only on configuration errors.
func New(cfg *config.Config, logger *observability.Logger, opts ...inference.Option) (*App, error) {
	opts = append([]inference.Option{inference.WithLogger(logger.WithOperation("inference"))}, opts...)

	client, err := inference.NewClient(inference.Config{
		APIKey:           cfg.Inference.APIKey,
		Endpoint:         cfg.Inference.Endpoint,
		EntityEndpoint:   cfg.Inference.EntityEndpoint,
		MaxAttempts:      cfg.Inference.MaxAttempts,
		RetryDelay:       cfg.Inference.RetryDelay,
		Timeout:          cfg.Inference.Timeout,
		MaxResponseBytes: cfg.Inference.MaxResponseBytes,
		MaxConcurrent:    cfg.Inference.MaxConcurrent,
	}, opts...)
	if err != nil {
		return nil, err
	}

	topts := translate.Options{MaxInputChars: cfg.Translation.MaxInputChars}
	if cfg.Translation.KeyTermSource == config.KeyTermSourceEntities && client.HasEntityEndpoint() {
		topts.Entities = client
	}
	translator := translate.NewService(client, logger, topts)

	extractor := extract.NewService(logger, extract.Options{
		PDFBackend: cfg.Extraction.PDFBackend,
		MaxPages:   cfg.Extraction.MaxPages,
	})

	logger.Debug().
		Str("endpoint", cfg.Inference.Endpoint).
		Str("key_terms", cfg.Translation.KeyTermSource).
		Str("pdf_backend", cfg.Extraction.PDFBackend).
		Msg("Services initialised")

	return &App{
		Config:     cfg,
		Logger:     logger,
		Client:     client,
		Translator: translator,
		Extractor:  extractor,
		Documents:  translate.NewDocumentService(extractor, translator),
	}, nil
}
