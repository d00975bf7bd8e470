// Package translate orchestrates a single translation: validate, prompt, call, normalize.
package translate

import (
	"context"
	"fmt"
	"time"

	"github.com/spherical-ai/scitrans/internal/domain"
	"github.com/spherical-ai/scitrans/internal/inference"
	"github.com/spherical-ai/scitrans/internal/normalize"
	"github.com/spherical-ai/scitrans/internal/observability"
	"github.com/spherical-ai/scitrans/internal/prompt"
)

// Generator sends a prompt to the text generation model.
type Generator interface {
	Call(ctx context.Context, prompt string) inference.Response
}

// EntityRecognizer sends text to a token-classification model.
type EntityRecognizer interface {
	CallEntities(ctx context.Context, text string) inference.Response
}

// Options tunes the Service.
type Options struct {
	// Entities, when set, replaces model-generated key terms with recognised entities.
	Entities EntityRecognizer
	// MaxInputChars truncates the prompted text (in runes). Zero disables truncation.
	MaxInputChars int
}

// Service implements domain.Translator.
type Service struct {
	gen    Generator
	opts   Options
	logger *observability.Logger
}

var _ domain.Translator = (*Service)(nil)

// NewService creates a new translation service.
func NewService(gen Generator, logger *observability.Logger, opts Options) *Service {
	if logger == nil {
		logger = observability.Nop()
	}
	return &Service{
		gen:    gen,
		opts:   opts,
		logger: logger.WithOperation("translate"),
	}
}

// Translate validates req and returns a result. The only error it returns is a
// validation error; upstream and parsing failures become degraded results.
func (s *Service) Translate(ctx context.Context, req domain.TranslationRequest) (result domain.TranslationResult, err error) {
	if err := req.Validate(); err != nil {
		return domain.TranslationResult{}, err
	}

	log := s.logger.WithContext(ctx)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("panic", fmt.Sprint(r)).Msg("Translation panicked")
			result = failure(req, fmt.Sprintf("Exception: %v", r))
			err = nil
		}
	}()

	text := truncateRunes(req.OriginalText, s.opts.MaxInputChars)
	p := prompt.Build(text, req.Mode)
	log.Debug().Str("state", "prompt_built").Str("mode", string(req.Mode)).Int("prompt_len", len(p)).Msg("Prompt built")

	resp := s.gen.Call(ctx, p)
	log.Debug().Str("state", "response_received").Int("status", resp.StatusCode).Int("attempts", resp.Attempts).Msg("Upstream responded")

	switch {
	case resp.Err != nil:
		result = failure(req, "Exception: "+resp.Err.Error())
		log.Warn().Err(resp.Err).Int("attempts", resp.Attempts).Msg("Upstream call failed")
	case !resp.OK():
		result = failure(req, fmt.Sprintf("API error: %s - %s", resp.Status, resp.Body))
		log.Warn().Int("status", resp.StatusCode).Int("attempts", resp.Attempts).Msg("Upstream returned error status")
	default:
		result = normalize.Normalize(resp.Body, req.OriginalText, req.Mode)
		if s.opts.Entities != nil {
			s.applyEntityKeyTerms(ctx, text, &result)
		}
	}

	log.Info().
		Str("mode", string(req.Mode)).
		Str("quality", string(result.Quality)).
		Int("key_terms", len(result.KeyTerms)).
		Dur("duration", time.Since(start)).
		Msg("Translation complete")

	return result, nil
}

// applyEntityKeyTerms swaps in entity-derived key terms when the recognizer yields any.
func (s *Service) applyEntityKeyTerms(ctx context.Context, text string, result *domain.TranslationResult) {
	resp := s.opts.Entities.CallEntities(ctx, text)
	if !resp.OK() {
		s.logger.WithContext(ctx).Warn().Err(resp.Err).Int("status", resp.StatusCode).Msg("Entity extraction failed, keeping model key terms")
		return
	}

	terms := normalize.KeyTermsFromEntities(normalize.ParseEntities(resp.Body))
	if len(terms) > 0 {
		result.KeyTerms = terms
	}
}

func failure(req domain.TranslationRequest, summary string) domain.TranslationResult {
	return domain.TranslationResult{
		Original:    req.OriginalText,
		Mode:        req.Mode,
		Summary:     summary,
		Explanation: "",
		KeyTerms:    []string{},
		Quality:     domain.QualityError,
	}
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
