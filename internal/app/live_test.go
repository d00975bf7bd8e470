//go:build integration

package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical-ai/scitrans/internal/config"
	"github.com/spherical-ai/scitrans/internal/domain"
	"github.com/spherical-ai/scitrans/internal/observability"
)

func init() {
	_ = godotenv.Load("../../.env")
}

// TestLiveDocumentTranslation runs extract and translate against the real
// inference endpoint. Set SCITRANS_SAMPLE_DOC to a PDF/DOCX to include extraction.
func TestLiveDocumentTranslation(t *testing.T) {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		t.Skipf("no usable configuration: %v", err)
	}

	a, err := New(cfg, observability.DefaultLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	path := os.Getenv("SCITRANS_SAMPLE_DOC")
	if path == "" {
		res, err := a.Translator.Translate(ctx, domain.TranslationRequest{
			OriginalText: "Mitochondria generate ATP through oxidative phosphorylation.",
			Mode:         domain.ModeSimplify,
		})
		require.NoError(t, err)
		assert.NotEqual(t, domain.QualityError, res.Quality, res.Summary)
		assert.NotEmpty(t, res.Summary)
		t.Logf("quality=%s summary=%q keyTerms=%v", res.Quality, res.Summary, res.KeyTerms)
		return
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	out, err := a.Documents.TranslateDocument(ctx, domain.Document{FileName: filepath.Base(path), Data: data}, domain.ModeConcept)
	require.NoError(t, err)
	assert.Positive(t, out.Document.Words)
	assert.NotEqual(t, domain.QualityError, out.Result.Quality, out.Result.Summary)
	t.Logf("pages=%d words=%d quality=%s", out.Document.Pages, out.Document.Words, out.Result.Quality)
}
