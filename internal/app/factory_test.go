package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical-ai/scitrans/internal/config"
	"github.com/spherical-ai/scitrans/internal/domain"
	"github.com/spherical-ai/scitrans/internal/observability"
)

func TestNewWiresEntityKeyTerms(t *testing.T) {
	gen := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"generated_text":"{\"summary\":\"S\",\"explanation\":\"E\",\"keyTerms\":[\"model\"]}"}]`)
	}))
	defer gen.Close()
	ner := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"word":"cell"},{"word":"glycolysis"}]`)
	}))
	defer ner.Close()

	cfg := config.DefaultConfig()
	cfg.Inference.APIKey = "k"
	cfg.Inference.Endpoint = gen.URL
	cfg.Inference.EntityEndpoint = ner.URL
	cfg.Translation.KeyTermSource = config.KeyTermSourceEntities
	require.NoError(t, cfg.Validate())

	a, err := New(cfg, observability.Nop())
	require.NoError(t, err)

	got, err := a.Translator.Translate(context.Background(), domain.TranslationRequest{OriginalText: "Glycolysis in the cell", Mode: domain.ModeSimplify})
	require.NoError(t, err)
	assert.Equal(t, []string{"glycolysis", "cell"}, got.KeyTerms)

	doc, err := a.Documents.TranslateDocument(context.Background(), domain.Document{FileName: "n.txt", Data: []byte(strings.Repeat("ATP ", 3))}, domain.ModeAcademic)
	require.NoError(t, err)
	assert.Equal(t, "ATP ATP ATP", doc.Result.Original)
}

func TestNewRequiresAPIKey(t *testing.T) {
	cfg := config.DefaultConfig()

	_, err := New(cfg, observability.Nop())

	assert.Equal(t, domain.ErrorTypeConfig, domain.TypeOf(err))
}
