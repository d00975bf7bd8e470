package translate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical-ai/scitrans/internal/domain"
	"github.com/spherical-ai/scitrans/internal/inference"
)

// fakeGenerator records prompts and replays a fixed response.
type fakeGenerator struct {
	resp    inference.Response
	prompts []string
	panics  bool
}

func (f *fakeGenerator) Call(ctx context.Context, prompt string) inference.Response {
	f.prompts = append(f.prompts, prompt)
	if f.panics {
		panic("decoder exploded")
	}
	return f.resp
}

type fakeEntities struct {
	resp  inference.Response
	texts []string
}

func (f *fakeEntities) CallEntities(ctx context.Context, text string) inference.Response {
	f.texts = append(f.texts, text)
	return f.resp
}

func okResponse(body string) inference.Response {
	return inference.Response{Body: body, StatusCode: 200, Status: "200 OK", Attempts: 1}
}

func TestTranslateRejectsInvalidRequestsBeforeCalling(t *testing.T) {
	tests := []struct {
		name string
		req  domain.TranslationRequest
	}{
		{name: "empty text", req: domain.TranslationRequest{Mode: domain.ModeSimplify}},
		{name: "empty mode", req: domain.TranslationRequest{OriginalText: "ATP"}},
		{name: "unknown mode", req: domain.TranslationRequest{OriginalText: "ATP", Mode: "pirate"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{}
			svc := NewService(gen, nil, Options{})

			_, err := svc.Translate(context.Background(), tt.req)

			require.Error(t, err)
			assert.Equal(t, domain.ErrorTypeValidation, domain.TypeOf(err))
			assert.Empty(t, gen.prompts, "generator must not be invoked")
		})
	}
}

func TestTranslateStructured(t *testing.T) {
	gen := &fakeGenerator{resp: okResponse(`[{"generated_text":"{\"summary\":\"S\",\"explanation\":\"E\",\"keyTerms\":[\"ATP\"]}"}]`)}
	svc := NewService(gen, nil, Options{})

	got, err := svc.Translate(context.Background(), domain.TranslationRequest{OriginalText: "Cells make ATP.", Mode: domain.ModeSimplify})

	require.NoError(t, err)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], `"Cells make ATP."`)
	assert.Contains(t, gen.prompts[0], "science tutor")
	assert.Equal(t, domain.TranslationResult{
		Original:    "Cells make ATP.",
		Mode:        domain.ModeSimplify,
		Summary:     "S",
		Explanation: "E",
		KeyTerms:    []string{"ATP"},
		Quality:     domain.QualityStructured,
	}, got)
}

func TestTranslateDefaultModeUsesPlainPrompt(t *testing.T) {
	gen := &fakeGenerator{resp: okResponse("Cells burn sugar.")}
	svc := NewService(gen, nil, Options{})

	got, err := svc.Translate(context.Background(), domain.TranslationRequest{OriginalText: "x", Mode: domain.ModeDefault})

	require.NoError(t, err)
	assert.Equal(t, "Explain this clearly:\n\"x\"", gen.prompts[0])
	assert.Equal(t, "Cells burn sugar.", got.Summary)
	assert.Equal(t, domain.QualityRaw, got.Quality)
}

func TestTranslateUpstreamStatusError(t *testing.T) {
	gen := &fakeGenerator{resp: inference.Response{Body: `{"error":"Authorization header is invalid"}`, StatusCode: 401, Status: "401 Unauthorized", Attempts: 1}}
	svc := NewService(gen, nil, Options{})

	got, err := svc.Translate(context.Background(), domain.TranslationRequest{OriginalText: "x", Mode: domain.ModeAcademic})

	require.NoError(t, err)
	assert.Equal(t, `API error: 401 Unauthorized - {"error":"Authorization header is invalid"}`, got.Summary)
	assert.Equal(t, domain.QualityError, got.Quality)
	assert.Equal(t, "x", got.Original)
	assert.Equal(t, domain.ModeAcademic, got.Mode)
	assert.NotNil(t, got.KeyTerms)
}

func TestTranslateTransportError(t *testing.T) {
	gen := &fakeGenerator{resp: inference.Response{Attempts: 3, Err: errors.New("dial tcp: connection refused")}}
	svc := NewService(gen, nil, Options{})

	got, err := svc.Translate(context.Background(), domain.TranslationRequest{OriginalText: "x", Mode: domain.ModeConcept})

	require.NoError(t, err)
	assert.Equal(t, "Exception: dial tcp: connection refused", got.Summary)
	assert.Equal(t, domain.QualityError, got.Quality)
	assert.Empty(t, got.KeyTerms)
}

func TestTranslateRecoversPanics(t *testing.T) {
	gen := &fakeGenerator{panics: true}
	svc := NewService(gen, nil, Options{})

	got, err := svc.Translate(context.Background(), domain.TranslationRequest{OriginalText: "x", Mode: domain.ModeConcept})

	require.NoError(t, err)
	assert.Equal(t, "Exception: decoder exploded", got.Summary)
	assert.Equal(t, domain.QualityError, got.Quality)
}

func TestTranslateTruncatesPromptNotResult(t *testing.T) {
	gen := &fakeGenerator{resp: okResponse(`{"summary":"S","explanation":"E","keyTerms":[]}`)}
	svc := NewService(gen, nil, Options{MaxInputChars: 5})

	text := "ααααααααα"
	got, err := svc.Translate(context.Background(), domain.TranslationRequest{OriginalText: text, Mode: domain.ModeDefault})

	require.NoError(t, err)
	assert.Contains(t, gen.prompts[0], `"ααααα"`)
	assert.NotContains(t, gen.prompts[0], "αααααα")
	assert.Equal(t, text, got.Original)
}

func TestTranslateEntityKeyTerms(t *testing.T) {
	body := `{"summary":"S","explanation":"E","keyTerms":["model term"]}`

	t.Run("entities replace model terms", func(t *testing.T) {
		ner := &fakeEntities{resp: okResponse(`[{"word":"glycolysis"},{"word":"cell"},{"word":"glycolysis"},{"word":"ATP generation pathway"}]`)}
		svc := NewService(&fakeGenerator{resp: okResponse(body)}, nil, Options{Entities: ner})

		got, err := svc.Translate(context.Background(), domain.TranslationRequest{OriginalText: "Glycolysis in the cell.", Mode: domain.ModeSimplify})

		require.NoError(t, err)
		assert.Equal(t, []string{"Glycolysis in the cell."}, ner.texts)
		assert.Equal(t, []string{"ATP generation pathway", "glycolysis", "cell"}, got.KeyTerms)
	})

	t.Run("entity failure keeps model terms", func(t *testing.T) {
		ner := &fakeEntities{resp: inference.Response{StatusCode: 503, Status: "503 Service Unavailable", Attempts: 3}}
		svc := NewService(&fakeGenerator{resp: okResponse(body)}, nil, Options{Entities: ner})

		got, err := svc.Translate(context.Background(), domain.TranslationRequest{OriginalText: "x", Mode: domain.ModeSimplify})

		require.NoError(t, err)
		assert.Equal(t, []string{"model term"}, got.KeyTerms)
	})

	t.Run("not called on upstream error", func(t *testing.T) {
		ner := &fakeEntities{}
		gen := &fakeGenerator{resp: inference.Response{StatusCode: 500, Status: "500 Internal Server Error"}}
		svc := NewService(gen, nil, Options{Entities: ner})

		_, err := svc.Translate(context.Background(), domain.TranslationRequest{OriginalText: "x", Mode: domain.ModeSimplify})

		require.NoError(t, err)
		assert.Empty(t, ner.texts)
	})
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", truncateRunes("abc", 0))
	assert.Equal(t, "abc", truncateRunes("abc", 3))
	assert.Equal(t, "ab", truncateRunes("abc", 2))
	assert.Equal(t, "日本", truncateRunes("日本語", 2))
	assert.Equal(t, strings.Repeat("a", 10), truncateRunes(strings.Repeat("a", 20), 10))
}
