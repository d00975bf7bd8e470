package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spherical-ai/scitrans/internal/domain"
)

func TestBuildModes(t *testing.T) {
	text := "Photosynthesis converts light energy into chemical energy."

	tests := []struct {
		mode     domain.Mode
		contains []string
		json     bool
	}{
		{mode: domain.ModeSimplify, contains: []string{"science tutor", "high school student", "very simple English", "summary, explanation, keyTerms"}, json: true},
		{mode: domain.ModeAcademic, contains: []string{"academic researcher", "scholarly tone", "under 300 words", "summary, explanation, keyTerms"}, json: true},
		{mode: domain.ModeConcept, contains: []string{"main components", "relationships", "real-world examples", "keyTerms"}, json: true},
		{mode: domain.ModeDefault, contains: []string{"Explain this clearly:"}},
		{mode: "unknown", contains: []string{"Explain this clearly:"}},
		{mode: "", contains: []string{"Explain this clearly:"}},
		{mode: "SIMPLIFY", contains: []string{"Explain this clearly:"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			p := Build(text, tt.mode)
			assert.Contains(t, p, `"`+text+`"`)
			for _, s := range tt.contains {
				assert.Contains(t, p, s)
			}
			assert.Equal(t, tt.json, AsksForJSON(tt.mode))
			if !tt.json {
				assert.NotContains(t, p, "JSON")
			}
		})
	}
}

func TestBuildFallbackExact(t *testing.T) {
	assert.Equal(t, "Explain this clearly:\n\"ATP\"", Build("ATP", "poetic"))
}

func TestBuildEmbedsTextVerbatimOnce(t *testing.T) {
	text := "  keeps {input} and \"quotes\" and\nnewlines  "
	p := Build(text, domain.ModeSimplify)
	assert.Equal(t, 1, strings.Count(p, text))
	assert.Contains(t, p, "\"  keeps {input}")
}

func TestBuildIsDeterministic(t *testing.T) {
	assert.Equal(t, Build("x", domain.ModeAcademic), Build("x", domain.ModeAcademic))
}
