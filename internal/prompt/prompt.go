// Package prompt builds the instruction text sent to the inference endpoint.
package prompt

import (
	"strings"

	"github.com/spherical-ai/scitrans/internal/domain"
)

const inputPlaceholder = "{input}"

var templates = map[domain.Mode]string{
	domain.ModeSimplify: "You are a science tutor explaining to a high school student. " +
		"Rewrite the following in very simple English. Keep it short, friendly, and easy to understand:\n\n" +
		"\"{input}\"\n\n" +
		"Your response should include:\n" +
		"1. A short summary\n" +
		"2. A simple explanation\n" +
		"3. A list of key terms\n" +
		"Format the output in JSON with keys: summary, explanation, keyTerms.",

	domain.ModeAcademic: "You are an academic researcher. Rewrite the following sentence with technical precision " +
		"and scholarly tone, elaborating on relevant terms and theories. Keep it under 300 words.\n\n" +
		"\"{input}\"\n\n" +
		"Return the response as a JSON object with: summary, explanation, keyTerms.",

	domain.ModeConcept: "Break down this concept by identifying its main components, their relationships, " +
		"and real-world examples. Structure the response with labeled sections and format it as JSON:\n\n" +
		"\"{input}\"\n\n" +
		"Your response should include:\n" +
		"1. summary\n" +
		"2. explanation\n" +
		"3. keyTerms\n" +
		"Optionally add components and examples arrays.",
}

const fallbackTemplate = "Explain this clearly:\n\"{input}\""

// Build returns the prompt for text under mode. Mode matching is exact and
// case-sensitive; anything unrecognised, including "default", gets the plain
// explanation prompt. text is embedded verbatim.
func Build(text string, mode domain.Mode) string {
	tmpl, ok := templates[mode]
	if !ok {
		tmpl = fallbackTemplate
	}
	return strings.Replace(tmpl, inputPlaceholder, text, 1)
}

// AsksForJSON reports whether mode's template requests a JSON response.
func AsksForJSON(mode domain.Mode) bool {
	_, ok := templates[mode]
	return ok
}
