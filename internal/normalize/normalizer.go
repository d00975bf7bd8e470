// Package normalize turns an arbitrary upstream body into a TranslationResult.
//
// Normalization is total: every input produces a result. The body is pushed
// through an ordered list of stages; the first stage that cannot make progress
// sends the body to the raw passthrough, which always succeeds.
package normalize

import (
	"strings"

	"github.com/spherical-ai/scitrans/internal/domain"
)

// attempt carries the state threaded through the stages.
type attempt struct {
	raw       string // upstream body, untouched
	candidate string // text believed to contain the model output
	object    string // substring expected to hold a JSON object
	fields    fields
	quality   domain.Quality
}

// fields is the structural shape the model is asked to produce.
type fields struct {
	Summary     string   `json:"summary"`
	Explanation string   `json:"explanation"`
	KeyTerms    []string `json:"keyTerms"`
}

type stage struct {
	name string
	run  func(*attempt) bool
}

// pipeline runs in order; a stage returning false ends structured parsing.
var pipeline = []stage{
	{name: "unwrap_envelope", run: unwrapEnvelope},
	{name: "slice_object", run: sliceObject},
	{name: "decode_fields", run: decodeFields},
}

// Normalize maps raw into a TranslationResult for original and mode. It never fails.
func Normalize(raw, original string, mode domain.Mode) domain.TranslationResult {
	a := &attempt{raw: raw}
	for _, s := range pipeline {
		if !s.run(a) {
			return RawPassthrough(raw, original, mode)
		}
	}

	return domain.TranslationResult{
		Original:    original,
		Mode:        mode,
		Summary:     a.fields.Summary,
		Explanation: a.fields.Explanation,
		KeyTerms:    CleanKeyTerms(a.fields.KeyTerms),
		Quality:     a.quality,
	}
}

// RawPassthrough is the unconditional last resort: the body becomes the summary.
func RawPassthrough(raw, original string, mode domain.Mode) domain.TranslationResult {
	return domain.TranslationResult{
		Original:    original,
		Mode:        mode,
		Summary:     raw,
		Explanation: "",
		KeyTerms:    []string{},
		Quality:     domain.QualityRaw,
	}
}

// CleanKeyTerms trims entries, drops empties and duplicates, and never returns nil.
func CleanKeyTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	seen := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
