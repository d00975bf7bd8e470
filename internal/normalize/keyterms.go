package normalize

import (
	"encoding/json"
	"sort"
	"strings"
	"unicode/utf8"
)

// MaxEntityKeyTerms caps the list produced by KeyTermsFromEntities.
const MaxEntityKeyTerms = 5

// KeyTermsFromEntities derives key terms from recognised entity words: unique
// entries, longest first, ties kept in first-seen order, at most five.
func KeyTermsFromEntities(words []string) []string {
	terms := CleanKeyTerms(words)
	sort.SliceStable(terms, func(i, j int) bool {
		return utf8.RuneCountInString(terms[i]) > utf8.RuneCountInString(terms[j])
	})
	if len(terms) > MaxEntityKeyTerms {
		terms = terms[:MaxEntityKeyTerms]
	}
	return terms
}

type entity struct {
	Word        string  `json:"word"`
	EntityGroup string  `json:"entity_group"`
	Entity      string  `json:"entity"`
	Score       float64 `json:"score"`
}

// ParseEntities reads a token-classification body (flat or batched) and returns
// the entity words, merging "##" word pieces into the preceding word.
// Anything unparseable yields an empty slice.
func ParseEntities(raw string) []string {
	data := []byte(strings.TrimSpace(raw))

	var flat []entity
	if err := json.Unmarshal(data, &flat); err != nil {
		var batched [][]entity
		if err := json.Unmarshal(data, &batched); err != nil {
			return []string{}
		}
		for _, b := range batched {
			flat = append(flat, b...)
		}
	}

	words := make([]string, 0, len(flat))
	for _, e := range flat {
		w := strings.TrimSpace(e.Word)
		if w == "" {
			continue
		}
		if piece, ok := strings.CutPrefix(w, "##"); ok {
			if piece == "" {
				continue
			}
			if n := len(words); n > 0 {
				words[n-1] += piece
				continue
			}
			w = piece
		}
		words = append(words, w)
	}
	return words
}
