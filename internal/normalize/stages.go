package normalize

import (
	"bytes"
	"encoding/json"
	"strings"
)

// envelopeKeys are the generated-text fields of known inference task shapes.
var envelopeKeys = []string{"generated_text", "translation_text"}

// unwrapEnvelope replaces the candidate with the generated text when the body
// is an inference envelope; otherwise the body itself is the candidate.
func unwrapEnvelope(a *attempt) bool {
	a.candidate = a.raw

	trimmed := strings.TrimSpace(a.raw)
	switch {
	case strings.HasPrefix(trimmed, "["):
		var items []map[string]json.RawMessage
		if err := json.Unmarshal([]byte(trimmed), &items); err != nil || len(items) == 0 {
			return true
		}
		if text, ok := envelopeText(items[0]); ok {
			a.candidate = text
		}
	case strings.HasPrefix(trimmed, "{"):
		var obj map[string]json.RawMessage
		if err := json.Unmarshal([]byte(trimmed), &obj); err != nil {
			return true
		}
		if _, structured := lookupFold(obj, "summary"); structured {
			return true
		}
		if text, ok := envelopeText(obj); ok {
			a.candidate = text
		}
	}
	return true
}

func envelopeText(obj map[string]json.RawMessage) (string, bool) {
	for _, key := range envelopeKeys {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s, true
		}
	}
	return "", false
}

// sliceObject narrows the candidate to the span between the first '{' and the
// last '}'. Without such a span the whole candidate is kept.
func sliceObject(a *attempt) bool {
	start := strings.Index(a.candidate, "{")
	end := strings.LastIndex(a.candidate, "}")
	if start >= 0 && end > start {
		a.object = a.candidate[start : end+1]
	} else {
		a.object = a.candidate
	}
	return true
}

// decodeFields decodes the object with case-insensitive key matching and grades it.
func decodeFields(a *attempt) bool {
	data := bytes.TrimSpace([]byte(a.object))
	if len(data) == 0 || data[0] != '{' {
		return false
	}

	var f fields
	if err := json.Unmarshal(data, &f); err != nil {
		return false
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return false
	}

	// An object with none of the expected keys is some other payload, e.g. an error.
	known := false
	for _, key := range []string{"summary", "explanation", "keyTerms"} {
		if _, ok := lookupFold(obj, key); ok {
			known = true
			break
		}
	}
	if !known {
		return false
	}

	a.fields = f
	a.quality = grade(obj)
	return true
}

// lookupFold finds key in obj ignoring case, as encoding/json does when decoding.
func lookupFold(obj map[string]json.RawMessage, key string) (json.RawMessage, bool) {
	if v, ok := obj[key]; ok {
		return v, true
	}
	for k, v := range obj {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}
