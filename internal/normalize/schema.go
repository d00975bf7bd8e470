package normalize

import (
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/spherical-ai/scitrans/internal/domain"
)

const resultSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["summary", "explanation", "keyTerms"],
  "properties": {
    "summary": {"type": "string", "minLength": 1},
    "explanation": {"type": "string"},
    "keyTerms": {"type": "array", "items": {"type": "string"}}
  }
}`

var compiledSchema = jsonschema.MustCompileString("translation-result.json", resultSchema)

// grade validates the canonical view of obj. A decoded object that misses the
// schema is still usable, but only partially.
func grade(obj map[string]json.RawMessage) domain.Quality {
	canonical := make(map[string]interface{}, 3)
	for _, key := range []string{"summary", "explanation", "keyTerms"} {
		raw, ok := lookupFold(obj, key)
		if !ok {
			continue
		}
		var v interface{}
		if err := json.Unmarshal(raw, &v); err != nil {
			return domain.QualityPartial
		}
		canonical[key] = v
	}

	if err := compiledSchema.Validate(canonical); err != nil {
		return domain.QualityPartial
	}
	return domain.QualityStructured
}
