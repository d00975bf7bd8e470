package extract

import (
	"bytes"
	"context"
	"unicode/utf8"

	"github.com/spherical-ai/scitrans/internal/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func parsePlainText(ctx context.Context, data []byte) (*Parsed, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, domain.ValidationError("text document is not valid UTF-8", nil)
	}
	return &Parsed{Text: string(data)}, nil
}
