package domain

import (
	"strings"
	"unicode/utf8"
)

// Mode selects the prompt template used for a translation.
type Mode string

const (
	ModeSimplify Mode = "simplify"
	ModeAcademic Mode = "academic"
	ModeConcept  Mode = "concept"
	ModeDefault  Mode = "default"
)

// Modes lists every mode accepted at the request boundary.
var Modes = []Mode{ModeSimplify, ModeAcademic, ModeConcept, ModeDefault}

// Valid reports whether m is one of Modes. Matching is exact.
func (m Mode) Valid() bool {
	for _, known := range Modes {
		if m == known {
			return true
		}
	}
	return false
}

// Quality records which path produced a TranslationResult.
type Quality string

const (
	// QualityStructured: embedded JSON decoded and passed the shape check.
	QualityStructured Quality = "structured"
	// QualityPartial: embedded JSON decoded but required keys were missing.
	QualityPartial Quality = "partial"
	// QualityRaw: nothing parseable, Summary holds the upstream body verbatim.
	QualityRaw Quality = "raw"
	// QualityError: Summary describes a transport or upstream failure.
	QualityError Quality = "error"
)

// TranslationRequest is the caller's input to a translation.
type TranslationRequest struct {
	OriginalText string `json:"originalText"`
	Mode         Mode   `json:"mode"`
}

// Validate rejects requests that must not reach the upstream.
func (r TranslationRequest) Validate() error {
	if strings.TrimSpace(r.OriginalText) == "" {
		return ValidationError("originalText is required", nil)
	}
	if !utf8.ValidString(r.OriginalText) {
		return ValidationError("originalText must be valid UTF-8", nil)
	}
	if r.Mode == "" {
		return ValidationError("mode is required", nil)
	}
	if !r.Mode.Valid() {
		return ValidationError("unknown mode "+string(r.Mode), nil)
	}
	return nil
}

// TranslationResult is the structured response returned for every accepted request.
type TranslationResult struct {
	Original    string   `json:"original"`
	Mode        Mode     `json:"mode"`
	Summary     string   `json:"summary"`
	Explanation string   `json:"explanation"`
	KeyTerms    []string `json:"keyTerms"`
	Quality     Quality  `json:"quality"`
}

// Format identifies an uploaded document's container type.
type Format string

const (
	FormatPDF      Format = "pdf"
	FormatDOCX     Format = "docx"
	FormatXLSX     Format = "xlsx"
	FormatText     Format = "txt"
	FormatMarkdown Format = "md"
)

// Document is an uploaded file awaiting extraction.
type Document struct {
	FileName string
	Format   Format
	Data     []byte
}

// ExtractedDocument holds the cleaned text of a Document.
type ExtractedDocument struct {
	FileName string `json:"fileName"`
	Format   Format `json:"format"`
	Content  string `json:"content"`
	Pages    int    `json:"pages,omitempty"`
	Words    int    `json:"words"`
}
