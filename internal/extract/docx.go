package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const docxMainPart = "word/document.xml"

// parseDOCX streams word/document.xml and emits paragraphs and table rows in
// document order, separated by blank lines.
func parseDOCX(ctx context.Context, data []byte) (*Parsed, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening DOCX: %w", err)
	}

	var part *zip.File
	for _, f := range zr.File {
		if f.Name == docxMainPart {
			part = f
			break
		}
	}
	if part == nil {
		return nil, fmt.Errorf("%s not found in DOCX", docxMainPart)
	}

	rc, err := part.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", docxMainPart, err)
	}
	defer rc.Close()

	text, err := walkDocumentXML(ctx, rc)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", docxMainPart, err)
	}
	return &Parsed{Text: text}, nil
}

func walkDocumentXML(ctx context.Context, r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		out       strings.Builder
		para      strings.Builder
		inText    bool
		cellCount int
	)

	flush := func() {
		line := strings.TrimSpace(para.String())
		para.Reset()
		if line != "" {
			out.WriteString(line)
			out.WriteString("\n\n")
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				para.WriteString("\t")
			case "br", "cr":
				para.WriteString("\n")
			case "tr":
				cellCount = 0
			case "tc":
				if cellCount > 0 {
					para.WriteString("\t")
				}
				cellCount++
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				// Paragraphs inside a table cell stay on the row's line.
				if cellCount == 0 {
					flush()
				} else {
					para.WriteString(" ")
				}
			case "tr":
				cellCount = 0
				flush()
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		}
	}
	flush()

	return out.String(), nil
}
