package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	typography = strings.NewReplacer(
		"\u2018", "'", "\u2019", "'", "\u201a", "'", "\u201b", "'", "\u2032", "'",
		"\u201c", `"`, "\u201d", `"`, "\u201e", `"`, "\u201f", `"`, "\u2033", `"`,
		"\u00ab", `"`, "\u00bb", `"`,
		"\ufb01", "fi", "\ufb02", "fl", "\ufb00", "ff", "\ufb03", "ffi", "\ufb04", "ffl",
		"\u00a0", " ", "\u2009", " ", "\u202f", " ", "\u200b", "",
		"\r\n", "\n", "\r", "\n", "\f", "\n\n",
	)

	hyphenBreak  = regexp.MustCompile(`([\p{L}\p{N}])-\n(\p{Ll})`)
	inlineSpaces = regexp.MustCompile(`[ \t\v]+`)
	numberedHead = regexp.MustCompile(`^(\d+(\.\d+)*\.?|[IVX]+\.)\s+\p{Lu}`)
)

// Clean normalizes extracted text: NFC, straight quotes, no ligatures,
// rejoined hyphenated words, collapsed spaces, and paragraph breaks. Lines that
// look like headings become their own paragraph; wrapped lines are rejoined.
func Clean(s string) string {
	s = norm.NFC.String(s)
	s = typography.Replace(s)
	s = hyphenBreak.ReplaceAllString(s, "$1$2")

	lines := strings.Split(s, "\n")
	paragraphs := make([]string, 0, len(lines)/2+1)
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			paragraphs = append(paragraphs, current.String())
			current.Reset()
		}
	}

	for _, line := range lines {
		line = strings.TrimSpace(inlineSpaces.ReplaceAllString(line, " "))
		switch {
		case line == "":
			flush()
		case isHeading(line):
			flush()
			paragraphs = append(paragraphs, line)
		case isListItem(line):
			flush()
			current.WriteString(line)
		default:
			if current.Len() > 0 {
				current.WriteByte(' ')
			}
			current.WriteString(line)
		}
	}
	flush()

	return strings.Join(paragraphs, "\n\n")
}

// isHeading recognises short all-caps lines and numbered section titles.
func isHeading(line string) bool {
	n := utf8.RuneCountInString(line)
	if n > 80 || strings.ContainsAny(line[len(line)-1:], ".,;") {
		return false
	}

	if numberedHead.MatchString(line) {
		return true
	}

	letters, upper := 0, 0
	for _, r := range line {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	return letters >= 3 && upper == letters
}

func isListItem(line string) bool {
	switch {
	case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "), strings.HasPrefix(line, "• "):
		return true
	}
	return false
}
