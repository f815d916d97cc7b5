package extract

import (
	"regexp"
	"strings"
)

var (
	// emphasisPattern matches markdown bold and underline markers.
	emphasisPattern = regexp.MustCompile(`\*\*|__`)

	// defaultFieldStart is the continuation rule used by Extract: a line that
	// opens with "word(s):", bulleted or not, starts a new field.
	defaultFieldStart = regexp.MustCompile(`^[ \t]*(?:[-•*>][ \t]*)?[\w \t]*:`)
)

// valueTrimChars are stripped from both ends of every extracted value.
const valueTrimChars = " \t\r\n-•\"'*"

// titleTrimChars are stripped from a title taken from a block header.
const titleTrimChars = " \t:-*\"'–—#_"

// normalizeNewlines converts CRLF and CR line endings to LF.
func normalizeNewlines(text string) string {
	if !strings.Contains(text, "\r") {
		return text
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// stripEmphasis removes bold and underline markers so "**Channel:** X" reads
// as "Channel: X".
func stripEmphasis(text string) string {
	return emphasisPattern.ReplaceAllString(text, "")
}

// cleanValue trims whitespace and stray list and quote characters.
func cleanValue(value string) string {
	return strings.Trim(value, valueTrimChars)
}

// cleanTitle trims a header remainder down to a title.
func cleanTitle(value string) string {
	return strings.Trim(stripEmphasis(value), titleTrimChars)
}

// textLine is one line of a document and its position.
type textLine struct {
	text   string
	number int // 1-based
}

func splitLines(text string) []textLine {
	if text == "" {
		return nil
	}
	raw := strings.Split(text, "\n")
	lines := make([]textLine, len(raw))
	for i, line := range raw {
		lines[i] = textLine{text: line, number: i + 1}
	}
	return lines
}

func joinLines(lines []textLine) string {
	parts := make([]string, len(lines))
	for i, line := range lines {
		parts[i] = line.text
	}
	return strings.Join(parts, "\n")
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// matchesAny reports whether line matches one of patterns. Nil patterns are
// ignored.
func matchesAny(line string, patterns ...*regexp.Regexp) bool {
	for _, re := range patterns {
		if re != nil && re.MatchString(line) {
			return true
		}
	}
	return false
}
