package extract

import (
	"regexp"
	"strings"

	"github.com/coolbeans/contentplan/pkg/pattern"
)

// Extract applies field to block and returns the cleaned value. It reports
// false when the field is absent or its value is empty after trimming.
// Multiline fields continue onto following non-blank lines that do not open
// with "word(s):".
func Extract(field *pattern.Field, block string) (string, bool) {
	return extractField(field, block, defaultFieldStart)
}

func extractField(field *pattern.Field, block string, fieldStart *regexp.Regexp) (string, bool) {
	if field == nil || field.Regexp() == nil {
		return "", false
	}

	loc := firstValue(field.Regexp(), block, fieldStart)
	if loc == nil {
		return "", false
	}

	value := block[loc[2]:loc[3]]
	if field.Multiline {
		value += continuation(block[loc[3]:], fieldStart)
	}

	value = cleanValue(value)
	return value, value != ""
}

// firstValue returns the submatch indexes of the first match of re whose
// value is usable. A label with nothing after its colon takes the next line
// as its value, unless that line is another label or a heading.
func firstValue(re *regexp.Regexp, block string, fieldStart *regexp.Regexp) []int {
	for _, loc := range re.FindAllStringSubmatchIndex(block, -1) {
		if len(loc) < 4 || loc[2] < 0 {
			continue
		}
		if strings.Contains(block[loc[0]:loc[2]], "\n") {
			line := block[loc[2]:loc[3]]
			if matchesAny(line, fieldStart) || strings.HasPrefix(strings.TrimSpace(line), "#") {
				continue
			}
		}
		return loc
	}
	return nil
}

// continuation returns the lines that extend a value whose first line ended
// at the start of rest. A value cut short by a "|" separator never continues.
func continuation(rest string, fieldStart *regexp.Regexp) string {
	newline := strings.IndexByte(rest, '\n')
	if newline < 0 || strings.TrimSpace(rest[:newline]) != "" {
		return ""
	}

	var b strings.Builder
	for _, line := range strings.Split(rest[newline+1:], "\n") {
		if isBlank(line) || matchesAny(line, fieldStart) {
			break
		}
		b.WriteByte('\n')
		b.WriteString(strings.TrimRight(line, " \t"))
	}
	return b.String()
}

// sectionBody is the text under a section heading.
type sectionBody struct {
	// Inline is the remainder of the heading line.
	Inline string
	// Lines are the following lines up to the section end.
	Lines []textLine
}

// Text joins the inline remainder and the body lines.
func (b sectionBody) Text() string {
	body := joinLines(b.Lines)
	inline := strings.TrimSpace(b.Inline)
	switch {
	case inline == "":
		return strings.TrimSpace(body)
	case strings.TrimSpace(body) == "":
		return inline
	}
	return strings.TrimSpace(inline + "\n" + body)
}

// Items returns the non-blank lines of the body, list markers removed. The
// inline remainder counts as the first item.
func (b sectionBody) Items(listItem *regexp.Regexp) []string {
	items := []string{}
	add := func(line string) {
		if m := listItem.FindStringSubmatch(line); m != nil {
			line = m[1]
		}
		if line = cleanValue(line); line != "" {
			items = append(items, line)
		}
	}
	if !isBlank(b.Inline) {
		add(b.Inline)
	}
	for _, line := range b.Lines {
		add(line.text)
	}
	return items
}

// section locates the first section heading in text and collects its body.
// The body ends at a markdown heading, a bold field line or a stop line,
// unless the line matches the section's keep pattern.
func section(sec *pattern.Section, text string, heading, boldField *regexp.Regexp) (sectionBody, bool) {
	if sec == nil || sec.StartRegexp() == nil {
		return sectionBody{}, false
	}

	loc := sec.StartRegexp().FindStringIndex(text)
	if loc == nil {
		return sectionBody{}, false
	}

	rest := text[loc[1]:]
	var body sectionBody
	newline := strings.IndexByte(rest, '\n')
	if newline < 0 {
		body.Inline = rest
		return body, true
	}
	body.Inline = rest[:newline]

	firstLine := strings.Count(text[:loc[1]], "\n") + 2
	for i, line := range strings.Split(rest[newline+1:], "\n") {
		if !matchesAny(line, sec.KeepRegexp()) &&
			matchesAny(line, heading, boldField, sec.StopRegexp()) {
			break
		}
		body.Lines = append(body.Lines, textLine{text: line, number: firstLine + i})
	}
	return body, true
}
