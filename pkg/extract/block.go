package extract

import (
	"regexp"
)

// block is the text between one header line and the next block boundary.
type block struct {
	// Line is the 1-based line number of the header.
	Line int
	// Header is the full header line.
	Header string
	// Number is the raw number captured from the header.
	Number string
	// Suffix is the header remainder after the number.
	Suffix string
	// Body is the text after the header line.
	Body string
}

// splitBlocks cuts text into blocks opened by lines matching header. A block
// runs to the next header, the next line matching one of ends, or the end of
// text. Lines matching final end the last block and stop the scan.
func splitBlocks(text string, header, final *regexp.Regexp, ends ...*regexp.Regexp) []block {
	var (
		blocks  []block
		current *block
		body    []textLine
	)

	closeBlock := func() {
		if current == nil {
			return
		}
		current.Body = joinLines(body)
		blocks = append(blocks, *current)
		current, body = nil, nil
	}

	for _, line := range splitLines(text) {
		if matchesAny(line.text, final) {
			break
		}
		if m := header.FindStringSubmatch(line.text); m != nil {
			closeBlock()
			current = &block{
				Line:   line.number,
				Header: line.text,
				Number: m[1],
				Suffix: m[2],
			}
			continue
		}
		if current == nil {
			continue
		}
		if matchesAny(line.text, ends...) {
			closeBlock()
			continue
		}
		body = append(body, line)
	}
	closeBlock()

	return blocks
}
