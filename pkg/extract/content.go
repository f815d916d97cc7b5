package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/coolbeans/contentplan/pkg/pattern"
	"github.com/coolbeans/contentplan/pkg/types"
)

// Tier identifies the block detection strategy that produced the pieces.
type Tier int

const (
	// TierNone means no blocks of either kind were found.
	TierNone Tier = iota
	// TierStructured means "Content #N" header blocks were found.
	TierStructured
	// TierNumberedList means the text was read as a plain numbered list.
	TierNumberedList
)

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierStructured:
		return "structured"
	case TierNumberedList:
		return "numbered-list"
	default:
		return "none"
	}
}

// SkipReason classifies a dropped block.
type SkipReason string

const (
	// SkipMalformedID means the block number is not a usable positive integer.
	SkipMalformedID SkipReason = "malformed_id"
)

// Skip records a block that was dropped while parsing continued.
type Skip struct {
	Tier   Tier       `json:"tier"`
	Line   int        `json:"line"`
	Header string     `json:"header"`
	Reason SkipReason `json:"reason"`
	Err    error      `json:"-"`
}

// String returns a one-line description of the skip.
func (s Skip) String() string {
	return fmt.Sprintf("line %d: %s (%v): %q", s.Line, s.Reason, s.Err, strings.TrimSpace(s.Header))
}

// PieceExtraction is the outcome of content piece extraction.
type PieceExtraction struct {
	// Pieces are in source order. Duplicate ids are kept.
	Pieces  []types.ContentPiece
	Tier    Tier
	Skipped []Skip
}

var digitsPattern = regexp.MustCompile(`\d+`)

// parseID parses a block number as a positive id.
func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parsing id %q: %w", raw, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("id %d is not positive", id)
	}
	return id, nil
}

// firstInt returns the first integer in text.
func firstInt(text string) (int, bool) {
	digits := digitsPattern.FindString(text)
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ContentPieces returns the pieces found in calendar text.
func (p *Parser) ContentPieces(text string) []types.ContentPiece {
	return p.ExtractContentPieces(text).Pieces
}

// ExtractContentPieces segments calendar text into content pieces.
//
// Structured "Content #N" blocks are tried first. Only when the text holds no
// such header at all is it read as a numbered list, one minimal piece per
// "N. title" line. Blocks with an unusable number are skipped and reported.
func (p *Parser) ExtractContentPieces(text string) PieceExtraction {
	text = normalizeNewlines(text)
	result := PieceExtraction{
		Pieces:  []types.ContentPiece{},
		Skipped: []Skip{},
	}

	blocks := splitBlocks(text, p.contentHeader, nil, p.calendarEnd, p.weekHeading)
	if len(blocks) > 0 {
		result.Tier = TierStructured
		for _, b := range blocks {
			id, err := parseID(b.Number)
			if err != nil {
				result.Skipped = append(result.Skipped, p.skip(TierStructured, b.Line, b.Header, err))
				continue
			}
			result.Pieces = append(result.Pieces, p.parsePiece(id, b))
		}
		return result
	}

	for _, line := range splitLines(text) {
		m := p.numberedItem.FindStringSubmatch(line.text)
		if m == nil {
			continue
		}
		id, err := parseID(m[1])
		if err != nil {
			result.Skipped = append(result.Skipped, p.skip(TierNumberedList, line.number, line.text, err))
			continue
		}
		result.Pieces = append(result.Pieces, types.NewContentPiece(id, cleanTitle(m[2])))
	}
	if len(result.Pieces) > 0 || len(result.Skipped) > 0 {
		result.Tier = TierNumberedList
		p.logger.Debug("no content headers found, read calendar as numbered list",
			zap.Int("pieces", len(result.Pieces)))
	}
	return result
}

func (p *Parser) skip(tier Tier, line int, header string, err error) Skip {
	p.logger.Debug("skipping content block",
		zap.Stringer("tier", tier),
		zap.Int("line", line),
		zap.String("header", header),
		zap.Error(err))
	return Skip{
		Tier:   tier,
		Line:   line,
		Header: header,
		Reason: SkipMalformedID,
		Err:    err,
	}
}

// parsePiece builds a piece from one structured block. Fields absent from
// the block keep their defaults.
func (p *Parser) parsePiece(id int, b block) types.ContentPiece {
	piece := types.NewContentPiece(id, "")

	suffix := cleanTitle(b.Suffix)
	fields := stripEmphasis(b.Body)
	if strings.Contains(suffix, "|") {
		fields = suffix + "\n" + fields
	}

	title := p.headerTitle(suffix)
	if title == "" {
		title, _ = p.extract(pattern.FieldTitle, fields)
	}
	if title != "" {
		piece.Title = title
	}

	if week, ok := p.extract(pattern.FieldWeek, fields); ok {
		if n, ok := firstInt(week); ok && n > 0 {
			piece.Week = n
		}
	}

	if date, ok := p.extract(pattern.FieldSuggestedDate, fields); ok {
		piece.SuggestedDate = date
	} else {
		piece.SuggestedDate = p.inlineDateOf(b)
	}

	textFields := []struct {
		id  string
		dst *string
	}{
		{pattern.FieldChannel, &piece.Channel},
		{pattern.FieldFormat, &piece.Format},
		{pattern.FieldPillar, &piece.Pillar},
		{pattern.FieldKeyMessage, &piece.KeyMessage},
		{pattern.FieldDescription, &piece.Description},
		{pattern.FieldCallToAction, &piece.CallToAction},
		{pattern.FieldEffortExplanation, &piece.EffortExplanation},
		{pattern.FieldEngagementReasoning, &piece.EngagementReasoning},
		{pattern.FieldSEOKeyword, &piece.SEOKeyword},
		{pattern.FieldExecutionNotes, &piece.ExecutionNotes},
	}
	for _, f := range textFields {
		if value, ok := p.extract(f.id, fields); ok {
			*f.dst = value
		}
	}

	if effort, ok := p.extract(pattern.FieldEffortLevel, fields); ok {
		piece.EffortLevel = types.NormalizeLevel(effort)
	}
	if engagement, ok := p.extract(pattern.FieldEngagementPotential, fields); ok {
		piece.EngagementPotential = types.NormalizeLevel(engagement)
	}

	return piece
}

// pieceFieldIDs are the fields that mark a header remainder as a field row
// rather than a title.
var pieceFieldIDs = []string{
	pattern.FieldWeek, pattern.FieldSuggestedDate, pattern.FieldChannel,
	pattern.FieldFormat, pattern.FieldPillar, pattern.FieldKeyMessage,
	pattern.FieldDescription, pattern.FieldCallToAction,
	pattern.FieldEffortLevel, pattern.FieldEngagementPotential,
	pattern.FieldSEOKeyword,
}

// headerTitle reads the title from a header remainder: a "Title:" label
// first, else the text before the first "|". A remainder that is itself a
// "Label: value" field yields no title.
func (p *Parser) headerTitle(suffix string) string {
	if suffix == "" {
		return ""
	}
	if title, ok := p.labelled(pattern.FieldTitle, suffix); ok {
		return title
	}

	first := suffix
	if i := strings.IndexByte(first, '|'); i >= 0 {
		first = first[:i]
	}
	first = cleanTitle(first)
	if first == "" {
		return ""
	}
	if p.fieldStart.MatchString(first) {
		for _, id := range pieceFieldIDs {
			if _, ok := p.labelled(id, first); ok {
				return ""
			}
		}
	}
	return first
}

// labelled extracts field id from a header remainder. There a label counts
// only when a colon follows it, so "Headline Writing 101" stays a title.
func (p *Parser) labelled(id, text string) (string, bool) {
	field := p.set.Field(id)
	if field == nil || field.Regexp() == nil {
		return "", false
	}
	loc := field.Regexp().FindStringSubmatchIndex(text)
	if loc == nil || len(loc) < 4 || loc[2] < 0 || !strings.Contains(text[loc[0]:loc[2]], ":") {
		return "", false
	}
	return p.extract(id, text)
}

// inlineDateOf finds an unlabelled date on the header line or the first
// non-blank body line.
func (p *Parser) inlineDateOf(b block) string {
	candidates := []string{stripEmphasis(b.Header)}
	for _, line := range strings.Split(b.Body, "\n") {
		if !isBlank(line) {
			candidates = append(candidates, stripEmphasis(line))
			break
		}
	}
	for _, line := range candidates {
		if m := p.inlineDate.FindStringSubmatch(line); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}
