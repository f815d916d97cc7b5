// Package extract recovers structured content calendars and strategies from
// loosely formatted generated text.
//
// Every lookup goes through a pattern.Set, so labels and headings can be
// extended without touching the extraction code. Parsing never fails on
// malformed input: absent fields take their defaults and unusable blocks are
// skipped and reported.
package extract

import (
	"fmt"
	"regexp"
	"sync"

	"go.uber.org/zap"

	"github.com/coolbeans/contentplan/pkg/pattern"
	"github.com/coolbeans/contentplan/pkg/types"
)

// Parser extracts calendars and strategies using a compiled pattern set.
// A Parser holds no per-call state and is safe for concurrent use.
type Parser struct {
	set    *pattern.Set
	logger *zap.Logger

	// Markers resolved once at construction.
	contentHeader  *regexp.Regexp
	strategyHeader *regexp.Regexp
	recommendation *regexp.Regexp
	calendarEnd    *regexp.Regexp
	weekHeading    *regexp.Regexp
	numberedItem   *regexp.Regexp
	listItem       *regexp.Regexp
	pillarLine     *regexp.Regexp
	bulletPair     *regexp.Regexp
	inlineDate     *regexp.Regexp
	heading        *regexp.Regexp
	boldField      *regexp.Regexp
	fieldStart     *regexp.Regexp
	strategyNumber *regexp.Regexp
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for skipped blocks and tier fallback.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// requiredFields are the field ids a pattern set must define.
var requiredFields = []string{
	pattern.FieldWeek, pattern.FieldTitle, pattern.FieldSuggestedDate,
	pattern.FieldChannel, pattern.FieldFormat, pattern.FieldPillar,
	pattern.FieldKeyMessage, pattern.FieldDescription, pattern.FieldCallToAction,
	pattern.FieldEffortLevel, pattern.FieldEffortExplanation,
	pattern.FieldEngagementPotential, pattern.FieldEngagementReasoning,
	pattern.FieldSEOKeyword, pattern.FieldExecutionNotes,
	pattern.FieldStrategyName, pattern.FieldTagline, pattern.FieldCoreApproach,
	pattern.FieldPostingFrequency, pattern.FieldContentMix,
	pattern.FieldStrategyEffort, pattern.FieldExpectedResults,
	pattern.FieldBestStrategy, pattern.FieldReasoning,
}

var requiredSections = []string{
	pattern.SectionExecutiveSummary, pattern.SectionCalendarPillars,
	pattern.SectionSuccessMetrics, pattern.SectionQuickWins,
	pattern.SectionStrategyPillars, pattern.SectionIdeas,
	pattern.SectionPros, pattern.SectionCons, pattern.SectionWeek1Actions,
}

// NewParser creates a parser over set. A nil set selects the built-in
// patterns. An uncompiled set is compiled in place.
func NewParser(set *pattern.Set, opts ...Option) (*Parser, error) {
	if set == nil {
		set = pattern.Default()
	}
	if !set.IsCompiled() {
		if err := set.Compile(); err != nil {
			return nil, fmt.Errorf("compiling pattern set %q: %w", set.Name, err)
		}
	}

	for _, id := range requiredFields {
		if set.Field(id) == nil {
			return nil, fmt.Errorf("pattern set %q has no field %q", set.Name, id)
		}
	}
	for _, id := range requiredSections {
		if set.Section(id) == nil {
			return nil, fmt.Errorf("pattern set %q has no section %q", set.Name, id)
		}
	}

	p := &Parser{set: set, logger: zap.NewNop()}
	markers := []struct {
		id  string
		dst **regexp.Regexp
	}{
		{pattern.MarkerContentHeader, &p.contentHeader},
		{pattern.MarkerStrategyHeader, &p.strategyHeader},
		{pattern.MarkerRecommendation, &p.recommendation},
		{pattern.MarkerCalendarEnd, &p.calendarEnd},
		{pattern.MarkerWeekHeading, &p.weekHeading},
		{pattern.MarkerNumberedItem, &p.numberedItem},
		{pattern.MarkerListItem, &p.listItem},
		{pattern.MarkerPillarLine, &p.pillarLine},
		{pattern.MarkerBulletPair, &p.bulletPair},
		{pattern.MarkerInlineDate, &p.inlineDate},
		{pattern.MarkerHeading, &p.heading},
		{pattern.MarkerBoldField, &p.boldField},
		{pattern.MarkerFieldStart, &p.fieldStart},
		{pattern.MarkerStrategyNumber, &p.strategyNumber},
	}
	for _, m := range markers {
		marker := set.Marker(m.id)
		if marker == nil {
			return nil, fmt.Errorf("pattern set %q has no marker %q", set.Name, m.id)
		}
		*m.dst = marker.Regexp()
	}

	if p.contentHeader.NumSubexp() < 2 || p.strategyHeader.NumSubexp() < 2 {
		return nil, fmt.Errorf("pattern set %q: block header markers need a number and a remainder group", set.Name)
	}
	if p.numberedItem.NumSubexp() < 2 || p.pillarLine.NumSubexp() < 2 || p.bulletPair.NumSubexp() < 2 {
		return nil, fmt.Errorf("pattern set %q: item markers need two capture groups", set.Name)
	}
	if p.listItem.NumSubexp() < 1 || p.inlineDate.NumSubexp() < 1 || p.strategyNumber.NumSubexp() < 1 {
		return nil, fmt.Errorf("pattern set %q: list, date and number markers need a capture group", set.Name)
	}

	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// PatternSet returns the compiled set the parser uses.
func (p *Parser) PatternSet() *pattern.Set {
	return p.set
}

func (p *Parser) extract(id, block string) (string, bool) {
	return extractField(p.set.Field(id), block, p.fieldStart)
}

func (p *Parser) section(id, text string) (sectionBody, bool) {
	return section(p.set.Section(id), text, p.heading, p.boldField)
}

var defaultParser = sync.OnceValue(func() *Parser {
	parser, err := NewParser(nil)
	if err != nil {
		panic("extract: built-in parser: " + err.Error())
	}
	return parser
})

// Default returns the shared parser over the built-in patterns.
func Default() *Parser {
	return defaultParser()
}

// ParseCalendar parses calendar text with the built-in patterns.
func ParseCalendar(text string) types.CalendarResult {
	return Default().ParseCalendar(text)
}

// ContentPieces extracts content pieces with the built-in patterns.
func ContentPieces(text string) []types.ContentPiece {
	return Default().ContentPieces(text)
}

// ParseStrategies parses strategies text with the built-in patterns.
func ParseStrategies(text string) []types.ContentStrategy {
	return Default().ParseStrategies(text)
}

// ParseRecommendation parses the recommendation section with the built-in
// patterns.
func ParseRecommendation(text string) (types.Recommendation, bool) {
	return Default().ParseRecommendation(text)
}
