package pattern

import (
	"strings"
	"sync"
)

// Content piece field ids.
const (
	FieldWeek                = "week"
	FieldTitle               = "title"
	FieldSuggestedDate       = "suggested_date"
	FieldChannel             = "channel"
	FieldFormat              = "format"
	FieldPillar              = "pillar"
	FieldKeyMessage          = "key_message"
	FieldDescription         = "description"
	FieldCallToAction        = "call_to_action"
	FieldEffortLevel         = "effort_level"
	FieldEffortExplanation   = "effort_explanation"
	FieldEngagementPotential = "engagement_potential"
	FieldEngagementReasoning = "engagement_reasoning"
	FieldSEOKeyword          = "seo_keyword"
	FieldExecutionNotes      = "execution_notes"
)

// Strategy and recommendation field ids.
const (
	FieldStrategyName     = "strategy_name"
	FieldTagline          = "tagline"
	FieldCoreApproach     = "core_approach"
	FieldPostingFrequency = "posting_frequency"
	FieldContentMix       = "content_mix"
	FieldStrategyEffort   = "strategy_effort"
	FieldExpectedResults  = "expected_results"
	FieldBestStrategy     = "best_strategy"
	FieldReasoning        = "reasoning"
)

// Section ids.
const (
	SectionExecutiveSummary = "executive_summary"
	SectionCalendarPillars  = "calendar_pillars"
	SectionSuccessMetrics   = "success_metrics"
	SectionQuickWins        = "quick_wins"
	SectionStrategyPillars  = "strategy_pillars"
	SectionIdeas            = "ideas"
	SectionPros             = "pros"
	SectionCons             = "cons"
	SectionWeek1Actions     = "week_1_actions"
)

// Marker ids.
const (
	MarkerContentHeader  = "content_header"
	MarkerStrategyHeader = "strategy_header"
	MarkerRecommendation = "recommendation"
	MarkerCalendarEnd    = "calendar_section"
	MarkerWeekHeading    = "week_heading"
	MarkerNumberedItem   = "numbered_item"
	MarkerListItem       = "list_item"
	MarkerPillarLine     = "pillar_line"
	MarkerBulletPair     = "bullet_pair"
	MarkerInlineDate     = "inline_date"
	MarkerHeading        = "heading"
	MarkerBoldField      = "bold_field"
	MarkerFieldStart     = "field_start"
	MarkerStrategyNumber = "strategy_number"
)

// DefaultVersion is the version of the built-in pattern set.
const DefaultVersion = "1.0.0"

const (
	// labelPrefix anchors a label at line start or after a "|" separator,
	// optionally behind a bullet.
	labelPrefix = `(?:^|\|)[ \t]*(?:[-•*>][ \t]*)?`

	// sepAny accepts a colon or plain whitespace between label and value.
	// After a colon the value may start on the next line.
	sepAny = `(?:[ \t]*:[ \t]*(?:\n[ \t]*)?|[ \t]+)`

	// sepColon requires a colon. Used where a label is a prefix of another
	// label ("Effort" vs "Effort Explanation").
	sepColon = `[ \t]*:[ \t]*(?:\n[ \t]*)?`

	// lineValue captures up to the end of line or the next "|".
	lineValue = `([^\n|]+)`

	// blockPrefix allows a markdown heading, a quote and bold emphasis before
	// a block header. Bulleted lines are list items, never headers.
	blockPrefix = `^[ \t]*(?:#{1,6}[ \t]*)?(?:>[ \t]*)?(?:\*\*|__)?[ \t]*`

	contentHeader = blockPrefix + `content[ \t]*(?:piece[ \t]*)?#?[ \t]*(\d+)\b`
)

func labelField(id, labels, sep string, multiline bool) Field {
	return Field{
		ID:        id,
		Pattern:   labelPrefix + `(?:` + labels + `)` + sep + lineValue,
		Multiline: multiline,
	}
}

// sectionStart builds a heading pattern that accepts "## LABEL", "**Label:**",
// "**Label**:", "Label:" and a bare "Label" line.
func sectionStart(labels string) string {
	return `^[ \t]*(?:#{1,6}[ \t]*)?(?:[-•*>][ \t]+)?(?:\*\*)?[ \t]*(?:` + labels +
		`)[ \t]*(?:\*\*[ \t]*:?|:[ \t]*(?:\*\*)?|$)[ \t]*`
}

// sectionLine matches a line that opens with one of labels, with the same
// decorations sectionStart accepts.
func sectionLine(labels string) string {
	return `^[ \t]*(?:#{1,6}[ \t]*)?(?:[-•*>][ \t]+)?(?:\*\*)?[ \t]*(?:` + labels + `)\b`
}

// labelLine matches an unbulleted line holding one of labels followed by a
// colon or the end of the line.
func labelLine(labels string) string {
	return `^[ \t]*(?:\*\*)?[ \t]*(?:` + labels + `)[ \t]*(?:\*\*)?[ \t]*(?::|$)`
}

const (
	monthNames = `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?`

	calendarSections = `executive[ \t]+summary|weekly[ \t]+breakdown|content[ \t]+mix|success[ \t]+metrics|kpis|quick[ \t]+wins?|content[ \t]+pillars`

	strategyLabels = `(?:strategy[ \t]+)?name|tagline|(?:core[ \t]+)?approach|content[ \t]+(?:mix|pillars)|posting[^:\n]*|` +
		`top[ \t]+\d+[^:\n]*|(?:content[ \t]+)?ideas|(?:estimated[ \t]+)?effort[^:\n]*|expected[^:\n]*|pros`
)

// calendarStop ends a calendar-level section at the next calendar section
// label or content header line.
var calendarStop = labelLine(calendarSections) + `|` + contentHeader

// DefaultSet returns a new, uncompiled copy of the built-in pattern table.
func DefaultSet() *Set {
	return &Set{
		Name:        "default",
		Version:     DefaultVersion,
		Description: "Built-in patterns for content calendars and strategy documents",
		Fields: []Field{
			labelField(FieldWeek, `week`, sepAny, false),
			labelField(FieldTitle, `title|headline`, sepAny, false),
			labelField(FieldSuggestedDate, `(?:suggested[ \t]+|publish(?:ing)?[ \t]+|post(?:ing)?[ \t]+)?date`, sepAny, false),
			labelField(FieldChannel, `channel|platform`, sepAny, false),
			labelField(FieldFormat, `(?:content[ \t]+)?format`, sepAny, false),
			labelField(FieldPillar, `(?:content[ \t]+)?pillar`, sepAny, false),
			labelField(FieldKeyMessage, `(?:key[ \t]+|core[ \t]+)?message`, sepAny, false),
			labelField(FieldDescription, `description`, sepAny, true),
			labelField(FieldCallToAction, `call[ \t-]+to[ \t-]+action|cta`, sepAny, false),
			labelField(FieldEffortLevel, `effort(?:[ \t]+level)?`, sepColon, false),
			labelField(FieldEffortExplanation, `effort[ \t]+(?:explanation|reasoning|notes)`, sepAny, false),
			labelField(FieldEngagementPotential, `engagement(?:[ \t]+potential)?`, sepColon, false),
			labelField(FieldEngagementReasoning, `engagement[ \t]+(?:reasoning|explanation)`, sepAny, false),
			labelField(FieldSEOKeyword, `seo(?:[ \t]+keywords?)?|(?:target[ \t]+)?keywords?`, sepAny, false),
			labelField(FieldExecutionNotes, `execution[ \t]+notes|production[ \t]+notes|notes`, sepAny, true),

			labelField(FieldStrategyName, `(?:strategy[ \t]+)?name`, sepAny, false),
			labelField(FieldTagline, `tagline`, sepAny, false),
			labelField(FieldCoreApproach, `(?:core[ \t]+)?approach`, sepAny, true),
			labelField(FieldPostingFrequency, `posting[ \t]+(?:frequency|cadence)|cadence`, sepAny, false),
			labelField(FieldContentMix, `content[ \t]+mix`, sepAny, false),
			labelField(FieldStrategyEffort, `(?:estimated[ \t]+)?effort(?:[ \t]+(?:hours|required))?`, sepColon, false),
			labelField(FieldExpectedResults, `expected[ \t]+(?:results|outcomes)`, sepAny, false),
			labelField(FieldBestStrategy, `(?:best|recommended)[ \t]+strategy`, sepColon, false),
			labelField(FieldReasoning, `why|reasoning|rationale`, sepColon, true),
		},
		Sections: []Section{
			{
				ID:    SectionExecutiveSummary,
				Start: sectionStart(`executive[ \t]+summary`),
				Stop:  calendarStop,
			},
			{
				ID:    SectionCalendarPillars,
				Start: sectionStart(`content[ \t]+pillars`),
				Stop:  calendarStop,
				Keep:  sectionLine(`pillar[ \t]+\d+`),
			},
			{
				ID:    SectionSuccessMetrics,
				Start: sectionStart(`success[ \t]+metrics|kpis`),
				Stop:  calendarStop,
			},
			{
				ID:    SectionQuickWins,
				Start: sectionStart(`quick[ \t]+wins?`),
				Stop:  calendarStop,
			},
			{
				ID:    SectionStrategyPillars,
				Start: sectionStart(`content[ \t]+pillars|pillars`),
				Stop:  labelLine(`posting[^:\n]*|cadence|content[ \t]+mix|top[ \t]+\d+[^:\n]*|(?:content[ \t]+)?ideas|pros|cons`),
			},
			{
				ID:    SectionIdeas,
				Start: sectionStart(`(?:top[ \t]+\d+[ \t]+)?(?:content[ \t]+)?ideas`),
				Stop:  labelLine(`estimated[^:\n]*|effort[^:\n]*|expected[^:\n]*|pros|cons`),
			},
			{
				ID:    SectionPros,
				Start: sectionStart(`pros|advantages|strengths`),
				Stop:  labelLine(`cons|disadvantages|challenges|risks`),
			},
			{
				ID:    SectionCons,
				Start: sectionStart(`cons|disadvantages|challenges|risks`),
				Stop:  labelLine(strategyLabels),
			},
			{
				ID:    SectionWeek1Actions,
				Start: sectionStart(`week[ \t]*1[ \t]+action[ \t]+plan|week[ \t]*1[ \t]+actions|next[ \t]+steps`),
			},
		},
		Markers: []Marker{
			{ID: MarkerContentHeader, Pattern: contentHeader + `(.*)$`},
			{ID: MarkerStrategyHeader, Pattern: blockPrefix + `strategy[ \t]*#?[ \t]*(\d+)\b(.*)$`},
			{ID: MarkerRecommendation, Pattern: blockPrefix + `(?:final[ \t]+)?recommendations?\b`},
			{ID: MarkerCalendarEnd, Pattern: blockPrefix + `(?:executive[ \t]+summary|weekly[ \t]+breakdown|content[ \t]+mix|success[ \t]+metrics|quick[ \t]+wins?|content[ \t]+pillars)\b`},
			{ID: MarkerWeekHeading, Pattern: `^[ \t]*(?:#{1,6}[ \t]*(?:\*\*|__)?[ \t]*week[ \t]*\d+\b[^\n|]*|(?:\*\*|__)[ \t]*week[ \t]*\d+[ \t]*:?[ \t]*(?:\*\*|__)[ \t]*:?[ \t]*)$`},
			{ID: MarkerNumberedItem, Pattern: `^[ \t]*(\d+)[.)][ \t]*(\S.*)$`},
			{ID: MarkerListItem, Pattern: `^[ \t]*(?:\d+[.)]|[-•*])[ \t]*(\S.*)$`},
			{ID: MarkerPillarLine, Pattern: `\bpillar[ \t]+(\d+)[ \t]*[:.)\-–—]*[ \t]*(\S.*)$`},
			{ID: MarkerBulletPair, Pattern: `^[ \t]*[-•*][ \t]*([^:\n]+?)[ \t]*:[ \t]*(\S.*)$`},
			{ID: MarkerInlineDate, Pattern: `\b((?:` + monthNames + `)\.?[ \t]+\d{1,2}(?:st|nd|rd|th)?(?:,?[ \t]+\d{4})?|\d{4}-\d{2}-\d{2}|\d{1,2}/\d{1,2}(?:/\d{2,4})?)\b`},
			{ID: MarkerHeading, Pattern: `^[ \t]*#{1,6}[ \t]`},
			{ID: MarkerBoldField, Pattern: `^[ \t]*\*\*[ \t]*[a-z]`},
			{ID: MarkerFieldStart, Pattern: `^[ \t]*(?:[-•*>][ \t]*)?[\w \t]*:`},
			{ID: MarkerStrategyNumber, Pattern: `(?:strategy[ \t]*#?[ \t]*)?(\d+)`},
		},
	}
}

var (
	defaultOnce sync.Once
	defaultSet  *Set
)

// Default returns the shared, compiled built-in set. The returned set must
// not be modified. It panics if the built-in table fails to compile, as
// regexp.MustCompile does.
func Default() *Set {
	defaultOnce.Do(func() {
		set := DefaultSet()
		if err := set.Compile(); err != nil {
			panic("pattern: built-in set: " + err.Error())
		}
		defaultSet = set
	})
	return defaultSet
}

// Labels reports the alternation of labels a field pattern accepts, for
// display. It returns the raw pattern when the field was not built from a
// label table.
func Labels(field Field) string {
	body := strings.TrimPrefix(field.Pattern, labelPrefix+`(?:`)
	if body == field.Pattern {
		return field.Pattern
	}
	for _, sep := range []string{`)` + sepAny + lineValue, `)` + sepColon + lineValue} {
		if strings.HasSuffix(body, sep) {
			return strings.TrimSuffix(body, sep)
		}
	}
	return field.Pattern
}
