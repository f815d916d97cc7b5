package types

import (
	"fmt"
	"regexp"
	"strconv"
)

// PiecesPerWeek is the number of content pieces scheduled per calendar week.
const PiecesPerWeek = 5

// ContentPiece is one scheduled unit of marketing content.
type ContentPiece struct {
	ContentID           int    `json:"content_id" yaml:"content_id"`
	Week                int    `json:"week" yaml:"week"`
	SuggestedDate       string `json:"suggested_date" yaml:"suggested_date"`
	Title               string `json:"title" yaml:"title"`
	Channel             string `json:"channel" yaml:"channel"`
	Format              string `json:"format" yaml:"format"`
	Pillar              string `json:"pillar" yaml:"pillar"`
	KeyMessage          string `json:"key_message" yaml:"key_message"`
	Description         string `json:"description" yaml:"description"`
	CallToAction        string `json:"call_to_action" yaml:"call_to_action"`
	EffortLevel         Level  `json:"effort_level" yaml:"effort_level"`
	EffortExplanation   string `json:"effort_explanation" yaml:"effort_explanation"`
	EngagementPotential Level  `json:"engagement_potential" yaml:"engagement_potential"`
	EngagementReasoning string `json:"engagement_reasoning" yaml:"engagement_reasoning"`
	SEOKeyword          string `json:"seo_keyword" yaml:"seo_keyword"`
	ExecutionNotes      string `json:"execution_notes" yaml:"execution_notes"`
}

// WeekFor returns the calendar week of a content id: ceil(id / 5).
func WeekFor(contentID int) int {
	if contentID <= 0 {
		return 1
	}
	return (contentID-1)/PiecesPerWeek + 1
}

// DefaultTitle is the title given to a piece whose source carried none.
func DefaultTitle(contentID int) string {
	return fmt.Sprintf("Content #%d", contentID)
}

// NewContentPiece returns a piece with every field at its default value.
func NewContentPiece(contentID int, title string) ContentPiece {
	if title == "" {
		title = DefaultTitle(contentID)
	}
	return ContentPiece{
		ContentID:           contentID,
		Week:                WeekFor(contentID),
		Title:               title,
		EffortLevel:         DefaultLevel,
		EngagementPotential: DefaultLevel,
	}
}

// CalendarResult is the structured form of a generated content calendar.
type CalendarResult struct {
	ExecutiveSummary string            `json:"executive_summary" yaml:"executive_summary"`
	ContentPieces    []ContentPiece    `json:"content_pieces" yaml:"content_pieces"`
	Pillars          PillarMap         `json:"pillars" yaml:"pillars"`
	WeeklyBreakdown  map[string]string `json:"weekly_breakdown" yaml:"weekly_breakdown"`
	SuccessMetrics   []string          `json:"success_metrics" yaml:"success_metrics"`
	QuickWins        []string          `json:"quick_wins" yaml:"quick_wins"`
}

// NewCalendarResult returns an empty calendar whose collections are non-nil.
// Pillars are left empty; the assembler decides on the fallback.
func NewCalendarResult() CalendarResult {
	return CalendarResult{
		ContentPieces:   []ContentPiece{},
		WeeklyBreakdown: map[string]string{},
		SuccessMetrics:  []string{},
		QuickWins:       []string{},
	}
}

var (
	quickWinRefPattern  = regexp.MustCompile(`(?i)(?:#|\b(?:content|piece|id)\s*#?\s*)(\d+)`)
	quickWinListPattern = regexp.MustCompile(`(?i)^(?:\d+|[\s,;&]+|and)+$`)
	digitsPattern       = regexp.MustCompile(`\d+`)
)

// QuickWinIDs returns the content ids referenced by the quick-win lines in
// order of appearance. Lines reference ids as "#3", "Content 3", or a bare
// list such as "3, 7 and 12". Duplicates are kept.
func (c CalendarResult) QuickWinIDs() []int {
	ids := []int{}
	for _, line := range c.QuickWins {
		matches := quickWinRefPattern.FindAllStringSubmatch(line, -1)
		if len(matches) == 0 && quickWinListPattern.MatchString(line) {
			for _, digits := range digitsPattern.FindAllString(line, -1) {
				matches = append(matches, []string{digits, digits})
			}
		}
		for _, match := range matches {
			id, err := strconv.Atoi(match[1])
			if err != nil || id <= 0 {
				continue
			}
			ids = append(ids, id)
		}
	}
	return ids
}

// PieceByID returns the first piece with the given content id.
func (c CalendarResult) PieceByID(contentID int) (ContentPiece, bool) {
	for _, piece := range c.ContentPieces {
		if piece.ContentID == contentID {
			return piece, true
		}
	}
	return ContentPiece{}, false
}
