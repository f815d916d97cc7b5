package extract

import (
	"reflect"
	"strings"
	"testing"

	"github.com/coolbeans/contentplan/pkg/types"
)

const sampleCalendar = `# 30-DAY CONTENT CALENDAR

## EXECUTIVE SUMMARY
This month focuses on launch awareness.
We publish five pieces per week.

## CONTENT PILLARS
**Pillar 1: Education** - How-to content
**Pillar 2: Community** - Customer stories

## CONTENT CALENDAR

### Content #1: Launch Teaser
- Week: 1
- Channel: Instagram
- Effort Level: Low
- Engagement Potential: High

### Content #2: Founder Story
- Channel: LinkedIn
- Execution Notes: Film in the office

## SUCCESS METRICS
- 500 new followers
- 5% engagement rate

## QUICK WINS
- Content #1: easy to shoot
- Content #2
`

func TestParseCalendar(t *testing.T) {
	result := ParseCalendar(sampleCalendar)

	if want := "This month focuses on launch awareness.\nWe publish five pieces per week."; result.ExecutiveSummary != want {
		t.Errorf("ExecutiveSummary = %q, want %q", result.ExecutiveSummary, want)
	}

	wantPillars := []types.ContentPillar{
		{Name: "Pillar 1", Description: "Education - How-to content"},
		{Name: "Pillar 2", Description: "Community - Customer stories"},
	}
	if got := result.Pillars.Entries(); !reflect.DeepEqual(got, wantPillars) {
		t.Errorf("Pillars = %+v, want %+v", got, wantPillars)
	}

	if len(result.ContentPieces) != 2 {
		t.Fatalf("got %d pieces, want 2", len(result.ContentPieces))
	}
	first := result.ContentPieces[0]
	if first.Title != "Launch Teaser" || first.EffortLevel != types.LevelLow || first.EngagementPotential != types.LevelHigh {
		t.Errorf("piece 1 = %+v", first)
	}
	second := result.ContentPieces[1]
	if second.ExecutionNotes != "Film in the office" {
		t.Errorf("piece 2 ExecutionNotes = %q, want %q", second.ExecutionNotes, "Film in the office")
	}

	if want := []string{"500 new followers", "5% engagement rate"}; !reflect.DeepEqual(result.SuccessMetrics, want) {
		t.Errorf("SuccessMetrics = %q, want %q", result.SuccessMetrics, want)
	}
	if want := []string{"Content #1: easy to shoot", "Content #2"}; !reflect.DeepEqual(result.QuickWins, want) {
		t.Errorf("QuickWins = %q, want %q", result.QuickWins, want)
	}
	if want := []int{1, 2}; !reflect.DeepEqual(result.QuickWinIDs(), want) {
		t.Errorf("QuickWinIDs() = %v, want %v", result.QuickWinIDs(), want)
	}

	if result.WeeklyBreakdown == nil || len(result.WeeklyBreakdown) != 0 {
		t.Errorf("WeeklyBreakdown = %v, want empty non-nil map", result.WeeklyBreakdown)
	}
}

func TestParseCalendar_Empty(t *testing.T) {
	result := ParseCalendar("")

	if result.ExecutiveSummary != "" {
		t.Errorf("ExecutiveSummary = %q, want empty", result.ExecutiveSummary)
	}
	if result.ContentPieces == nil || len(result.ContentPieces) != 0 {
		t.Errorf("ContentPieces = %v, want empty non-nil", result.ContentPieces)
	}
	if !reflect.DeepEqual(result.Pillars.Entries(), types.DefaultPillars().Entries()) {
		t.Errorf("Pillars = %+v, want the generic pillars", result.Pillars.Entries())
	}
	if result.SuccessMetrics == nil || result.QuickWins == nil || result.WeeklyBreakdown == nil {
		t.Error("collections must be non-nil")
	}
}

func TestParseCalendar_PillarsFallback(t *testing.T) {
	result := ParseCalendar("## Content Pillars\nWe will figure these out later.\n\nContent #1: Post")
	if result.Pillars.Len() != 3 {
		t.Errorf("Pillars.Len() = %d, want the 3 generic pillars", result.Pillars.Len())
	}
	if desc, _ := result.Pillars.Get("Pillar 2"); desc != "Product Education & Features" {
		t.Errorf("Pillar 2 = %q", desc)
	}
}

func TestParseCalendar_SectionsDoNotLeakIntoPieces(t *testing.T) {
	text := "Content #1: Post\nExecution Notes: Keep it short\n## Success Metrics\n- Reach 1000 people"

	result := ParseCalendar(text)
	if len(result.ContentPieces) != 1 {
		t.Fatalf("got %d pieces, want 1", len(result.ContentPieces))
	}
	if notes := result.ContentPieces[0].ExecutionNotes; notes != "Keep it short" {
		t.Errorf("ExecutionNotes = %q, want %q", notes, "Keep it short")
	}
	if want := []string{"Reach 1000 people"}; !reflect.DeepEqual(result.SuccessMetrics, want) {
		t.Errorf("SuccessMetrics = %q, want %q", result.SuccessMetrics, want)
	}
}

func TestParseCalendar_Idempotent(t *testing.T) {
	parser := Default()
	first := parser.ParseCalendar(sampleCalendar)
	second := parser.ParseCalendar(sampleCalendar)
	if !reflect.DeepEqual(first, second) {
		t.Error("parsing the same calendar twice gave different results")
	}
}

func TestParseCalendarExtraction(t *testing.T) {
	text := strings.Replace(sampleCalendar, "## SUCCESS METRICS", "### Content #0: Zero\n- Channel: Blog\n\n## SUCCESS METRICS", 1)

	parser := Default()
	result, extraction := parser.ParseCalendarExtraction(text)

	if extraction.Tier != TierStructured {
		t.Errorf("Tier = %v, want %v", extraction.Tier, TierStructured)
	}
	if !reflect.DeepEqual(result.ContentPieces, extraction.Pieces) {
		t.Errorf("ContentPieces = %+v, want the extraction's pieces %+v", result.ContentPieces, extraction.Pieces)
	}
	if len(extraction.Skipped) != 1 || extraction.Skipped[0].Reason != SkipMalformedID {
		t.Errorf("Skipped = %v, want one malformed id", extraction.Skipped)
	}
	if got := parser.ParseCalendar(text); !reflect.DeepEqual(got, result) {
		t.Errorf("ParseCalendar() = %+v, want %+v", got, result)
	}
}
