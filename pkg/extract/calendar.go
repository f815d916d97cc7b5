package extract

import (
	"fmt"
	"strings"

	"github.com/coolbeans/contentplan/pkg/pattern"
	"github.com/coolbeans/contentplan/pkg/types"
)

// ParseCalendar assembles a calendar from generated text. Pillars fall back
// to the three generic pillars when none are found. The weekly breakdown is
// reserved and left empty.
func (p *Parser) ParseCalendar(text string) types.CalendarResult {
	result, _ := p.ParseCalendarExtraction(text)
	return result
}

// ParseCalendarExtraction is ParseCalendar that also reports how the content
// pieces were segmented and which blocks were skipped. The calendar's pieces
// are the extraction's pieces.
func (p *Parser) ParseCalendarExtraction(text string) (types.CalendarResult, PieceExtraction) {
	text = normalizeNewlines(text)
	result := types.NewCalendarResult()

	if body, ok := p.section(pattern.SectionExecutiveSummary, text); ok {
		result.ExecutiveSummary = body.Text()
	}

	result.Pillars = p.calendarPillars(text)
	extraction := p.ExtractContentPieces(text)
	result.ContentPieces = extraction.Pieces

	if body, ok := p.section(pattern.SectionSuccessMetrics, text); ok {
		result.SuccessMetrics = body.Items(p.listItem)
	}
	if body, ok := p.section(pattern.SectionQuickWins, text); ok {
		result.QuickWins = body.Items(p.listItem)
	}

	return result, extraction
}

// calendarPillars reads "Pillar N: description" lines from the content
// pillars section, keyed "Pillar N" in order of appearance.
func (p *Parser) calendarPillars(text string) types.PillarMap {
	var pillars types.PillarMap

	if body, ok := p.section(pattern.SectionCalendarPillars, text); ok {
		lines := append([]string{body.Inline}, linesOf(body)...)
		for _, line := range lines {
			m := p.pillarLine.FindStringSubmatch(stripEmphasis(line))
			if m == nil {
				continue
			}
			description := strings.Trim(m[2], " \t-:")
			if description == "" {
				continue
			}
			pillars.Set(fmt.Sprintf("Pillar %s", m[1]), description)
		}
	}

	if pillars.Len() == 0 {
		return types.DefaultPillars()
	}
	return pillars
}

func linesOf(body sectionBody) []string {
	lines := make([]string, len(body.Lines))
	for i, line := range body.Lines {
		lines[i] = line.text
	}
	return lines
}
