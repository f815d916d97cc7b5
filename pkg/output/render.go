package output

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/coolbeans/contentplan/pkg/types"
	"github.com/coolbeans/contentplan/pkg/validate"
)

// maxTitleWidth bounds the title column of the piece table.
const maxTitleWidth = 40

// Truncate shortens s to at most width runes, ending with "..." when cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

// PieceRows returns one table row per content piece.
func PieceRows(pieces []types.ContentPiece) [][]string {
	rows := make([][]string, 0, len(pieces))
	for _, piece := range pieces {
		rows = append(rows, []string{
			strconv.Itoa(piece.ContentID),
			strconv.Itoa(piece.Week),
			orDash(piece.SuggestedDate),
			Truncate(piece.Title, maxTitleWidth),
			orDash(piece.Channel),
			orDash(piece.Format),
			string(piece.EffortLevel),
			string(piece.EngagementPotential),
		})
	}
	return rows
}

// StrategyRows returns one table row per strategy.
func StrategyRows(strategies []types.ContentStrategy) [][]string {
	rows := make([][]string, 0, len(strategies))
	for _, strategy := range strategies {
		rows = append(rows, []string{
			strconv.Itoa(strategy.StrategyNumber),
			orDash(strategy.Name),
			strconv.Itoa(len(strategy.ContentPillars)),
			strconv.Itoa(len(strategy.Top5Ideas)),
			strconv.Itoa(len(strategy.Pros)),
			strconv.Itoa(len(strategy.Cons)),
		})
	}
	return rows
}

// GateRows returns one table row per gate result.
func GateRows(report *validate.GateReport) [][]string {
	if report == nil {
		return nil
	}
	rows := make([][]string, 0, len(report.Results))
	for _, result := range report.Results {
		rows = append(rows, []string{
			result.Gate,
			gateStatus(result),
			fmt.Sprintf("%.1f%%", result.Score*100),
			strconv.Itoa(len(result.Warnings)),
			strconv.Itoa(len(result.Errors)),
		})
	}
	return rows
}

// RenderPieces prints the content pieces as a table.
func (p *Printer) RenderPieces(pieces []types.ContentPiece) error {
	table := NewQuietTable(p.out, []string{"ID", "Week", "Date", "Title", "Channel", "Format", "Effort", "Engagement"}, p.quiet)
	table.AddRows(PieceRows(pieces))
	return table.Render()
}

// RenderStrategies prints the strategies as a table.
func (p *Printer) RenderStrategies(strategies []types.ContentStrategy) error {
	table := NewQuietTable(p.out, []string{"#", "Name", "Pillars", "Ideas", "Pros", "Cons"}, p.quiet)
	table.AddRows(StrategyRows(strategies))
	return table.Render()
}

// RenderGateReport prints one row per gate followed by the warnings and
// errors each gate raised.
func (p *Printer) RenderGateReport(report *validate.GateReport) error {
	if report == nil || p.quiet {
		return nil
	}

	table := NewTableWithWriter(p.out, []string{"Gate", "Status", "Score", "Warnings", "Errors"})
	table.AddRows(GateRows(report))
	if err := table.Render(); err != nil {
		return err
	}

	for _, result := range report.Results {
		for _, gateError := range result.Errors {
			p.Error("%s.%s: %s", result.Gate, gateError.Metric, gateError.Message)
		}
		for _, gateWarning := range result.Warnings {
			p.Warning("%s.%s: %s", result.Gate, gateWarning.Metric, gateWarning.Message)
		}
	}

	fmt.Fprintf(p.out, "\n%s %d passed, %d failed, %d skipped (score %.1f%%)\n",
		p.StatusBadge(report.Status()), report.GatesPassed, report.GatesFailed, report.GatesSkipped, report.TotalScore*100)
	if report.HaltedAt != "" {
		fmt.Fprintf(p.out, "%s\n", p.Dim("halted at "+report.HaltedAt))
	}
	return nil
}

// RenderCalendarSummary prints the calendar's non-tabular sections.
func (p *Printer) RenderCalendarSummary(calendar *types.CalendarResult) {
	if calendar == nil || p.quiet {
		return
	}

	if calendar.ExecutiveSummary != "" {
		p.Header("Executive Summary")
		p.Print("%s", calendar.ExecutiveSummary)
	}

	p.Header("Pillars")
	for _, pillar := range calendar.Pillars.Entries() {
		p.Print("  %s  %s", p.Bold(pillar.Name), pillar.Description)
	}

	if len(calendar.SuccessMetrics) > 0 {
		p.Header("Success Metrics")
		p.Print("%s", bulletList(calendar.SuccessMetrics))
	}
	if len(calendar.QuickWins) > 0 {
		p.Header("Quick Wins")
		p.Print("%s", bulletList(calendar.QuickWins))
	}
}

// RenderRecommendation prints the recommended strategy and its actions.
func (p *Printer) RenderRecommendation(recommendation *types.Recommendation) {
	if recommendation == nil || p.quiet {
		return
	}
	p.Header(fmt.Sprintf("Recommendation: Strategy %d", recommendation.RecommendedStrategy))
	if recommendation.Reasoning != "" {
		p.Print("%s", recommendation.Reasoning)
	}
	if len(recommendation.Week1Actions) > 0 {
		p.Print("%s", p.Dim("Week 1"))
		p.Print("%s", bulletList(recommendation.Week1Actions))
	}
}

func gateStatus(result *validate.GateResult) string {
	switch {
	case result.Skipped:
		return "SKIP"
	case result.Passed:
		return "PASS"
	default:
		return "FAIL"
	}
}

func bulletList(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "  - " + item
	}
	return strings.Join(lines, "\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
