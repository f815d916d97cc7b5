package validate

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Status labels used in reports.
const (
	statusPass = "PASS"
	statusFail = "FAIL"
	statusSkip = "SKIP"
)

func (gateResult *GateResult) status() string {
	switch {
	case gateResult.Skipped:
		return statusSkip
	case !gateResult.Passed:
		return statusFail
	default:
		return statusPass
	}
}

// Status returns PASS or FAIL for the whole report.
func (gateReport *GateReport) Status() string {
	if gateReport.OverallPass {
		return statusPass
	}
	return statusFail
}

// ToJSON serializes the gate report as indented JSON.
func (gateReport *GateReport) ToJSON() ([]byte, error) {
	return json.MarshalIndent(gateReport, "", "  ")
}

// String returns a human-readable gate report.
func (gateReport *GateReport) String() string {
	var reportBuilder strings.Builder

	reportBuilder.WriteString("Validation Gate Report\n")
	reportBuilder.WriteString("======================\n\n")

	for _, gateResult := range gateReport.Results {
		reportBuilder.WriteString(fmt.Sprintf("[%s] Gate %s (score: %.1f%%, %v)\n",
			gateResult.status(), gateResult.Gate, gateResult.Score*100, gateResult.Duration))

		if gateResult.Skipped {
			reportBuilder.WriteString(fmt.Sprintf("  Reason: %s\n", gateResult.SkipReason))
		}

		for _, metricName := range gateResult.MetricNames() {
			reportBuilder.WriteString(fmt.Sprintf("  %s: %.1f%%\n", metricName, gateResult.Metrics[metricName]*100))
		}

		for _, gateWarning := range gateResult.Warnings {
			reportBuilder.WriteString(fmt.Sprintf("  WARNING [%s]: %s\n", gateWarning.Metric, gateWarning.Message))
		}

		for _, gateError := range gateResult.Errors {
			reportBuilder.WriteString(fmt.Sprintf("  ERROR [%s]: %s\n", gateError.Metric, gateError.Message))
		}

		reportBuilder.WriteString("\n")
	}

	reportBuilder.WriteString(fmt.Sprintf("Summary: %d passed, %d failed, %d skipped\n",
		gateReport.GatesPassed, gateReport.GatesFailed, gateReport.GatesSkipped))
	reportBuilder.WriteString(fmt.Sprintf("Overall Score: %.1f%%\n", gateReport.TotalScore*100))
	reportBuilder.WriteString(fmt.Sprintf("Status: %s\n", gateReport.Status()))

	if gateReport.HaltedAt != "" {
		reportBuilder.WriteString(fmt.Sprintf("Pipeline halted at: %s\n", gateReport.HaltedAt))
	}

	reportBuilder.WriteString(fmt.Sprintf("Total Duration: %v\n", gateReport.Duration))

	return reportBuilder.String()
}

// ToMarkdown generates a Markdown-formatted gate validation report.
func (gateReport *GateReport) ToMarkdown() string {
	var markdownBuilder strings.Builder

	markdownBuilder.WriteString(fmt.Sprintf("# Gate Validation Report %s\n\n", markdownBadge(gateReport.Status())))

	// Summary table
	markdownBuilder.WriteString("## Summary\n\n")
	markdownBuilder.WriteString("| Metric | Value |\n")
	markdownBuilder.WriteString("|--------|-------|\n")
	markdownBuilder.WriteString(fmt.Sprintf("| **Overall Score** | %.1f%% |\n", gateReport.TotalScore*100))
	markdownBuilder.WriteString(fmt.Sprintf("| **Gates Passed** | %d |\n", gateReport.GatesPassed))
	markdownBuilder.WriteString(fmt.Sprintf("| **Gates Failed** | %d |\n", gateReport.GatesFailed))
	markdownBuilder.WriteString(fmt.Sprintf("| **Gates Skipped** | %d |\n", gateReport.GatesSkipped))

	if gateReport.HaltedAt != "" {
		markdownBuilder.WriteString(fmt.Sprintf("| **Halted At** | %s |\n", gateReport.HaltedAt))
	}

	markdownBuilder.WriteString("\n")

	markdownBuilder.WriteString("## Gate Results\n\n")

	for _, gateResult := range gateReport.Results {
		markdownBuilder.WriteString(fmt.Sprintf("### %s %s (%.1f%%)\n\n",
			markdownBadge(gateResult.status()), gateResult.Gate, gateResult.Score*100))

		if gateResult.Skipped {
			markdownBuilder.WriteString(fmt.Sprintf("*Skipped: %s*\n\n", gateResult.SkipReason))
			continue
		}

		if len(gateResult.Metrics) > 0 {
			markdownBuilder.WriteString("| Metric | Value |\n")
			markdownBuilder.WriteString("|--------|-------|\n")
			for _, metricName := range gateResult.MetricNames() {
				markdownBuilder.WriteString(fmt.Sprintf("| %s | %.1f%% |\n", metricName, gateResult.Metrics[metricName]*100))
			}
			markdownBuilder.WriteString("\n")
		}

		if len(gateResult.Warnings) > 0 {
			markdownBuilder.WriteString("**Warnings:**\n\n")
			for _, gateWarning := range gateResult.Warnings {
				markdownBuilder.WriteString(fmt.Sprintf("- [%s] %s\n", gateWarning.Metric, escapeMarkdown(gateWarning.Message)))
			}
			markdownBuilder.WriteString("\n")
		}

		if len(gateResult.Errors) > 0 {
			markdownBuilder.WriteString("**Errors:**\n\n")
			for _, gateError := range gateResult.Errors {
				markdownBuilder.WriteString(fmt.Sprintf("- [%s] %s\n", gateError.Metric, escapeMarkdown(gateError.Message)))
			}
			markdownBuilder.WriteString("\n")
		}
	}

	return markdownBuilder.String()
}

func markdownBadge(status string) string {
	return fmt.Sprintf("`%s`", status)
}

// escapeMarkdown escapes characters that would start emphasis or break tables.
func escapeMarkdown(content string) string {
	content = strings.ReplaceAll(content, "|", "\\|")
	content = strings.ReplaceAll(content, "*", "\\*")
	return content
}
