package output

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
)

// Exit code constants
const (
	ExitSuccess         = 0
	ExitGeneral         = 1
	ExitUsageError      = 2
	ExitValidationError = 3
	ExitConfigError     = 4
)

// CLIError is a structured error with user-facing context
type CLIError struct {
	Summary    string
	Detail     string
	Suggestion string
	ExitCode   int
}

// Error implements the error interface, returning the summary
func (e *CLIError) Error() string {
	return e.Summary
}

// FormatError prints a structured error message to stderr
func (p *Printer) FormatError(e *CLIError) {
	if p.useColors {
		paint(color.FgRed, color.Bold).Fprintf(p.err, "Error: %s\n", e.Summary)
	} else {
		fmt.Fprintf(p.err, "[ERROR] %s\n", e.Summary)
	}
	if e.Detail != "" {
		fmt.Fprintf(p.err, "  Cause: %s\n", e.Detail)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(p.err, "  Suggestion: %s\n", e.Suggestion)
	}
}

// ExitCodeFor returns the exit code carried by err, ExitGeneral for other
// errors, and ExitSuccess for nil.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) && cliErr.ExitCode != 0 {
		return cliErr.ExitCode
	}
	return ExitGeneral
}

// NewConfigError creates a CLIError for configuration problems
func NewConfigError(detail string) *CLIError {
	return &CLIError{
		Summary:    "Configuration error",
		Detail:     detail,
		Suggestion: "Check .contentplan.yaml and CONTENTPLAN_* environment variables",
		ExitCode:   ExitConfigError,
	}
}

// NewValidationError creates a CLIError for failed conformance gates
func NewValidationError(failedGates int) *CLIError {
	return &CLIError{
		Summary:    fmt.Sprintf("Validation failed: %d gate(s) did not pass", failedGates),
		Suggestion: "Rerun without --strict to write results anyway, or adjust validation.thresholds",
		ExitCode:   ExitValidationError,
	}
}
