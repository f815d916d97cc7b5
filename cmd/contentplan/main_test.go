package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/coolbeans/contentplan/pkg/export"
	"github.com/coolbeans/contentplan/pkg/output"
	"github.com/coolbeans/contentplan/pkg/pattern"
	"github.com/coolbeans/contentplan/pkg/types"
)

const testCalendar = `# CONTENT CALENDAR

## EXECUTIVE SUMMARY
A launch month.

### Content #1: Launch Teaser
- Channel: Instagram
- Format: Reel
- Effort Level: Low

### Content #2: Founder Story
- Channel: LinkedIn
- Call to Action: Follow us

## QUICK WINS
- Content #1
`

const testStrategies = `## Strategy 1: The Educator
**Tagline:** Teach first
**Core Approach:** Weekly tutorials
**Pros:**
- Builds trust
**Cons:**
- Slow

## Strategy 2: The Storyteller
**Tagline:** Stories sell

## RECOMMENDATION
**Best Strategy:** Strategy 1
**Why:** Lowest effort.
`

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

// executeCommand runs the command tree with args and returns stdout,
// stderr and the returned error.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	rootCmd := newRootCmd(&app{viper: viper.New()})
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(append([]string{"--color", "never"}, args...))

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestCalendar_JSON(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "calendar.md", testCalendar)

	stdout, _, err := executeCommand(t, "calendar", path, "--format", "json")
	if err != nil {
		t.Fatalf("calendar command failed: %v", err)
	}

	var calendar types.CalendarResult
	if err := json.Unmarshal([]byte(stdout), &calendar); err != nil {
		t.Fatalf("output is not a calendar: %v\n%s", err, stdout)
	}
	if len(calendar.ContentPieces) != 2 {
		t.Fatalf("got %d pieces, want 2", len(calendar.ContentPieces))
	}
	if calendar.ContentPieces[1].CallToAction != "Follow us" {
		t.Errorf("piece 2 CallToAction = %q", calendar.ContentPieces[1].CallToAction)
	}
	if calendar.ExecutiveSummary != "A launch month." {
		t.Errorf("ExecutiveSummary = %q", calendar.ExecutiveSummary)
	}
}

func TestCalendar_MinPieces(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "calendar.md", testCalendar)

	stdout, stderr, err := executeCommand(t, "calendar", path, "--format", "yaml", "--min-pieces", "5")
	if err != nil {
		t.Fatalf("calendar command failed: %v", err)
	}

	var calendar types.CalendarResult
	if err := yaml.Unmarshal([]byte(stdout), &calendar); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if len(calendar.ContentPieces) != 5 {
		t.Errorf("got %d pieces, want 5", len(calendar.ContentPieces))
	}
	if !strings.Contains(stderr, "added 3 placeholder piece(s)") {
		t.Errorf("stderr = %q, want a backfill warning", stderr)
	}
}

func TestCalendar_Table(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "calendar.md", testCalendar)

	stdout, _, err := executeCommand(t, "calendar", path)
	if err != nil {
		t.Fatalf("calendar command failed: %v", err)
	}
	for _, want := range []string{"Content Pieces (2, structured)", "Launch Teaser", "Founder Story"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("table output missing %q:\n%s", want, stdout)
		}
	}
}

func TestCalendar_MissingFile(t *testing.T) {
	_, _, err := executeCommand(t, "calendar", filepath.Join(t.TempDir(), "missing.md"))
	if err == nil {
		t.Fatal("calendar with a missing file should return error")
	}
}

func TestStrategies_JSON(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "strategies.md", testStrategies)

	stdout, _, err := executeCommand(t, "strategies", path, "-f", "json")
	if err != nil {
		t.Fatalf("strategies command failed: %v", err)
	}

	var document strategiesDocument
	if err := json.Unmarshal([]byte(stdout), &document); err != nil {
		t.Fatalf("output is not a strategies document: %v", err)
	}
	if len(document.Strategies) != 2 {
		t.Fatalf("got %d strategies, want 2", len(document.Strategies))
	}
	if document.Recommendation == nil || document.Recommendation.RecommendedStrategy != 1 {
		t.Errorf("Recommendation = %+v, want strategy 1", document.Recommendation)
	}
}

func TestRun_WritesBundle(t *testing.T) {
	dir := t.TempDir()
	calendarPath := writeTestFile(t, dir, "calendar.md", testCalendar)
	strategiesPath := writeTestFile(t, dir, "strategies.md", testStrategies)
	outDir := filepath.Join(dir, "out")

	stdout, _, err := executeCommand(t, "run",
		"--calendar", calendarPath,
		"--strategies", strategiesPath,
		"--out-dir", outDir,
		"--formats", "json",
		"--brand", "Acme")
	if err != nil {
		t.Fatalf("run command failed: %v", err)
	}

	bundlePath := filepath.Join(outDir, "Acme_content_plan.json")
	if !strings.Contains(stdout, "[OK] wrote "+bundlePath) {
		t.Errorf("stdout = %q, want the written path", stdout)
	}

	data, err := os.ReadFile(bundlePath)
	if err != nil {
		t.Fatalf("bundle not written: %v", err)
	}
	var bundle export.Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		t.Fatalf("bundle is not JSON: %v", err)
	}

	if bundle.ID == "" || bundle.Brand != "Acme" {
		t.Errorf("bundle ID %q, Brand %q", bundle.ID, bundle.Brand)
	}
	if got := len(bundle.Calendar.ContentPieces); got != 20 {
		t.Errorf("got %d pieces after backfill, want 20", got)
	}
	if got := len(bundle.Strategies); got != 5 {
		t.Errorf("got %d strategies after backfill, want 5", got)
	}
	if bundle.Backfill == nil || bundle.Backfill.PiecesAdded != 18 || bundle.Backfill.StrategiesAdded != 3 {
		t.Errorf("Backfill = %+v, want 18 pieces and 3 strategies added", bundle.Backfill)
	}
	if bundle.Validation == nil || len(bundle.Validation.Results) != 4 {
		t.Errorf("Validation = %+v, want 4 gate results", bundle.Validation)
	}
	if bundle.Recommendation == nil || bundle.Recommendation.RecommendedStrategy != 1 {
		t.Errorf("Recommendation = %+v", bundle.Recommendation)
	}
}

func TestRun_NoBackfillCalendarOnly(t *testing.T) {
	dir := t.TempDir()
	calendarPath := writeTestFile(t, dir, "calendar.md", testCalendar)
	outDir := filepath.Join(dir, "out")

	_, _, err := executeCommand(t, "run",
		"--calendar", calendarPath,
		"--out-dir", outDir,
		"--formats", "yaml",
		"--backfill=false")
	if err != nil {
		t.Fatalf("run command failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "content_plan.yaml"))
	if err != nil {
		t.Fatalf("bundle not written: %v", err)
	}
	var bundle export.Bundle
	if err := yaml.Unmarshal(data, &bundle); err != nil {
		t.Fatalf("bundle is not YAML: %v", err)
	}
	if len(bundle.Calendar.ContentPieces) != 2 {
		t.Errorf("got %d pieces, want 2 without backfill", len(bundle.Calendar.ContentPieces))
	}
	if bundle.Strategies != nil || bundle.Backfill != nil {
		t.Errorf("Strategies = %v, Backfill = %v, want none", bundle.Strategies, bundle.Backfill)
	}
}

func TestRun_RequiresInput(t *testing.T) {
	_, _, err := executeCommand(t, "run", "--out-dir", t.TempDir())
	if err == nil {
		t.Fatal("run without inputs should return error")
	}
}

func TestValidate_StrictFails(t *testing.T) {
	dir := t.TempDir()
	calendarPath := writeTestFile(t, dir, "calendar.md", testCalendar)

	_, _, err := executeCommand(t, "validate", "--calendar", calendarPath, "--strict")
	if err == nil {
		t.Fatal("validate --strict on a 2-piece calendar should fail")
	}
	if code := output.ExitCodeFor(err); code != output.ExitValidationError {
		t.Errorf("exit code = %d, want %d", code, output.ExitValidationError)
	}
}

func TestValidate_NonStrictReports(t *testing.T) {
	dir := t.TempDir()
	calendarPath := writeTestFile(t, dir, "calendar.md", testCalendar)

	stdout, _, err := executeCommand(t, "validate", "--calendar", calendarPath, "--format", "markdown")
	if err != nil {
		t.Fatalf("validate command failed: %v", err)
	}
	if !strings.Contains(stdout, "# Gate Validation Report") {
		t.Errorf("markdown output missing heading:\n%s", stdout)
	}
	if !strings.Contains(stdout, "*Skipped: skipped by configuration*") {
		t.Errorf("strategies gate should be skipped without a strategies file:\n%s", stdout)
	}
}

func TestValidate_UnknownFormat(t *testing.T) {
	dir := t.TempDir()
	calendarPath := writeTestFile(t, dir, "calendar.md", testCalendar)

	if _, _, err := executeCommand(t, "validate", "--calendar", calendarPath, "--format", "html"); err == nil {
		t.Fatal("validate with an unknown format should return error")
	}
}

func TestPatternsDump(t *testing.T) {
	stdout, _, err := executeCommand(t, "patterns", "dump", "--builtin")
	if err != nil {
		t.Fatalf("patterns dump failed: %v", err)
	}

	var set pattern.Set
	if err := yaml.Unmarshal([]byte(stdout), &set); err != nil {
		t.Fatalf("dump is not YAML: %v", err)
	}
	if errs := pattern.ValidateSet(&set); len(errs) > 0 {
		t.Errorf("dumped set is invalid: %v", errs)
	}
}

func TestPatternsCheck(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "agency.yaml", `name: agency
version: 1.0.0
description: Agency labels
fields:
  - id: channel
    pattern: '(?:^|\|)[ \t]*(?:channel|network|platform)[ \t]*:[ \t]*([^\n|]+)'
`)

	stdout, _, err := executeCommand(t, "patterns", "check", dir)
	if err != nil {
		t.Fatalf("patterns check failed: %v", err)
	}
	if !strings.Contains(stdout, "agency") || !strings.Contains(stdout, "1 override set(s) valid") {
		t.Errorf("check output = %q", stdout)
	}
}

func TestPatternsCheck_Invalid(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "broken.yaml", "name: broken\nversion: one\n")

	if _, _, err := executeCommand(t, "patterns", "check", dir); err == nil {
		t.Fatal("patterns check with an invalid set should return error")
	}
}

func TestConfigError(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTestFile(t, dir, "config.yaml", "logging:\n  level: loud\n")

	_, _, err := executeCommand(t, "--config", configPath, "patterns", "dump")
	if code := output.ExitCodeFor(err); code != output.ExitConfigError {
		t.Errorf("exit code = %d, want %d (err %v)", code, output.ExitConfigError, err)
	}
}
