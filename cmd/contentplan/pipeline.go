package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/coolbeans/contentplan/pkg/extract"
	"github.com/coolbeans/contentplan/pkg/types"
	"github.com/coolbeans/contentplan/pkg/validate"
)

// parsedPlan holds the records parsed from one calendar and one strategies
// document. Either half is nil when its input was not given.
type parsedPlan struct {
	Calendar       *types.CalendarResult
	Extraction     *extract.PieceExtraction
	Strategies     []types.ContentStrategy
	Recommendation *types.Recommendation
}

// readInput reads path, or stdin when path is "-".
func readInput(ctx context.Context, path string, stdin io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// parsePlan reads and parses the calendar and strategies documents
// concurrently. An empty path skips that document.
func parsePlan(ctx context.Context, parser *extract.Parser, logger *zap.Logger, calendarPath, strategiesPath string, stdin io.Reader) (*parsedPlan, error) {
	if calendarPath == "" && strategiesPath == "" {
		return nil, fmt.Errorf("at least one of --calendar or --strategies is required")
	}
	if calendarPath == "-" && strategiesPath == "-" {
		return nil, fmt.Errorf("only one input can be read from stdin")
	}

	plan := &parsedPlan{}
	group, groupCtx := errgroup.WithContext(ctx)

	if calendarPath != "" {
		group.Go(func() error {
			startTime := time.Now()
			text, err := readInput(groupCtx, calendarPath, stdin)
			if err != nil {
				return err
			}
			calendar, extraction := parser.ParseCalendarExtraction(text)
			plan.Calendar = &calendar
			plan.Extraction = &extraction

			logger.Debug("calendar parsed",
				zap.String("path", calendarPath),
				zap.Int("pieces", len(calendar.ContentPieces)),
				zap.Stringer("tier", extraction.Tier),
				zap.Int("skipped", len(extraction.Skipped)),
				zap.Duration("elapsed", time.Since(startTime)))
			return nil
		})
	}

	if strategiesPath != "" {
		group.Go(func() error {
			startTime := time.Now()
			text, err := readInput(groupCtx, strategiesPath, stdin)
			if err != nil {
				return err
			}
			plan.Strategies = parser.ParseStrategies(text)
			if recommendation, ok := parser.ParseRecommendation(text); ok {
				plan.Recommendation = &recommendation
			}

			logger.Debug("strategies parsed",
				zap.String("path", strategiesPath),
				zap.Int("strategies", len(plan.Strategies)),
				zap.Bool("recommendation", plan.Recommendation != nil),
				zap.Duration("elapsed", time.Since(startTime)))
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return plan, nil
}

// validationContext returns the gate input for the parsed records.
func (plan *parsedPlan) validationContext(config *validate.ValidationConfig) *validate.ValidationContext {
	return &validate.ValidationContext{
		Calendar:       plan.Calendar,
		Extraction:     plan.Extraction,
		Strategies:     plan.Strategies,
		Recommendation: plan.Recommendation,
		Config:         config,
	}
}

// skipGatesFor skips the gates whose input document was not given.
func (plan *parsedPlan) skipGatesFor(config *validate.ValidationConfig) {
	if plan.Calendar == nil {
		config.SkipGates = append(config.SkipGates, validate.GatePieces, validate.GateFields, validate.GateIDs)
	}
	if plan.Strategies == nil {
		config.SkipGates = append(config.SkipGates, validate.GateStrategies)
	}
}
