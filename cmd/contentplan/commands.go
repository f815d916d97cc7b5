package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/coolbeans/contentplan/pkg/backfill"
	"github.com/coolbeans/contentplan/pkg/export"
	"github.com/coolbeans/contentplan/pkg/output"
	"github.com/coolbeans/contentplan/pkg/types"
	"github.com/coolbeans/contentplan/pkg/validate"
)

const formatTable = "table"

// strategiesDocument is the serialized form of a parsed strategies file.
type strategiesDocument struct {
	Strategies     []types.ContentStrategy `json:"strategies" yaml:"strategies"`
	Recommendation *types.Recommendation   `json:"recommendation,omitempty" yaml:"recommendation,omitempty"`
}

func calendarCmd(application *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar <file>",
		Short: "Parse a generated content calendar",
		Long: `Parse a generated content calendar and print its pieces.

Use "-" to read from stdin.

Example:
  contentplan calendar calendar.md
  contentplan calendar calendar.md --format yaml --min-pieces 20`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatName, _ := cmd.Flags().GetString("format")
			minPieces, _ := cmd.Flags().GetInt("min-pieces")

			parser, err := application.parser()
			if err != nil {
				return err
			}
			text, err := readInput(cmd.Context(), args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			calendar, extraction := parser.ParseCalendarExtraction(text)
			for _, skip := range extraction.Skipped {
				application.printer.Warning("skipped block %s", skip)
			}

			if minPieces > 0 {
				opts := application.cfg.BackfillOptions()
				opts.MinPieces = minPieces
				var added int
				calendar.ContentPieces, added = backfill.Pieces(calendar.ContentPieces, opts)
				if added > 0 {
					application.printer.Warning("added %d placeholder piece(s)", added)
				}
			}

			if formatName == formatTable {
				application.printer.RenderCalendarSummary(&calendar)
				application.printer.Header(fmt.Sprintf("Content Pieces (%d, %s)", len(calendar.ContentPieces), extraction.Tier))
				return application.printer.RenderPieces(calendar.ContentPieces)
			}
			return writeRecord(application, formatName, calendar)
		},
	}

	cmd.Flags().StringP("format", "f", formatTable, "output format: table, json, yaml")
	cmd.Flags().Int("min-pieces", 0, "pad the calendar with placeholders up to this many pieces")
	return cmd
}

func strategiesCmd(application *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strategies <file>",
		Short: "Parse a generated strategies document",
		Long: `Parse a generated strategies document and its recommendation.

Use "-" to read from stdin.

Example:
  contentplan strategies strategies.md
  contentplan strategies strategies.md --format json --min-strategies 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatName, _ := cmd.Flags().GetString("format")
			minStrategies, _ := cmd.Flags().GetInt("min-strategies")

			parser, err := application.parser()
			if err != nil {
				return err
			}
			text, err := readInput(cmd.Context(), args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			document := strategiesDocument{Strategies: parser.ParseStrategies(text)}
			if recommendation, ok := parser.ParseRecommendation(text); ok {
				document.Recommendation = &recommendation
			}

			if minStrategies > 0 {
				opts := application.cfg.BackfillOptions()
				opts.MinStrategies = minStrategies
				var added int
				document.Strategies, added = backfill.Strategies(document.Strategies, opts)
				if added > 0 {
					application.printer.Warning("added %d placeholder strateg(ies)", added)
				}
			}

			if formatName == formatTable {
				application.printer.Header(fmt.Sprintf("Strategies (%d)", len(document.Strategies)))
				if err := application.printer.RenderStrategies(document.Strategies); err != nil {
					return err
				}
				application.printer.RenderRecommendation(document.Recommendation)
				return nil
			}
			return writeRecord(application, formatName, document)
		},
	}

	cmd.Flags().StringP("format", "f", formatTable, "output format: table, json, yaml")
	cmd.Flags().Int("min-strategies", 0, "pad with placeholder strategies up to this many")
	return cmd
}

func runCmd(application *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Parse, validate, backfill and export a content plan",
		Long: `Parse a calendar and a strategies document concurrently, run the
conformance gates, pad missing records with placeholders and write the
resulting bundle.

Example:
  contentplan run --calendar calendar.md --strategies strategies.md
  contentplan run --calendar calendar.md --brand Acme --formats json --out-dir build
  contentplan run --calendar calendar.md --strict --backfill=false`,
		RunE: func(cmd *cobra.Command, args []string) error {
			calendarPath, _ := cmd.Flags().GetString("calendar")
			strategiesPath, _ := cmd.Flags().GetString("strategies")
			cfg := application.cfg

			formats, err := export.ParseFormats(cfg.Output.Formats)
			if err != nil {
				return output.NewConfigError(err.Error())
			}

			parser, err := application.parser()
			if err != nil {
				return err
			}
			plan, err := parsePlan(cmd.Context(), parser, application.logger, calendarPath, strategiesPath, cmd.InOrStdin())
			if err != nil {
				return err
			}
			reportSkips(application.printer, plan)

			gateConfig := cfg.GateConfig()
			plan.skipGatesFor(gateConfig)
			startTime := time.Now()
			report := validate.Validate(plan.validationContext(gateConfig), gateConfig)
			application.logger.Debug("gates finished",
				zap.Bool("pass", report.OverallPass),
				zap.Float64("score", report.TotalScore),
				zap.Duration("elapsed", time.Since(startTime)))

			if err := application.printer.RenderGateReport(report); err != nil {
				return err
			}
			if gateConfig.StrictMode && !report.OverallPass {
				return output.NewValidationError(report.GatesFailed)
			}

			bundle := export.NewBundle(cfg.Output.Brand)
			bundle.Calendar = plan.Calendar
			bundle.Strategies = plan.Strategies
			bundle.Recommendation = plan.Recommendation
			bundle.Validation = report

			if cfg.Backfill.Enabled {
				opts := cfg.BackfillOptions()
				if plan.Strategies == nil {
					opts.MinStrategies = 0
				}
				var backfillReport backfill.Report
				bundle.Strategies, backfillReport = backfill.Plan(bundle.Calendar, bundle.Strategies, opts)
				if backfillReport.Any() {
					bundle.Backfill = &backfillReport
					application.printer.Warning("added %d placeholder piece(s) and %d placeholder strateg(ies)",
						backfillReport.PiecesAdded, backfillReport.StrategiesAdded)
				}
			}

			paths, err := export.SaveBundle(cfg.Output.Dir, bundle, formats)
			if err != nil {
				return err
			}
			for _, path := range paths {
				application.printer.Success("wrote %s", path)
			}
			application.logger.Debug("bundle saved", zap.String("id", bundle.ID), zap.Strings("paths", paths))
			return nil
		},
	}

	cmd.Flags().String("calendar", "", "calendar document (\"-\" for stdin)")
	cmd.Flags().String("strategies", "", "strategies document (\"-\" for stdin)")
	cmd.Flags().String("out-dir", "", "output directory (default from config: outputs)")
	cmd.Flags().StringSlice("formats", nil, "output formats: json, yaml")
	cmd.Flags().String("brand", "", "brand name used in file names and placeholders")
	cmd.Flags().Bool("backfill", true, "pad missing pieces and strategies with placeholders")
	cmd.Flags().Int("min-pieces", 20, "minimum number of content pieces after backfill")
	cmd.Flags().Int("min-strategies", 5, "minimum number of strategies after backfill")
	addGateFlags(cmd)
	return cmd
}

func validateCmd(application *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run conformance gates over parsed documents",
		Long: `Run the conformance gates over a calendar and/or strategies document.

Gates:
  pieces      piece count coverage and detection tier
  fields      field completeness of each piece
  ids         content id uniqueness, levels and quick win references
  strategies  strategy count, numbering and completeness

With --strict the command exits non-zero when a gate fails.

Example:
  contentplan validate --calendar calendar.md --strategies strategies.md
  contentplan validate --calendar calendar.md --skip-gates ids --format markdown
  contentplan validate --strategies strategies.md --strict`,
		RunE: func(cmd *cobra.Command, args []string) error {
			calendarPath, _ := cmd.Flags().GetString("calendar")
			strategiesPath, _ := cmd.Flags().GetString("strategies")
			formatName, _ := cmd.Flags().GetString("format")

			parser, err := application.parser()
			if err != nil {
				return err
			}
			plan, err := parsePlan(cmd.Context(), parser, application.logger, calendarPath, strategiesPath, cmd.InOrStdin())
			if err != nil {
				return err
			}
			reportSkips(application.printer, plan)

			gateConfig := application.cfg.GateConfig()
			plan.skipGatesFor(gateConfig)
			report := validate.Validate(plan.validationContext(gateConfig), gateConfig)

			switch strings.ToLower(formatName) {
			case formatTable:
				if err := application.printer.RenderGateReport(report); err != nil {
					return err
				}
			case "text":
				fmt.Fprint(application.printer.Out(), report.String())
			case "markdown", "md":
				fmt.Fprint(application.printer.Out(), report.ToMarkdown())
			case "json":
				data, err := report.ToJSON()
				if err != nil {
					return fmt.Errorf("encoding report: %w", err)
				}
				fmt.Fprintln(application.printer.Out(), string(data))
			default:
				return fmt.Errorf("unknown report format %q: use table, text, markdown or json", formatName)
			}

			if gateConfig.StrictMode && !report.OverallPass {
				return output.NewValidationError(report.GatesFailed)
			}
			return nil
		},
	}

	cmd.Flags().String("calendar", "", "calendar document (\"-\" for stdin)")
	cmd.Flags().String("strategies", "", "strategies document (\"-\" for stdin)")
	cmd.Flags().StringP("format", "f", formatTable, "report format: table, text, markdown, json")
	addGateFlags(cmd)
	return cmd
}

func addGateFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("strict", false, "stop at the first failing gate and exit non-zero")
	cmd.Flags().Bool("fail-on-warn", false, "treat gate warnings as failures")
	cmd.Flags().StringSlice("skip-gates", nil, "gates to skip (pieces, fields, ids, strategies)")
}

// writeRecord writes v to the printer's output in the named format.
func writeRecord(application *app, formatName string, v interface{}) error {
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return fmt.Errorf("%w: use table, json or yaml", err)
	}
	return export.Write(application.printer.Out(), format, v)
}

func reportSkips(printer *output.Printer, plan *parsedPlan) {
	if plan.Extraction == nil {
		return
	}
	for _, skip := range plan.Extraction.Skipped {
		printer.Warning("skipped block %s", skip)
	}
}
