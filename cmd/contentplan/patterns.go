package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/coolbeans/contentplan/pkg/extract"
	"github.com/coolbeans/contentplan/pkg/output"
	"github.com/coolbeans/contentplan/pkg/pattern"
)

func patternsCmd(application *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Inspect and develop pattern overrides",
		Long: `Inspect and develop the label patterns used by the parser.

Override sets are YAML files in the patterns directory (--patterns-dir or
patterns.dir). Each file may redefine fields, sections and markers of the
built-in set; files are merged over the built-in set in name order.`,
	}

	cmd.AddCommand(patternsDumpCmd(application))
	cmd.AddCommand(patternsCheckCmd(application))
	cmd.AddCommand(patternsPreviewCmd(application))
	return cmd
}

func patternsDumpCmd(application *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Write the active pattern set as YAML",
		Long: `Write the active pattern set as YAML. The output is a valid override
file and a starting point for customizing labels.

Example:
  contentplan patterns dump > patterns/house-style.yaml
  contentplan patterns dump --builtin --output default.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			builtin, _ := cmd.Flags().GetBool("builtin")
			outputPath, _ := cmd.Flags().GetString("output")

			set := pattern.DefaultSet()
			if !builtin {
				active, err := application.registry.Active()
				if err != nil {
					return fmt.Errorf("resolving patterns: %w", err)
				}
				set = active
			}

			if outputPath == "" {
				return pattern.Dump(application.printer.Out(), set)
			}

			file, err := os.Create(outputPath)
			if err != nil {
				return fmt.Errorf("creating %s: %w", outputPath, err)
			}
			if err := pattern.Dump(file, set); err != nil {
				file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return fmt.Errorf("closing %s: %w", outputPath, err)
			}
			application.printer.Success("wrote %s", outputPath)
			return nil
		},
	}

	cmd.Flags().Bool("builtin", false, "dump the built-in set without overrides")
	cmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
	return cmd
}

func patternsCheckCmd(application *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check [dir]",
		Short: "Validate a directory of pattern overrides",
		Long: `Load every YAML file in a patterns directory, validate it and compile
the merged set. Defaults to the configured patterns directory.

Example:
  contentplan patterns check ./patterns`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := application.cfg.Patterns.Dir
			if len(args) > 0 {
				dir = args[0]
			}
			if dir == "" {
				return fmt.Errorf("no patterns directory: pass one or set --patterns-dir")
			}
			if _, err := os.Stat(dir); err != nil {
				return fmt.Errorf("reading patterns directory: %w", err)
			}

			registry := pattern.NewRegistry()
			registry.SetLogger(application.logger.Named("patterns"))
			if err := registry.LoadDirectory(dir); err != nil {
				return err
			}
			active, err := registry.Active()
			if err != nil {
				return err
			}

			table := output.NewQuietTable(application.printer.Out(), []string{"Name", "Version", "Fields", "Sections", "Markers", "Description"}, application.printer.IsQuiet())
			for _, set := range registry.List() {
				table.AddRow([]string{
					set.Name,
					set.Version,
					strconv.Itoa(len(set.Fields)),
					strconv.Itoa(len(set.Sections)),
					strconv.Itoa(len(set.Markers)),
					output.Truncate(set.Description, 50),
				})
			}
			if err := table.Render(); err != nil {
				return err
			}

			application.printer.Success("%d override set(s) valid; active set %s", registry.Count(), active.Name)
			return nil
		},
	}
}

func patternsPreviewCmd(application *app) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <file>",
		Short: "Re-parse a document whenever pattern overrides change",
		Long: `Parse a document with the active patterns, then watch the patterns
directory and parse it again on every change. Stop with Ctrl-C.

Example:
  contentplan patterns preview calendar.md --patterns-dir ./patterns`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if application.cfg.Patterns.Dir == "" {
				return fmt.Errorf("no patterns directory: set --patterns-dir")
			}
			text, err := readInput(cmd.Context(), args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			registry := application.registry
			previewOnce := func() {
				parser, err := application.parser()
				if err != nil {
					application.printer.Error("%v", err)
					return
				}
				printPreview(application.printer, parser, text)
			}

			previewOnce()
			registry.SetOnChange(func(event string, set *pattern.Set) {
				name := "removed set"
				if set != nil {
					name = set.Name
				}
				application.printer.Info("patterns %s: %s", event, name)
				previewOnce()
			})
			if err := registry.Watch(); err != nil {
				return err
			}
			defer registry.StopWatch()

			application.printer.Info("watching %s", application.cfg.Patterns.Dir)
			<-cmd.Context().Done()
			return nil
		},
	}
}

// printPreview prints what parser recovers from text.
func printPreview(printer *output.Printer, parser *extract.Parser, text string) {
	extraction := parser.ExtractContentPieces(text)
	strategies := parser.ParseStrategies(text)
	_, hasRecommendation := parser.ParseRecommendation(text)

	printer.Header(fmt.Sprintf("Preview with %s %s", parser.PatternSet().Name, parser.PatternSet().Version))
	printer.Print("pieces: %d (%s), skipped: %d", len(extraction.Pieces), extraction.Tier, len(extraction.Skipped))
	printer.Print("strategies: %d, recommendation: %t", len(strategies), hasRecommendation)
	for _, skip := range extraction.Skipped {
		printer.Warning("skipped block %s", skip)
	}
	if len(extraction.Pieces) > 0 {
		if err := printer.RenderPieces(extraction.Pieces); err != nil {
			printer.Error("%v", err)
		}
	}
}
