package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/coolbeans/contentplan/pkg/config"
	"github.com/coolbeans/contentplan/pkg/extract"
	"github.com/coolbeans/contentplan/pkg/logging"
	"github.com/coolbeans/contentplan/pkg/output"
	"github.com/coolbeans/contentplan/pkg/pattern"
)

var version = "0.1.0"

// flagKeys maps command-line flags to the configuration keys they override.
// Only flags defined on the executing command are bound.
var flagKeys = map[string]string{
	"patterns-dir":   "patterns.dir",
	"color":          "output.colors",
	"out-dir":        "output.dir",
	"formats":        "output.formats",
	"brand":          "output.brand",
	"backfill":       "backfill.enabled",
	"strict":         "validation.strict",
	"fail-on-warn":   "validation.fail_on_warn",
	"skip-gates":     "validation.skip_gates",
	"min-pieces":     "backfill.min_pieces",
	"min-strategies": "backfill.min_strategies",
}

// app holds the state shared by every command of one invocation.
type app struct {
	viper    *viper.Viper
	cfgFile  string
	verbose  bool
	quiet    bool
	cfg      *config.Config
	logger   *zap.Logger
	printer  *output.Printer
	registry *pattern.DefaultRegistry
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := &app{viper: viper.New()}
	rootCmd := newRootCmd(application)

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		application.reportError(os.Stderr, err)
	}
	stop()
	os.Exit(output.ExitCodeFor(err))
}

func newRootCmd(application *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "contentplan",
		Short: "Content calendar and strategy extractor",
		Long: `contentplan recovers structured content-marketing records from
the free-text output of a language model.

It reads generated documents and produces:
  - Content calendars with numbered, scheduled content pieces
  - Content strategies with pillars, ideas, pros and cons
  - Conformance reports scoring how complete the records are
  - JSON and YAML bundles ready for downstream tools`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return application.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if application.logger != nil {
				logging.Sync(application.logger)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&application.cfgFile, "config", "", "config file (default is .contentplan.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&application.verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVarP(&application.quiet, "quiet", "q", false, "suppress informational output")
	rootCmd.PersistentFlags().String("patterns-dir", "", "directory of YAML pattern overrides")
	rootCmd.PersistentFlags().String("color", "auto", "color output: auto, always, never")

	rootCmd.AddCommand(calendarCmd(application))
	rootCmd.AddCommand(strategiesCmd(application))
	rootCmd.AddCommand(runCmd(application))
	rootCmd.AddCommand(validateCmd(application))
	rootCmd.AddCommand(patternsCmd(application))

	return rootCmd
}

// setup loads configuration and builds the logger, printer and pattern
// registry for the executing command.
func (a *app) setup(cmd *cobra.Command) error {
	if err := bindFlags(a.viper, cmd); err != nil {
		return err
	}

	cfg, err := config.LoadWith(a.viper, a.cfgFile)
	if err != nil {
		return output.NewConfigError(err.Error())
	}
	if a.verbose {
		cfg.Logging.Level = "debug"
		cfg.Logging.Development = true
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		return output.NewConfigError(err.Error())
	}
	a.logger = logger

	colorMode, err := output.ParseColorMode(cfg.Output.Colors)
	if err != nil {
		return output.NewConfigError(err.Error())
	}
	a.printer = output.NewPrinterWithWriters(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.PrinterOptions{
		ColorMode: colorMode,
		Quiet:     a.quiet,
	})

	registry := pattern.NewRegistry()
	registry.SetLogger(logger.Named("patterns"))
	if cfg.Patterns.Dir != "" {
		if err := registry.LoadDirectory(cfg.Patterns.Dir); err != nil {
			return fmt.Errorf("loading pattern overrides: %w", err)
		}
	}
	a.registry = registry

	a.logger.Debug("configuration loaded",
		zap.String("config", a.viper.ConfigFileUsed()),
		zap.String("patterns_dir", cfg.Patterns.Dir),
		zap.Int("pattern_overrides", registry.Count()),
		zap.String("output_dir", cfg.Output.Dir),
		zap.Strings("formats", cfg.Output.Formats))
	return nil
}

// parser builds a parser over the built-in patterns merged with any
// loaded overrides.
func (a *app) parser() (*extract.Parser, error) {
	set, err := a.registry.Active()
	if err != nil {
		return nil, fmt.Errorf("resolving patterns: %w", err)
	}
	parser, err := extract.NewParser(set, extract.WithLogger(a.logger.Named("extract")))
	if err != nil {
		return nil, fmt.Errorf("creating parser: %w", err)
	}
	return parser, nil
}

// reportError prints err, using the structured form for CLI errors.
func (a *app) reportError(w io.Writer, err error) {
	printer := a.printer
	if printer == nil {
		printer = output.NewPrinterWithWriters(os.Stdout, w, output.PrinterOptions{})
	}

	var cliErr *output.CLIError
	if errors.As(err, &cliErr) {
		printer.FormatError(cliErr)
		return
	}
	printer.Error("%v", err)
}

// bindFlags binds the flags of cmd listed in flagKeys to their
// configuration keys, so that flags set explicitly take precedence over
// file and environment values.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for flagName, key := range flagKeys {
		flag := cmd.Flags().Lookup(flagName)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("binding --%s: %w", flagName, err)
		}
	}
	return nil
}
