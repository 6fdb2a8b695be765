package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"cpinsights/internal/config"
	"cpinsights/internal/infrastructure"
	"cpinsights/pkg/contracts"
)

// app carries the flags and the state prepared before a subcommand runs.
type app struct {
	out io.Writer

	configPath string
	outDir     string
	logLevel   string
	workbook   bool

	cfg     *config.Config
	paths   *config.Paths
	logger  *slog.Logger
	tracing *infrastructure.TracingProviders
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	rootCmd := &cobra.Command{
		Use:   "cpinsights",
		Short: "Export competitive programming profile insights as CSV reports",
		Long: `cpinsights fetches a public LeetCode or Codeforces profile, aggregates
solved problems by difficulty, language, topic and contest, and writes five
CSV reports to the output directory:

  overall_stats.csv  language_usage.csv  topic_strengths.csv
  contest_performance.csv  solved_questions.csv`,
		Version:       contracts.GetFullVersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default: cpinsights.yaml, config.yaml or ~/.cpinsights/config.yaml)")
	flags.StringVarP(&a.outDir, "out", "o", "", "output directory for the reports")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.BoolVar(&a.workbook, "xlsx", false, "also write all reports into "+config.WorkbookFile)

	rootCmd.AddCommand(
		newLeetCodeCmd(a),
		newCodeforcesCmd(a),
		newReportCmd(a),
		newCacheCmd(a),
		newConfigCmd(a),
	)
	return rootCmd
}

// setup loads the configuration, applies flag overrides and starts logging
// and tracing.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	if a.outDir != "" {
		cfg.Output.Dir = a.outDir
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.workbook {
		cfg.Output.Workbook = true
	}

	paths, err := cfg.GetPaths()
	if err != nil {
		return err
	}
	if paths.CacheFile != "" {
		cfg.Cache.Path = paths.CacheFile
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	paths.LogPathResolution()

	tracing, err := infrastructure.InitializeTracing(cfg.Tracing, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	a.cfg = cfg
	a.paths = paths
	a.logger = logger
	a.tracing = tracing

	logger.Debug("Configuration loaded",
		slog.String("command", cmd.Name()),
		slog.String("output_dir", paths.OutputDir),
		slog.Bool("cache", cfg.Cache.Enabled),
		slog.Bool("workbook", cfg.Output.Workbook))
	return nil
}

// teardown flushes pending spans. Subcommands defer it so it also runs
// when the command fails.
func (a *app) teardown(ctx context.Context) {
	if err := a.tracing.Shutdown(context.WithoutCancel(ctx)); err != nil {
		a.logger.Warn("Failed to flush traces", slog.String("error", err.Error()))
	}
}
