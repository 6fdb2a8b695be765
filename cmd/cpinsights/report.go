package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"cpinsights/internal/config"
	apperrors "cpinsights/internal/errors"
	"cpinsights/internal/exporter"
	"cpinsights/internal/metacache"
	"cpinsights/internal/pipeline"
	"cpinsights/internal/source/codeforces"
	"cpinsights/internal/source/leetcode"
	"cpinsights/internal/validation"
	"cpinsights/pkg/contracts/domain"
)

func newLeetCodeCmd(a *app) *cobra.Command {
	var recentLimit, solvedLimit int

	cmd := &cobra.Command{
		Use:   "leetcode <username>",
		Short: "Write the reports for a LeetCode profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			defer a.teardown(ctx)

			if recentLimit > 0 {
				a.cfg.LeetCode.RecentLimit = recentLimit
			}
			if solvedLimit > 0 {
				a.cfg.LeetCode.SolvedLimit = solvedLimit
			}
			return a.runLeetCode(ctx, args[0])
		},
	}

	cmd.Flags().IntVar(&recentLimit, "recent", 0, "recent accepted submissions used for language and topic reports")
	cmd.Flags().IntVar(&solvedLimit, "solved", 0, "rows in solved_questions.csv")
	return cmd
}

func newCodeforcesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "codeforces <handle>",
		Short: "Write the reports for a Codeforces profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			defer a.teardown(ctx)
			return a.runCodeforces(ctx, args[0])
		},
	}
}

func newReportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report <platform> <handle>",
		Short: "Write the reports for a profile on the named platform",
		Long:  "Platform is one of: leetcode, codeforces.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			defer a.teardown(ctx)

			platform, err := domain.ParsePlatform(args[0])
			if err != nil {
				return apperrors.NewValidationError(err.Error())
			}
			switch platform {
			case domain.PlatformLeetCode:
				return a.runLeetCode(ctx, args[1])
			default:
				return a.runCodeforces(ctx, args[1])
			}
		},
	}
}

// preflight rejects a bad handle or an unusable output directory before
// any request is sent.
func (a *app) preflight(handle string) error {
	if err := config.ValidateHandle(handle); err != nil {
		return err
	}

	v := validation.NewOutputValidator(a.logger)
	if err := v.ValidateOutputDirectory(a.paths.OutputDir); err != nil {
		return err
	}
	names := config.ReportFiles
	if a.cfg.Output.Workbook {
		names = append(append([]string(nil), names...), config.WorkbookFile)
	}
	return v.ValidateReportPaths(a.paths.OutputDir, names)
}

func (a *app) runLeetCode(ctx context.Context, username string) error {
	if err := a.preflight(username); err != nil {
		return err
	}

	store, err := metacache.New(ctx, a.cfg.Cache, a.logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			a.logger.Warn("Failed to close metadata cache", slog.String("error", err.Error()))
		}
	}()

	client := leetcode.NewClient(a.cfg.LeetCode, a.logger)
	p := pipeline.NewLeetCode(
		client,
		leetcode.NewEnricher(client, store, a.logger),
		exporter.NewReportExporter(a.paths, a.cfg.Output, a.logger),
		pipeline.LeetCodeOptions{
			Username:    username,
			RecentLimit: a.cfg.LeetCode.RecentLimit,
			SolvedLimit: a.cfg.LeetCode.SolvedLimit,
		},
		a.logger,
	)

	result, err := p.Run(ctx)
	printSummary(a.out, result)
	return err
}

func (a *app) runCodeforces(ctx context.Context, handle string) error {
	if err := a.preflight(handle); err != nil {
		return err
	}

	p := pipeline.NewCodeforces(
		codeforces.NewClient(a.cfg.Codeforces, a.logger),
		exporter.NewReportExporter(a.paths, a.cfg.Output, a.logger),
		pipeline.CodeforcesOptions{
			Handle:      handle,
			StatusCount: a.cfg.Codeforces.StatusCount,
		},
		a.logger,
	)

	result, err := p.Run(ctx)
	printSummary(a.out, result)
	return err
}
