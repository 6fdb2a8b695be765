package pipeline

import (
	"context"
	"log/slog"

	"cpinsights/internal/exporter"
	"cpinsights/internal/insights"
	"cpinsights/internal/source/leetcode"
	"cpinsights/pkg/contracts/domain"
)

// LeetCodeSource is the subset of the LeetCode client a run needs.
type LeetCodeSource interface {
	OverallStats(ctx context.Context, username string) (ac, total []domain.DifficultyCount, err error)
	RecentAccepted(ctx context.Context, username string, limit int) ([]domain.SubmissionRecord, error)
	ContestHistory(ctx context.Context, username string) ([]domain.ContestResult, error)
}

// Enricher attaches problem metadata to submissions.
type Enricher interface {
	Enrich(ctx context.Context, records []domain.SubmissionRecord) ([]domain.SubmissionRecord, leetcode.EnrichStats, error)
}

// LeetCodeOptions bounds how many recent submissions feed each report.
type LeetCodeOptions struct {
	Username string
	// RecentLimit feeds language usage and topic strengths.
	RecentLimit int
	// SolvedLimit feeds the solved questions dump.
	SolvedLimit int
}

// leetCodeRun holds data shared between the steps of one run. The recent
// submission list is fetched once with the larger limit and each report
// takes its own prefix, so enrichment covers every slug only once.
type leetCodeRun struct {
	source   LeetCodeSource
	enricher Enricher
	opts     LeetCodeOptions
	logger   *slog.Logger

	recent   []domain.SubmissionRecord
	fetched  bool
	enriched []domain.SubmissionRecord
}

// NewLeetCode builds the LeetCode report pipeline.
func NewLeetCode(source LeetCodeSource, enricher Enricher, exp Exporter, opts LeetCodeOptions, logger *slog.Logger) *Pipeline {
	run := &leetCodeRun{source: source, enricher: enricher, opts: opts, logger: logger}

	steps := []Step{
		{ID: StepOverallStats, Name: "Overall stats", Render: run.overallStats},
		{ID: StepLanguageUsage, Name: "Language usage", Render: run.languageUsage},
		{ID: StepTopicStrengths, Name: "Topic strengths", Render: run.topicStrengths},
		{ID: StepContestPerformance, Name: "Contest performance", Render: run.contestPerformance},
		{ID: StepSolvedQuestions, Name: "Solved questions", Render: run.solvedQuestions},
	}
	return New(domain.PlatformLeetCode, opts.Username, steps, exp, logger)
}

func (r *leetCodeRun) overallStats(ctx context.Context) (exporter.Report, error) {
	ac, total, err := r.source.OverallStats(ctx, r.opts.Username)
	if err != nil {
		return exporter.Report{}, err
	}
	stats, err := insights.AcceptanceStats(ac, total)
	if err != nil {
		return exporter.Report{}, err
	}
	return exporter.LeetCodeOverallStats(stats), nil
}

func (r *leetCodeRun) languageUsage(ctx context.Context) (exporter.Report, error) {
	recent, err := r.recentSubmissions(ctx)
	if err != nil {
		return exporter.Report{}, err
	}
	return exporter.LeetCodeLanguageUsage(insights.LanguageUsage(prefix(recent, r.opts.RecentLimit))), nil
}

func (r *leetCodeRun) topicStrengths(ctx context.Context) (exporter.Report, error) {
	enriched, err := r.enrichedSubmissions(ctx)
	if err != nil {
		return exporter.Report{}, err
	}
	return exporter.LeetCodeTopicStrengths(insights.TopicStrengths(prefix(enriched, r.opts.RecentLimit), true)), nil
}

func (r *leetCodeRun) contestPerformance(ctx context.Context) (exporter.Report, error) {
	history, err := r.source.ContestHistory(ctx, r.opts.Username)
	if err != nil {
		return exporter.Report{}, err
	}
	return exporter.LeetCodeContestPerformance(insights.AttendedContests(history)), nil
}

func (r *leetCodeRun) solvedQuestions(ctx context.Context) (exporter.Report, error) {
	enriched, err := r.enrichedSubmissions(ctx)
	if err != nil {
		return exporter.Report{}, err
	}
	return exporter.LeetCodeSolvedQuestions(prefix(enriched, r.opts.SolvedLimit)), nil
}

func (r *leetCodeRun) recentSubmissions(ctx context.Context) ([]domain.SubmissionRecord, error) {
	if r.fetched {
		return r.recent, nil
	}

	limit := max(r.opts.RecentLimit, r.opts.SolvedLimit)
	recent, err := r.source.RecentAccepted(ctx, r.opts.Username, limit)
	if err != nil {
		return nil, err
	}
	r.recent = recent
	r.fetched = true
	return recent, nil
}

func (r *leetCodeRun) enrichedSubmissions(ctx context.Context) ([]domain.SubmissionRecord, error) {
	if r.enriched != nil {
		return r.enriched, nil
	}

	recent, err := r.recentSubmissions(ctx)
	if err != nil {
		return nil, err
	}

	enriched, stats, err := r.enricher.Enrich(ctx, recent)
	if err != nil {
		return nil, err
	}

	r.logger.InfoContext(ctx, "Resolved problem metadata",
		slog.Int("problems", stats.Distinct),
		slog.Int("cache_hits", stats.CacheHits),
		slog.Int("fetched", stats.Fetched))

	r.enriched = enriched
	return enriched, nil
}

func prefix(records []domain.SubmissionRecord, n int) []domain.SubmissionRecord {
	if n < len(records) {
		return records[:n]
	}
	return records
}
