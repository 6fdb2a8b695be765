package pipeline

import (
	"context"
	"log/slog"

	"cpinsights/internal/exporter"
	"cpinsights/internal/insights"
	"cpinsights/pkg/contracts/domain"
)

// CodeforcesSource is the subset of the Codeforces client a run needs.
type CodeforcesSource interface {
	UserInfo(ctx context.Context, handle string) (domain.UserProfile, error)
	Submissions(ctx context.Context, handle string, from, count int) ([]domain.SubmissionRecord, error)
	RatingHistory(ctx context.Context, handle string) ([]domain.ContestResult, error)
}

// CodeforcesOptions configures a Codeforces run.
type CodeforcesOptions struct {
	Handle string
	// StatusCount is the number of submissions requested from user.status.
	StatusCount int
}

// codeforcesRun fetches the submission list once; language usage, topic
// strengths and the solved dump all read its accepted subset.
type codeforcesRun struct {
	source CodeforcesSource
	opts   CodeforcesOptions
	logger *slog.Logger

	accepted []domain.SubmissionRecord
	fetched  bool
}

// NewCodeforces builds the Codeforces report pipeline.
func NewCodeforces(source CodeforcesSource, exp Exporter, opts CodeforcesOptions, logger *slog.Logger) *Pipeline {
	run := &codeforcesRun{source: source, opts: opts, logger: logger}

	steps := []Step{
		{ID: StepOverallStats, Name: "Overall stats", Render: run.overallStats},
		{ID: StepLanguageUsage, Name: "Language usage", Render: run.languageUsage},
		{ID: StepTopicStrengths, Name: "Topic strengths", Render: run.topicStrengths},
		{ID: StepContestPerformance, Name: "Contest performance", Render: run.contestPerformance},
		{ID: StepSolvedQuestions, Name: "Solved questions", Render: run.solvedQuestions},
	}
	return New(domain.PlatformCodeforces, opts.Handle, steps, exp, logger)
}

func (r *codeforcesRun) overallStats(ctx context.Context) (exporter.Report, error) {
	profile, err := r.source.UserInfo(ctx, r.opts.Handle)
	if err != nil {
		return exporter.Report{}, err
	}
	return exporter.CodeforcesOverallStats(profile), nil
}

func (r *codeforcesRun) languageUsage(ctx context.Context) (exporter.Report, error) {
	accepted, err := r.acceptedSubmissions(ctx)
	if err != nil {
		return exporter.Report{}, err
	}
	return exporter.CodeforcesLanguageUsage(insights.LanguageUsage(accepted)), nil
}

func (r *codeforcesRun) topicStrengths(ctx context.Context) (exporter.Report, error) {
	accepted, err := r.acceptedSubmissions(ctx)
	if err != nil {
		return exporter.Report{}, err
	}
	return exporter.CodeforcesTopicStrengths(insights.TopicStrengths(accepted, false)), nil
}

func (r *codeforcesRun) contestPerformance(ctx context.Context) (exporter.Report, error) {
	history, err := r.source.RatingHistory(ctx, r.opts.Handle)
	if err != nil {
		return exporter.Report{}, err
	}
	return exporter.CodeforcesContestPerformance(insights.AttendedContests(history)), nil
}

func (r *codeforcesRun) solvedQuestions(ctx context.Context) (exporter.Report, error) {
	accepted, err := r.acceptedSubmissions(ctx)
	if err != nil {
		return exporter.Report{}, err
	}
	return exporter.CodeforcesSolvedQuestions(accepted), nil
}

func (r *codeforcesRun) acceptedSubmissions(ctx context.Context) ([]domain.SubmissionRecord, error) {
	if r.fetched {
		return r.accepted, nil
	}

	all, err := r.source.Submissions(ctx, r.opts.Handle, 1, r.opts.StatusCount)
	if err != nil {
		return nil, err
	}
	r.accepted = insights.AcceptedOnly(all)
	r.fetched = true

	r.logger.InfoContext(ctx, "Fetched submissions",
		slog.Int("total", len(all)),
		slog.Int("accepted", len(r.accepted)))
	return r.accepted, nil
}
