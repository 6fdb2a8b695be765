// Package pipeline runs a profile report: it fetches one user's data, reduces
// it and writes the five reports, one step at a time.
//
// Steps run in a fixed order and each one writes its report before the next
// one starts. There is no rollback: when a step fails the files written by
// earlier steps stay on disk and Run returns a *StepError naming the step.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"cpinsights/internal/exporter"
	"cpinsights/internal/infrastructure"
	"cpinsights/pkg/contracts/domain"
)

// Step identifiers, in execution order.
const (
	StepOverallStats       = "overall_stats"
	StepLanguageUsage      = "language_usage"
	StepTopicStrengths     = "topic_strengths"
	StepContestPerformance = "contest_performance"
	StepSolvedQuestions    = "solved_questions"
	StepWorkbook           = "workbook"
)

// Exporter writes rendered reports.
type Exporter interface {
	Export(report exporter.Report) (string, error)
	Finish() (string, error)
}

// Step produces one report.
type Step struct {
	ID     string
	Name   string
	Render func(ctx context.Context) (exporter.Report, error)
}

// StepResult describes a completed step.
type StepResult struct {
	ID       string
	Name     string
	File     string
	Rows     int
	Duration time.Duration
}

// Result summarises a successful run.
type Result struct {
	RunID    string
	Platform domain.Platform
	Handle   string
	Steps    []StepResult
	Workbook string
	Duration time.Duration
}

// Files returns the written report paths in step order.
func (r *Result) Files() []string {
	files := make([]string, 0, len(r.Steps)+1)
	for _, s := range r.Steps {
		files = append(files, s.File)
	}
	if r.Workbook != "" {
		files = append(files, r.Workbook)
	}
	return files
}

// StepError reports which step of a run failed.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s step failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Pipeline is a configured run for one platform and handle.
type Pipeline struct {
	platform domain.Platform
	handle   string
	steps    []Step
	exporter Exporter
	logger   *slog.Logger
}

// New creates a pipeline running steps in the given order.
func New(platform domain.Platform, handle string, steps []Step, exp Exporter, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		platform: platform,
		handle:   handle,
		steps:    steps,
		exporter: exp,
		logger:   logger,
	}
}

// Steps returns the step IDs in execution order.
func (p *Pipeline) Steps() []string {
	ids := make([]string, 0, len(p.steps))
	for _, s := range p.steps {
		ids = append(ids, s.ID)
	}
	return ids
}

// Run executes every step in order and stops at the first failure.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	ctx = infrastructure.EnsureRunID(ctx)
	ctx, span := infrastructure.StartSpan(ctx, "pipeline.run",
		attribute.String("platform", string(p.platform)),
		attribute.String("handle", p.handle))
	defer span.End()

	start := time.Now()
	result := &Result{
		RunID:    infrastructure.GetRunID(ctx),
		Platform: p.platform,
		Handle:   p.handle,
	}

	p.logger.InfoContext(ctx, "Starting profile report",
		slog.String("platform", string(p.platform)),
		slog.String("handle", p.handle),
		slog.Int("steps", len(p.steps)))

	for _, step := range p.steps {
		stepResult, err := p.runStep(ctx, step)
		if err != nil {
			stepErr := &StepError{Step: step.ID, Err: err}
			infrastructure.RecordError(span, stepErr)
			p.logger.ErrorContext(ctx, "Step failed",
				slog.String("step", step.ID),
				slog.Int("completed_steps", len(result.Steps)),
				slog.String("error", err.Error()))
			return result, stepErr
		}
		result.Steps = append(result.Steps, stepResult)
	}

	workbook, err := p.exporter.Finish()
	if err != nil {
		stepErr := &StepError{Step: StepWorkbook, Err: err}
		infrastructure.RecordError(span, stepErr)
		return result, stepErr
	}
	result.Workbook = workbook
	result.Duration = time.Since(start)

	p.logger.InfoContext(ctx, "Profile report completed",
		slog.String("platform", string(p.platform)),
		slog.String("handle", p.handle),
		slog.Int("files", len(result.Files())),
		slog.Duration("duration", result.Duration))

	return result, nil
}

func (p *Pipeline) runStep(ctx context.Context, step Step) (StepResult, error) {
	ctx, span := infrastructure.StartSpan(ctx, "pipeline.step", attribute.String("step", step.ID))
	defer span.End()

	start := time.Now()
	p.logger.DebugContext(ctx, "Running step", slog.String("step", step.ID))

	report, err := step.Render(ctx)
	if err != nil {
		infrastructure.RecordError(span, err)
		return StepResult{}, err
	}

	path, err := p.exporter.Export(report)
	if err != nil {
		infrastructure.RecordError(span, err)
		return StepResult{}, err
	}

	span.SetAttributes(attribute.Int("rows", len(report.Rows)))
	return StepResult{
		ID:       step.ID,
		Name:     step.Name,
		File:     path,
		Rows:     len(report.Rows),
		Duration: time.Since(start),
	}, nil
}
