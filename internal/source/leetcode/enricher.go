package leetcode

import (
	"context"
	"log/slog"

	"cpinsights/internal/metacache"
	"cpinsights/pkg/contracts/domain"
)

// MetaSource resolves problem metadata by slug.
type MetaSource interface {
	ProblemMeta(ctx context.Context, slug string) (domain.ProblemMeta, error)
}

// EnrichStats counts how each distinct slug was resolved.
type EnrichStats struct {
	Distinct  int
	CacheHits int
	Fetched   int
}

// Enricher attaches difficulty and tags to submission records. Each distinct
// slug is resolved once per call: from the cache when fresh, otherwise with
// one sequential request.
type Enricher struct {
	source MetaSource
	store  metacache.Store
	logger *slog.Logger
}

// NewEnricher creates an enricher. A nil store disables caching.
func NewEnricher(source MetaSource, store metacache.Store, logger *slog.Logger) *Enricher {
	if store == nil {
		store = metacache.Nop{}
	}
	return &Enricher{source: source, store: store, logger: logger}
}

// Enrich returns new records with metadata applied; the input is not modified.
func (e *Enricher) Enrich(ctx context.Context, records []domain.SubmissionRecord) ([]domain.SubmissionRecord, EnrichStats, error) {
	var stats EnrichStats
	resolved := make(map[string]domain.ProblemMeta)
	out := make([]domain.SubmissionRecord, 0, len(records))

	for _, rec := range records {
		meta, ok := resolved[rec.Slug]
		if !ok {
			var err error
			meta, err = e.resolve(ctx, rec.Slug, &stats)
			if err != nil {
				return nil, stats, err
			}
			resolved[rec.Slug] = meta
			stats.Distinct++
		}
		out = append(out, rec.WithMeta(meta))
	}

	e.logger.DebugContext(ctx, "enriched submissions",
		slog.Int("records", len(records)),
		slog.Int("distinct", stats.Distinct),
		slog.Int("cache_hits", stats.CacheHits),
		slog.Int("fetched", stats.Fetched))

	return out, stats, nil
}

func (e *Enricher) resolve(ctx context.Context, slug string, stats *EnrichStats) (domain.ProblemMeta, error) {
	meta, hit, err := e.store.Get(ctx, slug)
	if err != nil {
		e.logger.WarnContext(ctx, "metadata cache read failed, fetching",
			slog.String("slug", slug),
			slog.String("error", err.Error()))
	}
	if err == nil && hit {
		stats.CacheHits++
		return meta, nil
	}

	meta, err = e.source.ProblemMeta(ctx, slug)
	if err != nil {
		return domain.ProblemMeta{}, err
	}
	stats.Fetched++

	if err := e.store.Put(ctx, meta); err != nil {
		e.logger.WarnContext(ctx, "metadata cache write failed",
			slog.String("slug", slug),
			slog.String("error", err.Error()))
	}
	return meta, nil
}
