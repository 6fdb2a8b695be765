// Package metacache keeps per-problem metadata (difficulty and topic tags)
// between runs so that repeated reports do not refetch every problem.
//
// The cache is an optimisation only. A miss, an expired entry or a disabled
// cache all lead to a fresh fetch; reports never depend on cached state being
// present.
package metacache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cpinsights/internal/config"
	"cpinsights/pkg/contracts/domain"
)

// Store reads and writes ProblemMeta keyed by problem slug.
type Store interface {
	// Get returns the cached metadata for slug. ok is false on a miss or
	// when the entry is older than the store's TTL.
	Get(ctx context.Context, slug string) (meta domain.ProblemMeta, ok bool, err error)
	Put(ctx context.Context, meta domain.ProblemMeta) error
	Close() error
}

// Stats summarises the persistent cache contents.
type Stats struct {
	Path    string
	Entries int
	Expired int
	Oldest  time.Time
	Newest  time.Time
}

// New builds the store described by cfg: Nop when caching is disabled,
// otherwise SQLite, fronted by an in-memory LRU when MemorySize > 0.
func New(ctx context.Context, cfg config.CacheConfig, logger *slog.Logger) (Store, error) {
	if !cfg.Enabled {
		logger.Debug("problem metadata cache disabled")
		return Nop{}, nil
	}

	persistent, err := OpenSQLite(ctx, cfg.Path, cfg.TTL)
	if err != nil {
		return nil, err
	}

	pruned, err := persistent.Prune(ctx)
	if err != nil {
		persistent.Close()
		return nil, err
	}

	logger.Debug("problem metadata cache opened",
		slog.String("path", cfg.Path),
		slog.Duration("ttl", cfg.TTL),
		slog.Int64("pruned", pruned))

	if cfg.MemorySize <= 0 {
		return persistent, nil
	}
	return NewTiered(NewMemoryStore(cfg.MemorySize, cfg.TTL), persistent), nil
}

// Nop is a Store that never holds anything.
type Nop struct{}

func (Nop) Get(context.Context, string) (domain.ProblemMeta, bool, error) {
	return domain.ProblemMeta{}, false, nil
}

func (Nop) Put(context.Context, domain.ProblemMeta) error { return nil }

func (Nop) Close() error { return nil }

// Tiered reads through a fast store to a slow one and writes to both.
type Tiered struct {
	fast Store
	slow Store
}

// NewTiered composes fast over slow.
func NewTiered(fast, slow Store) *Tiered {
	return &Tiered{fast: fast, slow: slow}
}

func (t *Tiered) Get(ctx context.Context, slug string) (domain.ProblemMeta, bool, error) {
	if meta, ok, err := t.fast.Get(ctx, slug); err != nil || ok {
		return meta, ok, err
	}

	meta, ok, err := t.slow.Get(ctx, slug)
	if err != nil || !ok {
		return meta, ok, err
	}

	if err := t.fast.Put(ctx, meta); err != nil {
		return domain.ProblemMeta{}, false, err
	}
	return meta, true, nil
}

func (t *Tiered) Put(ctx context.Context, meta domain.ProblemMeta) error {
	if err := t.slow.Put(ctx, meta); err != nil {
		return err
	}
	return t.fast.Put(ctx, meta)
}

func (t *Tiered) Close() error {
	fastErr := t.fast.Close()
	if err := t.slow.Close(); err != nil {
		return err
	}
	return fastErr
}

// Persistent returns the innermost SQLiteStore, if any.
func Persistent(s Store) (*SQLiteStore, bool) {
	switch v := s.(type) {
	case *SQLiteStore:
		return v, true
	case *Tiered:
		return Persistent(v.slow)
	default:
		return nil, false
	}
}

func (s Stats) String() string {
	return fmt.Sprintf("%d entries (%d expired) in %s", s.Entries, s.Expired, s.Path)
}
