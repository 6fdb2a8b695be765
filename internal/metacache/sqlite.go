package metacache

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	apperrors "cpinsights/internal/errors"
	"cpinsights/pkg/contracts/domain"
)

//go:embed schema.sql
var schema string

// SQLiteStore persists ProblemMeta in a single SQLite table. Rows older than
// the TTL are treated as misses and removed by Prune.
type SQLiteStore struct {
	db   *sql.DB
	path string
	ttl  time.Duration
	now  func() time.Time
}

// OpenSQLite opens (creating if needed) the cache database at path.
// ":memory:" gives a private in-memory database.
func OpenSQLite(ctx context.Context, path string, ttl time.Duration) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, apperrors.NewCacheError("failed to create cache directory", err).
				WithContext(apperrors.CtxFile, path)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, apperrors.NewCacheError("failed to open cache database", err).
			WithContext(apperrors.CtxFile, path)
	}
	// one connection keeps ":memory:" databases shared and avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, apperrors.NewCacheError("failed to initialize cache schema", err).
			WithContext(apperrors.CtxFile, path)
	}

	return &SQLiteStore{db: db, path: path, ttl: ttl, now: time.Now}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, slug string) (domain.ProblemMeta, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT difficulty, tags, fetched_at FROM problem_meta WHERE slug = ?`, slug)

	var (
		difficulty string
		rawTags    string
		fetchedAt  int64
	)
	if err := row.Scan(&difficulty, &rawTags, &fetchedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ProblemMeta{}, false, nil
		}
		return domain.ProblemMeta{}, false, apperrors.NewCacheError("failed to read cached problem", err).
			WithContext("slug", slug)
	}

	if s.expired(fetchedAt) {
		return domain.ProblemMeta{}, false, nil
	}

	var tags []string
	if err := json.Unmarshal([]byte(rawTags), &tags); err != nil {
		return domain.ProblemMeta{}, false, apperrors.NewCacheError("failed to decode cached tags", err).
			WithContext("slug", slug)
	}

	return domain.ProblemMeta{Slug: slug, Difficulty: difficulty, Tags: tags}, true, nil
}

func (s *SQLiteStore) Put(ctx context.Context, meta domain.ProblemMeta) error {
	tags := meta.Tags
	if tags == nil {
		tags = []string{}
	}
	rawTags, err := json.Marshal(tags)
	if err != nil {
		return apperrors.NewCacheError("failed to encode tags", err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO problem_meta (slug, difficulty, tags, fetched_at) VALUES (?, ?, ?, ?)
ON CONFLICT(slug) DO UPDATE SET
    difficulty = excluded.difficulty,
    tags = excluded.tags,
    fetched_at = excluded.fetched_at`,
		meta.Slug, meta.Difficulty, string(rawTags), s.now().Unix())
	if err != nil {
		return apperrors.NewCacheError("failed to store problem metadata", err).
			WithContext("slug", meta.Slug)
	}
	return nil
}

// Prune deletes expired rows and returns how many were removed.
func (s *SQLiteStore) Prune(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM problem_meta WHERE fetched_at < ?`, s.cutoff())
	if err != nil {
		return 0, apperrors.NewCacheError("failed to prune cache", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, apperrors.NewCacheError("failed to prune cache", err)
	}
	return n, nil
}

// Stats reports entry counts and the fetch time range.
func (s *SQLiteStore) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{Path: s.path}

	var oldest, newest sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
SELECT COUNT(*),
       COALESCE(SUM(CASE WHEN fetched_at < ? THEN 1 ELSE 0 END), 0),
       MIN(fetched_at),
       MAX(fetched_at)
FROM problem_meta`, s.cutoff()).Scan(&stats.Entries, &stats.Expired, &oldest, &newest)
	if err != nil {
		return Stats{}, apperrors.NewCacheError("failed to read cache stats", err)
	}

	if oldest.Valid {
		stats.Oldest = time.Unix(oldest.Int64, 0)
	}
	if newest.Valid {
		stats.Newest = time.Unix(newest.Int64, 0)
	}
	return stats, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) cutoff() int64 {
	return s.now().Add(-s.ttl).Unix()
}

func (s *SQLiteStore) expired(fetchedAt int64) bool {
	return fetchedAt < s.cutoff()
}
