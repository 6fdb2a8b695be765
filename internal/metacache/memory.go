package metacache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"cpinsights/pkg/contracts/domain"
)

// MemoryStore is a size bounded, expiring in-process cache.
type MemoryStore struct {
	cache *expirable.LRU[string, domain.ProblemMeta]
}

// NewMemoryStore holds at most size entries, each for at most ttl.
func NewMemoryStore(size int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: expirable.NewLRU[string, domain.ProblemMeta](size, nil, ttl),
	}
}

func (m *MemoryStore) Get(_ context.Context, slug string) (domain.ProblemMeta, bool, error) {
	meta, ok := m.cache.Get(slug)
	if !ok {
		return domain.ProblemMeta{}, false, nil
	}
	meta.Tags = append([]string(nil), meta.Tags...)
	return meta, true, nil
}

func (m *MemoryStore) Put(_ context.Context, meta domain.ProblemMeta) error {
	meta.Tags = append([]string(nil), meta.Tags...)
	m.cache.Add(meta.Slug, meta)
	return nil
}

// Len returns the number of live entries.
func (m *MemoryStore) Len() int {
	return m.cache.Len()
}

func (m *MemoryStore) Close() error {
	m.cache.Purge()
	return nil
}
