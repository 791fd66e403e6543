package tablecache

import (
	"context"
	"time"

	"github.com/riskibarqy/gridiron-loader/internal/domain/table"
	"github.com/riskibarqy/gridiron-loader/internal/platform/cache"
)

// MemoryStore is an in-process table cache. Tables are cloned on the way in
// and out so callers never share row maps with the cache.
type MemoryStore struct {
	store *cache.Store[table.Table]
}

// NewMemoryStore keeps at most maxEntries tables; zero means unbounded.
func NewMemoryStore(ttl time.Duration, maxEntries int) *MemoryStore {
	return &MemoryStore{store: cache.NewStore[table.Table](ttl, cache.WithMaxEntries(maxEntries))}
}

func (s *MemoryStore) Get(ctx context.Context, key table.Key) (table.Table, bool, error) {
	value, ok := s.store.Get(ctx, key.String())
	if !ok {
		return table.Table{}, false, nil
	}
	return value.Clone(), true, nil
}

func (s *MemoryStore) Put(ctx context.Context, key table.Key, value table.Table) error {
	s.store.Set(ctx, key.String(), value.Clone())
	return nil
}
