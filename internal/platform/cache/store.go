package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/riskibarqy/gridiron-loader/internal/platform/resilience"
)

var errNoLoader = errors.New("cache: loader is required")

type entry[V any] struct {
	value     V
	expiresAt time.Time
	seq       uint64
}

// Option tunes a Store.
type Option func(*options)

type options struct {
	maxEntries int
}

// WithMaxEntries bounds the store. On overflow expired entries go first, then
// the oldest write. Zero or negative means unbounded.
func WithMaxEntries(n int) Option {
	return func(o *options) { o.maxEntries = n }
}

// Store is an in-process TTL map. A ttl of zero keeps entries until they are
// deleted or evicted.
type Store[V any] struct {
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
	flight     resilience.SingleFlight[V]

	mu      sync.RWMutex
	entries map[string]entry[V]
	seq     uint64
}

func NewStore[V any](ttl time.Duration, opts ...Option) *Store[V] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[V]{
		ttl:        ttl,
		maxEntries: o.maxEntries,
		now:        time.Now,
		entries:    make(map[string]entry[V]),
	}
}

func (s *Store[V]) Get(_ context.Context, key string) (V, bool) {
	var zero V
	if key == "" {
		return zero, false
	}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if s.expired(e, s.now()) {
		s.mu.Lock()
		if current, ok := s.entries[key]; ok && current.seq == e.seq {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return zero, false
	}
	return e.value, true
}

func (s *Store[V]) Set(_ context.Context, key string, value V) {
	if key == "" {
		return
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists && s.maxEntries > 0 && len(s.entries) >= s.maxEntries {
		s.evictLocked(now)
	}
	s.seq++
	e := entry[V]{value: value, seq: s.seq}
	if s.ttl > 0 {
		e.expiresAt = now.Add(s.ttl)
	}
	s.entries[key] = e
}

func (s *Store[V]) Delete(_ context.Context, key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// GetOrLoad returns the cached value or runs loader once for all concurrent
// callers of the same key. Loader errors are not cached.
func (s *Store[V]) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (V, error)) (V, error) {
	var zero V
	if loader == nil {
		return zero, errNoLoader
	}
	if key == "" {
		return loader(ctx)
	}
	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(ctx, key, func(ctx context.Context) (V, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}
		loaded, err := loader(ctx)
		if err != nil {
			return zero, err
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	return value, err
}

func (s *Store[V]) expired(e entry[V], now time.Time) bool {
	return s.ttl > 0 && !e.expiresAt.After(now)
}

// evictLocked frees at least one slot. Callers hold mu.
func (s *Store[V]) evictLocked(now time.Time) {
	oldestKey := ""
	var oldestSeq uint64
	for key, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, key)
			continue
		}
		if oldestKey == "" || e.seq < oldestSeq {
			oldestKey, oldestSeq = key, e.seq
		}
	}
	if len(s.entries) >= s.maxEntries && oldestKey != "" {
		delete(s.entries, oldestKey)
	}
}
