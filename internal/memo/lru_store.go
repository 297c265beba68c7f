package memo

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/jonboulle/clockwork"
)

type lruEntry struct {
	value     []byte
	expiresAt time.Time
}

// LRUStore is a per-process cache for single-instance deployments and tests.
// The LRU evicts by size and by maxTTL; shorter per-entry TTLs are enforced
// against the injected clock.
type LRUStore struct {
	cache *expirable.LRU[string, lruEntry]
	clock clockwork.Clock
}

// NewLRUStore builds an LRU store holding at most size entries for up to maxTTL.
func NewLRUStore(size int, maxTTL time.Duration, clock clockwork.Clock) *LRUStore {
	if size <= 0 {
		size = 1
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &LRUStore{
		cache: expirable.NewLRU[string, lruEntry](size, nil, maxTTL),
		clock: clock,
	}
}

func (s *LRUStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	entry, ok := s.cache.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && !s.clock.Now().Before(entry.expiresAt) {
		s.cache.Remove(key)
		return nil, false, nil
	}
	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, true, nil
}

func (s *LRUStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := lruEntry{value: make([]byte, len(value))}
	copy(entry.value, value)
	if ttl > 0 {
		entry.expiresAt = s.clock.Now().Add(ttl)
	}
	s.cache.Add(key, entry)
	return nil
}

func (s *LRUStore) Delete(_ context.Context, key string) error {
	s.cache.Remove(key)
	return nil
}

// Ping always succeeds; the store lives in-process.
func (s *LRUStore) Ping(context.Context) error {
	return nil
}

// Len reports the number of cached entries, including ones past their TTL
// that have not been read since.
func (s *LRUStore) Len() int {
	return s.cache.Len()
}
