package memstore

import (
	"context"
	"sync"
	"time"
)

type idempotencyEntry struct {
	value     string
	done      bool
	expiresAt time.Time
}

// IdempotencyStore is the in-process fallback used when Redis is not
// configured. Entries expire after ttl like the Redis keys do.
type IdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]idempotencyEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewIdempotencyStore(ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{
		entries: make(map[string]idempotencyEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func idempotencyKey(scope, key string) string {
	return scope + ":" + key
}

// lookup drops expired entries. Callers hold mu.
func (s *IdempotencyStore) lookup(k string) (idempotencyEntry, bool) {
	e, ok := s.entries[k]
	if ok && !s.now().Before(e.expiresAt) {
		delete(s.entries, k)
		return idempotencyEntry{}, false
	}
	return e, ok
}

func (s *IdempotencyStore) TryLock(_ context.Context, scope, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := idempotencyKey(scope, key)
	if _, ok := s.lookup(k); ok {
		return false, nil
	}
	s.entries[k] = idempotencyEntry{expiresAt: s.now().Add(s.ttl)}
	return true, nil
}

func (s *IdempotencyStore) Unlock(_ context.Context, scope, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := idempotencyKey(scope, key)
	if e, ok := s.lookup(k); ok && !e.done {
		delete(s.entries, k)
	}
	return nil
}

func (s *IdempotencyStore) Remember(_ context.Context, scope, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[idempotencyKey(scope, key)] = idempotencyEntry{
		value:     value,
		done:      true,
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

func (s *IdempotencyStore) Recall(_ context.Context, scope, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(idempotencyKey(scope, key))
	if !ok || !e.done {
		return "", false, nil
	}
	return e.value, true, nil
}
