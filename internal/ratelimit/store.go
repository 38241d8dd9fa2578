// Package ratelimit implements the admission gate that bounds how often a
// user may trigger summary generation: a fixed-window counter per user
// backed by a pluggable counter store.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// CounterStore tracks per-key request counts within a rolling window.
// Implementations reset a key's count once its window expires.
type CounterStore interface {
	// Count returns the current request count for the key, or zero if no
	// requests are recorded in the current window.
	Count(ctx context.Context, key string) (int64, error)

	// Increment adds one to the key's count and (re)sets the window
	// expiry to window from now.
	Increment(ctx context.Context, key string, window time.Duration) error

	// IncrementAndCount atomically increments the key's count and returns
	// the new value, setting the window expiry when the key is created.
	// Used by the limiter's atomic admission mode.
	IncrementAndCount(ctx context.Context, key string, window time.Duration) (int64, error)
}

// memoryEntry is one counter with its expiry deadline.
type memoryEntry struct {
	count     int64
	expiresAt time.Time
}

// MemoryCounterStore is an in-process CounterStore. It serves tests and
// single-node deployments where Redis is not configured; counts do not
// survive a restart, which only ever under-counts.
type MemoryCounterStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry

	// now is injectable for tests.
	now func() time.Time
}

// NewMemoryCounterStore creates an empty in-memory counter store.
func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

// Ensure MemoryCounterStore implements CounterStore
var _ CounterStore = (*MemoryCounterStore)(nil)

// Count implements CounterStore.Count
func (s *MemoryCounterStore) Count(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok || s.now().After(entry.expiresAt) {
		return 0, nil
	}
	return entry.count, nil
}

// Increment implements CounterStore.Increment
// The expiry is refreshed on every increment, matching the Redis
// implementation's INCR+EXPIRE pipeline.
func (s *MemoryCounterStore) Increment(
	ctx context.Context,
	key string,
	window time.Duration,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, ok := s.entries[key]
	if !ok || now.After(entry.expiresAt) {
		entry = &memoryEntry{}
		s.entries[key] = entry
	}

	entry.count++
	entry.expiresAt = now.Add(window)
	return nil
}

// IncrementAndCount implements CounterStore.IncrementAndCount
func (s *MemoryCounterStore) IncrementAndCount(
	ctx context.Context,
	key string,
	window time.Duration,
) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, ok := s.entries[key]
	if !ok || now.After(entry.expiresAt) {
		entry = &memoryEntry{expiresAt: now.Add(window)}
		s.entries[key] = entry
	}

	entry.count++
	return entry.count, nil
}
