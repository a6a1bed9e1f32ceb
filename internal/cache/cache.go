// Package cache provides the in-memory TTL cache and the refresh governor
// that rate-limits forced cache invalidations.
//
// Both stores are session-lifetime: initialized empty at process start, no
// persistence across restarts. Expiry is checked lazily on read; there is no
// background sweep.
package cache

import (
	"fmt"
	"sync"
	"time"
)

// TTL is the fixed lifetime of a cache entry.
const TTL = 30 * time.Minute

// Key identifies a cache entry. Callers build keys with NewKey so the
// "{purpose}_{ticker}_{period}" convention stays in one place.
type Key string

// NewKey builds a cache key from its parts. An empty period is omitted, so
// NewKey("quote", "AAPL", "") yields "quote_AAPL". Purpose and ticker are
// always required.
func NewKey(purpose, ticker, period string) Key {
	k := purpose + "_" + ticker
	if period != "" {
		k += "_" + period
	}
	return Key(k)
}

// entry is a stored payload with its storage timestamp.
type entry[V any] struct {
	value    V
	storedAt time.Time
}

// Store is a TTL cache for payloads of type V. The zero value is not usable;
// construct with New or NewWithClock.
type Store[V any] struct {
	mu      sync.Mutex
	entries map[Key]entry[V]
	now     func() time.Time
}

// New creates an empty cache store.
func New[V any]() *Store[V] {
	return NewWithClock[V](time.Now)
}

// NewWithClock creates an empty cache store with an injected clock.
// Used by tests to advance virtual time instead of sleeping.
func NewWithClock[V any](now func() time.Time) *Store[V] {
	return &Store[V]{
		entries: make(map[Key]entry[V]),
		now:     now,
	}
}

// Get returns the payload for key if present and fresh. An entry older than
// TTL is evicted on this read and reported absent. Absence is a normal
// outcome, not an error.
//
// The check-then-evict sequence is done under the lock so a concurrent
// reader never observes a half-evicted entry.
func (s *Store[V]) Get(key Key) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		var zero V
		return zero, false
	}

	if s.now().Sub(e.storedAt) > TTL {
		delete(s.entries, key)
		var zero V
		return zero, false
	}

	return e.value, true
}

// Put stores payload under key, overwriting any existing entry and resetting
// its storage time. Payload shape is the caller's responsibility.
func (s *Store[V]) Put(key Key, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry[V]{value: value, storedAt: s.now()}
}

// Evict removes one entry if present; no-op otherwise.
func (s *Store[V]) Evict(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
}

// EvictAll clears every entry.
func (s *Store[V]) EvictAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[Key]entry[V])
}

// Len returns the number of stored entries, expired or not. Used by the
// admin status endpoint.
func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}

// String implements fmt.Stringer for logging.
func (s *Store[V]) String() string {
	return fmt.Sprintf("cache.Store(%d entries)", s.Len())
}
