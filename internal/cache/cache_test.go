package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock provides a controllable time source for TTL tests.
type fakeClock struct {
	current time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func TestNewKey(t *testing.T) {
	assert.Equal(t, Key("series_AAPL_1M"), NewKey("series", "AAPL", "1M"))
	assert.Equal(t, Key("quote_AAPL"), NewKey("quote", "AAPL", ""))
}

func TestPutThenGet(t *testing.T) {
	clock := newFakeClock()
	store := NewWithClock[string](clock.Now)

	store.Put(NewKey("quote", "AAPL", ""), "payload")

	got, ok := store.Get(NewKey("quote", "AAPL", ""))
	require.True(t, ok)
	assert.Equal(t, "payload", got)
}

func TestGetMissing(t *testing.T) {
	store := New[string]()

	got, ok := store.Get(NewKey("quote", "MSFT", ""))
	assert.False(t, ok)
	assert.Equal(t, "", got)
}

func TestTTLExpiry(t *testing.T) {
	clock := newFakeClock()
	store := NewWithClock[string](clock.Now)
	key := NewKey("quote", "AAPL", "")

	store.Put(key, "payload")

	// Still fresh at exactly the TTL boundary
	clock.Advance(TTL)
	_, ok := store.Get(key)
	assert.True(t, ok, "entry at exactly TTL should still be fresh")

	// One millisecond past the boundary the entry is gone
	clock.Advance(time.Millisecond)
	_, ok = store.Get(key)
	assert.False(t, ok, "entry past TTL should be evicted on read")

	// The expired read evicted the entry, so even winding the clock back
	// does not resurrect it.
	clock.Advance(-2 * TTL)
	_, ok = store.Get(key)
	assert.False(t, ok)
}

func TestPutResetsStoredAt(t *testing.T) {
	clock := newFakeClock()
	store := NewWithClock[int](clock.Now)
	key := NewKey("series", "AAPL", "1M")

	store.Put(key, 1)
	clock.Advance(TTL - time.Minute)
	store.Put(key, 2)
	clock.Advance(TTL - time.Minute)

	got, ok := store.Get(key)
	require.True(t, ok, "overwrite should reset the entry lifetime")
	assert.Equal(t, 2, got)
}

func TestEvictScope(t *testing.T) {
	store := New[string]()
	k1 := NewKey("quote", "AAPL", "")
	k2 := NewKey("quote", "MSFT", "")

	store.Put(k1, "a")
	store.Put(k2, "b")

	store.Evict(k1)

	_, ok := store.Get(k1)
	assert.False(t, ok)

	got, ok := store.Get(k2)
	require.True(t, ok, "sibling key must survive a single-key evict")
	assert.Equal(t, "b", got)
}

func TestEvictMissingIsNoop(t *testing.T) {
	store := New[string]()
	store.Evict(NewKey("quote", "GONE", ""))
	assert.Equal(t, 0, store.Len())
}

func TestEvictAll(t *testing.T) {
	store := New[string]()
	store.Put(NewKey("quote", "AAPL", ""), "a")
	store.Put(NewKey("quote", "MSFT", ""), "b")

	store.EvictAll()

	assert.Equal(t, 0, store.Len())
	_, ok := store.Get(NewKey("quote", "AAPL", ""))
	assert.False(t, ok)
}
