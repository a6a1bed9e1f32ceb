package cache

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// RefreshCooldown is the minimum interval between permitted forced refreshes
// for a given key.
const RefreshCooldown = 10 * time.Minute

// Governor rate-limits how often a key may be force-refreshed, independent
// of cache contents. Gates live for the whole session; they are never
// destroyed, only overwritten by later refreshes.
//
// MarkRefreshed records unconditionally - it does not verify CanRefresh.
// The market service owns the refresh operation and performs the check
// before marking; keeping the governor a pure recorder keeps "is a refresh
// allowed" and "a refresh happened" independently testable.
type Governor struct {
	mu    sync.Mutex
	gates map[Key]time.Time
	now   func() time.Time
}

// NewGovernor creates an empty refresh governor.
func NewGovernor() *Governor {
	return NewGovernorWithClock(time.Now)
}

// NewGovernorWithClock creates a governor with an injected clock for tests.
func NewGovernorWithClock(now func() time.Time) *Governor {
	return &Governor{
		gates: make(map[Key]time.Time),
		now:   now,
	}
}

// CanRefresh reports whether a forced refresh for key is currently permitted:
// true when no prior refresh was recorded, or when the cooldown has elapsed.
func (g *Governor) CanRefresh(key Key) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	last, ok := g.gates[key]
	if !ok {
		return true
	}
	return g.now().Sub(last) >= RefreshCooldown
}

// MarkRefreshed records now as the last-refresh time for key.
func (g *Governor) MarkRefreshed(key Key) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.gates[key] = g.now()
}

// RemainingCooldown returns how long until the next refresh for key is
// permitted. Returns 0 when no refresh was ever recorded or the cooldown
// has elapsed.
func (g *Governor) RemainingCooldown(key Key) time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()

	last, ok := g.gates[key]
	if !ok {
		return 0
	}

	remaining := RefreshCooldown - g.now().Sub(last)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// FormatCooldown renders a duration as "{minutes}m {seconds}s" for display.
// Total seconds are ceiling-rounded so a 1ms remainder still reads "0m 1s"
// rather than "0m 0s".
func FormatCooldown(d time.Duration) string {
	if d <= 0 {
		return "0m 0s"
	}

	totalSeconds := int(math.Ceil(d.Seconds()))
	return fmt.Sprintf("%dm %ds", totalSeconds/60, totalSeconds%60)
}
