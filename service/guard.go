package service

import (
	"sync"
	"time"
)

// FetchGuard collapses overlapping or too-frequent fetch triggers into at
// most one in-flight fetch. It is a try-acquire with a debounce timestamp,
// not a general mutex: a rejected attempt is a silent no-op and is never
// queued — the next scheduled poll tries again.
type FetchGuard struct {
	mu        sync.Mutex
	busy      bool
	lastStart time.Time
	debounce  time.Duration
	now       func() time.Time // swappable for tests
}

// DefaultDebounce matches the appliance's 800 ms retrigger window.
const DefaultDebounce = 800 * time.Millisecond

func NewFetchGuard(debounce time.Duration) *FetchGuard {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &FetchGuard{debounce: debounce, now: time.Now}
}

// TryAcquire claims the guard if no fetch is in flight and the debounce
// window since the last attempt has elapsed.
func (g *FetchGuard) TryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	if g.busy {
		return false
	}
	if !g.lastStart.IsZero() && now.Sub(g.lastStart) < g.debounce {
		return false
	}
	g.busy = true
	g.lastStart = now
	return true
}

// Release frees the guard. The debounce timestamp keeps the attempt time so
// an immediate retrigger after a fast failure still debounces.
func (g *FetchGuard) Release() {
	g.mu.Lock()
	g.busy = false
	g.mu.Unlock()
}
