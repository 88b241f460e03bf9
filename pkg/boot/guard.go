package boot

import (
	"sync"
	"sync/atomic"
)

// Guard is the single process-wide flag deciding which handler set — the
// bootloader's or the full runtime's — is live for a page. It is the
// only writer of that decision.
//
// The check-then-set is one atomic operation with no intervening yield
// point, so a double-registration race between independently loaded
// scripts cannot leave two handler sets active.
type Guard struct {
	active   atomic.Bool
	attempts atomic.Uint32

	mu    sync.Mutex
	owner string
}

// NewGuard creates an inactive guard.
func NewGuard() *Guard {
	return &Guard{}
}

// TryActivate attempts to claim the page for the named handler set.
// Returns true exactly once per guard lifetime; every attempt is counted.
func (g *Guard) TryActivate(owner string) bool {
	g.attempts.Add(1)

	if !g.active.CompareAndSwap(false, true) {
		return false
	}

	g.mu.Lock()
	g.owner = owner
	g.mu.Unlock()
	return true
}

// Active reports whether some handler set holds the page.
func (g *Guard) Active() bool {
	return g.active.Load()
}

// Owner names the handler set that won, or "" when none has.
func (g *Guard) Owner() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.owner
}

// Attempts counts registration attempts, successful or not.
func (g *Guard) Attempts() uint32 {
	return g.attempts.Load()
}

// Registrations counts successful registrations: 0 or 1 by construction.
func (g *Guard) Registrations() uint32 {
	if g.active.Load() {
		return 1
	}
	return 0
}

var pageGuard = NewGuard()

// Default returns the process-wide guard used when a page does not carry
// its own. SSR servers create one guard per page instead.
func Default() *Guard {
	return pageGuard
}
