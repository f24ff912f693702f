package masonry

import "sync/atomic"

// LoadGuard is held while a content load and its layout pass are in flight.
// The zero value is released.
type LoadGuard struct {
	busy atomic.Bool
}

// TryAcquire takes the guard and reports whether it was free.
func (g *LoadGuard) TryAcquire() bool { return g.busy.CompareAndSwap(false, true) }

// Release frees the guard.
func (g *LoadGuard) Release() { g.busy.Store(false) }

// Active reports whether the guard is held.
func (g *LoadGuard) Active() bool { return g.busy.Load() }
