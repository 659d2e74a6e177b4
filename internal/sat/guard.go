package sat

import "sync"

// Guard is the single-flight admission policy protecting the solver from
// concurrent reentry. Only one validation may hold the guard at a time;
// what happens to the others is the policy.
type Guard interface {
	// TryAcquire claims the slot, returning false when a check is already
	// in flight. It never blocks.
	TryAcquire() bool
	// Release frees the slot. Must only be called after a successful
	// TryAcquire.
	Release()
}

// DropGuard rejects overlapping requests outright: the caller receives an
// empty (valid) result without the solver running. No queue, no waiting.
// This is the engine's documented availability-over-soundness trade-off -
// a true violation can be missed while the solver is busy.
type DropGuard struct {
	mu sync.Mutex
}

func (g *DropGuard) TryAcquire() bool {
	return g.mu.TryLock()
}

func (g *DropGuard) Release() {
	g.mu.Unlock()
}
