// guard.go - non-blocking render-side read/write guard
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

package instrument

import "sync"

// Guard distinguishes "being mutated" (a caller adding/removing events,
// changing start/length) from "being read by the render core." The render
// core must never block on a render-thread-critical section, so it uses
// TryRLock and simply skips the instrument for this callback on contention
// rather than stalling.
type Guard struct {
	mu sync.RWMutex
}

// TryRLock attempts to take the read side without blocking. Returns false
// if a writer currently holds the guard.
func (g *Guard) TryRLock() bool { return g.mu.TryRLock() }

// RUnlock releases a successful TryRLock.
func (g *Guard) RUnlock() { g.mu.RUnlock() }

// Lock takes the write side, blocking. Used by non-render-thread callers
// (the control facade, a UI action) that must complete their mutation.
func (g *Guard) Lock() { g.mu.Lock() }

// Unlock releases the write side.
func (g *Guard) Unlock() { g.mu.Unlock() }
