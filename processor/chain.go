// chain.go - ordered processor chain with cacheability split
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

package processor

import (
	"sync"

	"github.com/driftwave-audio/engine/buffer"
)

// Chain is an ordered list of processors. Insertion, removal and reorder
// are only safe between render callbacks; guarded here with an RWMutex so
// the render thread's Process/Active calls (read side) never block behind
// a writer holding the lock for longer than a pointer swap, matching the
// per-instrument read/write guard pattern used elsewhere in the engine.
type Chain struct {
	mu    sync.RWMutex
	stage []Processor
}

// NewChain returns an empty chain.
func NewChain() *Chain { return &Chain{} }

// Insert appends p to the end of the chain.
func (c *Chain) Insert(p Processor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stage = append(c.stage, p)
}

// Remove deletes the processor at index i. A no-op if i is out of range.
func (c *Chain) Remove(i int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.stage) {
		return
	}
	c.stage = append(c.stage[:i], c.stage[i+1:]...)
}

// Reorder moves the processor at index from to index to.
func (c *Chain) Reorder(from, to int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if from < 0 || from >= len(c.stage) || to < 0 || to >= len(c.stage) || from == to {
		return
	}
	p := c.stage[from]
	c.stage = append(c.stage[:from], c.stage[from+1:]...)
	c.stage = append(c.stage[:to], append([]Processor{p}, c.stage[to:]...)...)
}

// Active returns the current processor list. The returned slice is a
// snapshot copy; mutating it does not mutate the chain.
func (c *Chain) Active() []Processor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Processor, len(c.stage))
	copy(out, c.stage)
	return out
}

// Apply runs every processor in insertion order against buf.
func (c *Chain) Apply(buf *buffer.Buffer, isMonoSource bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.stage {
		p.Process(buf, isMonoSource)
	}
}

// ApplyUpToFirstNonCacheable runs processors in order, stopping (without
// running) at the first non-cacheable stage, and reports how many stages
// ran. A channel populating its cache writes the pre-image at that point -
// the render core then continues the chain from that index on a cache miss,
// or substitutes the cached buffer and continues from that index on a hit.
func (c *Chain) ApplyUpToFirstNonCacheable(buf *buffer.Buffer, isMonoSource bool) (ran int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.stage {
		if !p.Cacheable() {
			return ran
		}
		p.Process(buf, isMonoSource)
		ran++
	}
	return ran
}

// ApplyFrom runs processors starting at index from through the end of the
// chain, used to resume after a cache hit substitutes the cached pre-image.
func (c *Chain) ApplyFrom(buf *buffer.Buffer, isMonoSource bool, from int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if from < 0 {
		from = 0
	}
	for i := from; i < len(c.stage); i++ {
		c.stage[i].Process(buf, isMonoSource)
	}
}

// AllCacheable reports whether every stage in the chain is cacheable -
// the condition under which the channel's cache stores the full chain's
// output rather than a partial pre-image.
func (c *Chain) AllCacheable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.stage {
		if !p.Cacheable() {
			return false
		}
	}
	return true
}
