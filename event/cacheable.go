// cacheable.go - generation-counted cache invalidation wrapper
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

package event

// Cacheable wraps any Event whose rendered output is deterministic and may
// be memoized by its owning channel. The resolved Open Question on caching
// semantics (SPEC_FULL.md section 9) rejected trusting purity silently: a
// generation counter is bumped by Invalidate and by the SetVolumeLinear
// override. The channel cache in package channel keeps its own generation
// and does not read Generation().
type Cacheable struct {
	Event
	generation uint64
}

// NewCacheable wraps e. The wrapped event is still mutated directly through
// the returned Cacheable - callers must not keep a second reference to e and
// mutate it through that reference, or the generation counter will miss the
// change and a stale cache will be read back.
func NewCacheable(e Event) *Cacheable {
	return &Cacheable{Event: e}
}

// Generation returns the current cache generation.
func (c *Cacheable) Generation() uint64 { return c.generation }

// Invalidate bumps the generation counter, forcing any channel cache keyed
// to this event to be treated as stale on the next render.
func (c *Cacheable) Invalidate() { c.generation++ }

// SetVolumeLinear overrides the embedded Event's setter: volume is an
// audible field, so changing it invalidates any cached render.
func (c *Cacheable) SetVolumeLinear(v float32) {
	c.Event.SetVolumeLinear(v)
	c.Invalidate()
}

// Unwrap returns the wrapped event, for callers that need the concrete
// variant (e.g. SampleEvent.SetRange) and must remember to call Invalidate
// themselves afterward.
func (c *Cacheable) Unwrap() Event { return c.Event }
