// cache.go - per-channel render cache with generation-counter invalidation
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

package channel

import "github.com/driftwave-audio/engine/buffer"

// cache holds one channel's memoized render of a configured frame range.
// isCaching is true while the range is still being populated; hasCache is
// true only once the whole range has been written. Clear is called by the
// channel's SetVolumeLinear; processor parameters are plain fields, and
// changing one does not clear the cache.
type cache struct {
	buf        *buffer.Buffer
	startOff   int64
	endOff     int64
	writeCur   int64
	isCaching  bool
	hasCache   bool
	generation uint64
}

func newCache(channels, frames int) *cache {
	return &cache{buf: buffer.New(channels, frames)}
}

// Configure sets the cached range [start, end] (inclusive) relative to the
// channel's global frame position, and begins a fresh population pass.
func (c *cache) Configure(start, end int64) {
	c.startOff, c.endOff = start, end
	c.writeCur = start
	c.isCaching = true
	c.hasCache = false
}

// Clear discards any in-progress or completed cache, forcing the next
// overlapping render to re-render from source.
func (c *cache) Clear() {
	c.isCaching = false
	c.hasCache = false
	c.writeCur = c.startOff
	c.generation++
}

// Ready reports whether the cache has a complete, consultable buffer for
// the given generation.
func (c *cache) Ready(generation uint64) bool {
	return c.hasCache && c.generation == generation
}

// Write appends a rendered slice into the cache buffer at writeCur,
// flipping hasCache once the configured range is fully written.
func (c *cache) Write(src *buffer.Buffer) {
	if !c.isCaching {
		return
	}
	n := src.Channels()
	if n > c.buf.Channels() {
		n = c.buf.Channels()
	}
	offset := c.writeCur - c.startOff
	remaining := c.endOff - c.writeCur + 1
	frames := int64(src.Frames())
	if frames > remaining {
		frames = remaining
	}
	if frames <= 0 {
		return
	}
	for ch := 0; ch < n; ch++ {
		dst := c.buf.Channel(ch)
		s := src.Channel(ch)
		for k := int64(0); k < frames; k++ {
			idx := offset + k
			if idx < 0 || idx >= int64(len(dst)) {
				continue
			}
			dst[idx] = s[k]
		}
	}
	c.writeCur += frames
	if c.writeCur > c.endOff {
		c.isCaching = false
		c.hasCache = true
	}
}

// Buffer returns the underlying cache storage for direct reads.
func (c *cache) Buffer() *buffer.Buffer { return c.buf }
