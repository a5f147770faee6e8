// limiter.go - hard ceiling clamp
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

package processor

import "github.com/driftwave-audio/engine/buffer"

// Limiter hard-clamps every sample to [-Ceiling, +Ceiling]. Intended for
// the master chain: the render core's own final clip uses a fixed ceiling,
// but a Limiter lets a caller apply a tighter one earlier in the chain.
type Limiter struct {
	Ceiling float32
}

// NewLimiter constructs a limiter with the given ceiling.
func NewLimiter(ceiling float32) *Limiter {
	return &Limiter{Ceiling: ceiling}
}

// Cacheable implements Processor.
func (l *Limiter) Cacheable() bool { return true }

// Process implements Processor.
func (l *Limiter) Process(buf *buffer.Buffer, isMonoSource bool) {
	channels := buf.Channels()
	if isMonoSource {
		channels = 1
	}
	for ch := 0; ch < channels; ch++ {
		data := buf.Channel(ch)
		for i := range data {
			data[i] = clamp(data[i], -l.Ceiling, l.Ceiling)
		}
	}
	if isMonoSource {
		buf.ApplyMonoSource()
	}
}
