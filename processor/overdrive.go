// overdrive.go - tanh waveshaper
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

package processor

import (
	"github.com/driftwave-audio/engine/buffer"
	"github.com/driftwave-audio/engine/wavetable"
)

// Overdrive applies tanh-based waveshaping, ported from the reference
// chip's overdrive stage but using the fastTanh lookup table instead of
// math.Tanh on the hot path.
type Overdrive struct {
	// Drive in [0, 4]. 0 disables the effect.
	Drive float32
}

// Cacheable implements Processor.
func (o *Overdrive) Cacheable() bool { return true }

// Process implements Processor.
func (o *Overdrive) Process(buf *buffer.Buffer, isMonoSource bool) {
	if o.Drive <= 0 {
		return
	}
	channels := buf.Channels()
	if isMonoSource {
		channels = 1
	}
	for ch := 0; ch < channels; ch++ {
		data := buf.Channel(ch)
		for i := range data {
			data[i] = wavetable.FastTanh(data[i] * o.Drive)
		}
	}
	if isMonoSource {
		buf.ApplyMonoSource()
	}
}
