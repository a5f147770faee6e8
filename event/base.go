// base.go - static pre-rendered buffer event
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

package event

import "github.com/driftwave-audio/engine/buffer"

// BaseEvent mixes a pre-rendered, owned buffer into the output at a
// fixed timeline position. It is the simplest event variant and the one
// every other variant's Mix loop structure is modeled on.
type BaseEvent struct {
	common
	source *buffer.Buffer
}

// NewBase constructs a base event from a buffer it takes ownership of.
// length defaults to the source's frame count if length <= 0.
func NewBase(instrumentID InstrumentID, start int64, length int64, volumeLinear float32, source *buffer.Buffer) *BaseEvent {
	if length <= 0 {
		length = int64(source.Frames())
	}
	return &BaseEvent{
		common: newCommon(instrumentID, start, length, volumeLinear, false),
		source: source,
	}
}

// Mix implements Event.
func (e *BaseEvent) Mix(out *buffer.Buffer, p MixParams) {
	if e.IsLocked() || e.IsDeletable() || !e.IsEnabled() {
		return
	}
	volLog := e.volumeLogarithmic()
	start, end := e.EventStart(), e.EventEnd()
	frames := out.Frames()
	srcChannels := e.source.Channels()

	for c := 0; c < out.Channels(); c++ {
		dst := out.Channel(c)
		srcIdx := c
		if srcIdx >= srcChannels {
			srcIdx = 0
		}
		src := e.source.Channel(srcIdx)

		for i := 0; i < frames; i++ {
			abs := p.absoluteFrame(i)
			if abs < start || abs > end {
				continue
			}
			readIdx := int(abs - start)
			if readIdx < 0 || readIdx >= len(src) {
				continue
			}
			dst[i] += src[readIdx] * volLog
		}
	}
}
