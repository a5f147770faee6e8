// sampled.go - instrument whose events reference registry samples
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

package instrument

import (
	"github.com/driftwave-audio/engine/buffer"
	"github.com/driftwave-audio/engine/event"
)

// Sampled is an instrument whose events reference sample buffers it does
// not own, resolved through the sampler registry by the caller before
// construction.
type Sampled struct {
	*Instrument
	sampleRate float64
}

// NewSampled constructs a sampled instrument.
func NewSampled(id event.InstrumentID, channels, frames int, samplesPerBar int64, engineSampleRate float64) *Sampled {
	return &Sampled{
		Instrument: New(id, channels, frames, samplesPerBar),
		sampleRate: engineSampleRate,
	}
}

// NewEvent constructs and adds a sequenced sample event referencing src.
func (s *Sampled) NewEvent(start, length int64, volumeLinear float32, src *buffer.Buffer, opts event.SampleEventOptions) *event.SampleEvent {
	ev := event.NewSample(s.ID, start, length, volumeLinear, src, s.sampleRate, opts)
	s.AddSequenced(ev)
	return ev
}

// NewDrum constructs and adds a one-shot drum-style sample event.
func (s *Sampled) NewDrum(start int64, volumeLinear float32, src *buffer.Buffer) *event.SampleEvent {
	ev := event.NewDrumSample(s.ID, start, volumeLinear, src, s.sampleRate)
	s.AddSequenced(ev)
	return ev
}
