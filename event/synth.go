// synth.go - on-demand synthesized event
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

package event

import (
	"github.com/driftwave-audio/engine/buffer"
	"github.com/driftwave-audio/engine/generator"
)

// MaxOscillators bounds the per-event phase accumulator array, matching
// the reference chip's four-oscillator-plus-headroom convention.
const MaxOscillators = 8

// Synthesizer generates one render block of audio at a given frequency,
// owned by an instrument and shared by every synth event it creates.
// Implementations must not allocate in Synthesize.
type Synthesizer interface {
	Synthesize(scratch []float32, freq float32, phases *[MaxOscillators]float32)
}

// minLiveFrames is the minimum audible length of a live synth event
// before it may fade, preventing audible clicks on rapid stop.
const minLiveFrames = 64

// SynthEvent generates samples on demand from an instrument's
// synthesizer and envelope rather than reading a stored buffer.
type SynthEvent struct {
	common

	freq      float32
	synth     Synthesizer
	envelope  *generator.Envelope
	phases    [MaxOscillators]float32
	scratch   []float32
	envLevels []float32
	liveAge   int64
	fading    bool
	fadeTotal int64
	fadePos   int64
}

// NewSynth constructs a synth event. maxBlockFrames pre-sizes the scratch
// and envelope-level buffers so Mix never allocates.
func NewSynth(instrumentID InstrumentID, start, length int64, volumeLinear float32, freq float32, synth Synthesizer, envelope *generator.Envelope, maxBlockFrames int, live bool) *SynthEvent {
	e := &SynthEvent{
		common:    newCommon(instrumentID, start, length, volumeLinear, live),
		freq:      freq,
		synth:     synth,
		envelope:  envelope,
		scratch:   make([]float32, maxBlockFrames),
		envLevels: make([]float32, maxBlockFrames),
	}
	return e
}

// EventEnd extends the nominal end by the envelope's release duration, so
// the sequencer keeps delivering render windows through the release tail.
func (e *SynthEvent) EventEnd() int64 {
	return e.EventStart() + e.EventLength() - 1 + int64(e.envelope.ReleaseTime)
}

// Stop closes the envelope gate, beginning the release stage.
func (e *SynthEvent) Stop() {
	e.envelope.Gate(false)
}

// Mix implements Event. It renders a fresh block into scratch, then
// merges scratch into the output at the correct write offset using the
// same loop-wrap/range rules as the other variants.
func (e *SynthEvent) Mix(out *buffer.Buffer, p MixParams) {
	if e.IsLocked() || e.IsDeletable() || !e.IsEnabled() {
		return
	}

	if e.IsLive() {
		e.liveAge += int64(out.Frames())
		if e.envelope.Phase() == generator.PhaseRelease && !e.fading && e.liveAge >= minLiveFrames {
			e.fading = true
			e.fadeTotal = int64(out.Frames()) / 4
			if e.fadeTotal < 1 {
				e.fadeTotal = 1
			}
		}
	}

	volLog := e.volumeLogarithmic()
	start, end := e.EventStart(), e.EventEnd()
	frames := out.Frames()

	n := frames
	if n > len(e.scratch) {
		n = len(e.scratch)
	}
	scratch := e.scratch[:n]
	for i := range scratch {
		scratch[i] = 0
	}
	e.synth.Synthesize(scratch, e.freq, &e.phases)

	// Envelope (and fade, for live events) advance exactly once per frame,
	// shared across every output channel below.
	levels := e.envLevels[:n]
	for i := range levels {
		gain := e.envelope.Advance()
		if e.fading {
			fadeGain := float32(1) - float32(e.fadePos)/float32(e.fadeTotal)
			if fadeGain < 0 {
				fadeGain = 0
				e.MarkDeletable()
			}
			gain *= fadeGain
			e.fadePos++
		}
		levels[i] = gain
	}

	for c := 0; c < out.Channels(); c++ {
		dst := out.Channel(c)
		for i := 0; i < frames; i++ {
			abs := p.absoluteFrame(i)
			if abs < start || abs > end {
				continue
			}
			if i >= len(scratch) {
				continue
			}
			dst[i] += scratch[i] * levels[i] * volLog
		}
	}

	if !e.IsLive() && e.envelope.Done() {
		e.MarkDeletable()
	}
}
