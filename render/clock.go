// clock.go - sample-accurate sequencer clock
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

// Package render implements the engine's hot path: the render callback
// that advances the clock, collects and mixes events, applies processor
// chains, and hands the result to a driver.Driver. Clock is a field of
// Engine, constructed once in New and threaded through every call - never
// a package-level global, resolving the "global mutable clock" design
// note in SPEC_FULL.md section 9.
package render

import (
	"math"
	"sync/atomic"
)

// TempoChange is a queued tempo/time-signature update, swapped in by the
// render core at the end of a callback (the "safe point" in SPEC_FULL.md
// section 4.7 step 12).
type TempoChange struct {
	BPM        float64
	BeatAmount int
	BeatUnit   int
}

// Clock holds the engine-wide tempo, time signature, derived sample
// counts and loop/playhead state described in SPEC_FULL.md section 3.
// All fields are owned and mutated exclusively by the render goroutine
// except queuedTempo, which is an atomic.Pointer the control plane may
// swap concurrently.
type Clock struct {
	sampleRate float64

	BPM        float64
	BeatAmount int
	BeatUnit   int

	SamplesPerBar  int64
	SamplesPerBeat int64
	SamplesPerStep int64
	StepsPerBar    int

	MinBufferPosition int64
	MaxBufferPosition int64
	BufferPosition    int64
	StepPosition      int64

	MarkedBufferPosition int64
	HasMarker            bool

	queuedTempo atomic.Pointer[TempoChange]
}

// NewClock constructs a Clock at the given sample rate, tempo and time
// signature, with a loop range of [0, one bar - 1] and stepsPerBar steps
// per bar.
func NewClock(sampleRate float64, bpm float64, beatAmount, beatUnit, stepsPerBar int) *Clock {
	c := &Clock{sampleRate: sampleRate, StepsPerBar: stepsPerBar}
	c.setTempoNow(bpm, beatAmount, beatUnit)
	c.MaxBufferPosition = c.SamplesPerBar - 1
	return c
}

// setTempoNow recomputes every derived sample count for the given tempo
// and time signature without touching buffer/loop position - used both
// by NewClock and by ApplyQueuedTempo's post-rescale recompute.
func (c *Clock) setTempoNow(bpm float64, beatAmount, beatUnit int) {
	c.BPM = bpm
	c.BeatAmount = beatAmount
	c.BeatUnit = beatUnit

	secondsPerBeat := 60.0 / bpm
	c.SamplesPerBeat = int64(secondsPerBeat * c.sampleRate)
	c.SamplesPerBar = c.SamplesPerBeat * int64(beatAmount)
	if c.StepsPerBar <= 0 {
		c.StepsPerBar = 16
	}
	c.SamplesPerStep = c.SamplesPerBar / int64(c.StepsPerBar)
	if c.SamplesPerStep <= 0 {
		c.SamplesPerStep = 1
	}
}

// QueueTempo stores a pending tempo/time-signature change to be applied
// at the next callback's safe point (SPEC_FULL.md section 4.7 step 12).
// Safe to call from any goroutine.
func (c *Clock) QueueTempo(bpm float64, beatAmount, beatUnit int) {
	c.queuedTempo.Store(&TempoChange{BPM: bpm, BeatAmount: beatAmount, BeatUnit: beatUnit})
}

// ApplyQueuedTempo applies a pending tempo change, if any, rescaling
// bufferPosition and the loop range by the old/new tempo ratio per the
// invariant in SPEC_FULL.md section 3. Returns whether a change was
// applied and the factor the positions were multiplied by.
func (c *Clock) ApplyQueuedTempo() (applied bool, ratio float64) {
	tc := c.queuedTempo.Swap(nil)
	if tc == nil {
		return false, 1
	}
	oldBPM := c.BPM
	c.setTempoNow(tc.BPM, tc.BeatAmount, tc.BeatUnit)
	ratio = oldBPM / c.BPM
	if math.IsInf(ratio, 0) || math.IsNaN(ratio) || ratio == 0 {
		ratio = 1
	}

	c.BufferPosition = int64(math.Round(float64(c.BufferPosition) * ratio))
	c.MinBufferPosition = int64(math.Round(float64(c.MinBufferPosition) * ratio))
	c.MaxBufferPosition = int64(math.Round(float64(c.MaxBufferPosition) * ratio))
	if c.MarkedBufferPosition != 0 {
		c.MarkedBufferPosition = int64(math.Round(float64(c.MarkedBufferPosition) * ratio))
	}
	if c.BufferPosition < c.MinBufferPosition {
		c.BufferPosition = c.MinBufferPosition
	}
	if c.BufferPosition > c.MaxBufferPosition {
		c.BufferPosition = c.MaxBufferPosition
	}
	return true, ratio
}

// SetLoopRange sets [min, max] and the steps-per-bar subdivision,
// clamping bufferPosition into range.
func (c *Clock) SetLoopRange(min, max int64, stepsPerBar int) {
	if max < min {
		min, max = max, min
	}
	c.MinBufferPosition = min
	c.MaxBufferPosition = max
	if stepsPerBar > 0 {
		c.StepsPerBar = stepsPerBar
		c.SamplesPerStep = c.SamplesPerBar / int64(stepsPerBar)
		if c.SamplesPerStep <= 0 {
			c.SamplesPerStep = 1
		}
	}
	if c.BufferPosition < min {
		c.BufferPosition = min
	}
	if c.BufferPosition > max {
		c.BufferPosition = max
	}
}

// SetBufferPosition clamps frame into [min, max] and sets it as the
// current playhead.
func (c *Clock) SetBufferPosition(frame int64) {
	if frame < c.MinBufferPosition {
		frame = c.MinBufferPosition
	}
	if frame > c.MaxBufferPosition {
		frame = c.MaxBufferPosition
	}
	c.BufferPosition = frame
	c.StepPosition = c.BufferPosition / c.SamplesPerStep
}

// Rewind resets the playhead to the start of the loop range.
func (c *Clock) Rewind() { c.SetBufferPosition(c.MinBufferPosition) }

// SetMarker arms a one-shot notification at the given frame.
func (c *Clock) SetMarker(frame int64) {
	c.MarkedBufferPosition = frame
	c.HasMarker = true
}

// advanceBy moves the playhead forward by n frames, wrapping at
// MaxBufferPosition back to MinBufferPosition, and reports the frame
// offsets (relative to the start of this call) at which a step boundary
// and/or the marker were crossed, so the caller can emit notifications
// with an exact bufferOffset into the callback.
type advanceEvent struct {
	frameOffset int
	stepCrossed bool
	markerHit   bool
	wrapped     bool
}

func (c *Clock) advanceBy(n int) []advanceEvent {
	var events []advanceEvent
	for i := 0; i < n; i++ {
		prevStep := c.BufferPosition / c.SamplesPerStep
		c.BufferPosition++

		var ev advanceEvent
		emit := false
		if c.BufferPosition > c.MaxBufferPosition {
			c.BufferPosition = c.MinBufferPosition
			ev.wrapped = true
			emit = true
		}
		newStep := c.BufferPosition / c.SamplesPerStep
		if newStep != prevStep || ev.wrapped {
			c.StepPosition = newStep
			ev.stepCrossed = true
			emit = true
		}
		if c.HasMarker && c.BufferPosition == c.MarkedBufferPosition {
			ev.markerHit = true
			emit = true
		}
		if emit {
			ev.frameOffset = i
			events = append(events, ev)
		}
	}
	return events
}
