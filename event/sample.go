// sample.go - sample-playback event with rate, range, loop and crossfade
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

package event

import "github.com/driftwave-audio/engine/buffer"

const (
	minPlaybackRate = 0.01
	maxPlaybackRate = 100.0
)

// clampRate clamps r into the playback rate boundary behavior in
// SPEC_FULL.md section 8.
func clampRate(r float32) float32 {
	if r < minPlaybackRate {
		return minPlaybackRate
	}
	if r > maxPlaybackRate {
		return maxPlaybackRate
	}
	return r
}

// SampleEvent references a registered sample buffer it does not own, with
// optional playback rate, range restriction, looping and crossfade.
type SampleEvent struct {
	common

	source           *buffer.Buffer
	sourceSampleRate float64
	engineSampleRate float64

	playbackRate float32 // user-set rate, pre sample-rate scaling
	hasRange     bool
	rangeStart   int64
	rangeEnd     int64

	looping         bool
	loopStartOffset int64
	loopEndOffset   int64
	crossfadeMS     float64
}

// SampleEventOptions configures the optional extensions on construction.
type SampleEventOptions struct {
	PlaybackRate     float32 // 0 means unset / 1.0
	RangeStart       int64
	RangeEnd         int64 // RangeEnd <= RangeStart means "no range restriction"
	Looping          bool
	LoopStartOffset  int64
	LoopEndOffset    int64
	CrossfadeMS      float64
	SourceSampleRate float64 // 0 means "same as engine"
}

// NewSample constructs a sample event referencing source (not owned).
func NewSample(instrumentID InstrumentID, start, length int64, volumeLinear float32, source *buffer.Buffer, engineSampleRate float64, opts SampleEventOptions) *SampleEvent {
	rate := opts.PlaybackRate
	if rate == 0 {
		rate = 1.0
	}
	sourceRate := opts.SourceSampleRate
	if sourceRate == 0 {
		sourceRate = engineSampleRate
	}

	e := &SampleEvent{
		common:           newCommon(instrumentID, start, length, volumeLinear, false),
		source:           source,
		sourceSampleRate: sourceRate,
		engineSampleRate: engineSampleRate,
		playbackRate:     clampRate(rate),
		looping:          opts.Looping,
		loopStartOffset:  opts.LoopStartOffset,
		loopEndOffset:    opts.LoopEndOffset,
		crossfadeMS:      opts.CrossfadeMS,
	}
	if opts.RangeEnd > opts.RangeStart {
		e.hasRange = true
		e.rangeStart = opts.RangeStart
		e.rangeEnd = opts.RangeEnd
	}
	return e
}

// NewDrumSample returns a sample event pre-configured for one-shot,
// full-length, non-looping playback from the referenced sample's native
// length - the composition-based stand-in for the distinct "drum event"
// type present in the original reference engine.
func NewDrumSample(instrumentID InstrumentID, start int64, volumeLinear float32, source *buffer.Buffer, engineSampleRate float64) *SampleEvent {
	return NewSample(instrumentID, start, int64(source.Frames()), volumeLinear, source, engineSampleRate, SampleEventOptions{})
}

// effectiveRate returns the playback rate after sample-rate scaling.
func (e *SampleEvent) effectiveRate() float32 {
	return e.playbackRate * float32(e.sourceSampleRate/e.engineSampleRate)
}

// EventLength overrides common: a non-looping sample event's length and
// end scale with playback rate; a looping event reports its untransformed
// length so the sequencer treats it as a stable-duration block.
func (e *SampleEvent) EventLength() int64 {
	if e.looping {
		return e.common.EventLength()
	}
	rate := e.effectiveRate()
	if rate == 0 {
		return e.common.EventLength()
	}
	return int64(float32(e.common.EventLength()) / rate)
}

// EventEnd overrides common using the (possibly rate-scaled) length.
func (e *SampleEvent) EventEnd() int64 {
	return e.EventStart() + e.EventLength() - 1
}

// SetRange restricts reads to [start, end], wrapping inside this range
// rather than the full sample. Passing end <= start disables range-based
// playback; any non-empty range stays in effect, including one that
// spans the event's whole length.
func (e *SampleEvent) SetRange(start, end int64) {
	if end <= start {
		e.hasRange = false
		return
	}
	e.hasRange = true
	e.rangeStart = start
	e.rangeEnd = end
}

// crossfadeSamples returns round(c*s/1000).
func (e *SampleEvent) crossfadeSamples() int {
	return int(e.crossfadeMS*e.sourceSampleRate/1000 + 0.5)
}

// readAt returns the interpolated source sample at a fractional source
// index on the given source channel, honoring range restriction and loop
// wrap.
func (e *SampleEvent) readAt(channel int, srcIndex float64) float32 {
	lo := int64(0)
	hi := int64(e.source.Frames()) - 1
	if e.hasRange {
		lo, hi = e.rangeStart, e.rangeEnd
	}
	span := hi - lo + 1
	if span <= 0 {
		return 0
	}

	if e.looping {
		loopSpan := e.loopEndOffset - e.loopStartOffset + 1
		if loopSpan > 0 && int64(srcIndex) >= e.loopStartOffset {
			offsetIntoLoop := (int64(srcIndex) - e.loopStartOffset) % loopSpan
			srcIndex = float64(e.loopStartOffset + offsetIntoLoop)
		}
	} else if e.hasRange {
		offsetIntoRange := int64(srcIndex) % span
		if offsetIntoRange < 0 {
			offsetIntoRange += span
		}
		srcIndex = float64(lo + offsetIntoRange)
	}

	i0 := int64(srcIndex)
	frac := float32(srcIndex - float64(i0))
	if i0 < 0 {
		i0 = 0
	}
	if i0 >= int64(e.source.Frames())-1 {
		return e.sourceChannelSample(channel, i0)
	}

	s0 := e.sourceChannelSample(channel, i0)
	s1 := e.sourceChannelSample(channel, i0+1)
	return s0 + frac*(s1-s0)
}

func (e *SampleEvent) sourceChannelSample(channel int, idx int64) float32 {
	ch := e.source.Channel(channel)
	if idx < 0 || int(idx) >= len(ch) {
		return 0
	}
	return ch[idx]
}

// crossfadeGain returns the [0,1] gain to apply for a loop-seam crossfade
// at the given (post-wrap) source index, or 1 if no crossfade applies.
func (e *SampleEvent) crossfadeGain(srcIndex int64) float32 {
	n := e.crossfadeSamples()
	if !e.looping || n <= 0 {
		return 1
	}
	if srcIndex >= e.loopStartOffset && srcIndex < e.loopStartOffset+int64(n) {
		return float32(srcIndex-e.loopStartOffset) / float32(n)
	}
	if srcIndex > e.loopEndOffset-int64(n) && srcIndex <= e.loopEndOffset {
		return float32(e.loopEndOffset-srcIndex) / float32(n)
	}
	return 1
}

// Mix implements Event.
func (e *SampleEvent) Mix(out *buffer.Buffer, p MixParams) {
	if e.IsLocked() || e.IsDeletable() || !e.IsEnabled() {
		return
	}
	volLog := e.volumeLogarithmic()
	start, end := e.EventStart(), e.EventEnd()
	frames := out.Frames()
	rate := e.effectiveRate()

	srcChannels := e.source.Channels()
	for c := 0; c < out.Channels(); c++ {
		dst := out.Channel(c)
		srcCh := c
		if srcCh >= srcChannels {
			srcCh = 0
		}

		for i := 0; i < frames; i++ {
			abs := p.absoluteFrame(i)
			if abs < start || abs > end {
				continue
			}
			framesIntoEvent := float64(abs - start)
			srcIndex := framesIntoEvent * float64(rate)

			sample := e.readAt(srcCh, srcIndex)
			sample *= e.crossfadeGain(int64(srcIndex))
			dst[i] += sample * volLog
		}
	}
}
