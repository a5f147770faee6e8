// filter.go - 2-pole state-variable filter
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

package processor

import "github.com/driftwave-audio/engine/buffer"

// FilterType selects the state-variable filter's tap.
type FilterType int

const (
	FilterOff FilterType = iota
	FilterLowPass
	FilterHighPass
	FilterBandPass
)

const (
	maxFilterCutoff = 0.95
	maxResonance    = 4.0
)

// ModSource supplies a per-sample modulation signal for the filter's
// cutoff, satisfied by an AudioChannel's last output sample.
type ModSource interface {
	LastSample() float32
}

// Filter is a 2-pole state-variable filter (LP/HP/BP), ported directly from
// the reference synthesis chip's global filter stage (audio_chip.go's
// GenerateSample filter block). Cutoff and resonance are normalized 0..1;
// cutoffFactor converts normalized cutoff into the per-sample coefficient
// space and must equal 2*pi*maxFilterFreq/sampleRate.
type Filter struct {
	Type            FilterType
	Cutoff          float32
	Resonance       float32
	ModSource       ModSource
	ModAmount       float32
	cutoffFactor    float32
	lp, bp          float32
}

// NewFilter constructs a filter for the given engine sample rate.
func NewFilter(sampleRate float64) *Filter {
	const maxFilterFreq = 20000.0
	const twoPi = 2 * 3.14159265358979
	return &Filter{
		Type:         FilterLowPass,
		cutoffFactor: float32(twoPi * maxFilterFreq / sampleRate),
	}
}

// Cacheable implements Processor: filter state depends only on its inputs
// and parameters, not on wall-clock time, so it is safe to cache.
func (f *Filter) Cacheable() bool { return true }

// Process implements Processor.
func (f *Filter) Process(buf *buffer.Buffer, isMonoSource bool) {
	if f.Type == FilterOff || f.Cutoff <= 0 {
		return
	}

	channels := buf.Channels()
	if isMonoSource {
		channels = 1
	}

	cutoff := f.Cutoff
	if f.ModSource != nil {
		mod := f.ModSource.LastSample() * f.ModAmount
		cutoff += mod
		if cutoff > maxFilterCutoff {
			cutoff = maxFilterCutoff
		}
		if cutoff < 0 {
			cutoff = 0
		}
	}
	c := cutoff * f.cutoffFactor
	r := f.Resonance * maxResonance

	for ch := 0; ch < channels; ch++ {
		data := buf.Channel(ch)
		lp, bp := f.lp, f.bp
		for i := range data {
			sample := data[i]
			lp = lp + c*bp
			hp := (sample - lp) - r*bp
			bp = bp + c*hp

			lp = clamp(lp, -1, 1)
			bp = clamp(bp, -1, 1)
			hp = clamp(hp, -1, 1)

			switch f.Type {
			case FilterLowPass:
				data[i] = lp
			case FilterHighPass:
				data[i] = hp
			case FilterBandPass:
				data[i] = bp
			}
		}
		f.lp, f.bp = lp, bp
	}

	if isMonoSource {
		buf.ApplyMonoSource()
	}
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
