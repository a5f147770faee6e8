// reverb.go - Schroeder reverberator
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

package processor

import "github.com/driftwave-audio/engine/buffer"

// combDelays and combDecays are the reference chip's prime-length comb
// filter bank (audio_chip.go's applyReverb), chosen to avoid harmonic
// relationships that would cause metallic resonances.
var combDelays = [4]int{1687, 1601, 2053, 2251}
var combDecays = [4]float32{0.97, 0.95, 0.93, 0.91}

// allpassDelays are the two series allpass stages following the comb bank.
var allpassDelays = [2]int{389, 307}

const (
	allpassCoef       = 0.5
	reverbAttenuation = 0.25
)

type combFilter struct {
	buffer []float32
	pos    int
	decay  float32
}

type allpassFilter struct {
	buffer []float32
	pos    int
}

// Reverb is a classic Schroeder reverberator: parallel comb filters into
// series allpass filters, with a pre-delay separating direct sound from
// early reflections. Ported from the reference chip's applyReverb.
// Time-varying internal state makes caching its output incorrect, so it
// always reports Cacheable() == false.
type Reverb struct {
	// Mix is the wet/dry blend in [0, 1].
	Mix float32

	preDelay    []float32
	preDelayPos int
	combs       [4]combFilter
	allpass     [2]allpassFilter
}

// NewReverb constructs a reverb for the given engine sample rate, sizing
// the pre-delay buffer to 8ms.
func NewReverb(sampleRate float64) *Reverb {
	r := &Reverb{}
	preDelayFrames := int(0.008 * sampleRate)
	if preDelayFrames < 1 {
		preDelayFrames = 1
	}
	r.preDelay = make([]float32, preDelayFrames)
	for i := range r.combs {
		r.combs[i] = combFilter{buffer: make([]float32, combDelays[i]), decay: combDecays[i]}
	}
	for i := range r.allpass {
		r.allpass[i] = allpassFilter{buffer: make([]float32, allpassDelays[i])}
	}
	return r
}

// Cacheable implements Processor.
func (r *Reverb) Cacheable() bool { return false }

// Process implements Processor.
func (r *Reverb) Process(buf *buffer.Buffer, isMonoSource bool) {
	if r.Mix <= 0 {
		return
	}
	channels := buf.Channels()
	if isMonoSource {
		channels = 1
	}
	for ch := 0; ch < channels; ch++ {
		data := buf.Channel(ch)
		for i := range data {
			dry := data[i]
			wet := r.tick(dry)
			data[i] = dry*(1-r.Mix) + wet*r.Mix
		}
	}
	if isMonoSource {
		buf.ApplyMonoSource()
	}
}

func (r *Reverb) tick(input float32) float32 {
	delayed := r.preDelay[r.preDelayPos]
	r.preDelay[r.preDelayPos] = input
	r.preDelayPos = (r.preDelayPos + 1) % len(r.preDelay)

	var out float32
	for i := range r.combs {
		c := &r.combs[i]
		cDelay := c.buffer[c.pos]
		c.buffer[c.pos] = delayed + cDelay*c.decay
		out += cDelay
		c.pos = (c.pos + 1) % len(c.buffer)
	}

	for i := range r.allpass {
		a := &r.allpass[i]
		aDelay := a.buffer[a.pos]
		a.buffer[a.pos] = out + aDelay*allpassCoef
		out = aDelay - out
		a.pos = (a.pos + 1) % len(a.buffer)
	}

	return out * reverbAttenuation
}
