// phaser.go - cascaded allpass phaser swept by an LFO
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

package processor

import (
	"math"

	"github.com/driftwave-audio/engine/buffer"
)

// phaserStages is the number of cascaded allpass delay stages, matching
// original_source's processors/phaser.cpp STAGES constant.
const phaserStages = 6

type allpassDelay struct {
	a1, zm1 float64
}

func (a *allpassDelay) setDelay(d float64) {
	a.a1 = (1.0 - d) / (1.0 + d)
}

func (a *allpassDelay) update(sample float64) float64 {
	y := sample*-a.a1 + a.zm1
	a.zm1 = y*a.a1 + sample
	return y
}

// Phaser sweeps a cascade of allpass filters with an LFO, ported from
// original_source's processors/phaser.cpp.
type Phaser struct {
	Feedback, Depth float64

	rate        float64
	lfoInc      float64
	lfoPhase    float64
	dmin, dmax  float64
	sampleRate  float64
	perChanZm1  []float64
	perChanAlps [][phaserStages]allpassDelay
}

// NewPhaser constructs a phaser for the given sample rate and channel
// count, with its allpass range set to [minFreq, maxFreq] Hz.
func NewPhaser(sampleRate float64, channels int, rateHz, feedback, depth, minFreq, maxFreq float64) *Phaser {
	p := &Phaser{
		Feedback:    feedback,
		Depth:       depth,
		sampleRate:  sampleRate,
		perChanZm1:  make([]float64, channels),
		perChanAlps: make([][phaserStages]allpassDelay, channels),
	}
	p.SetRange(minFreq, maxFreq)
	p.SetRate(rateHz)
	return p
}

// SetRange sets the filter sweep range in Hz.
func (p *Phaser) SetRange(minFreq, maxFreq float64) {
	p.dmin = minFreq / (p.sampleRate / 2.0)
	p.dmax = maxFreq / (p.sampleRate / 2.0)
}

// SetRate sets the LFO sweep rate in Hz.
func (p *Phaser) SetRate(hz float64) {
	p.rate = hz
	p.lfoInc = 2.0 * math.Pi * (hz / p.sampleRate)
}

// Cacheable implements Processor: the LFO phase advances every sample
// regardless of input, so cached playback would desync from the live sweep.
func (p *Phaser) Cacheable() bool { return false }

// Process implements Processor.
func (p *Phaser) Process(buf *buffer.Buffer, isMonoSource bool) {
	channels := buf.Channels()
	if channels > len(p.perChanAlps) {
		channels = len(p.perChanAlps)
	}
	if isMonoSource {
		channels = 1
	}

	for c := 0; c < channels; c++ {
		data := buf.Channel(c)
		alps := &p.perChanAlps[c]
		zm1 := p.perChanZm1[c]
		lfoPhase := p.lfoPhase

		for i := range data {
			d := p.dmin + (p.dmax-p.dmin)*((math.Sin(lfoPhase)+1.0)/2.0)
			lfoPhase += p.lfoInc
			if lfoPhase >= 2*math.Pi {
				lfoPhase -= 2 * math.Pi
			}

			for s := range alps {
				alps[s].setDelay(d)
			}

			y := float64(data[i]) + zm1*p.Feedback
			for s := len(alps) - 1; s >= 0; s-- {
				y = alps[s].update(y)
			}
			zm1 = y

			data[i] += float32(y * p.Depth)
		}
		p.perChanZm1[c] = zm1
		if c == 0 {
			p.lfoPhase = lfoPhase
		}
	}
	if isMonoSource {
		buf.ApplyMonoSource()
	}
}
