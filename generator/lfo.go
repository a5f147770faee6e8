// lfo.go - free-running low-frequency oscillator
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

package generator

import "github.com/driftwave-audio/engine/wavetable"

// LFO is a free-running modulation source built on a wavetable. Nothing
// in this module uses it: processor.Phaser runs its own sine sweep. Grounded
// in original_source's lfo.cpp/lfo.h (supplemented - the distillation
// dropped the dedicated LFO module in favor of naming only envelope
// generators).
type LFO struct {
	table *wavetable.Table
	depth float32
}

// NewLFO builds an LFO from a sine-filled template table at the given
// rate (Hz) and modulation depth (0..1).
func NewLFO(sampleRate float64, length int, rateHz float64, depth float32) *LFO {
	t := wavetable.New(length, sampleRate)
	data := t.Data()
	for i := range data {
		data[i] = wavetable.FastSin(float32(i) * (2 * 3.14159265 / float32(length)))
	}
	t.SetFrequency(rateHz)
	return &LFO{table: t, depth: depth}
}

// SetRate changes the LFO's rate in Hz.
func (l *LFO) SetRate(hz float64) { l.table.SetFrequency(hz) }

// SetDepth changes the modulation depth.
func (l *LFO) SetDepth(depth float32) { l.depth = depth }

// Next advances the LFO and returns its depth-scaled output in [-depth, depth].
func (l *LFO) Next() float32 {
	return l.table.Peek() * l.depth
}
