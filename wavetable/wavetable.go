// wavetable.go - fixed-length lookup table with frequency-driven accumulator
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

// Package wavetable implements the fixed-length unit-period waveform
// store shared by synth events and LFOs. Peek is the hot method: one
// read, one add, one conditional wrap, and one division by the
// sampleRate/length ratio, which is cached at construction (table length
// is fixed), in the same spirit as the reference engine's sinLUT/tanhLUT
// lookup tables.
package wavetable

// Precision is the default table length, matching the reference engine's
// WAVE_TABLE_PRECISION.
const Precision = 128

// Table is a fixed-length waveform lookup table plus an accumulator and
// target frequency.
type Table struct {
	data        []float32
	sampleRate  float64
	accumulator float64
	frequency   float64
	ratio       float64 // cached sampleRate/length
}

// New builds a table of the given length (content left zeroed; callers
// fill the slice returned by Data) at the given sample rate.
func New(length int, sampleRate float64) *Table {
	if length <= 0 {
		panic("wavetable: length must be > 0")
	}
	t := &Table{
		data:       make([]float32, length),
		sampleRate: sampleRate,
	}
	t.ratio = sampleRate / float64(length)
	return t
}

// Data returns the mutable backing slice, for generators that fill the
// table in place (e.g. envelopegenerator-style logarithmic ramps).
func (t *Table) Data() []float32 { return t.data }

// Len returns the table length.
func (t *Table) Len() int { return len(t.data) }

// SetFrequency sets the accumulator's step frequency.
func (t *Table) SetFrequency(freq float64) { t.frequency = freq }

// Frequency returns the current step frequency.
func (t *Table) Frequency() float64 { return t.frequency }

// Reset zeroes the accumulator without touching table content.
func (t *Table) Reset() { t.accumulator = 0 }

// Peek returns the current sample and advances the accumulator by the
// configured frequency, wrapping within [0, sampleRate).
func (t *Table) Peek() float32 {
	index := int(t.accumulator / t.ratio)
	if index >= len(t.data) {
		index = len(t.data) - 1
	}
	sample := t.data[index]

	t.accumulator += t.frequency
	if t.accumulator >= t.sampleRate {
		t.accumulator -= t.sampleRate
	} else if t.accumulator < 0 {
		t.accumulator += t.sampleRate
	}
	return sample
}

// Clone duplicates both table contents and the accumulator so a template
// table can be pooled and each derived LFO/envelope evolves independently.
func (t *Table) Clone() *Table {
	out := &Table{
		data:        make([]float32, len(t.data)),
		sampleRate:  t.sampleRate,
		accumulator: t.accumulator,
		frequency:   t.frequency,
		ratio:       t.ratio,
	}
	copy(out.data, t.data)
	return out
}

// Pool is an explicit, non-global store of wavetable templates keyed by
// name, replacing the reference engine's static wave-table singleton per
// the resolved "static singletons" design note.
type Pool struct {
	templates map[string]*Table
}

// NewPool constructs an empty pool.
func NewPool() *Pool {
	return &Pool{templates: make(map[string]*Table)}
}

// Register stores a template under name, overwriting any existing entry.
func (p *Pool) Register(name string, t *Table) {
	p.templates[name] = t
}

// Acquire returns a fresh clone of the named template, or nil if absent.
func (p *Pool) Acquire(name string) *Table {
	t, ok := p.templates[name]
	if !ok {
		return nil
	}
	return t.Clone()
}
