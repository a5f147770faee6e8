// envelope.go - ADSR envelope generator
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

// Package generator implements the envelope and LFO generators synth
// events and processors draw on. The ADSR state machine is grounded in
// the reference engine's Channel.updateEnvelope (audio_chip.go); the
// logarithmic ramp helper is grounded in original_source's
// envelopegenerator.cpp, which fills a wavetable-style buffer using
// coeff = 1 + (log(end)-log(start))/N rather than a linear ramp.
package generator

import "math"

// Shape selects the envelope's attack/release behavior, mirroring the
// reference chip's ENV_SHAPE register values.
type Shape int

const (
	ShapeADSR Shape = iota
	ShapeSawUp
	ShapeSawDown
	ShapeLoop
)

// Phase is the current stage of the envelope state machine.
type Phase int

const (
	PhaseAttack Phase = iota
	PhaseDecay
	PhaseSustain
	PhaseRelease
	PhaseIdle
)

const minEnvTime = 1

// Envelope is a sample-rate-driven ADSR generator. All timing fields are
// in samples so the render hot path never divides by a millisecond
// constant per call.
type Envelope struct {
	AttackTime, DecayTime, ReleaseTime int
	SustainLevel                      float32
	Shape                             Shape

	phase  Phase
	sample int
	level  float32
	gate   bool
}

// NewEnvelope constructs an envelope with the given stage times (samples)
// and sustain level.
func NewEnvelope(attack, decay, release int, sustain float32, shape Shape) *Envelope {
	if attack < minEnvTime {
		attack = minEnvTime
	}
	if decay < minEnvTime {
		decay = minEnvTime
	}
	if release < minEnvTime {
		release = minEnvTime
	}
	return &Envelope{
		AttackTime:   attack,
		DecayTime:    decay,
		ReleaseTime:  release,
		SustainLevel: sustain,
		Shape:        shape,
		phase:        PhaseAttack,
	}
}

// Gate opens (true) or closes (false) the envelope. Opening restarts the
// attack stage; closing from sustain begins release.
func (e *Envelope) Gate(open bool) {
	if open && !e.gate {
		e.phase = PhaseAttack
		e.sample = 0
	}
	if !open && e.gate && e.phase == PhaseSustain {
		e.phase = PhaseRelease
		e.sample = 0
	}
	e.gate = open
}

// Level returns the current envelope amplitude without advancing state.
func (e *Envelope) Level() float32 { return e.level }

// Phase returns the current stage.
func (e *Envelope) Phase() Phase { return e.phase }

// Done reports whether a (non-looping) release has finished.
func (e *Envelope) Done() bool { return e.phase == PhaseIdle }

// Advance steps the envelope by one sample and returns the new level.
func (e *Envelope) Advance() float32 {
	switch e.phase {
	case PhaseAttack:
		e.advanceAttack()
	case PhaseDecay:
		e.advanceDecay()
	case PhaseSustain:
		if !e.gate {
			e.phase = PhaseRelease
			e.sample = 0
		}
	case PhaseRelease:
		e.advanceRelease()
	case PhaseIdle:
	}
	return e.level
}

func (e *Envelope) advanceAttack() {
	switch e.Shape {
	case ShapeSawUp:
		e.level = float32(e.sample) / float32(e.AttackTime)
		e.sample++
		if e.sample >= e.AttackTime {
			e.level = 1
			e.phase = PhaseSustain
		}
	case ShapeSawDown:
		e.level = 1 - float32(e.sample)/float32(e.AttackTime)
		e.sample++
		if e.sample >= e.AttackTime {
			e.level = 0
			e.phase = PhaseSustain
		}
	default:
		e.level += 1.0 / float32(e.AttackTime)
		if e.level >= 1 {
			e.level = 1
			e.phase = PhaseDecay
			e.sample = 0
		}
	}
}

func (e *Envelope) advanceDecay() {
	e.level = 1 - ((1 - e.SustainLevel) * float32(e.sample) / float32(e.DecayTime))
	e.sample++
	if e.sample >= e.DecayTime {
		e.phase = PhaseSustain
		e.level = e.SustainLevel
	}
}

func (e *Envelope) advanceRelease() {
	switch e.Shape {
	case ShapeLoop:
		e.level *= 1 - float32(e.sample)/float32(e.ReleaseTime)
		e.sample++
		if e.sample >= e.ReleaseTime {
			e.phase = PhaseAttack
			e.sample = 0
		}
	default:
		e.level *= 1 - float32(e.sample)/float32(e.ReleaseTime)
		e.sample++
		if e.sample >= e.ReleaseTime {
			e.level = 0
			e.phase = PhaseIdle
		}
	}
}

// FillLogRamp fills dst with a logarithmic ramp from start to end across
// len(dst) steps, using coeff = 1 + (log(end)-log(start))/N - grounded in
// original_source's envelopegenerator.cpp. start and end must be > 0.
func FillLogRamp(dst []float32, start, end float32) {
	n := len(dst)
	if n == 0 || start <= 0 || end <= 0 {
		return
	}
	coeff := 1 + (math.Log(float64(end))-math.Log(float64(start)))/float64(n)
	value := float64(start)
	for i := 0; i < n; i++ {
		dst[i] = float32(value)
		value *= coeff
	}
}
