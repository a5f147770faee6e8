// synth.go - instrument whose events own an oscillator bank plus envelope
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

package instrument

import (
	"github.com/driftwave-audio/engine/event"
	"github.com/driftwave-audio/engine/generator"
)

// Synth is an instrument whose events generate samples on demand from a
// shared synthesizer and a per-event ADSR envelope.
type Synth struct {
	*Instrument
	synth          event.Synthesizer
	maxBlockFrames int

	// Envelope defaults applied to every new event; callers may mutate
	// the returned event's envelope afterward for per-note variation.
	AttackSamples, DecaySamples, ReleaseSamples int
	SustainLevel                                float32
	Shape                                        generator.Shape
}

// NewSynth constructs a synth instrument sharing synth across every event
// it creates.
func NewSynth(id event.InstrumentID, channels, frames int, samplesPerBar int64, synth event.Synthesizer, maxBlockFrames int) *Synth {
	return &Synth{
		Instrument:     New(id, channels, frames, samplesPerBar),
		synth:          synth,
		maxBlockFrames: maxBlockFrames,
		AttackSamples:  256,
		DecaySamples:   256,
		ReleaseSamples: 512,
		SustainLevel:   0.7,
		Shape:          generator.ShapeADSR,
	}
}

// NewEvent constructs and adds a sequenced synth event at freq.
func (s *Synth) NewEvent(start, length int64, volumeLinear, freq float32) *event.SynthEvent {
	env := generator.NewEnvelope(s.AttackSamples, s.DecaySamples, s.ReleaseSamples, s.SustainLevel, s.Shape)
	ev := event.NewSynth(s.ID, start, length, volumeLinear, freq, s.synth, env, s.maxBlockFrames, false)
	s.AddSequenced(ev)
	return ev
}

// Play starts a live (unsequenced) synth event at freq, for real-time
// note-on input.
func (s *Synth) Play(volumeLinear, freq float32) *event.SynthEvent {
	env := generator.NewEnvelope(s.AttackSamples, s.DecaySamples, s.ReleaseSamples, s.SustainLevel, s.Shape)
	env.Gate(true)
	ev := event.NewSynth(s.ID, 0, 1<<30, volumeLinear, freq, s.synth, env, s.maxBlockFrames, true)
	s.AddLive(ev)
	return ev
}

// Stop closes ev's envelope gate (note-off) and, once its release and
// live fade both finish, removes it from the live list.
func (s *Synth) Stop(ev *event.SynthEvent) {
	ev.Stop()
}

// ReapLive removes every live synth event that has finished fading.
func (s *Synth) ReapLive() {
	s.Guard.Lock()
	defer s.Guard.Unlock()
	kept := s.live[:0]
	for _, ev := range s.live {
		if ev.IsDeletable() {
			s.Channel.RemoveLive(ev)
			continue
		}
		kept = append(kept, ev)
	}
	s.live = kept
}
