// event.go - audio event interface and shared state
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

// Package event implements the engine's event model: base, sample and
// synth variants sharing a mix contract, plus an optional cacheable
// wrapper. Variants are concrete structs implementing a common interface
// (composition), not a class hierarchy - see the "inheritance hierarchy
// of events" design note in SPEC_FULL.md.
package event

import (
	"sync/atomic"

	"github.com/driftwave-audio/engine/buffer"
	"github.com/driftwave-audio/engine/vol"
)

// InstrumentID is an opaque handle an event uses to refer to its owning
// instrument without holding a pointer back to it - a weak reference in
// spirit, resolved through a lookup rather than dereferenced directly.
type InstrumentID int64

// MixParams carries the per-callback window and loop-wrap parameters the
// render core supplies to every event's Mix call.
type MixParams struct {
	PlayheadFrame        int64
	LoopMin, LoopMax     int64
	LoopIsWrapping       bool
	LoopWrapOffset       int64
	UseChannelLocalRange bool
	ChannelLocalRange    int64 // only consulted when UseChannelLocalRange is set
}

// absoluteFrame computes, for output index i, the absolute timeline frame
// per the mix contract in SPEC_FULL.md section 4.3.
func (p MixParams) absoluteFrame(i int) int64 {
	var frame int64
	if p.LoopIsWrapping && int64(i) >= p.LoopWrapOffset {
		frame = p.LoopMin + (int64(i) - p.LoopWrapOffset)
	} else {
		frame = p.PlayheadFrame + int64(i)
	}
	if p.UseChannelLocalRange && frame > p.LoopMax && p.ChannelLocalRange > 0 {
		frame %= p.ChannelLocalRange
	}
	return frame
}

// Event is the shared behavior every variant implements.
type Event interface {
	Mix(out *buffer.Buffer, p MixParams)
	EventStart() int64
	EventEnd() int64
	EventLength() int64
	IsEnabled() bool
	SetEnabled(bool)
	IsLocked() bool
	Lock()
	Unlock()
	IsDeletable() bool
	MarkDeletable()
	IsLive() bool
	Instrument() InstrumentID
	VolumeLinear() float32
	SetVolumeLinear(float32)
}

// common holds the fields shared by every concrete event variant. Embedded,
// not inherited: each variant struct embeds common (by value) and adds
// its own fields and Mix override.
type common struct {
	instrument InstrumentID
	start      int64
	length     int64
	volumeLog  float32 // stored logarithmically, per the engine's volume contract
	enabled    bool
	live       bool
	locked     atomic.Bool
	deletable  atomic.Bool
}

func newCommon(instrumentID InstrumentID, start, length int64, volumeLinear float32, live bool) common {
	return common{
		instrument: instrumentID,
		start:      start,
		length:     length,
		volumeLog:  vol.ToLog(volumeLinear),
		enabled:    true,
		live:       live,
	}
}

func (c *common) EventStart() int64       { return c.start }
func (c *common) EventLength() int64      { return c.length }
func (c *common) EventEnd() int64         { return c.start + c.length - 1 }
func (c *common) IsEnabled() bool         { return c.enabled }
func (c *common) SetEnabled(v bool)       { c.enabled = v }
func (c *common) IsLocked() bool          { return c.locked.Load() }
func (c *common) Lock()                   { c.locked.Store(true) }
func (c *common) Unlock()                 { c.locked.Store(false) }
func (c *common) IsDeletable() bool       { return c.deletable.Load() }
func (c *common) MarkDeletable()          { c.deletable.Store(true) }
func (c *common) IsLive() bool            { return c.live }
func (c *common) Instrument() InstrumentID { return c.instrument }
func (c *common) VolumeLinear() float32   { return vol.ToLinear(c.volumeLog) }
func (c *common) SetVolumeLinear(v float32) { c.volumeLog = vol.ToLog(v) }

// volumeLogarithmic returns the stored logarithmic volume used directly
// by Mix, avoiding a redundant ToLog(ToLinear(x)) round trip on the hot
// path.
func (c *common) volumeLogarithmic() float32 { return c.volumeLog }
