// instrument.go - event owner with measure-indexed lookup
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

// Package instrument implements the engine's event owner: a flat event
// list plus a measure-indexed vector-of-vectors the sequencer walks
// instead of scanning every event every callback, an AudioChannel, and the
// reader/writer guard distinguishing mutation from render-thread reads.
// Generalizes the reference chip's fixed four hardware channels
// (audio_chip.go's Channel) into an arbitrary, dynamically created
// instrument.
package instrument

import (
	"github.com/driftwave-audio/engine/channel"
	"github.com/driftwave-audio/engine/event"
)

// Instrument owns a set of events (sequenced and live), an AudioChannel to
// mix them through, and a measure-indexed bucket for fast window lookup.
type Instrument struct {
	ID      event.InstrumentID
	Channel *channel.AudioChannel
	Guard   Guard

	samplesPerBar int64

	flat     []event.Event
	byMeasure map[int64][]event.Event
	live     []event.Event

	collectScratch []event.Event
}

// New constructs an instrument. samplesPerBar sizes the measure bucket -
// the sequencer re-derives it whenever tempo changes rescale the clock.
func New(id event.InstrumentID, channels, frames int, samplesPerBar int64) *Instrument {
	return &Instrument{
		ID:            id,
		Channel:       channel.New(channels, frames),
		samplesPerBar: samplesPerBar,
		byMeasure:     make(map[int64][]event.Event),
	}
}

// SetSamplesPerBar updates the measure size and rebuilds the bucket index
// from the flat list - called when a tempo change rescales the clock.
func (in *Instrument) SetSamplesPerBar(samplesPerBar int64) {
	in.Guard.Lock()
	defer in.Guard.Unlock()
	in.samplesPerBar = samplesPerBar
	in.rebuildIndex()
}

func (in *Instrument) measuresFor(ev event.Event) (first, last int64) {
	if in.samplesPerBar <= 0 {
		return 0, 0
	}
	first = ev.EventStart() / in.samplesPerBar
	last = ev.EventEnd() / in.samplesPerBar
	return first, last
}

func (in *Instrument) rebuildIndex() {
	in.byMeasure = make(map[int64][]event.Event, len(in.byMeasure))
	for _, ev := range in.flat {
		first, last := in.measuresFor(ev)
		for m := first; m <= last; m++ {
			in.byMeasure[m] = append(in.byMeasure[m], ev)
		}
	}
}

// AddSequenced adds a timeline-positioned event, indexing it into every
// measure bucket it overlaps.
func (in *Instrument) AddSequenced(ev event.Event) {
	in.Guard.Lock()
	defer in.Guard.Unlock()
	in.flat = append(in.flat, ev)
	first, last := in.measuresFor(ev)
	for m := first; m <= last; m++ {
		in.byMeasure[m] = append(in.byMeasure[m], ev)
	}
}

// RemoveSequenced removes ev from the flat list and every measure bucket
// it was indexed into.
func (in *Instrument) RemoveSequenced(ev event.Event) {
	in.Guard.Lock()
	defer in.Guard.Unlock()
	in.removeFromFlat(ev)
	first, last := in.measuresFor(ev)
	for m := first; m <= last; m++ {
		in.removeFromBucket(m, ev)
	}
}

func (in *Instrument) removeFromFlat(ev event.Event) {
	for i, e := range in.flat {
		if e == ev {
			in.flat = append(in.flat[:i], in.flat[i+1:]...)
			return
		}
	}
}

func (in *Instrument) removeFromBucket(m int64, ev event.Event) {
	bucket := in.byMeasure[m]
	for i, e := range bucket {
		if e == ev {
			in.byMeasure[m] = append(bucket[:i], bucket[i+1:]...)
			return
		}
	}
}

// Retune re-indexes ev after a mutation (e.g. a range or length change)
// that may have re-classified which measures it overlaps. Safe to call
// even if ev's measure membership did not actually change.
func (in *Instrument) Retune(ev event.Event) {
	in.Guard.Lock()
	defer in.Guard.Unlock()
	first, last := in.measuresFor(ev)
	for m := range in.byMeasure {
		in.removeFromBucket(m, ev)
	}
	for m := first; m <= last; m++ {
		in.byMeasure[m] = append(in.byMeasure[m], ev)
	}
}

// AddLive adds an unsequenced, always-audible event directly to both the
// instrument's live list and its channel.
func (in *Instrument) AddLive(ev event.Event) {
	in.Guard.Lock()
	defer in.Guard.Unlock()
	in.live = append(in.live, ev)
	in.Channel.AddLive(ev)
}

// RemoveLive drops a live event.
func (in *Instrument) RemoveLive(ev event.Event) {
	in.Guard.Lock()
	defer in.Guard.Unlock()
	for i, e := range in.live {
		if e == ev {
			in.live = append(in.live[:i], in.live[i+1:]...)
			break
		}
	}
	in.Channel.RemoveLive(ev)
}

// EventsInMeasure returns the index's own event slice (not a copy) for
// measure m. Callers must hold a successful Guard.TryRLock before calling
// this from the render thread.
func (in *Instrument) EventsInMeasure(m int64) []event.Event {
	return in.byMeasure[m]
}

// PurgeDeletable removes every event marked deletable from the flat list
// and every measure bucket, called after a collection pass.
func (in *Instrument) PurgeDeletable() {
	in.Guard.Lock()
	defer in.Guard.Unlock()
	kept := in.flat[:0]
	for _, ev := range in.flat {
		if ev.IsDeletable() {
			continue
		}
		kept = append(kept, ev)
	}
	in.flat = kept
	in.rebuildIndex()
}

// CollectScratch returns this instrument's reusable event-collection
// buffer, which the sequencer reuses (sliced to length 0) across
// callbacks instead of allocating a fresh slice every render.
func (in *Instrument) CollectScratch() []event.Event { return in.collectScratch }

// SetCollectScratch stores the sequencer's updated collection buffer back
// on the instrument for reuse on the next callback.
func (in *Instrument) SetCollectScratch(events []event.Event) { in.collectScratch = events }

// ReapDeletableLive removes every live event marked deletable - the
// generic form of Synth.ReapLive, called by the render core once per
// callback for every instrument regardless of kind (SPEC_FULL.md section
// 4.3's live-event fade-then-remove rule applies to any variant, not just
// synth events).
func (in *Instrument) ReapDeletableLive() {
	in.Guard.Lock()
	defer in.Guard.Unlock()
	kept := in.live[:0]
	for _, ev := range in.live {
		if ev.IsDeletable() {
			in.Channel.RemoveLive(ev)
			continue
		}
		kept = append(kept, ev)
	}
	in.live = kept
}
