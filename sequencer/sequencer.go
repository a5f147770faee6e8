// sequencer.go - event collection with loop-wrap
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

// Package sequencer selects, for each instrument, the events overlapping
// the current render window - walking only the measure buckets the window
// touches rather than scanning every event - and performs loop-wrap
// collection so a window crossing the loop end merges events from both
// the tail and the wrapped-to head of the timeline into one callback.
package sequencer

import (
	"github.com/driftwave-audio/engine/event"
	"github.com/driftwave-audio/engine/instrument"
)

// Window describes one render callback's collection parameters.
type Window struct {
	Playhead      int64
	Frames        int64
	MinBufferPos  int64
	MaxBufferPos  int64
	SamplesPerBar int64
}

func (w Window) windowEnd() int64 { return w.Playhead + w.Frames - 1 }

// IsWrapping reports whether this window crosses the loop end.
func (w Window) IsWrapping() bool { return w.windowEnd() > w.MaxBufferPos }

// WrapOffset is the output-buffer index at which the second (wrapped)
// region begins, per loopWrapOffset = (maxBufferPosition - playhead) + 1.
func (w Window) WrapOffset() int64 { return (w.MaxBufferPos - w.Playhead) + 1 }

// Collect populates in's channel with every event overlapping w, including
// the wrapped region if w.IsWrapping(), deduplicated across measure
// buckets; live events are not collected here, the channel mixes its own
// live list. Deletable events are collected like any other (their Mix
// skips them) and stay in the instrument until PurgeDeletable is called.
// Collect must be called from the render thread; it uses TryRLock and
// silently collects nothing for in this callback if a writer holds the
// guard (the instrument is being mutated concurrently).
//
// Collect allocates nothing in steady state: it reuses in's own
// CollectScratch buffer (sliced to zero length) instead of a fresh slice,
// and dedups with a linear scan rather than a map, since the handful of
// events overlapping one callback's window makes O(n^2) cheaper than a
// map allocation every call.
func Collect(in *instrument.Instrument, w Window) {
	if !in.Guard.TryRLock() {
		return
	}
	defer in.Guard.RUnlock()

	collected := in.CollectScratch()[:0]

	contains := func(ev event.Event) bool {
		for _, c := range collected {
			if c == ev {
				return true
			}
		}
		return false
	}

	collectRange := func(start, end int64) {
		firstMeasure := start / w.SamplesPerBar
		lastMeasure := end / w.SamplesPerBar
		for m := firstMeasure; m <= lastMeasure; m++ {
			for _, ev := range in.EventsInMeasure(m) {
				if ev.EventStart() > end || ev.EventEnd() < start {
					continue
				}
				if contains(ev) {
					continue
				}
				collected = append(collected, ev)
			}
		}
	}

	collectRange(w.Playhead, w.windowEnd())
	if w.IsWrapping() {
		wrapEnd := w.MinBufferPos + (w.Frames - w.WrapOffset()) - 1
		collectRange(w.MinBufferPos, wrapEnd)
	}

	in.SetCollectScratch(collected)
	in.Channel.SetSequencedEvents(collected)
}

// CollectCacheable scans every instrument's events overlapping
// [bufferPosition, bufferEnd] and returns the subset wrapped as cacheable,
// for pre-warming caches before an offline render pass - supplemented
// from original_source's sequencer.cpp collectCacheableSequencerEvents.
// Nothing in this module calls it; the render core's bounce path does not
// pre-warm caches.
func CollectCacheable(instruments []*instrument.Instrument, bufferPosition, bufferEnd, samplesPerBar int64) []*event.Cacheable {
	var out []*event.Cacheable
	for _, in := range instruments {
		if !in.Guard.TryRLock() {
			continue
		}
		firstMeasure := bufferPosition / samplesPerBar
		lastMeasure := bufferEnd / samplesPerBar
		seen := make(map[event.Event]bool)
		for m := firstMeasure; m <= lastMeasure; m++ {
			for _, ev := range in.EventsInMeasure(m) {
				if ev.EventStart() > bufferEnd || ev.EventEnd() < bufferPosition {
					continue
				}
				if seen[ev] {
					continue
				}
				seen[ev] = true
				if c, ok := ev.(*event.Cacheable); ok {
					out = append(out, c)
				}
			}
		}
		in.Guard.RUnlock()
	}
	return out
}
