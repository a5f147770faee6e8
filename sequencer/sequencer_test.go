package sequencer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftwave-audio/engine/buffer"
	"github.com/driftwave-audio/engine/event"
	"github.com/driftwave-audio/engine/instrument"
)

func TestCollectBasicWindow(t *testing.T) {
	in := instrument.New(1, 1, 64, 1000)
	src := buffer.New(1, 64)
	ev := event.NewBase(1, 10, 20, 1, src)
	in.AddSequenced(ev)

	Collect(in, Window{Playhead: 0, Frames: 64, MinBufferPos: 0, MaxBufferPos: 999, SamplesPerBar: 1000})

	collected := collectedEvents(t, in)
	assert.Contains(t, collected, event.Event(ev))
}

func TestCollectExcludesOutOfWindowEvents(t *testing.T) {
	in := instrument.New(1, 1, 64, 1000)
	src := buffer.New(1, 64)
	ev := event.NewBase(1, 500, 20, 1, src)
	in.AddSequenced(ev)

	Collect(in, Window{Playhead: 0, Frames: 64, MinBufferPos: 0, MaxBufferPos: 999, SamplesPerBar: 1000})
	collected := collectedEvents(t, in)
	assert.NotContains(t, collected, event.Event(ev))
}

func TestCollectWrapsAtLoopEnd(t *testing.T) {
	in := instrument.New(1, 1, 64, 1000)
	src := buffer.New(1, 64)
	// sits right at the wrapped-to head of the loop.
	ev := event.NewBase(1, 0, 10, 1, src)
	in.AddSequenced(ev)

	w := Window{Playhead: 990, Frames: 64, MinBufferPos: 0, MaxBufferPos: 999, SamplesPerBar: 1000}
	require.True(t, w.IsWrapping())
	assert.Equal(t, int64(10), w.WrapOffset())

	Collect(in, w)
	collected := collectedEvents(t, in)
	assert.Contains(t, collected, event.Event(ev))
}

func TestCollectDeduplicatesAcrossMeasures(t *testing.T) {
	in := instrument.New(1, 1, 64, 1000)
	src := buffer.New(1, 64)
	// overlaps measures 0 and 1.
	ev := event.NewBase(1, 950, 100, 1, src)
	in.AddSequenced(ev)

	Collect(in, Window{Playhead: 900, Frames: 200, MinBufferPos: 0, MaxBufferPos: 1999, SamplesPerBar: 1000})
	collected := collectedEvents(t, in)

	count := 0
	for _, e := range collected {
		if e == event.Event(ev) {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func collectedEvents(t *testing.T, in *instrument.Instrument) []event.Event {
	t.Helper()
	return in.Channel.SequencedEvents()
}
