package instrument

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftwave-audio/engine/buffer"
	"github.com/driftwave-audio/engine/event"
)

const samplesPerBar = 1000

func TestMeasureIndexSpansOverlap(t *testing.T) {
	in := New(1, 1, 64, samplesPerBar)
	src := buffer.New(1, 64)
	sampled := Sampled{Instrument: in, sampleRate: 48000}

	// spans measures 0 and 1 (starts at 900, runs past 1000).
	ev := sampled.NewEvent(900, 200, 1, src, event.SampleEventOptions{})

	require.Contains(t, in.EventsInMeasure(0), ev)
	require.Contains(t, in.EventsInMeasure(1), ev)
	assert.NotContains(t, in.EventsInMeasure(2), ev)
}

func TestPurgeDeletableRemovesFromAllBuckets(t *testing.T) {
	in := New(1, 1, 64, samplesPerBar)
	src := buffer.New(1, 64)
	sampled := Sampled{Instrument: in, sampleRate: 48000}
	ev := sampled.NewDrum(0, 1, src)

	ev.MarkDeletable()
	in.PurgeDeletable()

	assert.Empty(t, in.EventsInMeasure(0))
}

func TestGuardTryRLockFailsUnderWriteLock(t *testing.T) {
	in := New(1, 1, 64, samplesPerBar)
	in.Guard.Lock()
	defer in.Guard.Unlock()

	assert.False(t, in.Guard.TryRLock())
}
