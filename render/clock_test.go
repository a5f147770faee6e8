package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockNewDerivesSamplesPerBarBeatStep(t *testing.T) {
	c := NewClock(48000, 120, 4, 4, 16)
	assert.Equal(t, int64(24000), c.SamplesPerBeat)
	assert.Equal(t, int64(96000), c.SamplesPerBar)
	assert.Equal(t, int64(96000/16), c.SamplesPerStep)
	assert.Equal(t, int64(0), c.MinBufferPosition)
	assert.Equal(t, c.SamplesPerBar-1, c.MaxBufferPosition)
}

// TestClockTempoUpdateUnderPlay is scenario S5: a tempo change queued mid-
// loop rescales bufferPosition and the loop range by the old/new
// tempo ratio, and the new tempo/time-signature take effect
// immediately.
func TestClockTempoUpdateUnderPlay(t *testing.T) {
	c := NewClock(48000, 120, 4, 4, 16)
	mid := c.MaxBufferPosition / 2
	c.SetBufferPosition(mid)

	const newTempo = 140.0
	c.QueueTempo(newTempo, 12, 8)

	applied, _ := c.ApplyQueuedTempo()
	require.True(t, applied)

	assert.Equal(t, newTempo, c.BPM)
	assert.Equal(t, 12, c.BeatAmount)
	assert.Equal(t, 8, c.BeatUnit)

	ratio := 120.0 / newTempo
	wantPos := int64(float64(mid)*ratio + 0.5)
	assert.InDelta(t, wantPos, c.BufferPosition, 1)
	assert.GreaterOrEqual(t, c.BufferPosition, c.MinBufferPosition)
	assert.LessOrEqual(t, c.BufferPosition, c.MaxBufferPosition)
}

func TestClockApplyQueuedTempoNoopWhenNothingQueued(t *testing.T) {
	c := NewClock(48000, 120, 4, 4, 16)
	applied, ratio := c.ApplyQueuedTempo()
	assert.False(t, applied)
	assert.Equal(t, 1.0, ratio)
}

// TestClockAdvanceByWrapsAtLoopEnd checks the fundamental invariant that
// bufferPosition never leaves [minBufferPosition, maxBufferPosition] while
// advancing, and that it wraps back to the loop start rather than running
// past it.
func TestClockAdvanceByWrapsAtLoopEnd(t *testing.T) {
	c := NewClock(48000, 120, 4, 4, 16)
	c.SetLoopRange(0, 99, 10)
	c.SetBufferPosition(95)

	events := c.advanceBy(10)

	assert.GreaterOrEqual(t, c.BufferPosition, c.MinBufferPosition)
	assert.LessOrEqual(t, c.BufferPosition, c.MaxBufferPosition)

	var sawWrap bool
	for _, ev := range events {
		if ev.wrapped {
			sawWrap = true
		}
	}
	assert.True(t, sawWrap, "advancing past maxBufferPosition must wrap, not overrun")
}

func TestClockSetMarkerFiresExactlyAtPosition(t *testing.T) {
	c := NewClock(48000, 120, 4, 4, 16)
	c.SetLoopRange(0, 999, 16)
	c.SetBufferPosition(0)
	c.SetMarker(5)

	events := c.advanceBy(10)
	var hit bool
	for _, ev := range events {
		if ev.markerHit {
			hit = true
			assert.Equal(t, 4, ev.frameOffset) // position 0 -> 5 crosses at the 5th increment, offset 4
		}
	}
	assert.True(t, hit)
}
