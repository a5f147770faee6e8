package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftwave-audio/engine/driver"
	"github.com/driftwave-audio/engine/event"
	"github.com/driftwave-audio/engine/instrument"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := Config{
		SampleRate:     48000,
		Frames:         16,
		OutputChannels: 2,
		BPM:            120,
		BeatAmount:     4,
		BeatUnit:       4,
		StepsPerBar:    16,
	}
	return New(cfg, nil, nil)
}

func TestRenderReturnsSignalStopWhenThreadNotActive(t *testing.T) {
	e := newTestEngine(t)
	assert.Equal(t, driver.SignalStop, e.Render(16))
}

func TestRenderSilentWithNoInstruments(t *testing.T) {
	e := newTestEngine(t)
	e.threadActive.Store(true)
	e.playing.Store(true)

	sig := e.Render(16)
	require.Equal(t, driver.SignalContinue, sig)
	assert.True(t, e.master.IsSilent())
}

// TestRenderSkipsCollectionWhenNotPlaying checks that pausing playback
// freezes the clock and stops new events from being collected, while the
// driver callback loop keeps running (so the stream itself never stalls).
func TestRenderSkipsCollectionWhenNotPlaying(t *testing.T) {
	e := newTestEngine(t)
	e.threadActive.Store(true)
	e.playing.Store(false)

	in := instrument.New(e.NextInstrumentID(), 2, 16, e.Clock.SamplesPerBar)
	e.AddInstrument(in)
	in.AddSequenced(event.NewBase(in.ID, 0, 16, 1, constantMono(1, 16)))

	startPos := e.Clock.BufferPosition
	sig := e.Render(16)
	require.Equal(t, driver.SignalContinue, sig)
	assert.Equal(t, startPos, e.Clock.BufferPosition, "paused playback must not advance the clock")
	assert.Empty(t, in.Channel.SequencedEvents(), "paused playback must not collect events")
}

// TestRenderStopMidStreamReturnsSignalStop checks that a concurrent Stop
// observed at the top of the next callback halts the driver loop.
func TestRenderStopMidStreamReturnsSignalStop(t *testing.T) {
	e := newTestEngine(t)
	e.threadActive.Store(true)
	e.playing.Store(true)

	require.Equal(t, driver.SignalContinue, e.Render(16))
	e.threadActive.Store(false)
	assert.Equal(t, driver.SignalStop, e.Render(16))
}

// TestRenderAllocatesNothingInSteadyState asserts the render-thread
// allocation invariant in SPEC_FULL.md section 9: once scratch buffers are
// warmed up and no notification fires mid-run, Render allocates nothing.
// The run count is kept small enough (5 calls x 16 frames) that the clock
// never crosses a sequencer step boundary (SamplesPerStep = 6000 at this
// engine's tempo), so no notification is posted during the measured calls
// - a notification's interface conversion is the one render-path
// allocation this engine does not attempt to eliminate, since it happens
// at most once per step/marker crossing, not every callback.
func TestRenderAllocatesNothingInSteadyState(t *testing.T) {
	e := newTestEngine(t)
	require.Greater(t, e.Clock.SamplesPerStep, int64(5*16))

	in := instrument.New(e.NextInstrumentID(), 2, 16, e.Clock.SamplesPerBar)
	e.AddInstrument(in)
	// Length covers every frame the warm-up call, AllocsPerRun's own
	// warm-up run and the 5 measured calls will touch (7 calls x 16
	// frames), so Collect keeps finding and mixing the same event
	// throughout the measured run instead of degenerating into an
	// empty-collection no-op after the first call.
	in.AddSequenced(event.NewBase(in.ID, 0, 7*16, 1, constantMono(1, 7*16)))

	e.threadActive.Store(true)
	e.playing.Store(true)

	// Warm up: grow instrumentsScratch/groupsScratch and the channel's
	// internal buffers to their steady-state capacity before measuring.
	require.Equal(t, driver.SignalContinue, e.Render(16))

	allocs := testing.AllocsPerRun(5, func() {
		e.Render(16)
	})
	assert.Equal(t, float64(0), allocs, "Render must not allocate in steady state")
}
