package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftwave-audio/engine/buffer"
	"github.com/driftwave-audio/engine/driver"
	"github.com/driftwave-audio/engine/event"
	"github.com/driftwave-audio/engine/instrument"
	"github.com/driftwave-audio/engine/vol"
)

func monoSource(values []float32) *buffer.Buffer {
	b := buffer.New(1, len(values))
	copy(b.Channel(0), values)
	return b
}

func stereoSource(left, right []float32) *buffer.Buffer {
	b := buffer.New(2, len(left))
	copy(b.Channel(0), left)
	copy(b.Channel(1), right)
	return b
}

func constantMono(value float32, frames int) *buffer.Buffer {
	b := buffer.New(1, frames)
	ch := b.Channel(0)
	for i := range ch {
		ch[i] = value
	}
	return b
}

// TestScenarioS1ThroughS3 is scenarios S1-S3: a mono event panned center,
// a stereo event with right-only content, and a third overlapping stereo
// event summed with it - all under one instrument, two render callbacks
// (frames 0-15, then 16-31) advancing the clock naturally between them.
func TestScenarioS1ThroughS3(t *testing.T) {
	cfg := Config{
		SampleRate:     48000,
		Frames:         16,
		OutputChannels: 2,
		BPM:            130,
		BeatAmount:     4,
		BeatUnit:       4,
		StepsPerBar:    16,
	}
	e := New(cfg, nil, nil)

	in := instrument.New(e.NextInstrumentID(), 2, 16, e.Clock.SamplesPerBar)
	e.AddInstrument(in)

	evA := monoSource([]float32{-1, -1, -1, -1, 0, 0, 0, 0, 1, 1, 1, 1, 0, 0, 0, 0})
	in.AddSequenced(event.NewBase(in.ID, 0, 16, 1, evA))

	evBRight := []float32{.5, .5, .5, .5, 1, 1, 1, 1, -.5, -.5, -.5, -.5, -1, -1, -1, -1}
	evB := stereoSource(make([]float32, 16), evBRight)
	in.AddSequenced(event.NewBase(in.ID, 16, 16, 1, evB))

	evCVals := []float32{.25, .25, .25, .25, 0, 0, 0, 0, -.25, -.25, -.25, -.25, 0, 0, 0, 0}
	evC := stereoSource(evCVals, evCVals)
	in.AddSequenced(event.NewBase(in.ID, 24, 16, 1, evC))

	e.threadActive.Store(true)
	e.playing.Store(true)

	// S1: first callback covers frames 0-15, only evA is active, centered
	// pan (0) is unscaled on both sides.
	sig := e.Render(16)
	require.Equal(t, driver.SignalContinue, sig)
	for i, v := range evA.Channel(0) {
		assert.InDelta(t, v, e.master.Channel(0)[i], 1e-6, "S1 left[%d]", i)
		assert.InDelta(t, v, e.master.Channel(1)[i], 1e-6, "S1 right[%d]", i)
	}

	// S2/S3: second callback covers frames 16-31. Below i=8 (abs 16-23)
	// only evB is active; from i=8 (abs 24-31) evC overlaps evB's tail.
	sig = e.Render(16)
	require.Equal(t, driver.SignalContinue, sig)
	for i := 0; i < 16; i++ {
		wantLeft := float32(0)
		wantRight := evBRight[i]
		if i >= 8 {
			wantLeft += evCVals[i-8]
			wantRight += evCVals[i-8]
		}
		assert.InDelta(t, wantLeft, e.master.Channel(0)[i], 1e-6, "S2/S3 left[%d]", i)
		assert.InDelta(t, wantRight, e.master.Channel(1)[i], 1e-6, "S2/S3 right[%d]", i)
	}
}

// TestScenarioS4LoopWrapRead is scenario S4: a render window crossing the
// loop end must merge the tail of the timeline with the wrapped-to head in
// the same callback, reading from both events exactly split at the wrap
// offset.
func TestScenarioS4LoopWrapRead(t *testing.T) {
	cfg := Config{
		SampleRate:     44100,
		Frames:         11025,
		OutputChannels: 1,
		BPM:            120,
		BeatAmount:     4,
		BeatUnit:       4,
		StepsPerBar:    16,
	}
	e := New(cfg, nil, nil)
	require.Equal(t, int64(88200), e.Clock.SamplesPerBar)
	require.Equal(t, int64(88199), e.Clock.MaxBufferPosition)

	in := instrument.New(e.NextInstrumentID(), 1, 11025, e.Clock.SamplesPerBar)
	e.AddInstrument(in)

	in.AddSequenced(event.NewBase(in.ID, 77175, 11025, 1, constantMono(-0.25, 11025)))
	in.AddSequenced(event.NewBase(in.ID, 0, 11025, 1, constantMono(0.5, 11025)))

	e.Clock.SetBufferPosition(88100)
	e.threadActive.Store(true)
	e.playing.Store(true)

	sig := e.Render(11025)
	require.Equal(t, driver.SignalContinue, sig)

	out := e.master.Channel(0)
	for i := 0; i < 100; i++ {
		assert.InDelta(t, -0.25, out[i], 1e-6, "frame %d", i)
	}
	for i := 100; i < 11025; i++ {
		assert.InDelta(t, 0.5, out[i], 1e-6, "frame %d", i)
	}
}

// TestScenarioS6LogVolume is scenario S6: the logarithmic volume curve's
// anchor values and its round trip at the boundaries.
func TestScenarioS6LogVolume(t *testing.T) {
	assert.InDelta(t, 0.25, vol.ToLog(0.5), 1e-6)
	assert.InDelta(t, 0.5, vol.ToLinear(0.25), 1e-6)
	assert.Equal(t, float32(0), vol.ToLog(0))
	assert.Equal(t, float32(0), vol.ToLinear(0))
	assert.InDelta(t, 1, vol.ToLog(1), 1e-6)
	assert.InDelta(t, 1, vol.ToLinear(1), 1e-6)
}
