package channel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftwave-audio/engine/buffer"
	"github.com/driftwave-audio/engine/event"
)

func params(frames int64) event.MixParams {
	return event.MixParams{PlayheadFrame: 0}
}

func TestChannelPanAnchors(t *testing.T) {
	c := New(2, 4)
	src := buffer.New(2, 4)
	for i := range src.Channel(0) {
		src.Channel(0)[i] = 1 // full scale left
		src.Channel(1)[i] = 0
	}
	c.SetSequencedEvents([]event.Event{event.NewBase(1, 0, 4, 1, src)})
	c.Pan = 0.3

	dst := buffer.New(2, 4)
	c.Mix(dst, params(4), false, false)

	assert.InDelta(t, 0.7, float64(dst.Channel(0)[0]), 1e-4)
	assert.InDelta(t, 0.3, float64(dst.Channel(1)[0]), 1e-4)
}

func TestChannelPanAnchorsRightSource(t *testing.T) {
	c := New(2, 4)
	src := buffer.New(2, 4)
	for i := range src.Channel(1) {
		src.Channel(0)[i] = 0
		src.Channel(1)[i] = 1 // full scale right
	}
	c.SetSequencedEvents([]event.Event{event.NewBase(1, 0, 4, 1, src)})
	c.Pan = -0.7

	dst := buffer.New(2, 4)
	c.Mix(dst, params(4), false, false)

	assert.InDelta(t, 0.7, float64(dst.Channel(0)[0]), 1e-4)
	assert.InDelta(t, 0.3, float64(dst.Channel(1)[0]), 1e-4)
}

func TestChannelMuteSkipsMix(t *testing.T) {
	c := New(1, 4)
	src := buffer.New(1, 4)
	for i := range src.Channel(0) {
		src.Channel(0)[i] = 1
	}
	c.SetSequencedEvents([]event.Event{event.NewBase(1, 0, 4, 1, src)})
	c.Mute = true

	dst := buffer.New(1, 4)
	c.Mix(dst, params(4), false, false)
	assert.True(t, dst.IsSilent())
}

func TestChannelLiveEventsAlwaysMix(t *testing.T) {
	c := New(1, 4)
	c.SetVolumeLinear(0) // channel volume 0, live events still audible

	src := buffer.New(1, 4)
	for i := range src.Channel(0) {
		src.Channel(0)[i] = 1
	}
	live := event.NewBase(1, 0, 4, 1, src)
	c.AddLive(live)

	dst := buffer.New(1, 4)
	c.Mix(dst, params(4), false, false)
	assert.False(t, dst.IsSilent())
}

func TestChannelCacheRoundTrip(t *testing.T) {
	c := New(1, 4)
	src := buffer.New(1, 4)
	for i := range src.Channel(0) {
		src.Channel(0)[i] = 1
	}
	c.SetSequencedEvents([]event.Event{event.NewBase(1, 0, 4, 1, src)})
	c.EnableCache(0, 3)

	dst := buffer.New(1, 4)
	c.Mix(dst, params(4), true, false) // one callback fully covers the 4-frame cache range
	require.True(t, c.HasCache())

	c.SetVolumeLinear(0.5) // an audible-parameter setter clears the cache
	assert.False(t, c.HasCache())
}
