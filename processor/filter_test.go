package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/driftwave-audio/engine/buffer"
)

func TestFilterOffIsNoOp(t *testing.T) {
	f := NewFilter(48000)
	f.Type = FilterOff
	f.Cutoff = 0.5

	buf := buffer.New(1, 8)
	ch := buf.Channel(0)
	for i := range ch {
		ch[i] = 1
	}
	f.Process(buf, false)
	for _, s := range ch {
		assert.Equal(t, float32(1), s)
	}
}

func TestFilterLowPassSmoothsStep(t *testing.T) {
	f := NewFilter(48000)
	f.Type = FilterLowPass
	f.Cutoff = 0.1
	f.Resonance = 0

	buf := buffer.New(1, 64)
	ch := buf.Channel(0)
	for i := range ch {
		ch[i] = 1
	}
	f.Process(buf, false)

	// a low-pass on a DC step should ramp up, not jump straight to 1.
	assert.Less(t, ch[0], float32(1))
	assert.Greater(t, ch[len(ch)-1], ch[0])
}

func TestFilterMonoSourceBroadcasts(t *testing.T) {
	f := NewFilter(48000)
	f.Type = FilterLowPass
	f.Cutoff = 0.3

	buf := buffer.New(2, 16)
	for i := range buf.Channel(0) {
		buf.Channel(0)[i] = 1
		buf.Channel(1)[i] = 1
	}
	f.Process(buf, true)
	assert.Equal(t, buf.Channel(0), buf.Channel(1))
}

func TestOverdriveSaturates(t *testing.T) {
	o := &Overdrive{Drive: 4}
	buf := buffer.New(1, 1)
	buf.Channel(0)[0] = 1
	o.Process(buf, false)
	assert.InDelta(t, 1.0, float64(buf.Channel(0)[0]), 0.01)
}

func TestOverdriveDisabledIsNoOp(t *testing.T) {
	o := &Overdrive{Drive: 0}
	buf := buffer.New(1, 1)
	buf.Channel(0)[0] = 0.5
	o.Process(buf, false)
	assert.Equal(t, float32(0.5), buf.Channel(0)[0])
}

func TestBitcrusherReducesBitDepth(t *testing.T) {
	b := NewBitcrusher()
	b.SetAmount(1.0) // 16-bit depth, the finest setting
	buf := buffer.New(1, 1)
	buf.Channel(0)[0] = 0.123456
	b.Process(buf, false)
	assert.NotEqual(t, float32(0.123456), buf.Channel(0)[0])
}

func TestLimiterClampsCeiling(t *testing.T) {
	l := NewLimiter(0.5)
	buf := buffer.New(1, 3)
	buf.Channel(0)[0] = 2
	buf.Channel(0)[1] = -2
	buf.Channel(0)[2] = 0.1
	l.Process(buf, false)
	assert.Equal(t, float32(0.5), buf.Channel(0)[0])
	assert.Equal(t, float32(-0.5), buf.Channel(0)[1])
	assert.Equal(t, float32(0.1), buf.Channel(0)[2])
}
