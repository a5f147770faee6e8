package headless

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftwave-audio/engine/buffer"
	"github.com/driftwave-audio/engine/driver"
)

func TestHeadlessDriverIsAlwaysSupported(t *testing.T) {
	d := New()
	assert.True(t, d.IsSupported())
	assert.NoError(t, d.SetBufferSizeInBursts(4))
	assert.NoError(t, d.SetDeviceID("anything"))
	assert.NoError(t, d.WriteOutput(nil, 0))
}

func TestHeadlessReadInputReturnsSilence(t *testing.T) {
	d := New()
	dst := make([]buffer.Sample, 8)
	for i := range dst {
		dst[i] = 1
	}

	framesRead, err := d.ReadInput(dst, 4)
	require.NoError(t, err)
	assert.Equal(t, 0, framesRead)
	for _, s := range dst {
		assert.Equal(t, buffer.Sample(0), s)
	}
}

func TestHeadlessStartRenderCallsRenderFnUntilStopped(t *testing.T) {
	d := New()
	var calls int64

	require.NoError(t, d.StartRender(func(n int) driver.Signal {
		atomic.AddInt64(&calls, 1)
		return driver.SignalContinue
	}))

	deadline := time.Now().Add(time.Second)
	for atomic.LoadInt64(&calls) < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	require.NoError(t, d.Stop())
	assert.GreaterOrEqual(t, atomic.LoadInt64(&calls), int64(3))
}

func TestHeadlessStartRenderStopsWhenRenderFnSignalsStop(t *testing.T) {
	d := New()
	var calls int64

	require.NoError(t, d.StartRender(func(n int) driver.Signal {
		atomic.AddInt64(&calls, 1)
		return driver.SignalStop
	}))

	deadline := time.Now().Add(time.Second)
	for atomic.LoadInt64(&calls) < 1 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	assert.NoError(t, d.Stop())
}

func TestHeadlessStopWithoutStartIsNoop(t *testing.T) {
	d := New()
	assert.NoError(t, d.Stop())
}

func TestHeadlessStartRenderTwiceIsNoop(t *testing.T) {
	d := New()
	require.NoError(t, d.StartRender(func(n int) driver.Signal { return driver.SignalContinue }))
	require.NoError(t, d.StartRender(func(n int) driver.Signal { return driver.SignalContinue }))
	require.NoError(t, d.Stop())
}
