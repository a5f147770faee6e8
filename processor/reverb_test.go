package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/driftwave-audio/engine/buffer"
)

func TestReverbIsNotCacheable(t *testing.T) {
	r := NewReverb(48000)
	assert.False(t, r.Cacheable())
}

func TestReverbZeroMixIsNoOp(t *testing.T) {
	r := NewReverb(48000)
	r.Mix = 0
	buf := buffer.New(1, 8)
	for i := range buf.Channel(0) {
		buf.Channel(0)[i] = 1
	}
	r.Process(buf, false)
	for _, s := range buf.Channel(0) {
		assert.Equal(t, float32(1), s)
	}
}

func TestReverbProducesTail(t *testing.T) {
	r := NewReverb(48000)
	r.Mix = 1
	buf := buffer.New(1, 4000)
	buf.Channel(0)[0] = 1 // impulse
	r.Process(buf, false)

	hasEnergyAfterImpulse := false
	for i := 1700; i < 4000; i++ {
		if buf.Channel(0)[i] != 0 {
			hasEnergyAfterImpulse = true
			break
		}
	}
	assert.True(t, hasEnergyAfterImpulse, "reverb tail should extend past the first comb delay")
}
