package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/driftwave-audio/engine/buffer"
)

func TestPhaserIsNotCacheable(t *testing.T) {
	p := NewPhaser(48000, 2, 0.5, 0.7, 1.0, 200, 2000)
	assert.False(t, p.Cacheable())
}

func TestPhaserSweepsOverTime(t *testing.T) {
	p := NewPhaser(48000, 1, 2.0, 0.5, 1.0, 200, 2000)
	buf := buffer.New(1, 2000)
	for i := range buf.Channel(0) {
		buf.Channel(0)[i] = 0.5
	}
	before := buf.Clone()
	p.Process(buf, false)
	assert.NotEqual(t, before.Channel(0), buf.Channel(0))
}

func TestPitchShifterBypassAtUnity(t *testing.T) {
	p := NewPitchShifter(1, 512)
	p.Ratio = 1.0
	buf := buffer.New(1, 16)
	for i := range buf.Channel(0) {
		buf.Channel(0)[i] = float32(i)
	}
	before := buf.Clone()
	p.Process(buf, false)
	assert.Equal(t, before.Channel(0), buf.Channel(0))
}

func TestPitchShifterIsNotCacheable(t *testing.T) {
	p := NewPitchShifter(2, 512)
	assert.False(t, p.Cacheable())
}
