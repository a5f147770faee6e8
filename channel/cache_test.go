package channel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/driftwave-audio/engine/buffer"
)

func TestCacheFillsAndFlipsReady(t *testing.T) {
	c := newCache(1, 16)
	c.Configure(0, 15)
	assert.True(t, c.isCaching)
	assert.False(t, c.Ready(0))

	src := buffer.New(1, 8)
	for i := range src.Channel(0) {
		src.Channel(0)[i] = 1
	}
	c.Write(src)
	assert.False(t, c.Ready(0))

	c.Write(src)
	assert.True(t, c.Ready(0))
	assert.False(t, c.isCaching)
}

func TestCacheClearBumpsGeneration(t *testing.T) {
	c := newCache(1, 8)
	c.Configure(0, 7)
	src := buffer.New(1, 8)
	c.Write(src)
	require := c.Ready(0)
	assert.True(t, require)

	c.Clear()
	assert.False(t, c.Ready(0))
	assert.False(t, c.Ready(1))
}
