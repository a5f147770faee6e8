// buffer_test.go - AudioBuffer invariants and round-trip laws
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

package buffer_test

import (
	"testing"

	"github.com/driftwave-audio/engine/buffer"
	"github.com/stretchr/testify/require"
)

func TestApplyMonoSourceLeavesChannelZeroAndCopies(t *testing.T) {
	b := buffer.New(3, 4)
	copy(b.Channel(0), []buffer.Sample{1, 2, 3, 4})
	b.ApplyMonoSource()

	require.Equal(t, []buffer.Sample{1, 2, 3, 4}, b.Channel(0))
	require.Equal(t, b.Channel(0), b.Channel(1))
	require.Equal(t, b.Channel(0), b.Channel(2))
}

func TestMergeWithZeroScalarLeavesDestinationUnchanged(t *testing.T) {
	dst := buffer.New(2, 8)
	for c := 0; c < 2; c++ {
		for i := range dst.Channel(c) {
			dst.Channel(c)[i] = buffer.Sample(i + 1)
		}
	}
	before := dst.Clone()

	src := buffer.New(2, 8)
	for i := range src.Channel(0) {
		src.Channel(0)[i] = 99
	}

	dst.Merge(src, 0, 0, 0, false)
	require.Equal(t, before.Channel(0), dst.Channel(0))
	require.Equal(t, before.Channel(1), dst.Channel(1))
}

func TestMergeStopsAtDestinationEnd(t *testing.T) {
	dst := buffer.New(1, 4)
	src := buffer.New(1, 8)
	for i := range src.Channel(0) {
		src.Channel(0)[i] = buffer.Sample(i + 1)
	}

	written := dst.Merge(src, 0, 0, 1, false)
	require.Equal(t, 4, written)
	require.Equal(t, []buffer.Sample{1, 2, 3, 4}, dst.Channel(0))
}

func TestMergeWrapsSourceAsLoop(t *testing.T) {
	dst := buffer.New(1, 6)
	src := buffer.New(1, 3)
	copy(src.Channel(0), []buffer.Sample{10, 20, 30})

	written := dst.Merge(src, 0, 0, 1, true)
	require.Equal(t, 6, written)
	require.Equal(t, []buffer.Sample{10, 20, 30, 10, 20, 30}, dst.Channel(0))
}

func TestMergeMonoSourceFeedsEveryDestinationChannel(t *testing.T) {
	dst := buffer.New(2, 3)
	src := buffer.New(1, 3)
	copy(src.Channel(0), []buffer.Sample{1, 2, 3})

	dst.Merge(src, 0, 0, 1, false)
	require.Equal(t, dst.Channel(0), dst.Channel(1))
}

func TestCloneIsDeepAndEqual(t *testing.T) {
	b := buffer.New(2, 4)
	copy(b.Channel(0), []buffer.Sample{1, 2, 3, 4})
	copy(b.Channel(1), []buffer.Sample{5, 6, 7, 8})

	clone := b.Clone()
	require.Equal(t, b.Channel(0), clone.Channel(0))
	require.Equal(t, b.Channel(1), clone.Channel(1))

	clone.Channel(0)[0] = 999
	require.NotEqual(t, b.Channel(0)[0], clone.Channel(0)[0])
}

func TestSilenceAllZeroesEveryChannel(t *testing.T) {
	b := buffer.New(2, 4)
	b.ScaleBy(0) // no-op on already-zero buffer, sanity check
	copy(b.Channel(0), []buffer.Sample{1, 2, 3, 4})
	copy(b.Channel(1), []buffer.Sample{1, 2, 3, 4})
	require.False(t, b.IsSilent())

	b.SilenceAll()
	require.True(t, b.IsSilent())
}
