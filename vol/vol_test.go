// vol_test.go - logarithmic volume round-trip and pan law anchors
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

package vol_test

import (
	"testing"

	"github.com/driftwave-audio/engine/vol"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestLogVolumeBoundaryValues(t *testing.T) {
	require.InDelta(t, 0.25, vol.ToLog(0.5), 1e-6)
	require.InDelta(t, 0.5, vol.ToLinear(0.25), 1e-6)
	require.Equal(t, float32(0), vol.ToLog(0))
	require.Equal(t, float32(0), vol.ToLinear(0))
	require.InDelta(t, 1.0, vol.ToLog(1), 1e-6)
	require.InDelta(t, 1.0, vol.ToLinear(1), 1e-6)
}

func TestVolumeRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		x := float32(rapid.Float64Range(0, 1).Draw(rt, "x"))
		require.InDelta(t, x, vol.ToLog(vol.ToLinear(x)), 1e-4)
		require.InDelta(t, x, vol.ToLinear(vol.ToLog(x)), 1e-4)
	})
}

// TestPanGainAnchors checks PanGains' own same-channel gains, not the
// spec's full pan-law anchor (which also requires mixPanned's cross-feed
// term - see channel.TestChannelPanAnchors/TestChannelPanAnchorsRightSource
// for the end-to-end 0.7/0.3 values).
func TestPanGainAnchors(t *testing.T) {
	l, r := vol.PanGains(0.3)
	require.InDelta(t, 0.7, l, 1e-6)
	require.InDelta(t, 1.0, r, 1e-6)

	l, r = vol.PanGains(-0.7)
	require.InDelta(t, 1.0, l, 1e-6)
	require.InDelta(t, 0.3, r, 1e-6)

	l, r = vol.PanGains(0)
	require.InDelta(t, 1.0, l, 1e-6)
	require.InDelta(t, 1.0, r, 1e-6)
}

func TestBipolarRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		x := float32(rapid.Float64Range(-1, 1).Draw(rt, "x"))
		require.InDelta(t, vol.ToBipolar(x), vol.ToBipolar(vol.ToUnipolar(vol.ToBipolar(x))), 1e-5)
	})
}
