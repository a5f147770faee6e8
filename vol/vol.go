// vol.go - volume curve and pan law utilities
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

// Package vol implements the logarithmic/linear volume curve and the
// channel pan law. Both are deliberately simple closed-form functions so
// they can run on the render hot path with no allocation and no locking.
package vol

import "math"

// Curve is the exponent applied at the linear<->logarithmic boundary.
// Fixed at 2.0 per the engine contract; not user-configurable.
const Curve = 2.0

// ToLog converts a linear (UI-facing) volume in [0,1] to the logarithmic
// form the mixer applies: x^Curve.
func ToLog(linear float32) float32 {
	return float32(math.Pow(float64(linear), Curve))
}

// ToLinear converts a logarithmic volume back to its linear form: x^(1/Curve).
func ToLinear(logarithmic float32) float32 {
	if logarithmic <= 0 {
		return 0
	}
	return float32(math.Pow(float64(logarithmic), 1.0/Curve))
}

// PanGains returns the (left, right) same-channel gain pair for pan in
// [-1, +1]: how much of the left input channel survives into the left
// output, and how much of the right input channel survives into the
// right output. Panning right attenuates left by exactly what it takes
// from it (left = 1 - pan, for pan >= 0) while right stays unscaled
// (right = 1); panning left is the mirror image. Centered pan (0) is
// unscaled on both sides.
//
// This is NOT the conventional equal-power pan law - it is linear and,
// critically, NOT applied in isolation: channel.mixPanned cross-feeds
// the left input into the right output at gain (1-left) and the right
// input into the left output at gain (1-right), which is what reproduces the
// spec's pan-law test anchor (full-scale-left source, pan +0.3 -> left
// 0.7/right 0.3; full-scale-right source, pan -0.7 -> left 0.7/right
// 0.3) - a plain per-channel gain with no cross-feed cannot produce a
// nonzero opposite-channel sample from a source that is silent on that
// channel. Preserved exactly as anchored; do not replace with sin/cos
// without revisiting the pan-law Open Question in SPEC_FULL.md.
func PanGains(pan float32) (left, right float32) {
	if pan < -1 {
		pan = -1
	} else if pan > 1 {
		pan = 1
	}
	left = 1 - max(0, pan)
	right = 1 - max(0, -pan)
	return left, right
}

// ToBipolar maps a unipolar value in [0,1] to bipolar [-1,1].
func ToBipolar(unipolar float32) float32 {
	return unipolar*2 - 1
}

// ToUnipolar maps a bipolar value in [-1,1] to unipolar [0,1].
func ToUnipolar(bipolar float32) float32 {
	return (bipolar + 1) / 2
}
