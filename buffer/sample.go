// sample.go - build-time sample precision selection
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

//go:build !doubleprecision

package buffer

// Sample is the engine's floating-point sample width. It defaults to
// float32; build with -tags doubleprecision for float64, mirroring the
// reference engine's build-time PRECISION switch.
type Sample = float32
