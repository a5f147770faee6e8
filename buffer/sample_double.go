// sample_double.go - double-precision sample build variant
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

//go:build doubleprecision

package buffer

// Sample is the engine's floating-point sample width, float64 under this tag.
type Sample = float64
