// processor.go - effect processor interface
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

// Package processor implements the engine's effect chain: an ordered list
// of stateful audio processors, each grounded in the reference synthesis
// chip's per-sample effects math (audio_chip.go's filter/overdrive/reverb
// stage) or, where the chip itself had nothing to offer, in the original
// engine's dedicated processor files under original_source/.
package processor

import "github.com/driftwave-audio/engine/buffer"

// Processor is one stage of a channel's, group's or master's effect chain.
// Process must not allocate. isMonoSource lets a stereo-aware processor
// early-exit on mono input by processing channel 0 only and broadcasting.
type Processor interface {
	Process(buf *buffer.Buffer, isMonoSource bool)
	Cacheable() bool
}
