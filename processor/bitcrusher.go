// bitcrusher.go - sample-and-hold downsampling and bit-depth quantization
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

package processor

import "github.com/driftwave-audio/engine/buffer"

// Bitcrusher quantizes to a reduced bit depth and optionally holds samples
// across a downsampling factor. Ported from original_source's
// processors/bitcrusher.cpp: Amount maps to a bit count in [1, 16], and the
// 16-bit-domain mask/offset trick is preserved rather than replaced with a
// floating-point rounding approximation.
type Bitcrusher struct {
	InputMix, OutputMix float32

	amount float32
	bits   int

	holdEvery int
	holdCount int
	held      float32
}

// NewBitcrusher constructs a bitcrusher at amount 0 (a 1-bit depth, the
// heaviest quantization) with unity input/output mix.
func NewBitcrusher() *Bitcrusher {
	b := &Bitcrusher{InputMix: 1, OutputMix: 1}
	b.SetAmount(0)
	return b
}

// Amount returns the crush amount in [0, 1].
func (b *Bitcrusher) Amount() float32 { return b.amount }

// SetAmount sets the crush amount in [0, 1], scaling to a 1-16 bit range
// the same way the reference processor does: bits = floor(scale(v,1,15))+1.
func (b *Bitcrusher) SetAmount(v float32) {
	b.amount = v
	b.bits = int(v*15) + 1
}

// SetHoldFactor sets the sample-and-hold downsampling factor; 1 disables
// sample-holding and only bit depth is quantized.
func (b *Bitcrusher) SetHoldFactor(n int) {
	if n < 1 {
		n = 1
	}
	b.holdEvery = n
}

// Cacheable implements Processor: stateless other than a hold counter.
func (b *Bitcrusher) Cacheable() bool { return true }

const shrtMax = 32767

// Process implements Processor.
func (b *Bitcrusher) Process(buf *buffer.Buffer, isMonoSource bool) {
	bits := b.bits + 1
	if bits > 16 {
		bits = 16
	}
	shift := uint(16 - b.bits)
	preventOffset := int32(int16(-1 >> bits))

	channels := buf.Channels()
	if isMonoSource {
		channels = 1
	}
	for ch := 0; ch < channels; ch++ {
		data := buf.Channel(ch)
		holdCount := b.holdCount
		held := b.held
		for i := range data {
			if b.holdEvery <= 1 || holdCount == 0 {
				input := int32(data[i] * b.InputMix * shrtMax)
				input &= int32(-1) << shift
				held = float32(input+preventOffset) * b.OutputMix / shrtMax
			}
			if b.holdEvery > 1 {
				holdCount = (holdCount + 1) % b.holdEvery
			}
			data[i] = held
		}
		b.holdCount, b.held = holdCount, held
	}
	if isMonoSource {
		buf.ApplyMonoSource()
	}
}
