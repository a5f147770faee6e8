// buffer.go - multi-channel PCM sample storage
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

// Package buffer implements the engine's multi-channel audio buffer: a
// contiguous sample store of known frame count and channel count, with
// the silence/scale/mono-broadcast/merge/clone operations the render
// core composes every callback. Every buffer used on the render path is
// allocated up front; New and Clone allocate, the other methods do not.
package buffer

import "fmt"

// Buffer owns frameCount*channelCount samples, one slice per channel.
type Buffer struct {
	channels [][]Sample
	frames   int
}

// New allocates a buffer with the given channel and frame counts. Panics
// on invalid counts since this is always a configuration-time error.
func New(channelCount, frameCount int) *Buffer {
	if channelCount < 1 {
		panic(fmt.Sprintf("buffer: channelCount must be >= 1, got %d", channelCount))
	}
	if frameCount < 0 {
		panic(fmt.Sprintf("buffer: frameCount must be >= 0, got %d", frameCount))
	}
	b := &Buffer{
		channels: make([][]Sample, channelCount),
		frames:   frameCount,
	}
	for i := range b.channels {
		b.channels[i] = make([]Sample, frameCount)
	}
	return b
}

// Channels returns the number of channels.
func (b *Buffer) Channels() int { return len(b.channels) }

// Frames returns the frame count.
func (b *Buffer) Frames() int { return b.frames }

// Channel returns the mutable sample slice for channel i.
func (b *Buffer) Channel(i int) []Sample { return b.channels[i] }

// SilenceAll zeroes every sample in every channel.
func (b *Buffer) SilenceAll() {
	for _, ch := range b.channels {
		for i := range ch {
			ch[i] = 0
		}
	}
}

// ScaleBy multiplies every sample in every channel by factor.
func (b *Buffer) ScaleBy(factor Sample) {
	for _, ch := range b.channels {
		for i := range ch {
			ch[i] *= factor
		}
	}
}

// ApplyMonoSource copies channel 0 into every other channel, leaving
// channel 0 untouched.
func (b *Buffer) ApplyMonoSource() {
	if len(b.channels) < 2 {
		return
	}
	src := b.channels[0]
	for c := 1; c < len(b.channels); c++ {
		copy(b.channels[c], src)
	}
}

// Clone returns a deep copy of b.
func (b *Buffer) Clone() *Buffer {
	out := New(len(b.channels), b.frames)
	for i, ch := range b.channels {
		copy(out.channels[i], ch)
	}
	return out
}

// Merge sums scalar*src[srcReadOffset+k] into dst[dstWriteOffset+k] for
// k = 0..framesWritten-1, per corresponding channel pair. If src has
// fewer channels than dst, src channel 0 feeds every dst channel. Stops
// at the destination end, or at the source end unless wrapSrcAsLoop is
// set, in which case source reads wrap modulo the source's length.
// Returns the number of frames actually written.
func (b *Buffer) Merge(src *Buffer, srcReadOffset, dstWriteOffset int, scalar Sample, wrapSrcAsLoop bool) int {
	if srcReadOffset < 0 || dstWriteOffset < 0 {
		return 0
	}
	dstRemaining := b.frames - dstWriteOffset
	if dstRemaining <= 0 {
		return 0
	}

	srcLen := src.frames
	var framesAvailable int
	if wrapSrcAsLoop {
		if srcLen == 0 {
			return 0
		}
		framesAvailable = dstRemaining
	} else {
		framesAvailable = srcLen - srcReadOffset
		if framesAvailable < 0 {
			framesAvailable = 0
		}
	}

	framesWritten := dstRemaining
	if framesAvailable < framesWritten {
		framesWritten = framesAvailable
	}
	if framesWritten <= 0 {
		return 0
	}

	for c := 0; c < len(b.channels); c++ {
		dstCh := b.channels[c]
		srcIdx := c
		if srcIdx >= len(src.channels) {
			srcIdx = 0
		}
		srcCh := src.channels[srcIdx]

		for k := 0; k < framesWritten; k++ {
			readPos := srcReadOffset + k
			if wrapSrcAsLoop {
				readPos %= srcLen
			}
			dstCh[dstWriteOffset+k] += scalar * srcCh[readPos]
		}
	}
	return framesWritten
}

// InterleaveInto writes this buffer's samples into dst in interleaved
// frame-major order (dst must hold at least Frames()*Channels() samples),
// for handing a buffer to a driver that wants one flat interleaved slice.
// Returns the number of samples written.
func (b *Buffer) InterleaveInto(dst []Sample) int {
	channels := len(b.channels)
	n := 0
	for i := 0; i < b.frames; i++ {
		for c := 0; c < channels; c++ {
			idx := i*channels + c
			if idx >= len(dst) {
				return n
			}
			dst[idx] = b.channels[c][i]
			n++
		}
	}
	return n
}

// IsSilent reports whether every sample in every channel equals zero.
func (b *Buffer) IsSilent() bool {
	for _, ch := range b.channels {
		for _, s := range ch {
			if s != 0 {
				return false
			}
		}
	}
	return true
}
