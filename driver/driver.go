// driver.go - abstract audio driver contract
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

// Package driver defines the abstract contract the render core uses to
// talk to hardware: a pull/blocking shape (the driver owns a blocking
// write loop and calls back into the core) and a callback/duplex shape
// (the driver's own callback invokes the core, which exposes scratch
// buffers for output enqueue and input read). Concrete adapters live in
// driver/oto (pull), driver/alsa (duplex, linux-only) and driver/headless
// (mock), generalized from the reference engine's OtoPlayer/ALSAPlayer/
// headless backend trio.
package driver

import "github.com/driftwave-audio/engine/buffer"

// Signal is the render core's per-callback return code, consumed by a
// pull driver's spin loop to decide whether to keep calling RenderFunc.
type Signal int

const (
	// SignalContinue means the engine rendered a full callback and the
	// driver should keep calling RenderFunc.
	SignalContinue Signal = iota
	// SignalStop means the engine was stopped mid-callback; the driver's
	// loop must exit without requesting another callback.
	SignalStop
)

// RenderFunc is the render core's single entry point, valid under both
// driver shapes: n is the requested frame count, the return value tells
// the driver whether to continue.
type RenderFunc func(n int) Signal

// Driver is the contract the render core's control layer uses to manage
// a concrete backend's lifecycle, independent of which shape it uses
// internally.
type Driver interface {
	// StartRender begins the render loop: a pull driver spins a goroutine
	// calling renderFn in a loop; a push driver registers renderFn as its
	// hardware callback and returns immediately.
	StartRender(renderFn RenderFunc) error

	// WriteOutput delivers frames of interleaved output to the hardware,
	// or is a no-op under a mock driver. frames is the frame count (not
	// sample count); out holds frames*channelCount samples.
	WriteOutput(out []buffer.Sample, frames int) error

	// ReadInput fills dst with up to frames frames of interleaved input
	// captured from the hardware, returning the frame count actually
	// read.
	ReadInput(dst []buffer.Sample, frames int) (framesRead int, err error)

	// Stop halts the render loop/callback registration.
	Stop() error

	// IsSupported reports whether this driver can run on the current
	// platform/hardware (e.g. the ALSA driver on a non-Linux build).
	IsSupported() bool

	// SetBufferSizeInBursts requests a buffer size of n hardware bursts,
	// per the bursts glossary term. None of this module's drivers resize
	// an open stream: alsa and headless ignore the call, oto records n.
	SetBufferSizeInBursts(n int) error

	// SetDeviceID selects an output/input device by platform-specific id.
	SetDeviceID(id string) error
}
