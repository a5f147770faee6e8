// oto.go - pull/blocking driver adapter over ebitengine/oto
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

// Package oto adapts the render core's RenderFunc to ebitengine/oto's
// pull model: oto calls Read whenever it wants more samples, and Read
// calls back into the core synchronously. Grounded directly in the
// reference engine's audio_backend_oto.go OtoPlayer, generalized from
// wrapping a single *SoundChip's ring buffer to wrapping an arbitrary
// driver.RenderFunc plus an output scratch buffer the core fills.
package oto

import (
	"encoding/binary"
	"math"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"

	"github.com/driftwave-audio/engine/buffer"
	"github.com/driftwave-audio/engine/driver"
)

// Driver is a pull-shape driver.Driver backed by an oto.Context. It owns
// no render-thread goroutine of its own: oto's internal player goroutine
// calls Read, which calls the render core's RenderFunc synchronously and
// then copies the core's output scratch buffer out as bytes.
type Driver struct {
	sampleRate   int
	channelCount int

	ctx    *oto.Context
	player *oto.Player

	renderFn atomic.Pointer[driver.RenderFunc]
	started  atomic.Bool

	mu        sync.Mutex
	scratch   []buffer.Sample // the core's most recent rendered block
	byteBuf   []byte          // pre-allocated Read() staging buffer
	burstSize int
}

// New constructs an oto-backed driver at the given sample rate and output
// channel count. The oto context is created eagerly; StartRender attaches
// the render callback and begins playback.
func New(sampleRate, channelCount int) (*Driver, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channelCount,
		Format:       oto.FormatFloat32LE,
		BufferSize:   0, // let oto pick its default low-latency size
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	return &Driver{
		sampleRate:   sampleRate,
		channelCount: channelCount,
		ctx:          ctx,
		scratch:      make([]buffer.Sample, sampleRate), // generous initial size, grown on demand
	}, nil
}

// IsSupported always reports true: oto has headless/null backends on
// every platform it builds for.
func (d *Driver) IsSupported() bool { return true }

// SetBufferSizeInBursts records n and changes nothing else: oto's buffer
// size is fixed at context construction, not adjustable per the pull
// model's own internal bursts. Present to satisfy driver.Driver.
func (d *Driver) SetBufferSizeInBursts(n int) error {
	d.burstSize = n
	return nil
}

// SetDeviceID is a no-op: oto selects the system default output device
// and exposes no per-device selection on the platforms this engine
// targets.
func (d *Driver) SetDeviceID(id string) error { return nil }

// StartRender registers renderFn and begins playback. oto's player
// goroutine will call Read as often as it needs more samples; Read
// synchronously invokes renderFn(n) for the requested frame count,
// then this driver's WriteOutput (called by renderFn's caller, the
// render core) fills the scratch buffer Read copies out.
func (d *Driver) StartRender(renderFn driver.RenderFunc) error {
	d.renderFn.Store(&renderFn)
	d.mu.Lock()
	if d.player == nil {
		d.player = d.ctx.NewPlayer(d)
	}
	d.mu.Unlock()
	d.player.Play()
	d.started.Store(true)
	return nil
}

// Stop halts playback. Safe to call even if StartRender was never called.
func (d *Driver) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.player != nil && d.started.Load() {
		d.player.Close()
		d.started.Store(false)
	}
	return nil
}

// WriteOutput is called by the render core (from within renderFn, on
// oto's own goroutine) to hand over the rendered interleaved samples that
// Read will copy out next.
func (d *Driver) WriteOutput(out []buffer.Sample, frames int) error {
	n := frames * d.channelCount
	if n > len(out) {
		n = len(out)
	}
	d.mu.Lock()
	if cap(d.scratch) < n {
		d.scratch = make([]buffer.Sample, n)
	}
	d.scratch = d.scratch[:n]
	copy(d.scratch, out[:n])
	d.mu.Unlock()
	return nil
}

// ReadInput is unsupported on the pull driver: oto is output-only. It
// always reports zero frames read and a nil error, matching the "missing
// capture" path's silence-not-error policy.
func (d *Driver) ReadInput(dst []buffer.Sample, frames int) (int, error) {
	for i := range dst {
		dst[i] = 0
	}
	return 0, nil
}

// Read implements io.Reader for oto.NewPlayer. It invokes the stored
// RenderFunc for the requested frame count, then copies the scratch
// buffer WriteOutput populated out as little-endian float32 bytes.
func (d *Driver) Read(p []byte) (int, error) {
	fn := d.renderFn.Load()
	if fn == nil {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	const bytesPerSample = 4 // oto's FormatFloat32LE, independent of buffer.Sample's build-time width
	numSamples := len(p) / bytesPerSample
	frames := numSamples / d.channelCount
	if frames <= 0 {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	(*fn)(frames)

	d.mu.Lock()
	n := len(d.scratch)
	if n > numSamples {
		n = numSamples
	}
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint32(p[i*bytesPerSample:], math.Float32bits(float32(d.scratch[i])))
	}
	d.mu.Unlock()

	for i := n * bytesPerSample; i < len(p); i++ {
		p[i] = 0
	}
	return len(p), nil
}
