// sampler.go - identifier-keyed sample registry
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

// Package sampler implements the engine's sample registry: WAV files are
// decoded once into shared-immutable buffer.Buffer values keyed by a
// caller-chosen string identifier, and reference-counted so the last
// instrument referencing a sample releases its memory.
package sampler

import (
	"fmt"
	"os"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/charmbracelet/log"

	"github.com/driftwave-audio/engine/buffer"
)

type entry struct {
	buf        *buffer.Buffer
	sampleRate float64
	refs       int
}

// Registry is a thread-safe, identifier-keyed sample store. Buffers are
// shared, not copied, across every instrument referencing the same
// identifier - a sample event only ever reads its source, never mutates
// it, so sharing is safe.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	logger  *log.Logger
}

// NewRegistry constructs an empty registry, logging load/release events
// through logger (nil disables logging).
func NewRegistry(logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	return &Registry{entries: make(map[string]*entry), logger: logger}
}

// LoadWAV decodes the WAV file at path, registers it under id (replacing
// any existing unreferenced entry under the same id), and returns the
// decoded buffer and its native sample rate. Subsequent calls with the
// same id and an existing entry increment the reference count instead of
// re-decoding.
func (r *Registry) LoadWAV(id, path string) (*buffer.Buffer, float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[id]; ok {
		e.refs++
		return e.buf, e.sampleRate, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("sampler: open %s: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("sampler: %s is not a valid WAV file", path)
	}
	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("sampler: decode %s: %w", path, err)
	}

	buf := bufferFromPCM(pcm)
	e := &entry{buf: buf, sampleRate: float64(dec.SampleRate), refs: 1}
	r.entries[id] = e
	r.logger.Debug("loaded sample", "id", id, "path", path, "frames", buf.Frames(), "channels", buf.Channels())
	return buf, e.sampleRate, nil
}

// Get returns the buffer registered under id without changing its
// reference count, or nil if id is unknown.
func (r *Registry) Get(id string) (*buffer.Buffer, float64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, 0, false
	}
	return e.buf, e.sampleRate, true
}

// Release decrements id's reference count, freeing the entry once it
// reaches zero.
func (r *Registry) Release(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return
	}
	e.refs--
	if e.refs <= 0 {
		delete(r.entries, id)
		r.logger.Debug("released sample", "id", id)
	}
}

// bufferFromPCM converts a decoded go-audio/audio.IntBuffer into the
// engine's normalized float buffer.Sample storage.
func bufferFromPCM(pcm *audio.IntBuffer) *buffer.Buffer {
	channels := pcm.Format.NumChannels
	if channels < 1 {
		channels = 1
	}
	frames := len(pcm.Data) / channels
	out := buffer.New(channels, frames)

	maxVal := float32(int(1) << (uint(pcm.SourceBitDepth) - 1))
	if pcm.SourceBitDepth <= 0 {
		maxVal = float32(1 << 15)
	}

	for ch := 0; ch < channels; ch++ {
		dst := out.Channel(ch)
		for i := 0; i < frames; i++ {
			dst[i] = buffer.Sample(float32(pcm.Data[i*channels+ch]) / maxVal)
		}
	}
	return out
}
