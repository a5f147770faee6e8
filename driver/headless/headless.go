// headless.go - no-op driver for the mock configuration
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

// Package headless implements driver.Driver as a no-op, standing in for
// the reference engine's //go:build headless stub (audio_backend_headless.go).
// It is used for bounce-only rendering and for tests that need a driver
// without a real output device.
package headless

import (
	"sync"

	"github.com/driftwave-audio/engine/buffer"
	"github.com/driftwave-audio/engine/driver"
)

// Driver is a headless driver.Driver. StartRender spins a plain goroutine
// calling renderFn in a loop - the pull shape - with no underlying
// hardware. Callers that want to step the render path one callback at a
// time (tests, offline bounce) call the render function directly instead.
type Driver struct {
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	done    chan struct{}
}

// New constructs a headless driver.
func New() *Driver { return &Driver{} }

func (d *Driver) IsSupported() bool                    { return true }
func (d *Driver) SetBufferSizeInBursts(n int) error     { return nil }
func (d *Driver) SetDeviceID(id string) error           { return nil }
func (d *Driver) WriteOutput(_ []buffer.Sample, _ int) error { return nil }

func (d *Driver) ReadInput(dst []buffer.Sample, frames int) (int, error) {
	for i := range dst {
		dst[i] = 0
	}
	return 0, nil
}

// StartRender spins a background goroutine calling renderFn(256) as fast
// as it can, useful for smoke-testing a full control.Engine without a
// real driver. The frame count is fixed at 256.
func (d *Driver) StartRender(renderFn driver.RenderFunc) error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return nil
	}
	d.running = true
	d.stopCh = make(chan struct{})
	d.done = make(chan struct{})
	d.mu.Unlock()

	go func() {
		defer close(d.done)
		for {
			select {
			case <-d.stopCh:
				return
			default:
			}
			if renderFn(256) == driver.SignalStop {
				return
			}
		}
	}()
	return nil
}

// Stop halts the background render loop and waits for it to exit.
func (d *Driver) Stop() error {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return nil
	}
	d.running = false
	close(d.stopCh)
	done := d.done
	d.mu.Unlock()
	<-done
	return nil
}
