// control.go - goroutine-safe facade over the render core
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

// Package control implements the engine's event scheduling facade: a
// thin wrapper around render.Engine that every non-render goroutine talks
// to instead of touching engine state directly. It starts the render core
// inside a golang.org/x/sync/errgroup goroutine so Stop can collect a
// start failure; that goroutine returns once the driver has started, and
// halting the render loop itself is left to the driver's Stop, which
// render.Engine.Stop calls. The disk-writer's flush goroutine is drained
// by diskwriter.Writer.Finalize from within core.DisarmRecording. The
// render core's notifications are re-exposed unchanged.
package control

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/charmbracelet/log"

	"github.com/driftwave-audio/engine/diskwriter"
	"github.com/driftwave-audio/engine/driver"
	"github.com/driftwave-audio/engine/engineerr"
	"github.com/driftwave-audio/engine/render"
)

// Engine is the control-plane facade: one render.Engine, the driver that
// feeds it, and the recording/bounce disk writers it arms on request.
// Every exported method is safe to call from any goroutine.
type Engine struct {
	core *render.Engine
	drv  driver.Driver

	logger *log.Logger

	sampleRate int
	channels   int
	frames     int
	recDir     string

	group  *errgroup.Group
	cancel context.CancelFunc
}

// New wraps core, which must already be constructed (see render.New) but
// not yet started. frames is the engine's configured render callback
// size, used to pre-size each disk writer's allocation-free scratch pool.
func New(core *render.Engine, sampleRate, channels, frames int, recDir string, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	return &Engine{
		core:       core,
		logger:     logger,
		sampleRate: sampleRate,
		channels:   channels,
		frames:     frames,
		recDir:     recDir,
	}
}

// Start constructs drv's render loop. Driver construction itself is the
// caller's responsibility; a construction failure must be surfaced as
// engineerr.ErrHardwareUnavailable before Start is ever called, per the
// fatal-on-construction-failure policy.
func (e *Engine) Start(drv driver.Driver) error {
	if !drv.IsSupported() {
		return engineerr.New(engineerr.KindHardwareUnavailable, fmt.Errorf("driver not supported on this platform"))
	}
	e.drv = drv

	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	g, _ := errgroup.WithContext(ctx)
	e.group = g

	g.Go(func() error {
		if err := e.core.Start(drv); err != nil {
			e.logger.Error("render start failed", "err", err)
			return engineerr.New(engineerr.KindHardwareUnavailable, err)
		}
		return nil
	})
	return nil
}

// Stop halts the render thread and waits for it (and any pending
// disk-writer flush) to finish before returning, per the "finalize
// outside the render goroutine" rule in SPEC_FULL.md section 5.
func (e *Engine) Stop() error {
	e.core.Stop()
	if e.cancel != nil {
		e.cancel()
	}
	var waitErr error
	if e.group != nil {
		waitErr = e.group.Wait()
	}
	if err := e.core.DisarmRecording(); err != nil {
		e.logger.Warn("recording finalize on stop", "err", err)
	}
	return waitErr
}

// Notifications re-exposes the render core's notification channel
// unchanged.
func (e *Engine) Notifications() <-chan render.Notification { return e.core.Notifications() }

// SetTempo queues a tempo/time-signature change, applied at the next
// render callback's safe point.
func (e *Engine) SetTempo(bpm float64, beatAmount, beatUnit int) {
	e.core.Clock.QueueTempo(bpm, beatAmount, beatUnit)
}

// SetPlaying starts or stops event playback without tearing down the
// driver.
func (e *Engine) SetPlaying(playing bool) { e.core.SetPlaying(playing) }

// SetLoopRange sets the loop's [minFrame, maxFrame] and step subdivision.
func (e *Engine) SetLoopRange(minFrame, maxFrame int64, stepsPerBar int) {
	e.core.Clock.SetLoopRange(minFrame, maxFrame, stepsPerBar)
}

// SetBufferPosition moves the playhead to frame, clamped into the loop
// range.
func (e *Engine) SetBufferPosition(frame int64) { e.core.Clock.SetBufferPosition(frame) }

// Rewind resets the playhead to the start of the loop range.
func (e *Engine) Rewind() { e.core.Clock.Rewind() }

// Seek moves the playhead by deltaFrames relative to its current
// position, clamped into the loop range by SetBufferPosition.
func (e *Engine) Seek(deltaFrames int64) {
	e.core.Clock.SetBufferPosition(e.core.Clock.BufferPosition + deltaFrames)
}

// BufferPosition returns the current playhead position, in frames.
func (e *Engine) BufferPosition() int64 { return e.core.Clock.BufferPosition }

// SamplesPerStep returns the current clock's samples-per-sequencer-step,
// a convenient seek granularity for a REPL or UI.
func (e *Engine) SamplesPerStep() int64 { return e.core.Clock.SamplesPerStep }

// UpdateMeasures resizes the loop to span count bars at stepsPerBar steps
// each, keeping the loop start fixed.
func (e *Engine) UpdateMeasures(count, stepsPerBar int) {
	start := e.core.Clock.MinBufferPosition
	end := start + int64(count)*e.core.Clock.SamplesPerBar - 1
	e.core.Clock.SetLoopRange(start, end, stepsPerBar)
}

// SetNotificationMarker arms a one-shot MarkerPositionReached notification
// at frame.
func (e *Engine) SetNotificationMarker(frame int64) { e.core.Clock.SetMarker(frame) }

// SetRecordingState arms or disarms the recorder. outputPath names the
// recording's base filename (without extension or numeric suffix);
// maxBuffers caps capture length (0 = unbounded).
func (e *Engine) SetRecordingState(enabled bool, maxBuffers int, outputPath string) error {
	if !enabled {
		return e.core.DisarmRecording()
	}
	w := diskwriter.New(filepath.Dir(e.resolvedPath(outputPath)), filepath.Base(outputPath), e.sampleRate, e.channels, e.frames, e.logger)
	return e.core.ArmRecording(w, maxBuffers)
}

// SetBounceState arms offline bounce rendering from the current playhead
// until the loop wraps, the playhead reaches rangeEnd or maxBuffers is
// reached. While armed, the render core writes only to the bounce file,
// never to the live driver. Passing enabled=false does nothing: a bounce
// in progress runs until the render core ends it.
func (e *Engine) SetBounceState(enabled bool, maxBuffers int, outputPath string, rangeStart, rangeEnd int64) error {
	if !enabled {
		return nil
	}
	w := diskwriter.New(filepath.Dir(e.resolvedPath(outputPath)), filepath.Base(outputPath), e.sampleRate, e.channels, e.frames, e.logger)
	return e.core.ArmBounce(w, maxBuffers, rangeStart, rangeEnd)
}

// SaveRecordedSnippet is a placeholder hook for host applications that
// keep a ring of recorded snippets and want to promote index to a
// permanent file; the disk-writer subsystem here writes each arm/finalize
// pass directly to its numbered file, so there is nothing further to copy
// - this only logs the call at debug level; no RecordedSnippetReady
// notification is emitted.
func (e *Engine) SaveRecordedSnippet(index int) {
	e.logger.Debug("recorded snippet saved", "index", index)
}

func (e *Engine) resolvedPath(outputPath string) string {
	if filepath.IsAbs(outputPath) || e.recDir == "" {
		return outputPath
	}
	return filepath.Join(e.recDir, outputPath)
}
