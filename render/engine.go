// engine.go - the render callback: the engine's hot path
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

package render

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/driftwave-audio/engine/buffer"
	"github.com/driftwave-audio/engine/channel"
	"github.com/driftwave-audio/engine/diskwriter"
	"github.com/driftwave-audio/engine/driver"
	"github.com/driftwave-audio/engine/event"
	"github.com/driftwave-audio/engine/instrument"
	"github.com/driftwave-audio/engine/processor"
	"github.com/driftwave-audio/engine/sampler"
	"github.com/driftwave-audio/engine/sequencer"
	"github.com/driftwave-audio/engine/vol"
	"github.com/driftwave-audio/engine/wavetable"
)

// MaxOutput is the hard symmetric clipping ceiling applied just before
// interleaving, per SPEC_FULL.md section 4.7's numeric semantics.
const MaxOutput = 1.0

// Config configures a new Engine. Every buffer it implies is sized and
// allocated in New; nothing on the render path allocates afterward,
// resolving the "render-thread allocation" design note.
type Config struct {
	SampleRate        float64
	Frames            int // per-callback frame count the engine is sized for
	OutputChannels    int
	InputChannels     int
	BPM               float64
	BeatAmount        int
	BeatUnit          int
	StepsPerBar       int
	ChannelCaching    bool
	PreventCPUScaling bool
}

// Engine is the render core: one Clock, a set of instruments each owning
// an AudioChannel, channel groups, a master processor chain, and the
// interaction contract with a driver.Driver. Exactly one goroutine (the
// driver's, which calls Render after Start) mutates render-path state;
// every other method either queues a change for the render thread to
// apply, or uses the instrument.Guard / atomic fields documented in
// SPEC_FULL.md section 5.
type Engine struct {
	cfg   Config
	Clock *Clock

	Sampler   *sampler.Registry
	Wavetables *wavetable.Pool

	mu          sync.Mutex // protects instruments/groups slices (control-thread add/remove only)
	instruments []*instrument.Instrument
	nextInstID  int64
	groups      []*channel.Group
	grouped     map[*channel.AudioChannel]bool

	// instrumentsScratch/groupsScratch are the render thread's reused
	// snapshot buffers: Render copies the current instruments/groups under
	// mu into these every callback instead of allocating a fresh slice, so
	// the hot path allocates only while their capacity is still growing.
	instrumentsScratch []*instrument.Instrument
	groupsScratch      []*channel.Group

	master      *buffer.Buffer
	MasterChain *processor.Chain
	masterVolumeLog float32

	inputChannel  *channel.AudioChannel
	inputScratch  []buffer.Sample
	outputScratch []buffer.Sample

	drv driver.Driver

	recorder *diskwriter.Writer
	bouncer  *diskwriter.Writer
	bouncing       atomic.Bool
	bounceRangeMin int64
	bounceRangeMax int64

	playing       atomic.Bool
	threadActive  atomic.Bool

	notifications chan Notification

	lastRenderStart time.Time
}

// New constructs an Engine sized and wired per cfg. samplerRegistry and
// wavetablePool are constructed explicitly here (not package-level
// singletons), resolving the "static singletons" design note.
func New(cfg Config, samplerRegistry *sampler.Registry, wavetablePool *wavetable.Pool) *Engine {
	e := &Engine{
		cfg:         cfg,
		Clock:       NewClock(cfg.SampleRate, cfg.BPM, cfg.BeatAmount, cfg.BeatUnit, cfg.StepsPerBar),
		Sampler:     samplerRegistry,
		Wavetables:  wavetablePool,
		grouped:     make(map[*channel.AudioChannel]bool),
		master:        buffer.New(cfg.OutputChannels, cfg.Frames),
		MasterChain:   processor.NewChain(),
		masterVolumeLog: vol.ToLog(1),
		outputScratch: make([]buffer.Sample, cfg.OutputChannels*cfg.Frames),

		notifications: make(chan Notification, 256),
	}
	if cfg.InputChannels > 0 {
		e.inputChannel = channel.New(cfg.InputChannels, cfg.Frames)
		e.inputScratch = make([]buffer.Sample, cfg.InputChannels*cfg.Frames)
	}
	return e
}

// SetMasterVolumeLinear sets the master chain's output gain (applied
// last, after every channel/group/master processing step).
func (e *Engine) SetMasterVolumeLinear(v float32) { e.masterVolumeLog = vol.ToLog(v) }

// AddInstrument registers in with the engine, assigning it the next
// instrument ID. Safe to call from the control thread at any time; the
// render thread only ever reads a stable snapshot of the instruments
// slice taken at the top of Render.
func (e *Engine) AddInstrument(in *instrument.Instrument) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.instruments = append(e.instruments, in)
}

// NextInstrumentID returns a fresh, unused instrument.ID for constructing
// a new instrument before registering it with AddInstrument.
func (e *Engine) NextInstrumentID() event.InstrumentID {
	return event.InstrumentID(atomic.AddInt64(&e.nextInstID, 1))
}

// RemoveInstrument unregisters in.
func (e *Engine) RemoveInstrument(in *instrument.Instrument) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, x := range e.instruments {
		if x == in {
			e.instruments = append(e.instruments[:i], e.instruments[i+1:]...)
			return
		}
	}
}

// AddGroup registers g. Every member channel of g is mixed into the
// master exclusively through g - the render core's direct-to-master path
// (Render step 6) skips any channel recorded in e.grouped.
func (e *Engine) AddGroup(g *channel.Group, members ...*channel.AudioChannel) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, m := range members {
		g.AddMember(m)
		e.grouped[m] = true
	}
	e.groups = append(e.groups, g)
}

// Notifications returns the channel the render core posts Notification
// values to. Buffered; the render thread never blocks sending (see
// notify in notify.go).
func (e *Engine) Notifications() <-chan Notification { return e.notifications }

// Start wires drv as this engine's driver and begins rendering. Driver
// construction is assumed to have already succeeded by the time Start is
// called; a construction failure is the caller's responsibility to
// surface as ErrorHardwareUnavailable before ever calling Start.
func (e *Engine) Start(drv driver.Driver) error {
	e.drv = drv
	e.threadActive.Store(true)
	e.playing.Store(true)
	return drv.StartRender(e.Render)
}

// Stop halts the render thread. The next callback (or, under a headless/
// pull driver already mid-spin, the current one) returns SignalStop.
// Pending disk-writer work is left for the caller to finalize afterward
// (e.g. control.Engine.Stop); Render itself finalizes a writer only when
// its buffer cap is reached or a bounce completes.
func (e *Engine) Stop() {
	e.threadActive.Store(false)
	if e.drv != nil {
		e.drv.Stop()
	}
}

// SetPlaying starts or stops event playback without tearing down the
// driver; while not playing, Render still hands the driver a buffer every
// callback (so the stream itself never stops) but does not advance the
// clock or collect or mix sequenced events; live events still sound.
func (e *Engine) SetPlaying(playing bool) { e.playing.Store(playing) }

// ArmRecording configures the engine to append every rendered master
// buffer to a disk-writer recording, in addition to driving the live
// driver. maxBuffers caps how many callbacks worth of frames are
// captured (0 = unbounded); call SetRecordingState(false) to disarm.
func (e *Engine) ArmRecording(w *diskwriter.Writer, maxBuffers int) error {
	e.recorder = w
	return w.Arm(maxBuffers)
}

// DisarmRecording finalizes and detaches the recorder.
func (e *Engine) DisarmRecording() error {
	if e.recorder == nil {
		return nil
	}
	err := e.recorder.Finalize()
	e.recorder = nil
	return err
}

// ArmBounce configures offline rendering: while armed, Render does not
// hand output to the driver at all (SPEC_FULL.md section 4.7 step 11) -
// it only appends to w, starting at the current playhead, until the loop
// wraps, the playhead reaches rangeEnd or maxBuffers is reached.
// rangeStart is stored but Render does not seek to it.
func (e *Engine) ArmBounce(w *diskwriter.Writer, maxBuffers int, rangeStart, rangeEnd int64) error {
	e.bouncer = w
	e.bounceRangeMin, e.bounceRangeMax = rangeStart, rangeEnd
	e.bouncing.Store(true)
	return w.Arm(maxBuffers)
}

// Render is the engine's single entry point, valid under both driver
// shapes (SPEC_FULL.md section 4.8). It performs one callback of n
// frames: clock advance, channel mix, bus/master apply, and either a
// driver write or a disk-writer append if bouncing.
func (e *Engine) Render(n int) driver.Signal {
	renderStart := time.Now()
	var expectedDeadline time.Time
	if e.cfg.PreventCPUScaling {
		expectedDeadline = renderStart.Add(time.Duration(float64(n) / e.cfg.SampleRate * float64(time.Second)))
	}

	if !e.threadActive.Load() {
		return driver.SignalStop
	}

	e.master.SilenceAll()

	playing := e.playing.Load()

	e.mu.Lock()
	e.instrumentsScratch = append(e.instrumentsScratch[:0], e.instruments...)
	e.groupsScratch = append(e.groupsScratch[:0], e.groups...)
	e.mu.Unlock()
	instruments := e.instrumentsScratch
	groups := e.groupsScratch

	window := sequencer.Window{
		Playhead:      e.Clock.BufferPosition,
		Frames:        int64(n),
		MinBufferPos:  e.Clock.MinBufferPosition,
		MaxBufferPos:  e.Clock.MaxBufferPosition,
		SamplesPerBar: e.Clock.SamplesPerBar,
	}

	if playing {
		for _, in := range instruments {
			sequencer.Collect(in, window)
		}
	}

	isMono := e.cfg.OutputChannels == 1

	if e.inputChannel != nil && e.drv != nil {
		in := e.inputChannel
		framesRead, _ := e.drv.ReadInput(e.inputScratch, n)
		buf := in.CaptureInto(e.inputScratch, framesRead, e.cfg.InputChannels == 1)
		e.master.Merge(buf, 0, 0, in.VolumeLinear(), false)
	}

	mixParams := event.MixParams{
		PlayheadFrame: e.Clock.BufferPosition,
	}
	if playing {
		mixParams.LoopIsWrapping = window.IsWrapping()
		if mixParams.LoopIsWrapping {
			mixParams.LoopWrapOffset = window.WrapOffset()
		}
		mixParams.LoopMin = e.Clock.MinBufferPosition
		mixParams.LoopMax = e.Clock.MaxBufferPosition
	}

	headroom := float32(1)
	if len(instruments) > 0 {
		headroom = 1 / float32(len(instruments))
	}
	for _, in := range instruments {
		ch := in.Channel
		if !playing {
			ch.SetSequencedEvents(nil)
		}
		local := mixParams
		if ch.MaxBufferPosition > 0 {
			local.UseChannelLocalRange = true
			local.ChannelLocalRange = ch.MaxBufferPosition
		}
		ch.Render(local, e.cfg.ChannelCaching, isMono)
		if !e.grouped[ch] {
			ch.MergeInto(e.master, headroom)
		}
		in.ReapDeletableLive()
	}

	for _, g := range groups {
		g.ApplyEffectsToChannels(e.master, isMono)
	}

	e.MasterChain.Apply(e.master, isMono)

	n = e.clipAndAdvance(n)

	if e.bouncing.Load() {
		if e.bouncer != nil {
			capReached, _ := e.bouncer.Append(e.master)
			wrapped := e.Clock.BufferPosition < e.Clock.MinBufferPosition+int64(n)
			if capReached || wrapped || e.Clock.BufferPosition >= e.bounceRangeMax {
				e.bouncer.Finalize()
				e.bouncing.Store(false)
				e.notify(BounceComplete{})
			}
		}
	} else if e.drv != nil {
		written := e.master.InterleaveInto(e.outputScratch)
		e.drv.WriteOutput(e.outputScratch[:written], n)
	}
	if e.recorder != nil && e.recorder.Armed() {
		if capReached, _ := e.recorder.Append(e.master); capReached {
			e.recorder.Finalize()
			e.notify(RecordingCompleted{})
		}
	}

	if !e.threadActive.Load() {
		return driver.SignalStop
	}

	if applied, _ := e.Clock.ApplyQueuedTempo(); applied {
		e.propagateTempoToInstruments(instruments)
		e.notify(SequencerTempoUpdated{})
	}

	if e.cfg.PreventCPUScaling && !expectedDeadline.IsZero() {
		for time.Now().Before(expectedDeadline) {
			// busy-burn to hold the core's clock frequency up, per the
			// reference engine's PREVENT_CPU_FREQUENCY_SCALING pattern.
		}
	}

	return driver.SignalContinue
}

func (e *Engine) propagateTempoToInstruments(instruments []*instrument.Instrument) {
	for _, in := range instruments {
		in.SetSamplesPerBar(e.Clock.SamplesPerBar)
	}
}

// clipAndAdvance applies master volume, hard-clips to [-MaxOutput,
// MaxOutput], and advances the clock by n frames, emitting step/marker
// notifications at the exact frame offset they occurred within this
// callback (SPEC_FULL.md section 5's ordering guarantee). Always returns
// n. While playback is paused (SetPlaying(false)) the buffer is still
// scaled and clipped but the clock is not advanced.
func (e *Engine) clipAndAdvance(n int) int {
	vol := e.masterVolumeLog
	for c := 0; c < e.master.Channels(); c++ {
		ch := e.master.Channel(c)
		for i := 0; i < n && i < len(ch); i++ {
			s := ch[i] * vol
			if s > MaxOutput {
				s = MaxOutput
			} else if s < -MaxOutput {
				s = -MaxOutput
			}
			ch[i] = s
		}
	}

	if !e.playing.Load() {
		return n
	}

	for _, ev := range e.Clock.advanceBy(n) {
		if ev.stepCrossed {
			e.notify(SequencerPositionUpdated{BufferOffset: ev.frameOffset})
		}
		if ev.markerHit {
			e.notify(MarkerPositionReached{})
		}
	}
	return n
}
