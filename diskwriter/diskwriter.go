// diskwriter.go - rendered-output-to-disk writer subsystem
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

// Package diskwriter buffers rendered frames handed to it by the render
// core, converts them to signed 16-bit PCM, and writes a standard RIFF
// WAVE container with a per-recording integer filename suffix, per
// SPEC_FULL.md section 6's persisted format. The clamp-before-convert
// behavior is grounded in original_source's wavewriter.cpp, which also
// hard-clips before the float-to-int16 cast rather than trusting upstream
// clipping to have already happened. Append's own conversion work runs on
// the render goroutine, so it draws its int16 scratch from a pre-sized
// pool and hands the actual file write off to a background flush
// goroutine instead of calling wav.Encoder.Write inline.
package diskwriter

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/charmbracelet/log"

	"github.com/driftwave-audio/engine/buffer"
)

const (
	maxInt16 = 32767
	minInt16 = -32768

	// scratchPoolSize bounds how many in-flight Append conversions can be
	// queued for the flush goroutine before Append starts dropping frames
	// instead of blocking the render thread.
	scratchPoolSize = 4
)

// flushJob is one converted buffer's worth of interleaved int16 samples,
// queued for the background flush goroutine to hand to the WAV encoder.
// scratch is the full-capacity backing slice pulled from the free-list;
// ib.Data is a (possibly shorter) view over it for the encoder to read.
// Returning scratch rather than ib.Data to the free-list keeps every
// pooled slice at its original capacity.
type flushJob struct {
	ib      *audio.IntBuffer
	scratch []int
}

// Writer accumulates rendered frames and flushes them to a sequentially
// numbered RIFF WAVE file. A Writer is driven entirely from outside the
// render thread except for Append itself: Append runs on the render
// goroutine and must not allocate or block, so it pulls a pre-sized
// scratch buffer from a free-list and hands the conversion off to a
// background goroutine for the actual encoder write. File creation (Arm)
// happens on the control side. Finalize runs from control.Engine.Stop
// (through render.Engine.DisarmRecording), and also on the render
// goroutine when Render reaches a writer's buffer cap or ends a bounce.
type Writer struct {
	mu sync.Mutex

	dir        string
	baseName   string
	sampleRate int
	channels   int
	maxFrames  int
	maxBuffers int

	buffersAppended int
	finalizing      bool

	enc    *wav.Encoder
	file   *os.File
	logger *log.Logger

	free chan []int
	jobs chan flushJob
	done chan struct{}

	nextIndex int
}

// New constructs a Writer that will write numbered files
// "<baseName>-<index>.wav" under dir. maxFrames is the largest render
// callback size this Writer will ever see (the engine's configured
// buffer size); it sizes the pre-allocated int16 scratch pool so Append
// never allocates sample storage.
func New(dir, baseName string, sampleRate, channels, maxFrames int, logger *log.Logger) *Writer {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	return &Writer{
		dir:        dir,
		baseName:   baseName,
		sampleRate: sampleRate,
		channels:   channels,
		maxFrames:  maxFrames,
		logger:     logger,
	}
}

// Arm opens a fresh numbered file, begins a new recording/bounce pass
// capped at maxBuffers render callbacks worth of frames (0 means
// unbounded), and starts the background flush goroutine that will own
// this pass's encoder writes.
func (w *Writer) Arm(maxBuffers int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.enc != nil {
		return fmt.Errorf("diskwriter: already armed")
	}

	w.nextIndex++
	path := filepath.Join(w.dir, fmt.Sprintf("%s-%d.wav", w.baseName, w.nextIndex))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("diskwriter: create %s: %w", path, err)
	}

	w.file = f
	w.enc = wav.NewEncoder(f, w.sampleRate, 16, w.channels, 1)
	w.maxBuffers = maxBuffers
	w.buffersAppended = 0
	w.finalizing = false

	free := make(chan []int, scratchPoolSize)
	for i := 0; i < scratchPoolSize; i++ {
		free <- make([]int, w.maxFrames*w.channels)
	}
	jobs := make(chan flushJob, scratchPoolSize)
	done := make(chan struct{})
	w.free = free
	w.jobs = jobs
	w.done = done

	enc := w.enc
	logger := w.logger
	go flushLoop(enc, jobs, free, done, logger)

	w.logger.Debug("diskwriter armed", "path", path)
	return nil
}

// flushLoop owns the actual encoder writes for one Arm pass. It runs
// entirely off the render thread: Append only ever sends to jobs and
// Finalize only ever closes it, so flushLoop needs no lock of its own to
// touch enc.
func flushLoop(enc *wav.Encoder, jobs chan flushJob, free chan []int, done chan struct{}, logger *log.Logger) {
	defer close(done)
	for job := range jobs {
		if err := enc.Write(job.ib); err != nil {
			logger.Error("diskwriter flush failed", "err", err)
		}
		select {
		case free <- job.scratch:
		default:
		}
	}
}

// Armed reports whether a file is currently open for writing.
func (w *Writer) Armed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enc != nil
}

// Append converts buf to interleaved signed 16-bit PCM (hard-clipping to
// [-1,1] before the int16 cast, per the clamp-before-convert policy) and
// queues it for the background flush goroutine to write. A no-op if not
// armed or already finalizing. Sample storage comes from the pre-sized
// free-list sized by maxFrames in New; the only per-call allocation is the
// small audio.IntBuffer/audio.Format header for the queued job. Never
// blocks on file I/O; if the flush goroutine is behind and both the free-list and job
// queue are exhausted, the frame is dropped and reported via the
// returned error rather than stalling the render thread. Reports whether
// the buffer cap (maxBuffers) has now been reached.
func (w *Writer) Append(buf *buffer.Buffer) (capReached bool, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.enc == nil || w.finalizing {
		return false, nil
	}

	var ints []int
	select {
	case ints = <-w.free:
	default:
		return false, fmt.Errorf("diskwriter: scratch pool exhausted, dropped frame")
	}

	frames := buf.Frames()
	need := frames * w.channels
	if need > len(ints) {
		need = len(ints)
	}
	for c := 0; c < w.channels && c < buf.Channels(); c++ {
		src := buf.Channel(c)
		for i := 0; i < frames; i++ {
			idx := i*w.channels + c
			if idx >= need {
				break
			}
			ints[idx] = floatToInt16(float32(src[i]))
		}
	}

	ib := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: w.channels, SampleRate: w.sampleRate},
		Data:           ints[:need],
		SourceBitDepth: 16,
	}

	select {
	case w.jobs <- flushJob{ib: ib, scratch: ints}:
	default:
		select {
		case w.free <- ints:
		default:
		}
		return false, fmt.Errorf("diskwriter: flush queue full, dropped frame")
	}

	w.buffersAppended++
	capReached = w.maxBuffers > 0 && w.buffersAppended >= w.maxBuffers
	return capReached, nil
}

// Finalize closes the job queue, waits for the background flush
// goroutine to drain it and the WAV encoder to close (writing the RIFF
// header/size fields), closes the underlying file, and disarms the
// writer. Safe to call when not armed.
func (w *Writer) Finalize() error {
	w.mu.Lock()
	if w.enc == nil {
		w.mu.Unlock()
		return nil
	}
	w.finalizing = true
	close(w.jobs)
	done := w.done
	w.mu.Unlock()

	<-done

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.finalizeLocked()
}

func (w *Writer) finalizeLocked() error {
	if w.enc == nil {
		return nil
	}
	encErr := w.enc.Close()
	fileErr := w.file.Close()
	w.enc = nil
	w.file = nil
	w.free = nil
	w.jobs = nil
	w.done = nil
	if encErr != nil {
		return fmt.Errorf("diskwriter: finalize encoder: %w", encErr)
	}
	if fileErr != nil {
		return fmt.Errorf("diskwriter: finalize file: %w", fileErr)
	}
	w.logger.Debug("diskwriter finalized")
	return nil
}

func floatToInt16(s float32) int {
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	v := int(s * maxInt16)
	if v > maxInt16 {
		v = maxInt16
	} else if v < minInt16 {
		v = minInt16
	}
	return v
}
