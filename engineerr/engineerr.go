// engineerr.go - typed error kinds for the engine's error handling policy
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

// Package engineerr names the engine's error kinds as sentinel errors
// plus a typed Kind for programmatic dispatch, per SPEC_FULL.md section 7.
// No error unwinds through the render callback: every path either clamps
// a value at its setter, skips-and-continues for this callback, or
// terminates the engine with a single top-level notification. This
// package only classifies; the clamp/skip/terminate behavior itself lives
// in the package that owns the boundary (render, driver, sampler).
package engineerr

import "errors"

// Kind classifies an engine error for programmatic dispatch (e.g. in the
// control package's notification translation).
type Kind int

const (
	// KindHardwareUnavailable: driver construction failed. Fatal - the
	// engine stops, notifies, and does not render.
	KindHardwareUnavailable Kind = iota
	// KindUnderrun: the driver reported an xrun. The ALSA driver
	// re-prepares the stream; nothing in this module changes the buffer
	// size in response.
	KindUnderrun
	// KindStreamDisconnected: the driver's error callback fired. No driver
	// in this module attempts a restart.
	KindStreamDisconnected
	// KindInvalidParameter: an out-of-range loop position, playback rate
	// or buffer offset was clamped at the setter boundary. Never
	// propagates past the setter; present here only for logging.
	KindInvalidParameter
	// KindMissingSample: an event referenced a sample identifier absent
	// from the registry. The event produces silence and is not removed.
	KindMissingSample
)

func (k Kind) String() string {
	switch k {
	case KindHardwareUnavailable:
		return "hardware_unavailable"
	case KindUnderrun:
		return "underrun"
	case KindStreamDisconnected:
		return "stream_disconnected"
	case KindInvalidParameter:
		return "invalid_parameter"
	case KindMissingSample:
		return "missing_sample"
	default:
		return "unknown"
	}
}

// Error wraps an underlying cause with a Kind, so callers can switch on
// Kind without string-matching.
type Error struct {
	Kind  Kind
	Cause error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error { return e.Cause }

// New constructs an *Error of the given kind wrapping cause (which may be
// nil).
func New(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Cause: cause}
}

// Sentinel errors for errors.Is comparisons where no additional cause
// detail is needed.
var (
	ErrHardwareUnavailable = errors.New("engine: hardware unavailable")
	ErrMissingSample       = errors.New("engine: missing sample")
)
