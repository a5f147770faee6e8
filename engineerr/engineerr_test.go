package engineerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessageWithAndWithoutCause(t *testing.T) {
	bare := New(KindUnderrun, nil)
	assert.Equal(t, "underrun", bare.Error())

	wrapped := New(KindMissingSample, errors.New("sample id 7 not found"))
	assert.Equal(t, "missing_sample: sample id 7 not found", wrapped.Error())
}

func TestErrorUnwrapAndIsChaining(t *testing.T) {
	cause := ErrMissingSample
	wrapped := New(KindMissingSample, cause)

	assert.True(t, errors.Is(wrapped, ErrMissingSample))
	assert.Equal(t, cause, errors.Unwrap(wrapped))
}

func TestKindStringCoversEveryKind(t *testing.T) {
	cases := map[Kind]string{
		KindHardwareUnavailable: "hardware_unavailable",
		KindUnderrun:            "underrun",
		KindStreamDisconnected:  "stream_disconnected",
		KindInvalidParameter:    "invalid_parameter",
		KindMissingSample:       "missing_sample",
	}
	for k, want := range cases {
		assert.Equal(t, want, k.String())
	}
	assert.Equal(t, "unknown", Kind(999).String())
}
