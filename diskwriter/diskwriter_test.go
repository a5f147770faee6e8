package diskwriter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftwave-audio/engine/buffer"
)

func TestArmAppendFinalizeWritesPlayableWAV(t *testing.T) {
	dir := t.TempDir()
	w := New(dir, "take", 48000, 2, 64, nil)

	require.NoError(t, w.Arm(0))
	assert.True(t, w.Armed())

	buf := buffer.New(2, 4)
	copy(buf.Channel(0), []buffer.Sample{1, -1, 0.5, -0.5})
	copy(buf.Channel(1), []buffer.Sample{0, 0, 0, 0})

	capReached, err := w.Append(buf)
	require.NoError(t, err)
	assert.False(t, capReached)

	require.NoError(t, w.Finalize())
	assert.False(t, w.Armed())

	path := filepath.Join(dir, "take-1.wav")
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	dec := wav.NewDecoder(f)
	require.True(t, dec.IsValidFile())
	dec.ReadInfo()
	assert.Equal(t, uint16(2), dec.NumChans)
	assert.Equal(t, uint32(48000), dec.SampleRate)
	assert.Equal(t, uint16(16), dec.BitDepth)
}

func TestArmIncrementsFilenameSuffixEachPass(t *testing.T) {
	dir := t.TempDir()
	w := New(dir, "snippet", 44100, 1, 64, nil)

	require.NoError(t, w.Arm(0))
	require.NoError(t, w.Finalize())
	require.NoError(t, w.Arm(0))
	require.NoError(t, w.Finalize())

	assert.FileExists(t, filepath.Join(dir, "snippet-1.wav"))
	assert.FileExists(t, filepath.Join(dir, "snippet-2.wav"))
}

func TestArmWhileAlreadyArmedErrors(t *testing.T) {
	dir := t.TempDir()
	w := New(dir, "take", 48000, 1, 64, nil)
	require.NoError(t, w.Arm(0))
	defer w.Finalize()

	assert.Error(t, w.Arm(0))
}

func TestAppendReportsCapReached(t *testing.T) {
	dir := t.TempDir()
	w := New(dir, "take", 48000, 1, 64, nil)
	require.NoError(t, w.Arm(2))
	defer w.Finalize()

	buf := buffer.New(1, 1)

	capReached, err := w.Append(buf)
	require.NoError(t, err)
	assert.False(t, capReached)

	capReached, err = w.Append(buf)
	require.NoError(t, err)
	assert.True(t, capReached)
}

func TestAppendWithoutArmIsNoop(t *testing.T) {
	w := New(t.TempDir(), "take", 48000, 1, 64, nil)
	capReached, err := w.Append(buffer.New(1, 4))
	assert.NoError(t, err)
	assert.False(t, capReached)
}

func TestFinalizeWithoutArmIsNoop(t *testing.T) {
	w := New(t.TempDir(), "take", 48000, 1, 64, nil)
	assert.NoError(t, w.Finalize())
}

func TestFloatToInt16ClampsBeyondUnitRange(t *testing.T) {
	assert.Equal(t, maxInt16, floatToInt16(2.0))
	assert.Equal(t, -maxInt16, floatToInt16(-2.0))
	assert.Equal(t, 0, floatToInt16(0))
}
