package engineconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidateRejectsEachBoundary(t *testing.T) {
	base := Default()

	withSampleRate := base
	withSampleRate.SampleRate = 0
	assert.Error(t, withSampleRate.Validate())

	withBufferFrames := base
	withBufferFrames.BufferFrames = -1
	assert.Error(t, withBufferFrames.Validate())

	withChannels := base
	withChannels.OutputChannels = 3
	assert.Error(t, withChannels.Validate())

	withInput := base
	withInput.InputChannels = 2
	assert.Error(t, withInput.Validate())

	withDriver := base
	withDriver.Driver = "bogus"
	assert.Error(t, withDriver.Validate())

	withBeat := base
	withBeat.BeatAmount = 0
	assert.Error(t, withBeat.Validate())

	withSteps := base
	withSteps.StepsPerBar = 0
	assert.Error(t, withSteps.Validate())
}

func TestLoadFillsDefaultsAndOverridesFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sample_rate: 44100\ndriver: pull\ntempo: 140\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 44100, cfg.SampleRate)
	assert.Equal(t, DriverPull, cfg.Driver)
	assert.Equal(t, 140.0, cfg.Tempo)
	// Unset fields still come from Default().
	assert.Equal(t, 256, cfg.BufferFrames)
	assert.Equal(t, 2, cfg.OutputChannels)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output_channels: 5\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
