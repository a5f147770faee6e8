// engineconfig.go - typed, validated engine configuration
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

// Package engineconfig enumerates the engine's configuration surface per
// SPEC_FULL.md section 6: sample rate, buffer size, channel counts,
// channel caching, CPU-scaling mitigation, sample precision and driver
// choice. Loaded from YAML (gopkg.in/yaml.v3, grounded in the
// doismellburning-samoyed example's config-file idiom) with CLI overrides
// applied by cmd/enginectl via spf13/pflag.
package engineconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DriverChoice selects which driver/* adapter control.Engine wires up.
type DriverChoice string

const (
	DriverPull     DriverChoice = "pull"     // driver/oto
	DriverPush     DriverChoice = "push"     // driver/alsa
	DriverHeadless DriverChoice = "headless" // driver/headless
)

// Config is the engine's full configuration, as enumerated in
// SPEC_FULL.md section 6. Sample precision (32 vs 64-bit float) is a
// build-time choice (the doubleprecision build tag on buffer.Sample) and
// is not represented here.
type Config struct {
	SampleRate      int          `yaml:"sample_rate"`
	BufferFrames    int          `yaml:"buffer_frames"`
	OutputChannels  int          `yaml:"output_channels"`
	InputChannels   int          `yaml:"input_channels"`
	ChannelCaching  bool         `yaml:"channel_caching"`
	PreventCPUScaling bool       `yaml:"prevent_cpu_scaling"`
	Driver          DriverChoice `yaml:"driver"`
	DeviceID        string       `yaml:"device_id"`
	Tempo           float64      `yaml:"tempo"`
	BeatAmount      int          `yaml:"beat_amount"`
	BeatUnit        int          `yaml:"beat_unit"`
	StepsPerBar     int          `yaml:"steps_per_bar"`
}

// Default returns a Config with sensible out-of-the-box values: 48kHz,
// 256-frame buffer, stereo output, no input, caching and CPU-scaling
// mitigation both off, headless driver, 120 BPM 4/4.
func Default() Config {
	return Config{
		SampleRate:     48000,
		BufferFrames:   256,
		OutputChannels: 2,
		InputChannels:  0,
		ChannelCaching: false,
		Driver:         DriverHeadless,
		Tempo:          120,
		BeatAmount:     4,
		BeatUnit:       4,
		StepsPerBar:    16,
	}
}

// Load reads and validates a YAML config file, filling any unset numeric
// field from Default().
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("engineconfig: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("engineconfig: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first configuration error found, per the Invalid
// Parameter error kind's "clamp or reject at the boundary" policy -
// config load is the one boundary where rejecting outright (rather than
// silently clamping) is appropriate, since it runs before the engine ever
// starts rendering.
func (c Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("engineconfig: sample_rate must be > 0, got %d", c.SampleRate)
	}
	if c.BufferFrames <= 0 {
		return fmt.Errorf("engineconfig: buffer_frames must be > 0, got %d", c.BufferFrames)
	}
	if c.OutputChannels != 1 && c.OutputChannels != 2 {
		return fmt.Errorf("engineconfig: output_channels must be 1 or 2, got %d", c.OutputChannels)
	}
	if c.InputChannels != 0 && c.InputChannels != 1 {
		return fmt.Errorf("engineconfig: input_channels must be 0 or 1, got %d", c.InputChannels)
	}
	switch c.Driver {
	case DriverPull, DriverPush, DriverHeadless:
	default:
		return fmt.Errorf("engineconfig: unknown driver %q", c.Driver)
	}
	if c.BeatAmount <= 0 || c.BeatUnit <= 0 {
		return fmt.Errorf("engineconfig: beat_amount and beat_unit must be > 0")
	}
	if c.StepsPerBar <= 0 {
		return fmt.Errorf("engineconfig: steps_per_bar must be > 0, got %d", c.StepsPerBar)
	}
	return nil
}
