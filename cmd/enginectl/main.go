// main.go - demo CLI: loads a config, wires a driver, drives the engine
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

// Command enginectl is the process-level entry point standing in for a
// host application: it loads an engineconfig.Config (YAML file, with
// spf13/pflag CLI overrides), wires the configured driver, and exposes a
// tiny raw-mode REPL over the control package - space toggles play,
// arrows seek, 'r' arms/disarms recording, 'q' quits.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/charmbracelet/log"

	"github.com/driftwave-audio/engine/control"
	"github.com/driftwave-audio/engine/engineconfig"
	"github.com/driftwave-audio/engine/render"
	"github.com/driftwave-audio/engine/sampler"
	"github.com/driftwave-audio/engine/wavetable"
)

func main() {
	if err := run(); err != nil {
		log.Fatal("enginectl", "err", err)
	}
}

func run() error {
	var (
		configPath = pflag.StringP("config", "c", "", "path to a YAML config file (defaults built in if unset)")
		sampleRate = pflag.Int("sample-rate", 0, "override sample_rate")
		bufferSize = pflag.Int("buffer-frames", 0, "override buffer_frames")
		driverFlag = pflag.String("driver", "", "override driver (pull|push|headless)")
		tempo      = pflag.Float64("tempo", 0, "override tempo (BPM)")
	)
	pflag.Parse()

	cfg := engineconfig.Default()
	if *configPath != "" {
		loaded, err := engineconfig.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *sampleRate > 0 {
		cfg.SampleRate = *sampleRate
	}
	if *bufferSize > 0 {
		cfg.BufferFrames = *bufferSize
	}
	if *driverFlag != "" {
		cfg.Driver = engineconfig.DriverChoice(*driverFlag)
	}
	if *tempo > 0 {
		cfg.Tempo = *tempo
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := log.New(os.Stderr)

	samplerRegistry := sampler.NewRegistry(logger)
	wavetablePool := wavetable.NewPool()

	core := render.New(render.Config{
		SampleRate:        float64(cfg.SampleRate),
		Frames:            cfg.BufferFrames,
		OutputChannels:    cfg.OutputChannels,
		InputChannels:     cfg.InputChannels,
		BPM:               cfg.Tempo,
		BeatAmount:        cfg.BeatAmount,
		BeatUnit:          cfg.BeatUnit,
		StepsPerBar:       cfg.StepsPerBar,
		ChannelCaching:    cfg.ChannelCaching,
		PreventCPUScaling: cfg.PreventCPUScaling,
	}, samplerRegistry, wavetablePool)

	drv, err := selectDriver(cfg)
	if err != nil {
		return fmt.Errorf("enginectl: %w", err)
	}

	ctl := control.New(core, cfg.SampleRate, cfg.OutputChannels, cfg.BufferFrames, ".", logger)
	if err := ctl.Start(drv); err != nil {
		return err
	}
	defer ctl.Stop()

	logger.Info("engine running", "sample_rate", cfg.SampleRate, "buffer_frames", cfg.BufferFrames, "driver", cfg.Driver)

	go logNotifications(ctl, logger)

	return runREPL(ctl, logger)
}

func logNotifications(ctl *control.Engine, logger *log.Logger) {
	for n := range ctl.Notifications() {
		switch v := n.(type) {
		case render.SequencerPositionUpdated:
			logger.Debug("step", "offset", v.BufferOffset)
		case render.SequencerTempoUpdated:
			logger.Info("tempo updated")
		case render.MarkerPositionReached:
			logger.Info("marker reached")
		case render.RecordingCompleted:
			logger.Info("recording completed")
		case render.BounceComplete:
			logger.Info("bounce completed")
		case render.ErrorHardwareUnavailable:
			logger.Error("hardware unavailable")
		default:
			logger.Debug("notification", "type", fmt.Sprintf("%T", v))
		}
	}
}
