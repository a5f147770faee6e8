//go:build linux && cgo

// driver_push_linux.go - wires the ALSA duplex driver on linux+cgo builds
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

package main

import (
	"github.com/driftwave-audio/engine/driver"
	"github.com/driftwave-audio/engine/driver/alsa"
	"github.com/driftwave-audio/engine/engineconfig"
)

func newPushDriver(cfg engineconfig.Config) (driver.Driver, error) {
	opts := alsa.DefaultOptions(cfg.SampleRate, cfg.OutputChannels)
	opts.InputChannels = cfg.InputChannels
	if cfg.DeviceID != "" {
		opts.Device = cfg.DeviceID
	}
	return alsa.New(opts)
}
