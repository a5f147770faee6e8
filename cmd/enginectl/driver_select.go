// driver_select.go - maps engineconfig.DriverChoice onto a driver.Driver
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

package main

import (
	"fmt"

	"github.com/driftwave-audio/engine/driver"
	"github.com/driftwave-audio/engine/driver/headless"
	"github.com/driftwave-audio/engine/driver/oto"
	"github.com/driftwave-audio/engine/engineconfig"
)

// selectDriver constructs the driver.Driver named by cfg.Driver.
// DriverPush (ALSA) is only compiled in on linux+cgo builds; see
// driver_push_linux.go and driver_push_other.go for the two
// newPushDriver implementations this dispatches to.
func selectDriver(cfg engineconfig.Config) (driver.Driver, error) {
	switch cfg.Driver {
	case engineconfig.DriverPull:
		return oto.New(cfg.SampleRate, cfg.OutputChannels)
	case engineconfig.DriverPush:
		return newPushDriver(cfg)
	case engineconfig.DriverHeadless:
		return headless.New(), nil
	default:
		return nil, fmt.Errorf("enginectl: unknown driver %q", cfg.Driver)
	}
}
