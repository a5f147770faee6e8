//go:build !(linux && cgo)

// driver_push_other.go - push driver stub for builds without ALSA support
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

package main

import (
	"fmt"

	"github.com/driftwave-audio/engine/driver"
	"github.com/driftwave-audio/engine/engineconfig"
)

func newPushDriver(cfg engineconfig.Config) (driver.Driver, error) {
	return nil, fmt.Errorf("enginectl: the push (ALSA) driver requires a linux+cgo build")
}
