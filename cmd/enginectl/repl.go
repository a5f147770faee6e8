// repl.go - raw-mode keyboard control loop
//
// (c) 2026 Driftwave Audio Contributors
// https://github.com/driftwave-audio/engine
// License: MIT

package main

import (
	"bufio"
	"os"

	"golang.org/x/term"

	"github.com/charmbracelet/log"

	"github.com/driftwave-audio/engine/control"
)

// runREPL puts the terminal into raw mode and maps single keystrokes onto
// control.Engine calls until 'q' is pressed or stdin closes: space toggles
// play, left/right arrows seek the playhead back/forward one sequencer
// step, 'r' arms/disarms a recording into a numbered "take-<n>.wav".
func runREPL(ctl *control.Engine, logger *log.Logger) error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		logger.Warn("stdin is not a terminal, REPL disabled - engine will keep running until interrupted")
		select {}
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return err
	}
	defer term.Restore(fd, oldState)

	reader := bufio.NewReader(os.Stdin)
	playing := true
	recording := false

	for {
		b, err := reader.ReadByte()
		if err != nil {
			return nil
		}
		switch b {
		case 'q', 'Q', 3: // q, Q, Ctrl-C
			return nil
		case ' ':
			playing = !playing
			ctl.SetPlaying(playing)
			logger.Info("playback toggled", "playing", playing)
		case 'r', 'R':
			recording = !recording
			if err := ctl.SetRecordingState(recording, 0, "take"); err != nil {
				logger.Error("recording toggle failed", "err", err)
				recording = !recording
			}
			logger.Info("recording toggled", "recording", recording)
		case 0x1b: // escape sequence, e.g. an arrow key: ESC '[' 'C'/'D'
			second, err := reader.ReadByte()
			if err != nil || second != '[' {
				continue
			}
			third, err := reader.ReadByte()
			if err != nil {
				continue
			}
			step := ctl.SamplesPerStep()
			switch third {
			case 'C': // right arrow
				ctl.Seek(step)
				logger.Info("seek forward", "position", ctl.BufferPosition())
			case 'D': // left arrow
				ctl.Seek(-step)
				logger.Info("seek back", "position", ctl.BufferPosition())
			}
		}
	}
}
