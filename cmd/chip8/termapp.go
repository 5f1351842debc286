package main

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"

	"github.com/hexaflex/chip8/devices"
	"github.com/hexaflex/chip8/devices/beeper"
	"github.com/hexaflex/chip8/devices/clock"
	"github.com/hexaflex/chip8/devices/cpu"
	"github.com/hexaflex/chip8/devices/terminal"
)

// frameInterval is the terminal redraw and key release rate.
const frameInterval = time.Second / 60

// runTerminal runs the program on the terminal until it is interrupted,
// Escape is typed or execution halts.
func runTerminal(config *Config, logger *log.Logger) error {
	ctx := app.Context()

	program, err := os.ReadFile(config.Program)
	if err != nil {
		return errors.Wrapf(err, "failed to read program")
	}

	term := terminal.New(logger)
	devs := []devices.Device{clock.New(clock.DefaultFrequency), term}
	if !config.Mute {
		devs = append(devs, beeper.New())
	}

	// Trace output would corrupt the display.
	ctrl := NewCPUController(config.CPU(), logger, func(*cpu.Instruction) {}, devs...)
	if err := ctrl.Load(program); err != nil {
		return err
	}

	if err := ctrl.Startup(); err != nil {
		logger.Error("Peripheral startup failed", log.Err(err))
	}

	defer func() {
		if err := ctrl.Shutdown(); err != nil {
			logger.Error("Shutdown failed", log.Err(err))
		}
	}()

	ctrl.Start()

	exec := time.NewTicker(time.Millisecond)
	defer exec.Stop()

	frame := time.NewTicker(frameInterval)
	defer frame.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-term.Quit():
			return nil
		case now := <-exec.C:
			if err := ctrl.Run(now); err != nil {
				return err
			}
		case now := <-frame.C:
			if err := term.Update(now); err != nil {
				return err
			}
		}
	}
}
