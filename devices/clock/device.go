// Package clock implements the 60 Hz timer clock.
package clock

import (
	"sync"
	"time"

	"github.com/hexaflex/chip8/devices"
)

// DefaultFrequency is the timer rate in Hz.
const DefaultFrequency = 60

// Device ticks the machine timers at a fixed rate.
type Device struct {
	interval time.Duration   // Time between ticks.
	machine  devices.Machine // Machine receiving ticks.
	endPoll  chan struct{}   // poll exit signaller.
	wg       sync.WaitGroup  // Tracks the poll goroutine.
}

var _ devices.Device = &Device{}

// New creates a new clock ticking at the given frequency in Hz.
// A frequency <= 0 selects DefaultFrequency.
func New(frequency int) *Device {
	if frequency <= 0 {
		frequency = DefaultFrequency
	}

	return &Device{
		interval: time.Second / time.Duration(frequency),
	}
}

// ID returns the device id.
func (d *Device) ID() devices.ID {
	return devices.NewID(devices.Manufacturer, devices.SerialClock)
}

// Startup starts the ticker.
func (d *Device) Startup(m devices.Machine) error {
	d.machine = m
	d.endPoll = make(chan struct{})
	d.wg.Add(1)
	go d.poll()
	return nil
}

// Shutdown stops the ticker and waits for it to exit.
func (d *Device) Shutdown() error {
	if d.endPoll == nil {
		return nil
	}

	close(d.endPoll)
	d.wg.Wait()
	d.endPoll = nil
	d.machine = nil
	return nil
}

// poll advances the machine timers on every tick.
func (d *Device) poll() {
	defer d.wg.Done()

	timer := time.NewTicker(d.interval)
	defer timer.Stop()

	for {
		select {
		case <-d.endPoll:
			return
		case <-timer.C:
			d.machine.Tick()
		}
	}
}
