// Package beeper plays a tone while the sound timer is active.
package beeper

import (
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/pkg/errors"

	"github.com/hexaflex/chip8/devices"
)

// Audio output properties.
const (
	SampleRate = 44100
	Frequency  = 440.0
	Volume     = 0.15
)

// oto permits a single context per process.
var (
	contextOnce sync.Once
	audioCtx    *oto.Context
	contextErr  error
)

func audioContext() (*oto.Context, error) {
	contextOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   SampleRate,
			ChannelCount: 1,
			Format:       oto.FormatFloat32LE,
			BufferSize:   40 * time.Millisecond,
		}

		var ready chan struct{}
		audioCtx, ready, contextErr = oto.NewContext(op)
		if contextErr == nil {
			<-ready
		}
	})
	return audioCtx, contextErr
}

// Device drives the audio output.
type Device struct {
	player *oto.Player
}

var _ devices.Device = &Device{}

// New creates a new device.
func New() *Device {
	return &Device{}
}

// ID returns the device id.
func (d *Device) ID() devices.ID {
	return devices.NewID(devices.Manufacturer, devices.SerialBeeper)
}

// Startup opens the audio output and starts the tone player.
func (d *Device) Startup(m devices.Machine) error {
	ctx, err := audioContext()
	if err != nil {
		return errors.Wrapf(err, "failed to open audio output")
	}

	d.player = ctx.NewPlayer(NewTone(SampleRate, Frequency, Volume, m.SoundActive))
	// Keep the buffer short; the gate is only sampled once per read.
	d.player.SetBufferSize(SampleRate / 30 * 4)
	d.player.Play()
	return nil
}

// Shutdown stops the tone player.
func (d *Device) Shutdown() error {
	if d.player == nil {
		return nil
	}

	err := d.player.Close()
	d.player = nil
	return err
}
