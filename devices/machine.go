package devices

import "github.com/hexaflex/chip8/arch"

// Machine defines the view peripherals have of the virtual machine.
// All methods are safe for concurrent use.
type Machine interface {
	// Framebuffer copies the current display contents into fb.
	// It returns true if the display changed since the previous call.
	Framebuffer(fb *arch.Framebuffer) bool

	// SetKey records the pressed state of the given keypad key.
	SetKey(key int, pressed bool)

	// SoundActive returns true while the sound timer is non-zero.
	SoundActive() bool

	// Tick advances the delay and sound timers by one 60 Hz period.
	Tick()
}
