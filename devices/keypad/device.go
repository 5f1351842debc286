// Package keypad maps the host keyboard and an optional gamepad onto
// the 16 key hex keypad.
package keypad

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/retroenv/retrogolib/log"

	"github.com/hexaflex/chip8/arch"
	"github.com/hexaflex/chip8/devices"
)

// Layout lists the keyboard keys covering the keypad, in the same
// physical order as arch.Keymap.
var Layout = [arch.KeyCount]glfw.Key{
	glfw.Key1, glfw.Key2, glfw.Key3, glfw.Key4,
	glfw.KeyQ, glfw.KeyW, glfw.KeyE, glfw.KeyR,
	glfw.KeyA, glfw.KeyS, glfw.KeyD, glfw.KeyF,
	glfw.KeyZ, glfw.KeyX, glfw.KeyC, glfw.KeyV,
}

// Buttons maps gamepad buttons onto keypad keys. The directional pad
// follows the 2/4/6/8 convention most programs use for movement.
var Buttons = map[glfw.GamepadButton]int{
	glfw.ButtonDpadUp:    0x2,
	glfw.ButtonDpadLeft:  0x4,
	glfw.ButtonDpadRight: 0x6,
	glfw.ButtonDpadDown:  0x8,
	glfw.ButtonA:         0x5,
	glfw.ButtonB:         0x0,
	glfw.ButtonX:         0x7,
	glfw.ButtonY:         0x9,
	glfw.ButtonStart:     0xf,
	glfw.ButtonBack:      0xe,
}

// Lookup returns the keypad key for the given keyboard key.
func Lookup(k glfw.Key) (int, bool) {
	for i, lk := range Layout {
		if lk == k {
			return int(arch.Keymap[i]), true
		}
	}
	return 0, false
}

// Device polls host input and forwards keypad changes to the machine.
type Device struct {
	window  *glfw.Window
	logger  *log.Logger
	machine devices.Machine
	joy     glfw.Joystick
	gamepad bool                // Is a gamepad connected?
	state   [arch.KeyCount]bool // Last state sent to the machine.
}

var _ devices.Device = &Device{}

// New creates a new device reading keys from the given window.
func New(window *glfw.Window, logger *log.Logger) *Device {
	return &Device{
		window: window,
		logger: logger,
	}
}

// ID returns the device id.
func (d *Device) ID() devices.ID {
	return devices.NewID(devices.Manufacturer, devices.SerialKeypad)
}

// Startup initializes device resources.
// It detects any connected gamepad.
func (d *Device) Startup(m devices.Machine) error {
	d.machine = m
	d.state = [arch.KeyCount]bool{}

	glfw.SetJoystickCallback(d.configure)

	for joy := glfw.Joystick1; joy <= glfw.JoystickLast; joy++ {
		if joy.Present() && joy.IsGamepad() {
			d.configure(joy, glfw.Connected)
			break
		}
	}

	return nil
}

// Shutdown clears up device resources.
func (d *Device) Shutdown() error {
	glfw.SetJoystickCallback(nil)
	d.machine = nil
	d.gamepad = false
	return nil
}

// Update reads the current keyboard and gamepad state.
// It must be called from the main thread, after glfw.PollEvents.
func (d *Device) Update() {
	if d.machine == nil {
		return
	}

	var pressed [arch.KeyCount]bool

	for i, k := range Layout {
		if d.window.GetKey(k) == glfw.Press {
			pressed[arch.Keymap[i]] = true
		}
	}

	if d.gamepad {
		if gs := d.joy.GetGamepadState(); gs != nil {
			for btn, key := range Buttons {
				if gs.Buttons[btn] == glfw.Press {
					pressed[key] = true
				}
			}
		}
	}

	d.apply(pressed)
}

// apply sends every key whose state changed to the machine.
func (d *Device) apply(pressed [arch.KeyCount]bool) {
	for key, p := range pressed {
		if p != d.state[key] {
			d.state[key] = p
			d.machine.SetKey(key, p)
		}
	}
}

// configure is called whenever a joystick is connected or disconnected from the system.
func (d *Device) configure(joy glfw.Joystick, event glfw.PeripheralEvent) {
	d.gamepad = event == glfw.Connected && joy.IsGamepad()
	d.joy = joy

	if d.gamepad {
		d.logger.Info("Gamepad connected", log.String("name", joy.GetGamepadName()))
	} else {
		d.logger.Info("Gamepad disconnected")
	}
}
