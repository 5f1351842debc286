// Package terminal runs the display and keypad on a text terminal.
//
// The display is drawn with half block glyphs, two pixel rows per text
// row. Terminals only report key presses, so a typed key is held down for
// HoldTime and then released.
package terminal

import (
	"bufio"
	"io"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"
	"unicode"

	"github.com/retroenv/retrogolib/log"
	"golang.org/x/term"

	"github.com/hexaflex/chip8/arch"
	"github.com/hexaflex/chip8/devices"
)

// HoldTime is how long a typed key stays pressed.
const HoldTime = 150 * time.Millisecond

// Layout lists the typed characters covering the keypad, in the same
// physical order as arch.Keymap.
const Layout = "1234qwerasdfzxcv"

// Control characters.
const (
	keyCtrlC  = 0x03
	keyEscape = 0x1b
)

// ANSI sequences.
const (
	clearScreen = "\x1b[2J"
	cursorHome  = "\x1b[H"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
)

// Lookup returns the keypad key for the given typed character.
func Lookup(c byte) (int, bool) {
	i := strings.IndexRune(Layout, unicode.ToLower(rune(c)))
	if i < 0 {
		return 0, false
	}
	return int(arch.Keymap[i]), true
}

// Device defines the terminal frontend state.
type Device struct {
	mu       sync.Mutex
	logger   *log.Logger
	fd       int
	out      *bufio.Writer
	machine  devices.Machine
	fb       arch.Framebuffer
	release  [arch.KeyCount]time.Time // Release deadline per held key.
	quit     chan struct{}            // Closed when the user asks to quit.
	quitOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
	oldState *term.State
}

var _ devices.Device = &Device{}

// New creates a device on the process's standard input and output.
func New(logger *log.Logger) *Device {
	return newDevice(int(os.Stdin.Fd()), os.Stdout, logger)
}

func newDevice(fd int, out io.Writer, logger *log.Logger) *Device {
	return &Device{
		logger: logger,
		fd:     fd,
		out:    bufio.NewWriter(out),
		quit:   make(chan struct{}),
	}
}

// ID returns the device id.
func (d *Device) ID() devices.ID {
	return devices.NewID(devices.Manufacturer, devices.SerialTerminal)
}

// Quit returns a channel which is closed when Escape or Ctrl-C is typed.
func (d *Device) Quit() <-chan struct{} {
	return d.quit
}

// Startup switches the terminal to raw mode and starts reading keys.
func (d *Device) Startup(m devices.Machine) error {
	d.machine = m

	if term.IsTerminal(d.fd) {
		if w, h, err := term.GetSize(d.fd); err == nil && (w < arch.DisplayWidth || h < arch.DisplayHeight/2) {
			d.logger.Warn("Terminal is smaller than the display",
				log.Int("columns", w),
				log.Int("rows", h))
		}

		if err := d.startInput(); err != nil {
			return err
		}
	}

	d.out.WriteString(clearScreen + hideCursor)
	d.render()
	return d.out.Flush()
}

// Shutdown stops reading keys and restores the terminal.
func (d *Device) Shutdown() error {
	if d.stopCh != nil {
		close(d.stopCh)
		<-d.done
		d.stopCh = nil
		_ = syscall.SetNonblock(d.fd, false)
	}

	if d.oldState != nil {
		_ = term.Restore(d.fd, d.oldState)
		d.oldState = nil
	}

	d.out.WriteString(showCursor + "\r\n")
	d.machine = nil
	return d.out.Flush()
}

func (d *Device) startInput() error {
	oldState, err := term.MakeRaw(d.fd)
	if err != nil {
		return err
	}
	d.oldState = oldState

	if err := syscall.SetNonblock(d.fd, true); err != nil {
		_ = term.Restore(d.fd, oldState)
		d.oldState = nil
		return err
	}

	d.stopCh = make(chan struct{})
	d.done = make(chan struct{})
	go d.read()
	return nil
}

// read polls the non-blocking input until Shutdown.
func (d *Device) read() {
	defer close(d.done)
	buf := make([]byte, 16)

	for {
		select {
		case <-d.stopCh:
			return
		default:
		}

		n, err := syscall.Read(d.fd, buf)
		if n > 0 {
			d.input(buf[:n], time.Now())
		}
		if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		if err != nil {
			d.logger.Error("Reading terminal input failed", log.Err(err))
			return
		}
		if n == 0 {
			time.Sleep(5 * time.Millisecond)
		}
	}
}

// input handles a chunk of typed bytes.
func (d *Device) input(p []byte, now time.Time) {
	// A lone escape is the Escape key; longer chunks starting with it
	// are escape sequences for cursor and function keys.
	if len(p) > 1 && p[0] == keyEscape {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, c := range p {
		switch c {
		case keyEscape, keyCtrlC:
			d.quitOnce.Do(func() { close(d.quit) })
			continue
		}

		key, ok := Lookup(c)
		if !ok {
			continue
		}

		if d.release[key].IsZero() && d.machine != nil {
			d.machine.SetKey(key, true)
		}
		d.release[key] = now.Add(HoldTime)
	}
}

// Update releases keys whose hold time expired and redraws the display
// if it changed.
func (d *Device) Update(now time.Time) error {
	d.mu.Lock()
	for key, t := range d.release {
		if !t.IsZero() && !now.Before(t) {
			d.release[key] = time.Time{}
			if d.machine != nil {
				d.machine.SetKey(key, false)
			}
		}
	}
	d.mu.Unlock()

	if d.machine == nil || !d.machine.Framebuffer(&d.fb) {
		return nil
	}

	d.render()
	return d.out.Flush()
}

// render draws the cached framebuffer at the top left of the terminal.
func (d *Device) render() {
	d.out.WriteString(cursorHome)

	for y := 0; y < arch.DisplayHeight; y += 2 {
		for x := 0; x < arch.DisplayWidth; x++ {
			d.out.WriteString(glyph(d.fb.At(x, y), d.fb.At(x, y+1)))
		}
		d.out.WriteString("\r\n")
	}
}

// glyph returns the half block character for a pair of vertically
// adjacent pixels.
func glyph(top, bottom bool) string {
	switch {
	case top && bottom:
		return "█"
	case top:
		return "▀"
	case bottom:
		return "▄"
	default:
		return " "
	}
}
