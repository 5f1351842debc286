package terminal

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"

	"github.com/hexaflex/chip8/arch"
)

type fakeMachine struct {
	fb      arch.Framebuffer
	dirty   bool
	keys    map[int]bool
	changes int
}

func (m *fakeMachine) Framebuffer(fb *arch.Framebuffer) bool {
	*fb = m.fb
	changed := m.dirty
	m.dirty = false
	return changed
}

func (m *fakeMachine) SetKey(key int, pressed bool) {
	m.keys[key] = pressed
	m.changes++
}

func (m *fakeMachine) SoundActive() bool { return false }
func (m *fakeMachine) Tick()             {}

func newTestDevice(t *testing.T) (*Device, *fakeMachine, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer
	m := &fakeMachine{keys: map[int]bool{}}

	// -1 is never a terminal, so no raw mode or input reader is set up.
	d := newDevice(-1, &out, log.NewTestLogger(t))
	assert.NoError(t, d.Startup(m))
	return d, m, &out
}

func TestLookup(t *testing.T) {
	for _, tt := range []struct {
		c    byte
		want int
	}{
		{'1', 0x1},
		{'4', 0xc},
		{'q', 0x4},
		{'W', 0x5},
		{'s', 0x8},
		{'x', 0x0},
		{'V', 0xf},
		{'Z', 0xa},
		{'R', 0xd},
	} {
		key, ok := Lookup(tt.c)
		assert.True(t, ok)
		assert.Equal(t, tt.want, key)
	}

	for _, c := range []byte{'p', 'P', 0x00, 0x1b, 0xd1} {
		_, ok := Lookup(c)
		assert.False(t, ok)
	}
}

func TestKeyHold(t *testing.T) {
	d, m, _ := newTestDevice(t)
	now := time.Now()

	d.input([]byte("w"), now)
	assert.True(t, m.keys[0x5])
	assert.Equal(t, 1, m.changes)

	// Key repeat extends the hold without another press.
	d.input([]byte("w"), now.Add(100*time.Millisecond))
	assert.Equal(t, 1, m.changes)

	assert.NoError(t, d.Update(now.Add(200*time.Millisecond)))
	assert.True(t, m.keys[0x5])

	assert.NoError(t, d.Update(now.Add(100*time.Millisecond+HoldTime)))
	assert.False(t, m.keys[0x5])
	assert.Equal(t, 2, m.changes)
}

func TestQuit(t *testing.T) {
	d, m, _ := newTestDevice(t)

	// Cursor keys are escape sequences and must not quit.
	d.input([]byte("\x1b[A"), time.Now())
	select {
	case <-d.Quit():
		t.Fatal("escape sequence closed the quit channel")
	default:
	}
	assert.Equal(t, 0, m.changes)

	d.input([]byte{keyEscape}, time.Now())
	d.input([]byte{keyCtrlC}, time.Now())
	select {
	case <-d.Quit():
	default:
		t.Fatal("escape did not close the quit channel")
	}
}

func TestRender(t *testing.T) {
	d, m, out := newTestDevice(t)
	out.Reset()

	m.fb.Flip(0, 0)
	m.fb.Flip(0, 1)
	m.fb.Flip(1, 0)
	m.fb.Flip(2, 1)
	m.dirty = true

	assert.NoError(t, d.Update(time.Now()))

	lines := strings.Split(strings.TrimPrefix(out.String(), cursorHome), "\r\n")
	assert.Equal(t, arch.DisplayHeight/2+1, len(lines))
	assert.True(t, strings.HasPrefix(lines[0], "█▀▄ "))
	assert.Equal(t, arch.DisplayWidth, len([]rune(lines[0])))

	out.Reset()
	assert.NoError(t, d.Update(time.Now()))
	assert.Equal(t, 0, out.Len())
}

func TestShutdown(t *testing.T) {
	d, _, out := newTestDevice(t)
	assert.NoError(t, d.Shutdown())
	assert.True(t, strings.HasSuffix(out.String(), showCursor+"\r\n"))
}
