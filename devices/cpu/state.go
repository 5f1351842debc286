package cpu

import (
	"github.com/pkg/errors"

	"github.com/hexaflex/chip8/arch"
)

// State holds the complete architectural state of a session.
type State struct {
	Memory  Memory                   // 4 KiB address space.
	V       [arch.RegisterCount]byte // General purpose registers V0-VF.
	I       uint16                   // Index register, always <= arch.AddressMask.
	PC      uint16                   // Program counter.
	Stack   Stack                    // Subroutine return addresses.
	Display arch.Framebuffer         // Display buffer.
	Timers  Timers                   // Delay and sound timers.
	Keys    Keypad                   // Keypad snapshot.
}

// reset clears all state, loads the font and copies the program
// to arch.ProgramStart.
func (s *State) reset(program []byte) {
	*s = State{}
	copy(s.Memory[arch.FontStart:], arch.Font[:])
	copy(s.Memory[arch.ProgramStart:], program)
	s.PC = arch.ProgramStart
}

// Stack holds subroutine return addresses.
type Stack struct {
	data [arch.StackDepth]uint16
	sp   int
}

// Push pushes the given address.
// Returns ErrStackOverflow if the stack is full.
func (s *Stack) Push(addr uint16) error {
	if s.sp >= len(s.data) {
		return errors.Wrapf(ErrStackOverflow, "depth %d", s.sp)
	}
	s.data[s.sp] = addr
	s.sp++
	return nil
}

// Pop removes and returns the most recently pushed address.
// Returns ErrStackUnderflow if the stack is empty.
func (s *Stack) Pop() (uint16, error) {
	if s.sp == 0 {
		return 0, ErrStackUnderflow
	}
	s.sp--
	return s.data[s.sp], nil
}

// Len returns the number of addresses on the stack.
func (s *Stack) Len() int {
	return s.sp
}

// Keypad holds the pressed state of the 16 keys, along with
// released-to-pressed transitions not yet consumed by a key wait.
type Keypad struct {
	pressed     [arch.KeyCount]bool
	justPressed [arch.KeyCount]bool
}

// Set records the state of the given key.
// Keys outside of [0, arch.KeyCount) are ignored.
func (k *Keypad) Set(key int, pressed bool) {
	if key < 0 || key >= arch.KeyCount {
		return
	}
	if pressed && !k.pressed[key] {
		k.justPressed[key] = true
	}
	k.pressed[key] = pressed
}

// Pressed returns true if the given key is currently held down.
func (k *Keypad) Pressed(key int) bool {
	if key < 0 || key >= arch.KeyCount {
		return false
	}
	return k.pressed[key]
}

// takeJustPressed returns the lowest key which transitioned to pressed
// since the last call and clears all recorded transitions.
func (k *Keypad) takeJustPressed() (int, bool) {
	for key, v := range k.justPressed {
		if v {
			k.clearEdges()
			return key, true
		}
	}
	return 0, false
}

// clearEdges forgets all recorded transitions.
func (k *Keypad) clearEdges() {
	k.justPressed = [arch.KeyCount]bool{}
}
