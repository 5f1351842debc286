package cpu

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds. Use errors.Is to classify an error returned by the CPU.
var (
	ErrIllegalInstruction = errors.New("illegal instruction")
	ErrStackOverflow      = errors.New("stack overflow")
	ErrStackUnderflow     = errors.New("stack underflow")
	ErrMemoryOutOfBounds  = errors.New("memory access out of bounds")
	ErrProgramTooLarge    = errors.New("program too large")
)

// Error defines a fatal runtime error.
// It carries the instruction that failed.
type Error struct {
	Instruction
	Err error
}

// NewError creates a new error for the given instruction.
func NewError(instr *Instruction, err error) *Error {
	return &Error{
		Instruction: *instr,
		Err:         err,
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%04x: %04x: %v", e.IP, e.Word, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// illegal returns ErrIllegalInstruction for the given instruction.
func illegal(instr *Instruction) error {
	return errors.Wrapf(ErrIllegalInstruction, "unknown opcode %04x", instr.Word)
}
