package cpu

import (
	"github.com/pkg/errors"

	"github.com/hexaflex/chip8/arch"
)

// Memory defines the system's memory bank.
// Every access is bounds checked against the 4 KiB address space.
type Memory [arch.MemorySize]byte

// U16 returns the big-endian 16-bit value at the given address.
func (m *Memory) U16(addr int) (uint16, error) {
	if err := checkRange(addr, 2); err != nil {
		return 0, err
	}
	return uint16(m[addr])<<8 | uint16(m[addr+1]), nil
}

// Write writes len(p) bytes from p into memory, starting at the given address.
// Nothing is written if any part of the range lies outside of memory.
func (m *Memory) Write(addr int, p []byte) error {
	if err := checkRange(addr, len(p)); err != nil {
		return err
	}
	copy(m[addr:], p)
	return nil
}

// Read reads len(p) bytes from memory into p, starting at the given address.
func (m *Memory) Read(addr int, p []byte) error {
	if err := checkRange(addr, len(p)); err != nil {
		return err
	}
	copy(p, m[addr:])
	return nil
}

// Slice returns the n bytes starting at the given address.
// The returned slice aliases memory.
func (m *Memory) Slice(addr, n int) ([]byte, error) {
	if err := checkRange(addr, n); err != nil {
		return nil, err
	}
	return m[addr : addr+n], nil
}

// checkRange returns ErrMemoryOutOfBounds if [addr, addr+n) is not
// entirely inside the address space.
func checkRange(addr, n int) error {
	if addr < 0 || n < 0 || addr+n > arch.MemorySize {
		return errors.Wrapf(ErrMemoryOutOfBounds, "access of %d byte(s) at %04x", n, addr)
	}
	return nil
}
