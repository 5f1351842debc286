package cpu

import (
	"github.com/hexaflex/chip8/arch"
)

// Instruction defines decoded instruction data.
type Instruction struct {
	IP    uint16 // Instruction address.
	Word  uint16 // Raw instruction word.
	Class byte   // High nibble, selects the instruction class.
	X     byte   // Register index in bits 8-11.
	Y     byte   // Register index in bits 4-7.
	N     byte   // Low nibble.
	NN    byte   // Low byte.
	NNN   uint16 // Low 12 bits.
}

// Decode splits the given instruction word into its fields.
// Every word decodes; whether it is a legal instruction is
// decided when it is executed.
func Decode(word uint16) Instruction {
	return Instruction{
		Word:  word,
		Class: byte(word >> 12),
		X:     byte(word>>8) & 0xf,
		Y:     byte(word>>4) & 0xf,
		N:     byte(word) & 0xf,
		NN:    byte(word),
		NNN:   word & arch.AddressMask,
	}
}

// Fetch reads and decodes the instruction at the given address.
func (i *Instruction) Fetch(m *Memory, addr uint16) error {
	word, err := m.U16(int(addr))
	if err != nil {
		*i = Instruction{IP: addr}
		return err
	}

	*i = Decode(word)
	i.IP = addr
	return nil
}
