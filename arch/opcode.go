// Package arch defines the CHIP-8 instruction set, memory map and display
// geometry along with some related helper functions.
package arch

import (
	"strings"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Instruction classes, selected by the high nibble of an instruction word.
const (
	SYS  = 0x0 // 00E0, 00EE
	JP   = 0x1 // 1NNN
	CALL = 0x2 // 2NNN
	SEB  = 0x3 // 3XNN
	SNEB = 0x4 // 4XNN
	SER  = 0x5 // 5XY0
	LDB  = 0x6 // 6XNN
	ADDB = 0x7 // 7XNN
	ALU  = 0x8 // 8XYN
	SNER = 0x9 // 9XY0
	LDI  = 0xa // ANNN
	JPV0 = 0xb // BNNN
	RND  = 0xc // CXNN
	DRW  = 0xd // DXYN
	SKP  = 0xe // EX9E, EXA1
	MISC = 0xf // FXNN
)

// Complete SYS instruction words.
const (
	ClearScreen = 0x00e0
	Return      = 0x00ee
)

// ALU operations, selected by the low nibble of an 8XYN word.
const (
	ALUMove = 0x0
	ALUOr   = 0x1
	ALUAnd  = 0x2
	ALUXor  = 0x3
	ALUAdd  = 0x4
	ALUSub  = 0x5
	ALUShr  = 0x6
	ALUSubN = 0x7
	ALUShl  = 0xe
)

// Key skip operations, selected by the low byte of an EXNN word.
const (
	SkipPressed    = 0x9e
	SkipNotPressed = 0xa1
)

// MISC operations, selected by the low byte of an FXNN word.
const (
	GetDelay  = 0x07
	WaitKey   = 0x0a
	SetDelay  = 0x15
	SetSound  = 0x18
	AddIndex  = 0x1e
	FontGlyph = 0x29
	BCD       = 0x33
	Store     = 0x55
	Load      = 0x65
)

// Name returns the mnemonic for the given instruction word.
// Returns false if the word does not encode a known instruction.
func Name(word uint16) (string, bool) {
	for _, op := range chip8.Opcodes[int(word>>12)] {
		if op.Instruction == nil {
			continue
		}
		if op.Info.Mask&word == op.Info.Value {
			return strings.ToUpper(op.Instruction.Name), true
		}
	}
	return "", false
}
