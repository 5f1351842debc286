package arch

// KeyCount is the number of keys on the hex keypad.
const KeyCount = 16

// Keymap lists the keypad keys in their physical 4x4 layout, row by row:
//
//	1 2 3 C
//	4 5 6 D
//	7 8 9 E
//	A 0 B F
//
// Frontends map a 4x4 block of host keys onto this table.
var Keymap = [KeyCount]byte{
	0x1, 0x2, 0x3, 0xc,
	0x4, 0x5, 0x6, 0xd,
	0x7, 0x8, 0x9, 0xe,
	0xa, 0x0, 0xb, 0xf,
}
