package arch

// Memory map.
const (
	MemorySize      = 0x1000                    // Total addressable memory.
	AddressMask     = MemorySize - 1            // Mask applied to 12-bit address fields.
	FontStart       = 0x050                     // Address of the first font glyph.
	ProgramStart    = 0x200                     // Address where programs are loaded and started.
	MaxProgramSize  = MemorySize - ProgramStart // Largest program image that fits in memory.
	InstructionSize = 2                         // Size of an instruction word in bytes.
	StackDepth      = 16                        // Maximum number of nested subroutine calls.
)
