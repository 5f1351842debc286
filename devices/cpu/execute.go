package cpu

import (
	"github.com/pkg/errors"

	"github.com/hexaflex/chip8/arch"
)

// execute applies the effect of a single instruction.
//
// The program counter is first advanced past the instruction. Jumps,
// calls and returns overwrite it, skips advance it once more and a
// key wait moves it back onto the instruction.
func (c *CPU) execute(instr *Instruction) error {
	s := &c.state
	v := &s.V
	x, y := instr.X, instr.Y

	s.PC = instr.IP + arch.InstructionSize

	switch instr.Class {
	case arch.SYS:
		switch instr.Word {
		case arch.ClearScreen:
			s.Display.Clear()
			c.dirty = true
		case arch.Return:
			addr, err := s.Stack.Pop()
			if err != nil {
				return err
			}
			s.PC = addr
		default:
			return illegal(instr)
		}

	case arch.JP:
		s.PC = instr.NNN
	case arch.CALL:
		if err := s.Stack.Push(s.PC); err != nil {
			return err
		}
		s.PC = instr.NNN
	case arch.JPV0:
		target := int(instr.NNN) + int(v[0])
		if target >= arch.MemorySize {
			return errors.Wrapf(ErrMemoryOutOfBounds, "jump to %04x", target)
		}
		s.PC = uint16(target)

	case arch.SEB:
		c.skipIf(v[x] == instr.NN)
	case arch.SNEB:
		c.skipIf(v[x] != instr.NN)
	case arch.SER:
		if instr.N != 0 {
			return illegal(instr)
		}
		c.skipIf(v[x] == v[y])
	case arch.SNER:
		if instr.N != 0 {
			return illegal(instr)
		}
		c.skipIf(v[x] != v[y])

	case arch.LDB:
		v[x] = instr.NN
	case arch.ADDB:
		v[x] += instr.NN
	case arch.ALU:
		return c.alu(instr)

	case arch.LDI:
		s.I = instr.NNN
	case arch.RND:
		v[x] = byte(c.rng.Intn(256)) & instr.NN
	case arch.DRW:
		return c.draw(instr)

	case arch.SKP:
		key := int(v[x] & 0xf)
		switch instr.NN {
		case arch.SkipPressed:
			c.skipIf(s.Keys.Pressed(key))
		case arch.SkipNotPressed:
			c.skipIf(!s.Keys.Pressed(key))
		default:
			return illegal(instr)
		}

	case arch.MISC:
		return c.misc(instr)

	default:
		return illegal(instr)
	}

	return nil
}

// alu executes the 8XYN register operations.
// The flag is computed from the operands, then VF is written before VX is
// evaluated, so VX sees the updated VF when X or Y is VF.
func (c *CPU) alu(instr *Instruction) error {
	v := &c.state.V
	x, y := instr.X, instr.Y

	switch instr.N {
	case arch.ALUMove:
		v[x] = v[y]
	case arch.ALUOr:
		v[x] |= v[y]
	case arch.ALUAnd:
		v[x] &= v[y]
	case arch.ALUXor:
		v[x] ^= v[y]

	case arch.ALUAdd:
		c.setFlagged(x, flag(int(v[x])+int(v[y]) > 0xff), func() byte { return v[x] + v[y] })
	case arch.ALUSub:
		c.setFlagged(x, flag(v[x] >= v[y]), func() byte { return v[x] - v[y] })
	case arch.ALUSubN:
		c.setFlagged(x, flag(v[y] >= v[x]), func() byte { return v[y] - v[x] })

	case arch.ALUShr:
		c.setFlagged(x, c.shiftSource(instr)&1, func() byte { return c.shiftSource(instr) >> 1 })
	case arch.ALUShl:
		c.setFlagged(x, c.shiftSource(instr)>>7, func() byte { return c.shiftSource(instr) << 1 })

	default:
		return illegal(instr)
	}

	return nil
}

// setFlagged stores vf in VF and the value produced by result in VX.
// VF is written first unless Quirks.FlagLast is set, in which case result
// is evaluated against the untouched registers and VF is written last.
func (c *CPU) setFlagged(x, vf byte, result func() byte) {
	v := &c.state.V
	if c.config.Quirks.FlagLast {
		v[x] = result()
		v[arch.VF] = vf
		return
	}
	v[arch.VF] = vf
	v[x] = result()
}

// shiftSource returns the value shifted by 8XY6 and 8XYE.
func (c *CPU) shiftSource(instr *Instruction) byte {
	if c.config.Quirks.ShiftVY {
		return c.state.V[instr.Y]
	}
	return c.state.V[instr.X]
}

// draw executes DXYN. It XORs an N row sprite read from memory at I onto
// the display, starting at (VX mod 64, VY mod 32). VF is set if any lit
// pixel was turned off.
func (c *CPU) draw(instr *Instruction) error {
	s := &c.state

	sprite, err := s.Memory.Slice(int(s.I), int(instr.N))
	if err != nil {
		return err
	}

	x0 := int(s.V[instr.X]) % arch.DisplayWidth
	y0 := int(s.V[instr.Y]) % arch.DisplayHeight
	wrap := c.config.Quirks.WrapSprites

	var collision bool
	for row, bits := range sprite {
		y := y0 + row
		if y >= arch.DisplayHeight {
			if !wrap {
				break
			}
			y %= arch.DisplayHeight
		}

		for col := 0; col < arch.SpriteWidth; col++ {
			if bits&(0x80>>col) == 0 {
				continue
			}

			x := x0 + col
			if x >= arch.DisplayWidth {
				if !wrap {
					break
				}
				x %= arch.DisplayWidth
			}

			if s.Display.Flip(x, y) {
				collision = true
			}
		}
	}

	s.V[arch.VF] = flag(collision)
	c.dirty = true
	return nil
}

// misc executes the FXNN operations.
func (c *CPU) misc(instr *Instruction) error {
	s := &c.state
	v := &s.V
	x := instr.X

	switch instr.NN {
	case arch.GetDelay:
		v[x] = s.Timers.Delay
	case arch.WaitKey:
		s.Keys.clearEdges()
		s.PC = instr.IP
		c.waitReg = int(x)
	case arch.SetDelay:
		s.Timers.Delay = v[x]
	case arch.SetSound:
		s.Timers.Sound = v[x]

	case arch.AddIndex:
		sum := int(s.I) + int(v[x])
		s.I = uint16(sum) & arch.AddressMask
		v[arch.VF] = flag(sum > arch.AddressMask)
	case arch.FontGlyph:
		s.I = arch.GlyphAddress(v[x])

	case arch.BCD:
		digits := [3]byte{v[x] / 100, v[x] / 10 % 10, v[x] % 10}
		return s.Memory.Write(int(s.I), digits[:])
	case arch.Store:
		if err := s.Memory.Write(int(s.I), v[:x+1]); err != nil {
			return err
		}
		c.advanceIndex(x)
	case arch.Load:
		if err := s.Memory.Read(int(s.I), v[:x+1]); err != nil {
			return err
		}
		c.advanceIndex(x)

	default:
		return illegal(instr)
	}

	return nil
}

// advanceIndex moves I past the registers V0..VX transferred by FX55 or
// FX65 when the IncrementIndex quirk is selected.
func (c *CPU) advanceIndex(x byte) {
	if c.config.Quirks.IncrementIndex {
		c.state.I = (c.state.I + uint16(x) + 1) & arch.AddressMask
	}
}

// pollKeyWait completes a pending FX0A key wait once a key
// transitioned to pressed.
func (c *CPU) pollKeyWait() {
	key, ok := c.state.Keys.takeJustPressed()
	if !ok {
		return
	}

	c.state.V[c.waitReg] = byte(key)
	c.state.PC += arch.InstructionSize
	c.waitReg = -1
}

// skipIf skips the next instruction if cond holds.
func (c *CPU) skipIf(cond bool) {
	if cond {
		c.state.PC += arch.InstructionSize
	}
}

func flag(v bool) byte {
	if v {
		return 1
	}
	return 0
}
