package main

import (
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"

	"github.com/hexaflex/chip8/devices/cpu"
)

func TestPrettyFrequency(t *testing.T) {
	assert.Equal(t, "700.00 Hz", prettyFrequency(700))
	assert.Equal(t, "1.50 KHz", prettyFrequency(1500))
	assert.Equal(t, "2.00 MHz", prettyFrequency(2e6))
	assert.Equal(t, "3.00 GHz", prettyFrequency(3e9))
}

func TestViewport(t *testing.T) {
	for _, tt := range []struct {
		width, height int
		x, y, w, h    int
	}{
		{640, 320, 0, 0, 640, 320},
		{800, 320, 80, 0, 640, 320},
		{640, 400, 0, 40, 640, 320},
	} {
		x, y, w, h := viewport(tt.width, tt.height)
		assert.Equal(t, tt.x, x)
		assert.Equal(t, tt.y, y)
		assert.Equal(t, tt.w, w)
		assert.Equal(t, tt.h, h)
	}
}

func TestFormatTrace(t *testing.T) {
	instr := cpu.Decode(0x6a12)
	instr.IP = 0x200
	line := formatTrace(&instr)
	assert.True(t, strings.HasPrefix(line, "0200 6a12 LD"))
	assert.True(t, strings.HasSuffix(line, "VA, 12"))

	instr = cpu.Decode(0xd125)
	line = formatTrace(&instr)
	assert.True(t, strings.HasSuffix(line, "V1, V2, 5"))

	instr = cpu.Decode(0x00e0)
	assert.Equal(t, "0000 00e0 CLS", formatTrace(&instr))

	instr = cpu.Decode(0xe1ff)
	assert.Equal(t, "0000 e1ff ???       V1", formatTrace(&instr))
}

func TestPad(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("abc")
	pad(&sb, 8)
	assert.Equal(t, "abc     ", sb.String())
	pad(&sb, 4)
	assert.Equal(t, 8, sb.Len())
}
