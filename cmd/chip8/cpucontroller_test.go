package main

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"

	"github.com/hexaflex/chip8/devices/cpu"
)

func newTestController(t *testing.T, speed int, program ...byte) *CPUController {
	t.Helper()

	config := cpu.DefaultConfig()
	config.Speed = speed
	config.Seed = 1

	c := NewCPUController(config, log.NewTestLogger(t), nil)
	assert.NoError(t, c.Load(program))
	assert.NoError(t, c.Startup())
	t.Cleanup(func() {
		assert.NoError(t, c.Shutdown())
	})
	return c
}

func TestControllerPacing(t *testing.T) {
	//   ADD V0, 1
	//   JP  $200
	c := newTestController(t, 100, 0x70, 0x01, 0x12, 0x00)

	t0 := time.Now()
	assert.NoError(t, c.Run(t0))
	assert.Equal(t, uint64(0), c.cycleCount)

	c.Start()
	assert.NoError(t, c.Run(t0))
	assert.Equal(t, uint64(1), c.cycleCount)

	// 10ms per instruction at 100 Hz.
	assert.NoError(t, c.Run(t0.Add(50*time.Millisecond)))
	assert.Equal(t, uint64(6), c.cycleCount)
	assert.Equal(t, byte(3), c.CPU().State().V[0])

	// A long stall drops the backlog instead of bursting.
	assert.NoError(t, c.Run(t0.Add(10*time.Second)))
	assert.Equal(t, uint64(7), c.cycleCount)
}

func TestControllerHalts(t *testing.T) {
	c := newTestController(t, 100, 0xff, 0xff)
	c.Start()

	err := c.Run(time.Now())
	assert.True(t, errors.Is(err, cpu.ErrIllegalInstruction))
	assert.False(t, c.Running())
	assert.Equal(t, float64(0), c.Frequency())
}

func TestControllerToggle(t *testing.T) {
	c := newTestController(t, 100, 0x12, 0x00)
	assert.False(t, c.Running())
	c.ToggleRun()
	assert.True(t, c.Running())
	c.ToggleRun()
	assert.False(t, c.Running())

	assert.NoError(t, c.Step())
	assert.Equal(t, uint16(0x200), c.CPU().State().PC)
}
