package main

import (
	"io"
	"time"

	"github.com/retroenv/retrogolib/log"

	"github.com/hexaflex/chip8/devices"
	"github.com/hexaflex/chip8/devices/cpu"
)

// maxBacklog bounds how far execution may fall behind before pending
// steps are dropped instead of run in a burst.
const maxBacklog = 100 * time.Millisecond

// CPUController paces the execution of a CPU at its configured speed.
type CPUController struct {
	cpu        *cpu.CPU
	interval   time.Duration // Time per instruction.
	next       time.Time     // When the next instruction is due.
	start      time.Time
	cycleCount uint64
	running    bool
}

// NewCPUController creates a new CPU controller.
func NewCPUController(config cpu.Config, logger *log.Logger, trace cpu.TraceFunc, devices ...devices.Device) *CPUController {
	c := cpu.New(config, logger, trace)

	for _, dev := range devices {
		c.Connect(dev)
	}

	return &CPUController{
		cpu:      c,
		interval: time.Second / time.Duration(c.Config().Speed),
	}
}

// CPU returns the controlled cpu.
func (c *CPUController) CPU() *cpu.CPU {
	return c.cpu
}

// Running returns true if the CPU is currently running.
func (c *CPUController) Running() bool {
	return c.running
}

// Frequency returns the current instruction rate in herz.
func (c *CPUController) Frequency() float64 {
	if !c.running {
		return 0
	}
	return float64(c.cycleCount) / time.Since(c.start).Seconds()
}

// ToggleRun starts or stops program execution.
func (c *CPUController) ToggleRun() {
	c.setRunning(!c.running)
}

// Start begins execution of the program.
func (c *CPUController) Start() {
	c.setRunning(true)
}

// Stop pauses execution of the program.
func (c *CPUController) Stop() {
	c.setRunning(false)
}

// Run performs every step which became due up to now.
// It does nothing while execution is paused.
func (c *CPUController) Run(now time.Time) error {
	if !c.running {
		return nil
	}

	if c.next.IsZero() || now.Sub(c.next) > maxBacklog {
		c.next = now
	}

	for !c.next.After(now) && c.running {
		if err := c.Step(); err != nil {
			return err
		}
		c.next = c.next.Add(c.interval)
	}

	return nil
}

// Step performs a single execution step.
// Execution stops when the CPU reports an error.
func (c *CPUController) Step() error {
	c.cycleCount++

	err := c.cpu.Step()
	if err != nil {
		c.setRunning(false)
		if err != io.EOF {
			return err
		}
	}

	return nil
}

// Load sets the program image for the next session.
func (c *CPUController) Load(program []byte) error {
	return c.cpu.Load(program)
}

// Startup initializes the cpu and connected peripherals.
func (c *CPUController) Startup() error {
	return c.cpu.Startup()
}

// Shutdown disposes of CPU and peripheral resources.
func (c *CPUController) Shutdown() error {
	return c.cpu.Shutdown()
}

// setRunning determines if the CPU is running or is paused.
func (c *CPUController) setRunning(v bool) {
	c.running = v
	c.start = time.Now()
	c.next = time.Time{}
	c.cycleCount = 0
}
