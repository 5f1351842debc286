// Package cpu implements the CHIP-8 virtual machine core.
//
// The CPU owns the complete architectural state of a session. Callers drive
// it by calling Step at the configured instruction rate and Tick at 60 Hz.
// Both, along with the input and display accessors, are serialized by an
// internal lock and may be called from different goroutines.
package cpu

import (
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"

	"github.com/hexaflex/chip8/arch"
	"github.com/hexaflex/chip8/devices"
)

// TraceFunc represents a callback handler for debug trace output.
// It is called with the decoded instruction before it executes and
// must not call back into the CPU.
type TraceFunc func(*Instruction)

// CPU implements the runtime.
type CPU struct {
	mu          sync.Mutex
	logger      *log.Logger // Session logger.
	config      Config      // Session configuration.
	devices     devices.Map // Connected peripherals.
	trace       TraceFunc   // Handler for debug trace output.
	state       State       // Architectural state.
	program     []byte      // Program image copied to memory on startup.
	instr       Instruction // Decoded instruction data.
	rng         *rand.Rand  // Random number generator.
	fault       error       // Fatal error which ended the session.
	waitReg     int         // Register receiving the key for FX0A, or -1.
	dirty       bool        // Has the display changed since it was last read?
	initialized bool        // Is a session running?
}

var _ devices.Machine = &CPU{}

// New creates a new CPU with the given configuration.
// Optionally with the given debug trace handler.
func New(config Config, logger *log.Logger, trace TraceFunc) *CPU {
	if trace == nil {
		trace = func(*Instruction) { /* nop */ }
	}

	if logger == nil {
		logger = log.NewWithConfig(log.DefaultConfig())
	}

	if config.Speed <= 0 {
		config.Speed = DefaultSpeed
	}

	return &CPU{
		logger:  logger,
		config:  config,
		trace:   trace,
		waitReg: -1,
	}
}

// Config returns the session configuration.
func (c *CPU) Config() Config {
	return c.config
}

// Connect connects the given hardware peripheral to the system.
// Returns false if the given device type is already connected.
func (c *CPU) Connect(dev devices.Device) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.devices.Connect(dev)
}

// Load sets the program image run by the next session.
// Returns ErrProgramTooLarge if it does not fit in program memory.
func (c *CPU) Load(program []byte) error {
	if len(program) > arch.MaxProgramSize {
		return errors.Wrapf(ErrProgramTooLarge, "%d bytes, at most %d fit", len(program), arch.MaxProgramSize)
	}

	c.mu.Lock()
	c.program = append([]byte(nil), program...)
	c.mu.Unlock()
	return nil
}

// Startup initializes the architectural state with the loaded program
// and starts the connected peripherals.
// Returns an error if a session is already running. Use Shutdown() first.
// Peripheral startup failures are returned as a devices.ErrorSet; the
// session is running regardless.
func (c *CPU) Startup() error {
	c.mu.Lock()
	if c.initialized {
		c.mu.Unlock()
		return errors.New("session is already running")
	}

	c.resetLocked()
	c.initialized = true
	size := len(c.program)
	c.mu.Unlock()

	c.logger.Debug("Session startup", log.Int("program_size", size))
	return c.devices.Startup(c.logger, c)
}

// Shutdown aborts a pending key wait, ends the session and
// cleans up peripheral resources.
func (c *CPU) Shutdown() error {
	c.mu.Lock()
	if !c.initialized {
		c.mu.Unlock()
		return nil
	}

	c.waitReg = -1
	c.initialized = false
	c.mu.Unlock()

	c.logger.Debug("Session shutdown")
	return c.devices.Shutdown(c.logger)
}

// Reset restarts the loaded program without restarting peripherals.
func (c *CPU) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

func (c *CPU) resetLocked() {
	c.state.reset(c.program)

	seed := c.config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	c.rng = rand.New(rand.NewSource(seed))
	c.fault = nil
	c.waitReg = -1
	c.dirty = true
}

// Step performs a single execution step.
//
// Returns io.EOF if no session is running. A fatal error is returned as
// *Error and ends execution: every later call returns the same error
// until the session is restarted.
//
// While an FX0A key wait is pending, Step does not execute anything.
// It completes the wait once a key transitions to pressed.
func (c *CPU) Step() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return io.EOF
	}

	if c.fault != nil {
		return c.fault
	}

	if c.waitReg >= 0 {
		c.pollKeyWait()
		return nil
	}

	instr := &c.instr
	if err := instr.Fetch(&c.state.Memory, c.state.PC); err != nil {
		return c.fail(instr, err)
	}

	c.trace(instr)

	if err := c.execute(instr); err != nil {
		return c.fail(instr, err)
	}

	return nil
}

// fail records err as the fatal error of the session and leaves the
// program counter on the failing instruction.
func (c *CPU) fail(instr *Instruction, err error) error {
	c.state.PC = instr.IP
	c.fault = NewError(instr, err)
	c.logger.Debug("Execution halted",
		log.Hex("pc", instr.IP),
		log.Hex("opcode", instr.Word),
		log.Err(err))
	return c.fault
}

// Tick advances the delay and sound timers by one 60 Hz period.
func (c *CPU) Tick() {
	c.mu.Lock()
	c.state.Timers.Tick()
	c.mu.Unlock()
}

// SetKey records the pressed state of the given key.
func (c *CPU) SetKey(key int, pressed bool) {
	c.mu.Lock()
	c.state.Keys.Set(key, pressed)
	c.mu.Unlock()
}

// Waiting returns true while an FX0A key wait is pending.
func (c *CPU) Waiting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.waitReg >= 0
}

// CancelKeyWait aborts a pending FX0A key wait.
// The program counter stays on the FX0A instruction, so the next
// Step starts a new wait.
func (c *CPU) CancelKeyWait() {
	c.mu.Lock()
	c.waitReg = -1
	c.mu.Unlock()
}

// SoundActive returns true while the sound timer is non-zero.
func (c *CPU) SoundActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Timers.Sound > 0
}

// Framebuffer copies the display contents into fb and returns true
// if they changed since the previous call.
func (c *CPU) Framebuffer(fb *arch.Framebuffer) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	*fb = c.state.Display
	changed := c.dirty
	c.dirty = false
	return changed
}

// State returns a copy of the architectural state.
func (c *CPU) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
