package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"

	"github.com/hexaflex/chip8/arch"
	"github.com/hexaflex/chip8/devices"
	"github.com/hexaflex/chip8/devices/beeper"
	"github.com/hexaflex/chip8/devices/clock"
	"github.com/hexaflex/chip8/devices/cpu"
	"github.com/hexaflex/chip8/devices/keypad"
	"github.com/hexaflex/chip8/devices/screen"
)

// App defines application context.
type App struct {
	config       *Config        // Application configuration.
	logger       *log.Logger    // Application logger.
	window       *glfw.Window   // OpenGL/GLFW context.
	cpu          *CPUController // VM with program to be run.
	screen       *screen.Device // Display peripheral.
	keypad       *keypad.Device // Keypad peripheral.
	titleUpdated time.Time      // Value used to periodically update window title.
	lastRendered time.Time      // Last time a frame was rendered.
}

// NewApp creates a new application instance using the given configuration.
func NewApp(config *Config, logger *log.Logger) *App {
	return &App{
		config: config,
		logger: logger,
	}
}

// Run runs the application and does not return until it is finished
// or an error occurred during initialization.
func (a *App) Run() error {
	if err := a.initGL(); err != nil {
		return err
	}

	defer a.dispose()

	a.screen = screen.New()
	a.screen.SetColors(a.config.Foreground, a.config.Background)
	a.keypad = keypad.New(a.window, a.logger)

	devs := []devices.Device{clock.New(clock.DefaultFrequency), a.screen, a.keypad}
	if !a.config.Mute {
		devs = append(devs, beeper.New())
	}
	a.cpu = NewCPUController(a.config.CPU(), a.logger, a.printTrace, devs...)

	a.logger.Info(Version())
	printHelp()

	if err := a.loadProgram(); err != nil {
		return err
	}

	if !a.config.Paused {
		a.cpu.Start()
	}

	for !a.window.ShouldClose() {
		a.mainLoop()
	}

	return nil
}

// mainLoop performs all main loop operations.
func (a *App) mainLoop() {
	glfw.PollEvents()
	a.keypad.Update()

	if err := a.cpu.Run(time.Now()); err != nil {
		a.logger.Error("Execution halted", log.Err(err))
	}

	// Periodically render display contents.
	if time.Since(a.lastRendered) >= time.Second/60 {
		a.lastRendered = time.Now()
		gl.Clear(gl.COLOR_BUFFER_BIT)
		a.screen.Draw()
		a.window.SwapBuffers()
	}

	// Periodically update the window title to show the current instruction rate.
	if time.Since(a.titleUpdated) >= time.Second*2 {
		a.titleUpdated = time.Now()
		freq := prettyFrequency(a.cpu.Frequency())
		a.window.SetTitle(fmt.Sprintf("%s %s - %s", AppName, AppVersion, freq))
	}

	time.Sleep(time.Millisecond)
}

// dispose ensures openGL/GLFW and other resources are cleaned up.
func (a *App) dispose() {
	if a.cpu != nil {
		a.cpu.Stop()
		if err := a.cpu.Shutdown(); err != nil {
			a.logger.Error("Shutdown failed", log.Err(err))
		}
	}

	if a.window != nil {
		a.window.Destroy()
		a.window = nil
	}

	glfw.Terminate()
}

func (a *App) keyCallback(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}

	var err error

	switch key {
	case glfw.KeyEscape:
		a.window.SetShouldClose(true)
	case glfw.KeyF1:
		printHelp()
	case glfw.KeyF5:
		err = a.loadProgram()
	case glfw.KeyF6:
		a.cpu.ToggleRun()
	case glfw.KeyF7:
		err = a.cpu.Step()
	case glfw.KeyF8:
		a.config.PrintTrace = !a.config.PrintTrace
	case glfw.KeyF9:
		a.cpu.CPU().CancelKeyWait()
	}

	if err != nil {
		a.logger.Error("Shortcut failed", log.Err(err))
	}
}

// framebufferSizeCallback keeps the display centered at a 2:1 aspect ratio.
func (a *App) framebufferSizeCallback(_ *glfw.Window, width, height int) {
	x, y, w, h := viewport(width, height)
	gl.Viewport(int32(x), int32(y), int32(w), int32(h))
}

// initGL initializes GLFW and openGL.
func (a *App) initGL() error {
	err := glfw.Init()
	if err != nil {
		return errors.Wrapf(err, "glfw.Init failed")
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.Visible, glfw.True)
	glfw.WindowHint(glfw.Focused, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	var monitor *glfw.Monitor

	width := arch.DisplayWidth * a.config.ScaleFactor
	height := arch.DisplayHeight * a.config.ScaleFactor

	if a.config.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
		mode := monitor.GetVideoMode()

		width = mode.Width
		height = mode.Height

		glfw.WindowHint(glfw.Decorated, glfw.False)
		glfw.WindowHint(glfw.Maximized, glfw.True)
	} else {
		glfw.WindowHint(glfw.Decorated, glfw.True)
		glfw.WindowHint(glfw.Maximized, glfw.False)
	}

	a.window, err = glfw.CreateWindow(width, height, AppName, monitor, nil)
	if err != nil {
		a.dispose()
		return errors.Wrapf(err, "glfw.CreateWindow failed")
	}

	a.window.MakeContextCurrent()
	a.window.SetKeyCallback(a.keyCallback)
	a.window.SetFramebufferSizeCallback(a.framebufferSizeCallback)

	glfw.SwapInterval(0)

	err = gl.Init()
	if err != nil {
		a.dispose()
		return errors.Wrapf(err, "gl.Init failed")
	}

	gl.ClearColor(0, 0, 0, 1.0)

	fbw, fbh := a.window.GetFramebufferSize()
	a.framebufferSizeCallback(a.window, fbw, fbh)
	return nil
}

// loadProgram loads the current program from disk and restarts the cpu.
func (a *App) loadProgram() error {
	a.logger.Info("Loading program", log.String("file", a.config.Program))

	program, err := os.ReadFile(a.config.Program)
	if err != nil {
		return errors.Wrapf(err, "failed to read program")
	}

	if err := a.cpu.Load(program); err != nil {
		return err
	}

	if err := a.cpu.Shutdown(); err != nil {
		a.logger.Error("Shutdown failed", log.Err(err))
	}

	// The session runs even if a peripheral failed to start.
	if err := a.cpu.Startup(); err != nil {
		a.logger.Error("Peripheral startup failed", log.Err(err))
	}

	if !a.config.Paused {
		a.cpu.Start()
	}
	return nil
}

// printTrace prints instruction trace data. This can be toggled
// on off through a.config.PrintTrace.
func (a *App) printTrace(i *cpu.Instruction) {
	if a.config.PrintTrace {
		fmt.Println(formatTrace(i))
	}
}

// formatTrace returns a single trace line for the given instruction.
func formatTrace(i *cpu.Instruction) string {
	name, ok := arch.Name(i.Word)
	if !ok {
		name = "???"
	}

	var sb strings.Builder
	sb.Grow(40)
	fmt.Fprintf(&sb, "%04x %04x %s", i.IP, i.Word, name)
	pad(&sb, 20)

	switch i.Class {
	case arch.JP, arch.CALL, arch.LDI, arch.JPV0:
		fmt.Fprintf(&sb, "%03x", i.NNN)
	case arch.SEB, arch.SNEB, arch.LDB, arch.ADDB, arch.RND:
		fmt.Fprintf(&sb, "%s, %02x", arch.RegisterName(int(i.X)), i.NN)
	case arch.SER, arch.SNER, arch.ALU:
		fmt.Fprintf(&sb, "%s, %s", arch.RegisterName(int(i.X)), arch.RegisterName(int(i.Y)))
	case arch.DRW:
		fmt.Fprintf(&sb, "%s, %s, %x", arch.RegisterName(int(i.X)), arch.RegisterName(int(i.Y)), i.N)
	case arch.SKP, arch.MISC:
		sb.WriteString(arch.RegisterName(int(i.X)))
	}

	return strings.TrimRight(sb.String(), " ")
}

// printHelp writes a short overview of supported shortcut keys to stdout.
func printHelp() {
	var sb strings.Builder
	sb.WriteString("shortcut keys:\n")
	sb.WriteString(" ESC      Exit the emulator.\n")
	sb.WriteString(" F1       Display this help.\n")
	sb.WriteString(" F5       (re)load the program from disk and restart it.\n")
	sb.WriteString(" F6       Start/Stop program execution.\n")
	sb.WriteString(" F7       Perform a single execution step.\n")
	sb.WriteString(" F8       Enable/Disable instruction trace output.\n")
	sb.WriteString(" F9       Abort a pending key wait.\n")
	sb.WriteString("keypad:\n")
	sb.WriteString(" 1 2 3 4    ->  1 2 3 C\n")
	sb.WriteString(" Q W E R    ->  4 5 6 D\n")
	sb.WriteString(" A S D F    ->  7 8 9 E\n")
	sb.WriteString(" Z X C V    ->  A 0 B F")
	fmt.Println(sb.String())
}

// viewport returns the largest 2:1 rectangle centered in a width x height area.
func viewport(width, height int) (x, y, w, h int) {
	w, h = width, width*arch.DisplayHeight/arch.DisplayWidth
	if h > height {
		w, h = height*arch.DisplayWidth/arch.DisplayHeight, height
	}
	return (width - w) / 2, (height - h) / 2, w, h
}

// pad pads sb with spaces until it reaches the given size.
var pad = func() func(*strings.Builder, int) {
	set := strings.Repeat(" ", 80)
	return func(sb *strings.Builder, size int) {
		if sb.Len() >= size {
			return
		}
		if size > len(set) {
			size = len(set)
		}
		if size < sb.Len() {
			size = sb.Len()
		}
		sb.WriteString(set[:size-sb.Len()])
	}
}()

// prettyFrequency returns a human-readable version of the given frequency in herz.
func prettyFrequency(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%.2f GHz", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.2f MHz", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.2f KHz", v/1e3)
	default:
		return fmt.Sprintf("%.2f Hz", v)
	}
}
