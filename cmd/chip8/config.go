package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"

	"github.com/hexaflex/chip8/devices/cpu"
	"github.com/hexaflex/chip8/devices/screen"
)

// Config defines program configuration.
type Config struct {
	Program        string     // Path to the program image to load.
	ScaleFactor    int        // Amount by which each display pixel is scaled.
	Fullscreen     bool       // Run in fullscreen?
	Speed          int        // Instructions per second.
	Seed           int64      // Random number seed; 0 picks one from the clock.
	ShiftVY        bool       // 8XY6/8XYE shift VY into VX.
	WrapSprites    bool       // Sprites wrap around the display edges.
	IncrementIndex bool       // FX55/FX65 advance I.
	FlagLast       bool       // 8XY4-8XYE write VF after VX.
	Terminal       bool       // Run on the terminal instead of a window.
	Mute           bool       // Disable sound output.
	Paused         bool       // Start with execution paused.
	PrintTrace     bool       // Print instruction trace data?
	Debug          bool       // Enable debug logging.
	Quiet          bool       // Only log errors.
	Foreground     [4]float32 // Lit pixel color.
	Background     [4]float32 // Unlit pixel color.
}

// CPU returns the session configuration for the cpu.
func (c *Config) CPU() cpu.Config {
	config := cpu.DefaultConfig()
	config.Speed = c.Speed
	config.Seed = c.Seed
	config.Quirks = cpu.Quirks{
		ShiftVY:        c.ShiftVY,
		WrapSprites:    c.WrapSprites,
		IncrementIndex: c.IncrementIndex,
		FlagLast:       c.FlagLast,
	}
	return config
}

// errVersion is returned by parseFlags when version information was requested.
var errVersion = errors.New("version requested")

// parseArgs parses command line arguments as applicable.
//
// If an error occurred, this exits the program with an appropriate message.
// When version information is requested, it is printed to stdout and the program ends cleanly.
func parseArgs() *Config {
	c, err := parseFlags(os.Args[0], os.Args[1:], os.Stderr)
	switch {
	case err == errVersion:
		fmt.Println(Version())
		os.Exit(0)
	case err == flag.ErrHelp:
		os.Exit(0)
	case err != nil:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return c
}

// parseFlags parses the given arguments. Usage output goes to w.
func parseFlags(name string, args []string, w io.Writer) (*Config, error) {
	var c Config
	c.ScaleFactor = 10
	c.Speed = cpu.DefaultSpeed
	c.Foreground = screen.DefaultForeground
	c.Background = screen.DefaultBackground

	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(w)
	flags.Usage = func() {
		fmt.Fprintf(w, "%s [options] <program file>\n", name)
		flags.PrintDefaults()
	}

	flags.IntVar(&c.ScaleFactor, "scale-factor", c.ScaleFactor, "Pixel scale factor for the display.")
	flags.BoolVar(&c.Fullscreen, "fullscreen", c.Fullscreen, "Run the display in fullscreen or windowed mode.")
	flags.IntVar(&c.Speed, "speed", c.Speed, "Instructions executed per second.")
	flags.Int64Var(&c.Seed, "seed", c.Seed, "Random number seed. 0 seeds from the clock.")
	flags.BoolVar(&c.ShiftVY, "shift-vy", c.ShiftVY, "8XY6/8XYE shift VY into VX instead of shifting VX in place.")
	flags.BoolVar(&c.WrapSprites, "wrap-sprites", c.WrapSprites, "Wrap sprites around the display edges instead of clipping them.")
	flags.BoolVar(&c.IncrementIndex, "increment-index", c.IncrementIndex, "FX55/FX65 leave I pointing past the last register transferred.")
	flags.BoolVar(&c.FlagLast, "flag-last", c.FlagLast, "8XY4-8XYE write VF after VX, so the flag wins when X is VF.")
	flags.Func("fg", "Lit pixel color as RRGGBB hex.", colorFlag(&c.Foreground))
	flags.Func("bg", "Unlit pixel color as RRGGBB hex.", colorFlag(&c.Background))
	flags.BoolVar(&c.Terminal, "terminal", c.Terminal, "Run on the terminal instead of opening a window.")
	flags.BoolVar(&c.Mute, "mute", c.Mute, "Disable sound output.")
	flags.BoolVar(&c.Paused, "paused", c.Paused, "Start with execution paused.")
	flags.BoolVar(&c.PrintTrace, "trace", c.PrintTrace, "Print instruction trace data.")
	flags.BoolVar(&c.Debug, "debug", c.Debug, "Enable debug logging.")
	flags.BoolVar(&c.Quiet, "quiet", c.Quiet, "Only log errors.")
	version := flags.Bool("version", false, "Display version information.")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if *version {
		return nil, errVersion
	}

	if flags.NArg() == 0 {
		flags.Usage()
		return nil, errors.New("missing program file")
	}

	if c.ScaleFactor < 1 {
		return nil, errors.Errorf("invalid scale factor %d", c.ScaleFactor)
	}

	if c.Speed < 1 {
		return nil, errors.Errorf("invalid speed %d", c.Speed)
	}

	c.Program = flags.Arg(0)
	return &c, nil
}

// colorFlag returns a flag setter that parses a color into dst.
func colorFlag(dst *[4]float32) func(string) error {
	return func(value string) error {
		color, err := parseColor(value)
		if err != nil {
			return err
		}
		*dst = color
		return nil
	}
}

// parseColor parses a RRGGBB hex string, with optional leading '#',
// into an opaque RGBA color.
func parseColor(value string) ([4]float32, error) {
	s := strings.TrimPrefix(value, "#")
	if len(s) != 6 {
		return [4]float32{}, errors.Errorf("invalid color %q: want RRGGBB", value)
	}

	rgb, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return [4]float32{}, errors.Wrapf(err, "invalid color %q", value)
	}

	return [4]float32{
		float32(rgb>>16&0xff) / 255,
		float32(rgb>>8&0xff) / 255,
		float32(rgb&0xff) / 255,
		1,
	}, nil
}

// createLogger creates a logger with the level selected by the flags.
func createLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
