package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hexaflex/chip8/arch"
)

// Config defines program configuration.
type Config struct {
	Input  string // Input image file.
	Output string // Output file. Leave empty for stdout.
	Height int    // Rows per sprite; 0 uses the image height.
	Binary bool   // Write raw sprite bytes instead of source text.
}

// parseArgs parses command line arguments as applicable.
//
// If an error occurred, this exits the program with an appropriate message.
func parseArgs() *Config {
	var c Config

	flag.Usage = func() {
		fmt.Printf("%s [options] <image file>\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.StringVar(&c.Output, "out", c.Output, "File path to write output to. Leave empty to use stdout.")
	flag.IntVar(&c.Height, "height", c.Height, fmt.Sprintf("Rows per sprite, at most %d. 0 uses the image height.", arch.MaxSpriteHeight))
	flag.BoolVar(&c.Binary, "binary", c.Binary, "Write raw sprite bytes instead of source text.")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	c.Input = flag.Arg(0)
	return &c
}
