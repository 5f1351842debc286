// Command chip8-sprite converts images into sprite data for the DXYN
// draw instruction.
package main

import (
	"os"

	"github.com/retroenv/retrogolib/log"
)

func main() {
	logger := log.NewWithConfig(log.DefaultConfig())

	if err := run(parseArgs()); err != nil {
		logger.Error("Conversion failed", log.Err(err))
		os.Exit(1)
	}
}

func run(c *Config) (err error) {
	fd, err := os.Open(c.Input)
	if err != nil {
		return err
	}
	defer fd.Close()

	img, err := loadImage(fd)
	if err != nil {
		return err
	}

	sprites, err := translate(img, c.Height)
	if err != nil {
		return err
	}

	out, closer, err := makeWriter(c.Output)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closer(); err == nil {
			err = cerr
		}
	}()

	if c.Binary {
		return writeBinary(out, sprites)
	}
	return writeSource(out, sprites)
}
