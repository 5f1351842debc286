package main

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp" // register BMP decoder

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/hexaflex/chip8/arch"
)

// loadImage decodes an image from r.
func loadImage(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode image")
	}

	b := img.Bounds()
	if b.Dx() < arch.SpriteWidth || b.Dy() < 1 {
		return nil, errors.Errorf("source image is too small; expected at least %d x 1 pixels", arch.SpriteWidth)
	}

	return img, nil
}

// translate cuts img into sprites of 8 pixels by height rows, left to
// right and top to bottom. Partial sprites at the right and bottom
// edges are dropped.
func translate(img image.Image, height int) ([][]byte, error) {
	b := img.Bounds()

	if height == 0 {
		height = b.Dy()
	}

	if height < 1 || height > arch.MaxSpriteHeight {
		return nil, errors.Errorf("invalid sprite height %d; expected 1 to %d rows", height, arch.MaxSpriteHeight)
	}

	w := b.Dx() / arch.SpriteWidth
	h := b.Dy() / height
	if h == 0 {
		return nil, errors.Errorf("source image is shorter than a sprite of %d rows", height)
	}

	sprites := make([][]byte, 0, w*h)

	for y := 0; y < h; y++ {
		sy := b.Min.Y + y*height

		for x := 0; x < w; x++ {
			sx := b.Min.X + x*arch.SpriteWidth
			sprite := make([]byte, height)

			for row := range sprite {
				for col := 0; col < arch.SpriteWidth; col++ {
					if lit(img.At(sx+col, sy+row)) {
						sprite[row] |= 0x80 >> col
					}
				}
			}

			sprites = append(sprites, sprite)
		}
	}

	return sprites, nil
}

// lit returns true for opaque pixels brighter than mid gray.
func lit(c color.Color) bool {
	_, _, _, a := c.RGBA()
	if a < 0x8000 {
		return false
	}
	return color.GrayModel.Convert(c).(color.Gray).Y >= 0x80
}

// writeSource writes the sprites as assembler data directives, with
// the pixels drawn in a trailing comment.
func writeSource(w io.Writer, sprites [][]byte) error {
	for i, sprite := range sprites {
		if _, err := fmt.Fprintf(w, "; sprite %d\n", i); err != nil {
			return err
		}

		for _, row := range sprite {
			pixels := strings.Map(func(r rune) rune {
				if r == '1' {
					return '#'
				}
				return '.'
			}, fmt.Sprintf("%08b", row))

			if _, err := fmt.Fprintf(w, "db $%02x ; %s\n", row, pixels); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeBinary writes the sprite rows back to back.
func writeBinary(w io.Writer, sprites [][]byte) error {
	for _, sprite := range sprites {
		if _, err := w.Write(sprite); err != nil {
			return err
		}
	}
	return nil
}

// makeWriter creates an output writer and a cleanup function for it.
// The cleanup function reports errors from closing the output file.
func makeWriter(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}

	dir, _ := filepath.Split(path)
	if dir != "" {
		if err := os.MkdirAll(dir, 0744); err != nil {
			return nil, nil, err
		}
	}

	fd, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}

	return fd, fd.Close, nil
}
