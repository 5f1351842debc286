package main

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/assert"
	"golang.org/x/image/bmp"
)

// testImage returns a 16x3 image with a diagonal in the left sprite and
// a filled top row in the right one.
func testImage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, 16, 3))
	for i := 0; i < 3; i++ {
		img.SetGray(i, i, color.Gray{Y: 0xff})
	}
	for x := 8; x < 16; x++ {
		img.SetGray(x, 0, color.Gray{Y: 0xff})
	}
	return img
}

func TestTranslate(t *testing.T) {
	sprites, err := translate(testImage(), 0)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(sprites))
	assert.True(t, bytes.Equal([]byte{0x80, 0x40, 0x20}, sprites[0]))
	assert.True(t, bytes.Equal([]byte{0xff, 0x00, 0x00}, sprites[1]))
}

func TestTranslateRows(t *testing.T) {
	sprites, err := translate(testImage(), 1)
	assert.NoError(t, err)
	assert.Equal(t, 6, len(sprites))
	assert.Equal(t, byte(0x40), sprites[2][0])
	assert.Equal(t, byte(0xff), sprites[1][0])

	_, err = translate(testImage(), 16)
	assert.ErrorContains(t, err, "invalid sprite height")

	_, err = translate(testImage(), 4)
	assert.ErrorContains(t, err, "shorter than a sprite")
}

func TestLoadBMP(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, bmp.Encode(&buf, testImage()))

	img, err := loadImage(&buf)
	assert.NoError(t, err)

	sprites, err := translate(img, 0)
	assert.NoError(t, err)
	assert.True(t, bytes.Equal([]byte{0x80, 0x40, 0x20}, sprites[0]))
}

func TestLoadTooSmall(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, bmp.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))))

	_, err := loadImage(&buf)
	assert.ErrorContains(t, err, "too small")
}

func TestWriteSource(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, writeSource(&buf, [][]byte{{0x81}}))
	assert.Equal(t, "; sprite 0\ndb $81 ; #......#\n", buf.String())
}

func TestWriteBinary(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, writeBinary(&buf, [][]byte{{1, 2}, {3}}))
	assert.True(t, bytes.Equal([]byte{1, 2, 3}, buf.Bytes()))
}

func TestRunWritesOutputFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.bmp")

	var buf bytes.Buffer
	assert.NoError(t, bmp.Encode(&buf, testImage()))
	assert.NoError(t, os.WriteFile(input, buf.Bytes(), 0644))

	output := filepath.Join(dir, "out", "sprite.bin")
	assert.NoError(t, run(&Config{Input: input, Output: output, Binary: true}))

	data, err := os.ReadFile(output)
	assert.NoError(t, err)
	assert.True(t, bytes.Equal([]byte{0x80, 0x40, 0x20, 0xff, 0x00, 0x00}, data))
}

func TestMakeWriterReportsCloseError(t *testing.T) {
	_, closer, err := makeWriter(filepath.Join(t.TempDir(), "sprite.src"))
	assert.NoError(t, err)
	assert.NoError(t, closer())
	assert.True(t, errors.Is(closer(), os.ErrClosed))

	_, closer, err = makeWriter("")
	assert.NoError(t, err)
	assert.NoError(t, closer())
}
