package arch

// Display geometry in pixels.
const (
	DisplayWidth    = 64
	DisplayHeight   = 32
	SpriteWidth     = 8  // Every sprite row is one byte, MSB first.
	MaxSpriteHeight = 15 // DXYN draws at most 15 rows.
)

// Framebuffer holds the state of every display pixel.
//
// Pixels are stored row-major. Pixel (0, 0) is the top-left corner of
// the display, x grows to the right and y grows downward.
type Framebuffer [DisplayWidth * DisplayHeight]bool

// At returns true if the pixel at x, y is lit.
// Coordinates outside of the display yield false.
func (fb *Framebuffer) At(x, y int) bool {
	if x < 0 || x >= DisplayWidth || y < 0 || y >= DisplayHeight {
		return false
	}
	return fb[y*DisplayWidth+x]
}

// Flip toggles the pixel at x, y and returns true if it was lit before.
// Coordinates outside of the display are ignored.
func (fb *Framebuffer) Flip(x, y int) bool {
	if x < 0 || x >= DisplayWidth || y < 0 || y >= DisplayHeight {
		return false
	}
	i := y*DisplayWidth + x
	was := fb[i]
	fb[i] = !was
	return was
}

// Clear turns all pixels off.
func (fb *Framebuffer) Clear() {
	*fb = Framebuffer{}
}

// Lit returns the number of pixels currently turned on.
func (fb *Framebuffer) Lit() int {
	var n int
	for _, v := range fb {
		if v {
			n++
		}
	}
	return n
}
