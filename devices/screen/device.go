// Package screen renders the 64x32 display through OpenGL.
package screen

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"

	"github.com/hexaflex/chip8/arch"
	"github.com/hexaflex/chip8/devices"
)

// Default pixel colors in RGBA.
var (
	DefaultForeground = [4]float32{0.80, 0.90, 0.75, 1}
	DefaultBackground = [4]float32{0.08, 0.10, 0.08, 1}
)

// Device renders the machine framebuffer as a full window texture.
type Device struct {
	machine     devices.Machine
	fb          arch.Framebuffer
	pixels      [arch.DisplayWidth * arch.DisplayHeight]byte
	foreground  [4]float32
	background  [4]float32
	shader      uint32
	vao         uint32
	vbo         uint32
	tex         uint32
	initialized bool
}

var _ devices.Device = &Device{}

// New creates a new device with the default colors.
func New() *Device {
	return &Device{
		foreground: DefaultForeground,
		background: DefaultBackground,
	}
}

// SetColors sets the colors used for lit and unlit pixels.
func (d *Device) SetColors(foreground, background [4]float32) {
	d.foreground = foreground
	d.background = background

	if d.initialized {
		d.uploadColors()
	}
}

// ID returns the device identifier.
func (d *Device) ID() devices.ID {
	return devices.NewID(devices.Manufacturer, devices.SerialScreen)
}

// Startup initializes GL resources. It requires a current GL context.
func (d *Device) Startup(m devices.Machine) error {
	var err error

	d.shader, err = compileProgram(vertex, fragment)
	if err != nil {
		return errors.Wrapf(err, "failed to compile shaders")
	}

	gl.UseProgram(d.shader)

	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)

	gl.GenBuffers(1, &d.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)

	vertAttrib := uint32(gl.GetAttribLocation(d.shader, glStr("vertPos")))
	texCoordAttrib := uint32(gl.GetAttribLocation(d.shader, glStr("vertTexCoord")))

	gl.EnableVertexAttribArray(vertAttrib)
	gl.VertexAttribPointer(vertAttrib, 3, gl.FLOAT, false, 5*4, gl.PtrOffset(0))

	gl.EnableVertexAttribArray(texCoordAttrib)
	gl.VertexAttribPointer(texCoordAttrib, 2, gl.FLOAT, false, 5*4, gl.PtrOffset(3*4))

	gl.Uniform1i(gl.GetUniformLocation(d.shader, glStr("display")), 0)

	d.tex = makeTexture()
	d.machine = m
	d.initialized = true
	d.uploadColors()
	d.refresh()
	return nil
}

// Shutdown clears up device resources.
func (d *Device) Shutdown() error {
	if !d.initialized {
		return nil
	}

	d.initialized = false
	d.machine = nil
	gl.DeleteTextures(1, &d.tex)
	gl.DeleteBuffers(1, &d.vbo)
	gl.DeleteVertexArrays(1, &d.vao)
	gl.DeleteProgram(d.shader)
	return nil
}

// Draw renders the display contents, uploading them first if they
// changed since the last frame.
func (d *Device) Draw() {
	if !d.initialized {
		return
	}

	if d.machine.Framebuffer(&d.fb) {
		d.refresh()
	}

	gl.UseProgram(d.shader)
	gl.BindVertexArray(d.vao)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, d.tex)

	gl.DrawArrays(gl.TRIANGLES, 0, 6)
}

// refresh uploads the cached framebuffer to the display texture.
func (d *Device) refresh() {
	expand(d.pixels[:], &d.fb)
	uploadTexture(d.tex, gl.R8, arch.DisplayWidth, arch.DisplayHeight, gl.RED, gl.UNSIGNED_BYTE, d.pixels[:])
}

func (d *Device) uploadColors() {
	gl.UseProgram(d.shader)
	gl.Uniform4fv(gl.GetUniformLocation(d.shader, glStr("foreground")), 1, &d.foreground[0])
	gl.Uniform4fv(gl.GetUniformLocation(d.shader, glStr("background")), 1, &d.background[0])
}

// expand converts fb into one byte per pixel: 0xff for lit, 0 for unlit.
func expand(dst []byte, fb *arch.Framebuffer) {
	for i, lit := range fb {
		if lit {
			dst[i] = 0xff
		} else {
			dst[i] = 0
		}
	}
}

var quadVertices = []float32{
	//  X, Y, Z, U, V
	-1.0, -1.0, 0.0, 0.0, 1.0,
	1.0, -1.0, 0.0, 1.0, 1.0,
	-1.0, 1.0, 0.0, 0.0, 0.0,
	1.0, -1.0, 0.0, 1.0, 1.0,
	1.0, 1.0, 0.0, 1.0, 0.0,
	-1.0, 1.0, 0.0, 0.0, 0.0,
}
