package fractal

import (
	"image"
	"image/color"
)

// Framebuffer is a CPU-owned width×height grid of RGBA cells.
//
// Pixels are stored row-major, 4 bytes per pixel (R, G, B, A), which is the
// layout texture uploads expect. Every write method clips: coordinates
// outside [0, width) × [0, height) are silently ignored.
//
// A Framebuffer is not safe for concurrent use in general. Concurrent
// writers are fine as long as they touch disjoint pixels, which is how the
// tile scheduler uses it.
type Framebuffer struct {
	width  int
	height int
	data   []uint8
}

// NewFramebuffer creates a framebuffer with the given dimensions.
// Non-positive dimensions produce an empty buffer on which every write is a no-op.
func NewFramebuffer(width, height int) *Framebuffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Framebuffer{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the width of the framebuffer.
func (f *Framebuffer) Width() int {
	return f.width
}

// Height returns the height of the framebuffer.
func (f *Framebuffer) Height() int {
	return f.height
}

// Data returns the raw pixel data (RGBA format).
func (f *Framebuffer) Data() []uint8 {
	return f.data
}

// Stride returns the number of bytes per row.
func (f *Framebuffer) Stride() int {
	return f.width * 4
}

// InBounds reports whether (x, y) addresses a pixel of the buffer.
func (f *Framebuffer) InBounds(x, y int) bool {
	return x >= 0 && x < f.width && y >= 0 && y < f.height
}

// Set overwrites a single pixel.
func (f *Framebuffer) Set(x, y int, c Color) {
	if !f.InBounds(x, y) {
		return
	}
	i := (y*f.width + x) * 4
	f.data[i+0] = c.R
	f.data[i+1] = c.G
	f.data[i+2] = c.B
	f.data[i+3] = c.A
}

// Pixel returns the color of a single pixel, or Transparent out of bounds.
func (f *Framebuffer) Pixel(x, y int) Color {
	if !f.InBounds(x, y) {
		return Transparent
	}
	i := (y*f.width + x) * 4
	return Color{R: f.data[i+0], G: f.data[i+1], B: f.data[i+2], A: f.data[i+3]}
}

// Blend composites c over the pixel at (x, y) using Blend.
func (f *Framebuffer) Blend(x, y int, c Color) {
	if c.Opaque() {
		f.Set(x, y, c)
		return
	}
	if !f.InBounds(x, y) {
		return
	}
	f.Set(x, y, Blend(f.Pixel(x, y), c))
}

// BlendWeighted blends c with its alpha scaled by a coverage weight in [0, 255].
func (f *Framebuffer) BlendWeighted(x, y int, c Color, weight int) {
	f.Blend(x, y, Weighted(c, weight))
}

// Clear fills the entire framebuffer with a color.
func (f *Framebuffer) Clear(c Color) {
	for i := 0; i < len(f.data); i += 4 {
		f.data[i+0] = c.R
		f.data[i+1] = c.G
		f.data[i+2] = c.B
		f.data[i+3] = c.A
	}
}

// Resize reallocates the pixel storage for new dimensions.
// The contents are discarded. Resizing to the current size is a no-op.
func (f *Framebuffer) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if width == f.width && height == f.height {
		return
	}
	f.width = width
	f.height = height
	f.data = make([]uint8, width*height*4)
}

// ToImage copies the framebuffer into an image.NRGBA. Pixels are stored
// with straight alpha, so the copy is byte for byte.
func (f *Framebuffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.width, f.height))
	copy(img.Pix, f.data)
	return img
}

// At implements the image.Image interface.
func (f *Framebuffer) At(x, y int) color.Color {
	c := f.Pixel(x, y)
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Bounds implements the image.Image interface.
func (f *Framebuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.width, f.height)
}

// ColorModel implements the image.Image interface.
func (f *Framebuffer) ColorModel() color.Model {
	return color.NRGBAModel
}
