package kernel

import (
	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/internal/parallel"
	"github.com/gogpu/fractal/palette"
	"github.com/gogpu/fractal/raster"
)

// JuliaBorderWidth is the thickness of the frame drawn around a Julia inset.
const JuliaBorderWidth = 10

// JuliaBorderColor is the color of the inset frame.
var JuliaBorderColor = fractal.RGB(27, 27, 28)

// Julia describes a Julia set drawn into a rectangle of the screen.
//
// C is held fixed while the starting z varies per pixel over a window 4
// units wide, centered on the origin.
type Julia struct {
	CRe, CIm float64

	// X, Y is the top-left corner of the inset; Width and Height its size.
	X, Y          int
	Width, Height int

	MaxIter int
	Palette palette.Palette
}

func (j Julia) valid() bool {
	return j.Width > 0 && j.Height > 0 && j.Palette != nil
}

// scale is the complex distance between adjacent inset pixels.
func (j Julia) scale() float64 {
	return 4.0 / float64(j.Width)
}

// RenderJulia draws the inset and its frame on the calling goroutine.
func RenderJulia(fb *fractal.Framebuffer, j Julia) {
	if !j.valid() {
		return
	}
	renderJuliaRegion(fb, j, parallel.Region{EndX: j.Width, EndY: j.Height})
	drawJuliaBorder(fb, j)
}

// renderJuliaRegion renders r, given in inset-local pixels.
func renderJuliaRegion(fb *fractal.Framebuffer, j Julia, r parallel.Region) {
	scale := j.scale()
	for ly := r.StartY; ly < r.EndY; ly++ {
		zIm := (float64(ly) - float64(j.Height)/2) * scale
		for lx := r.StartX; lx < r.EndX; lx++ {
			zRe := (float64(lx) - float64(j.Width)/2) * scale
			iter := EscapeFrom(zRe, zIm, j.CRe, j.CIm, j.MaxIter)
			fb.Set(j.X+lx, j.Y+ly, palette.Map(j.Palette, iter, j.MaxIter))
		}
	}
}

func drawJuliaBorder(fb *fractal.Framebuffer, j Julia) {
	lw := JuliaBorderWidth
	x, y, w, h := j.X, j.Y, j.Width, j.Height

	raster.ThickLine(fb, x-lw/2, y, x+w+lw/2, y, lw, JuliaBorderColor)
	raster.ThickLine(fb, x-lw/2, y+h, x+w+lw/2, y+h, lw, JuliaBorderColor)
	raster.ThickLine(fb, x, y, x, y+h, lw, JuliaBorderColor)
	raster.ThickLine(fb, x+w+lw/4, y, x+w+lw/4, y+h, lw, JuliaBorderColor)
}
