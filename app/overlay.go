package app

import (
	"math"

	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/kernel"
	"github.com/gogpu/fractal/raster"
)

// OrbitLength is the number of iterates the trajectory overlay follows.
const OrbitLength = 10

// orbitColors cycle over the trajectory segments, red through violet.
var orbitColors = [OrbitLength]fractal.Color{
	fractal.RGB(255, 0, 0),
	fractal.RGB(255, 128, 0),
	fractal.RGB(255, 255, 0),
	fractal.RGB(128, 255, 0),
	fractal.RGB(0, 255, 0),
	fractal.RGB(0, 255, 128),
	fractal.RGB(0, 255, 255),
	fractal.RGB(0, 128, 255),
	fractal.RGB(0, 0, 255),
	fractal.RGB(128, 0, 255),
}

var (
	axisColor    = fractal.White
	cursorColor  = fractal.RGB(255, 255, 0)
	escapeColor  = fractal.RGB(255, 0, 0)
	orbitEndMark = fractal.White
)

// gridSpacing returns the distance between grid lines and their color for
// a view scale.
func gridSpacing(scale float64) (float64, fractal.Color) {
	c := fractal.RGBA(255, 255, 255, 64)
	switch {
	case scale < 0.001:
		return 0.01, c.WithAlpha(32)
	case scale < 0.01:
		return 0.05, c
	case scale < 0.1:
		return 0.1, c
	default:
		return 0.2, c
	}
}

// drawComplexPlane draws the axes, a grid over [-2, 2] and the escape
// radius circle.
func drawComplexPlane(t raster.Target, v kernel.View) {
	w, h := t.Width(), t.Height()
	ox, oy := v.ToScreen(0, 0, w, h)

	raster.Line(t, 0, oy, w, oy, axisColor)
	raster.Line(t, ox, 0, ox, h, axisColor)

	spacing, gc := gridSpacing(v.Scale)
	steps := int(math.Round(4 / spacing))
	for i := 0; i <= steps; i++ {
		val := -2 + float64(i)*spacing
		if math.Abs(val) < 1e-4 {
			continue
		}
		x := kernel.ComplexToScreen(val, v.CenterX, w, v.Scale)
		y := kernel.ComplexToScreen(val, v.CenterY, h, v.Scale)
		if x >= -100 && x <= w+100 {
			raster.Line(t, x, 0, x, h, gc)
		}
		if y >= -100 && y <= h+100 {
			raster.Line(t, 0, y, w, y, gc)
		}
	}

	r := int(math.Sqrt(kernel.EscapeRadiusSq) / v.Scale)
	if r < 2*w {
		raster.AACircle(t, ox, oy, float32(r), axisColor)
	}
}

// drawOrbit draws the first iterates of z = z² + c for c = (cRe, cIm):
// a marker on c, one segment per iteration, and a cross where the orbit
// leaves the escape radius.
func drawOrbit(t raster.Target, v kernel.View, cRe, cIm float64) {
	w, h := t.Width(), t.Height()
	onScreen := func(x, y int) bool { return x >= 0 && x < w && y >= 0 && y < h }

	cx, cy := v.ToScreen(cRe, cIm, w, h)
	raster.FilledAACircle(t, cx, cy, 6, cursorColor)
	raster.Line(t, cx-8, cy, cx+8, cy, cursorColor)
	raster.Line(t, cx, cy-8, cx, cy+8, cursorColor)

	points, escaped := kernel.Orbit(complex(cRe, cIm), OrbitLength)

	zx, zy := v.ToScreen(0, 0, w, h)
	raster.FilledAACircle(t, zx, zy, 4, orbitEndMark)

	for i := 0; i+1 < len(points); i++ {
		sx, sy := v.ToScreen(real(points[i]), imag(points[i]), w, h)
		ex, ey := v.ToScreen(real(points[i+1]), imag(points[i+1]), w, h)
		c := orbitColors[i%len(orbitColors)]

		if abs(sx-ex) < 2*w && abs(sy-ey) < 2*h {
			raster.ThickAALine(t, sx, sy, ex, ey, 2, c)
		}
		if onScreen(sx, sy) {
			raster.FilledAACircle(t, sx, sy, 3, c)
		}
	}

	last := points[len(points)-1]
	lx, ly := v.ToScreen(real(last), imag(last), w, h)
	if escaped && onScreen(lx, ly) {
		raster.FilledAACircle(t, lx, ly, 8, escapeColor)
		raster.Line(t, lx-5, ly-5, lx+5, ly+5, escapeColor)
		raster.Line(t, lx-5, ly+5, lx+5, ly-5, escapeColor)
	}
	if onScreen(lx, ly) {
		raster.FilledAACircle(t, lx, ly, 5, orbitEndMark)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
