package raster

import (
	"image"
	"math"

	"github.com/gogpu/fractal"
)

// ThickLine draws a line of the given width as a filled quadrilateral.
//
// The half-width is shrunk by an angle dependent amount
// (0.1 + 0.9*|cos 2θ|) so diagonal lines do not look heavier than axis
// aligned ones. A zero-length segment draws a square cap of side width.
// A width of 1 falls back to Line; widths below 1 draw nothing.
func ThickLine(t Target, x1, y1, x2, y2, width int, c fractal.Color) {
	if width < 1 {
		return
	}
	if x1 == x2 && y1 == y2 {
		squareCap(t, x1, y1, width, c)
		return
	}
	if width == 1 {
		Line(t, x1, y1, x2, y2, c)
		return
	}

	dx := float64(x2 - x1)
	dy := float64(y2 - y1)
	l := math.Sqrt(dx*dx + dy*dy)
	ang := math.Atan2(dx, dy)
	adj := 0.1 + 0.9*math.Abs(math.Cos(2*ang))
	wl2 := (float64(width) - adj) / (2 * l)
	nx := dx * wl2
	ny := dy * wl2

	fx1, fy1 := float64(x1), float64(y1)
	fx2, fy2 := float64(x2), float64(y2)

	FilledPolygon(t, []image.Point{
		{X: int(fx1 + ny), Y: int(fy1 - nx)},
		{X: int(fx1 - ny), Y: int(fy1 + nx)},
		{X: int(fx2 - ny), Y: int(fy2 + nx)},
		{X: int(fx2 + ny), Y: int(fy2 - nx)},
	}, c)
}

// ThickAALine draws a thick line whose long edges are anti-aliased.
//
// The body is a quadrilateral offset by width/2 perpendicular to the
// segment; Wu lines are then drawn along its two long edges.
func ThickAALine(t Target, x1, y1, x2, y2, width int, c fractal.Color) {
	if width < 1 {
		return
	}
	if width == 1 {
		AALine(t, x1, y1, x2, y2, c, true)
		return
	}
	if x1 == x2 && y1 == y2 {
		squareCap(t, x1, y1, width, c)
		return
	}

	dx := float64(x2 - x1)
	dy := float64(y2 - y1)
	length := math.Sqrt(dx*dx + dy*dy)

	hw := float64(width) / 2
	ox := -dy / length * hw
	oy := dx / length * hw

	fx1, fy1 := float64(x1), float64(y1)
	fx2, fy2 := float64(x2), float64(y2)

	quad := []image.Point{
		{X: int(fx1 + ox), Y: int(fy1 + oy)}, // top start
		{X: int(fx1 - ox), Y: int(fy1 - oy)}, // bottom start
		{X: int(fx2 - ox), Y: int(fy2 - oy)}, // bottom end
		{X: int(fx2 + ox), Y: int(fy2 + oy)}, // top end
	}
	FilledPolygon(t, quad, c)

	AALine(t, quad[0].X, quad[0].Y, quad[3].X, quad[3].Y, c, true)
	AALine(t, quad[1].X, quad[1].Y, quad[2].X, quad[2].Y, c, true)
}

func squareCap(t Target, x, y, width int, c fractal.Color) {
	r := width / 2
	FilledPolygon(t, []image.Point{
		{X: x - r, Y: y - r},
		{X: x + r, Y: y - r},
		{X: x + r, Y: y + r},
		{X: x - r, Y: y + r},
	}, c)
}
