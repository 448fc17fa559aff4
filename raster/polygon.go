package raster

import (
	"image"
	"slices"

	"github.com/gogpu/fractal"
)

// subpixel is the fixed-point scale of scanline crossings.
const subpixel = 256

// FilledPolygon fills a simple polygon (convex or concave) using the
// even-odd rule.
//
// Each scanline between the lowest and highest vertex collects the crossings
// of every non-horizontal edge in 24.8 fixed point, sorts them and fills the
// spans between alternating pairs. Pixel bounds are closed: a pixel whose
// center lies exactly on an edge is filled, so the four corners of an axis
// aligned rectangle produce exactly the pixels [x0, x1] × [y0, y1].
func FilledPolygon(t Target, pts []image.Point, c fractal.Color) {
	if len(pts) < 3 {
		return
	}

	miny, maxy := pts[0].Y, pts[0].Y
	minx, maxx := pts[0].X, pts[0].X
	for _, p := range pts[1:] {
		miny = min(miny, p.Y)
		maxy = max(maxy, p.Y)
		minx = min(minx, p.X)
		maxx = max(maxx, p.X)
	}

	// A flat polygon has no crossing edges; its closed extent is one row.
	if miny == maxy {
		HLine(t, miny, minx, maxx, c)
		return
	}

	// Rows outside the target produce no pixels.
	top := max(miny, 0)
	bottom := min(maxy, t.Height()-1)

	crossings := make([]int, 0, len(pts))
	n := len(pts)

	for y := top; y <= bottom; y++ {
		crossings = crossings[:0]

		for i := range n {
			a, b := pts[i], pts[(i+1)%n]
			if a.Y == b.Y {
				continue
			}
			if a.Y > b.Y {
				a, b = b, a
			}

			// Edges are half-open in y except on the last row, which
			// closes the bottom of the polygon.
			if y < a.Y || y > b.Y || (y == b.Y && b.Y != maxy) {
				continue
			}

			ix := ((y-a.Y)*(b.X-a.X)*subpixel)/(b.Y-a.Y) + a.X*subpixel
			crossings = append(crossings, ix)
		}

		slices.Sort(crossings)

		for i := 0; i+1 < len(crossings); i += 2 {
			xStart := (crossings[i] + subpixel - 1) >> 8
			xEnd := crossings[i+1] >> 8
			if xStart <= xEnd {
				HLine(t, y, xStart, xEnd, c)
			}
		}
	}
}

// Rect overwrites the w×h block whose top-left corner is (x, y).
// Unlike the other primitives it does not blend.
func Rect(t Target, x, y, w, h int, c fractal.Color) {
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+w, t.Width()), min(y+h, t.Height())

	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			t.Set(px, py, c)
		}
	}
}
