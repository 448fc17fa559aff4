package raster

import "github.com/gogpu/fractal"

// Line draws a one pixel wide line with Bresenham's algorithm.
// Both endpoints are drawn.
func Line(t Target, x0, y0, x1, y1 int, c fractal.Color) {
	if x0 == x1 && y0 == y1 {
		return
	}

	steep := false
	if abs(x0-x1) < abs(y0-y1) {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
		steep = true
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	dx := x1 - x0
	derror2 := abs(y1-y0) * 2
	error2 := 0
	ystep := -1
	if y1 > y0 {
		ystep = 1
	}

	y := y0
	for x := x0; x <= x1; x++ {
		if steep {
			t.Blend(y, x, c)
		} else {
			t.Blend(x, y, c)
		}

		error2 += derror2
		if error2 > dx {
			y += ystep
			error2 -= dx * 2
		}
	}
}

// HLine draws the horizontal run [x0, x1] on row y, endpoints in any order.
func HLine(t Target, y, x0, x1 int, c fractal.Color) {
	if y < 0 || y >= t.Height() {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	x0 = max(0, x0)
	x1 = min(t.Width()-1, x1)

	for x := x0; x <= x1; x++ {
		t.Blend(x, y, c)
	}
}

// VLine draws the vertical run [y0, y1] on column x, endpoints in any order.
func VLine(t Target, x, y0, y1 int, c fractal.Color) {
	if x < 0 || x >= t.Width() {
		return
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	y0 = max(0, y0)
	y1 = min(t.Height()-1, y1)

	for y := y0; y <= y1; y++ {
		t.Blend(x, y, c)
	}
}

// AALine draws an anti-aliased line with Wu's algorithm.
//
// A 16-bit error accumulator tracks the fractional position on the minor
// axis; each major-axis step writes two pixels whose weights sum to 255.
// Horizontal, vertical and 45 degree lines take direct paths and are drawn
// completely. For other slopes the last pixel is only drawn when endpoint
// is true, which lets polylines avoid blending shared vertices twice.
func AALine(t Target, x0, y0, x1, y1 int, c fractal.Color, endpoint bool) {
	if x0 == x1 && y0 == y1 {
		return
	}

	if y0 > y1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	t.Blend(x0, y0, c)

	xdir := 1
	dx := x1 - x0
	if dx < 0 {
		xdir = -1
		dx = -dx
	}
	dy := y1 - y0

	switch {
	case dy == 0:
		for range dx {
			x0 += xdir
			t.Blend(x0, y0, c)
		}
		return
	case dx == 0:
		for range dy {
			y0++
			t.Blend(x0, y0, c)
		}
		return
	case dx == dy:
		for range dy {
			x0 += xdir
			y0++
			t.Blend(x0, y0, c)
		}
		return
	}

	var errAcc uint16
	if dy > dx {
		errAdj := uint16((uint64(dx) << 16) / uint64(dy))
		for range dy - 1 {
			prev := errAcc
			errAcc += errAdj
			if errAcc <= prev {
				x0 += xdir
			}
			y0++

			w := int(errAcc >> 8)
			t.BlendWeighted(x0, y0, c, 255-w)
			t.BlendWeighted(x0+xdir, y0, c, w)
		}
	} else {
		errAdj := uint16((uint64(dy) << 16) / uint64(dx))
		for range dx - 1 {
			prev := errAcc
			errAcc += errAdj
			if errAcc <= prev {
				y0++
			}
			x0 += xdir

			w := int(errAcc >> 8)
			t.BlendWeighted(x0, y0, c, 255-w)
			t.BlendWeighted(x0, y0+1, c, w)
		}
	}

	if endpoint {
		t.Blend(x1, y1, c)
	}
}
