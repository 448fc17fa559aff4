package raster

import (
	"math"

	"github.com/gogpu/fractal"
)

// Circle draws a one pixel circle outline with the midpoint algorithm.
func Circle(t Target, cx, cy, radius int, c fractal.Color) {
	if radius <= 0 {
		return
	}

	x, y := 0, radius
	d := 3 - 2*radius

	for y >= x {
		t.Blend(cx+x, cy+y, c)
		t.Blend(cx-x, cy+y, c)
		t.Blend(cx+x, cy-y, c)
		t.Blend(cx-x, cy-y, c)
		t.Blend(cx+y, cy+x, c)
		t.Blend(cx-y, cy+x, c)
		t.Blend(cx+y, cy-x, c)
		t.Blend(cx-y, cy-x, c)

		x++
		if d > 0 {
			y--
			d += 4*(x-y) + 10
		} else {
			d += 4*x + 6
		}
	}
}

// FilledCircle fills a disk with the midpoint algorithm, one horizontal run
// per octant row.
func FilledCircle(t Target, cx, cy, radius int, c fractal.Color) {
	if radius <= 0 {
		return
	}

	x, y := 0, radius
	d := 3 - 2*radius

	for y >= x {
		t.Set(cx+x, cy+y, c)
		t.Set(cx-x, cy+y, c)
		t.Set(cx+x, cy-y, c)
		t.Set(cx-x, cy-y, c)
		t.Set(cx+y, cy+x, c)
		t.Set(cx-y, cy+x, c)
		t.Set(cx+y, cy-x, c)
		t.Set(cx-y, cy-x, c)

		HLine(t, cy+y, cx-x, cx+x, c)
		HLine(t, cy-y, cx-x, cx+x, c)
		HLine(t, cy+x, cx-y, cx+y, c)
		HLine(t, cy-x, cx-y, cx+y, c)

		x++
		if d > 0 {
			y--
			d += 4*(x-y) + 10
		} else {
			d += 4*x + 6
		}
	}
}

// plot4 blends c at the four mirror images of (x, y) around the center.
// Points on an axis are only plotted twice.
func plot4(t Target, cx, cy, x, y int, opacity float32, c fractal.Color) {
	if opacity <= 0 {
		return
	}
	w := int(uint8(opacity * 255))

	switch {
	case x > 0 && y > 0:
		t.BlendWeighted(cx+x, cy+y, c, w)
		t.BlendWeighted(cx+x, cy-y, c, w)
		t.BlendWeighted(cx-x, cy+y, c, w)
		t.BlendWeighted(cx-x, cy-y, c, w)
	case x == 0:
		t.BlendWeighted(cx, cy+y, c, w)
		t.BlendWeighted(cx, cy-y, c, w)
	case y == 0:
		t.BlendWeighted(cx+x, cy, c, w)
		t.BlendWeighted(cx-x, cy, c, w)
	}
}

// AACircle draws an anti-aliased circle outline.
//
// Both octant halves are walked up to r/√2; for each step the exact
// boundary sqrt(r²-i²) is split between the two straddling pixels by its
// fractional part.
func AACircle(t Target, cx, cy int, radius float32, c fractal.Color) {
	if radius <= 0 {
		return
	}

	rsq := radius * radius
	ffd := int(math.Round(float64(radius / math.Sqrt2)))

	for xi := 0; xi <= ffd; xi++ {
		yj := float32(math.Sqrt(float64(rsq - float32(xi*xi))))
		flr := float32(math.Floor(float64(yj)))
		frc := yj - flr

		plot4(t, cx, cy, xi, int(flr), 1-frc, c)
		plot4(t, cx, cy, xi, int(flr)+1, frc, c)
	}

	for yi := 0; yi <= ffd; yi++ {
		xj := float32(math.Sqrt(float64(rsq - float32(yi*yi))))
		flr := float32(math.Floor(float64(xj)))
		frc := xj - flr

		plot4(t, cx, cy, int(flr), yi, 1-frc, c)
		plot4(t, cx, cy, int(flr)+1, yi, frc, c)
	}
}

// FilledAACircle fills a disk and softens its boundary.
//
// Rows and columns up to the 45 degree point are filled solid out to the
// floor of the exact boundary. The pixel just past the boundary is blended
// with the fractional part of the boundary as its weight. The interior
// boundary pixel receives no complementary (1 - fraction) weight; it is part
// of the solid run.
func FilledAACircle(t Target, cx, cy int, radius float32, c fractal.Color) {
	if radius <= 0 {
		return
	}

	r2 := radius * radius
	quarter := int(math.Round(float64(r2 / float32(math.Sqrt(float64(2*r2))))))

	for x := 0; x <= quarter; x++ {
		y := radius * float32(math.Sqrt(float64(1-float32(x*x)/r2)))
		yFloor := float32(math.Floor(float64(y)))
		w := edgeWeight(y - yFloor)
		yf := int(yFloor)

		for fx := -x; fx <= x; fx++ {
			t.Blend(cx+fx, cy+yf, c)
			t.Blend(cx+fx, cy-yf, c)
		}

		t.BlendWeighted(cx+x, cy+yf+1, c, w)
		t.BlendWeighted(cx-x, cy+yf+1, c, w)
		t.BlendWeighted(cx+x, cy-yf-1, c, w)
		t.BlendWeighted(cx-x, cy-yf-1, c, w)
	}

	for y := 0; y <= quarter; y++ {
		x := radius * float32(math.Sqrt(float64(1-float32(y*y)/r2)))
		xFloor := float32(math.Floor(float64(x)))
		w := edgeWeight(x - xFloor)
		xf := int(xFloor)

		for fx := -xf; fx <= xf; fx++ {
			t.Blend(cx+fx, cy+y, c)
			t.Blend(cx+fx, cy-y, c)
		}

		t.BlendWeighted(cx+xf+1, cy+y, c, w)
		t.BlendWeighted(cx-xf-1, cy+y, c, w)
		t.BlendWeighted(cx+xf+1, cy-y, c, w)
		t.BlendWeighted(cx-xf-1, cy-y, c, w)
	}
}

// edgeWeight converts a boundary fraction in [0, 1) to a coverage weight.
func edgeWeight(frac float32) int {
	return int(uint8(frac * 255))
}

// FilledEllipse fills an axis-aligned ellipse with the midpoint algorithm.
func FilledEllipse(t Target, cx, cy, rx, ry int, c fractal.Color) {
	if rx <= 0 || ry <= 0 {
		return
	}

	rx2 := rx * rx
	ry2 := ry * ry
	tworx2 := 2 * rx2
	twory2 := 2 * ry2

	x, y := 0, ry
	px, py := 0, tworx2*y

	// Region 1: slope above -1.
	p := ry2 - rx2*ry + rx2/4
	for px < py {
		HLine(t, cy+y, cx-x, cx+x, c)
		HLine(t, cy-y, cx-x, cx+x, c)

		x++
		px += twory2
		if p < 0 {
			p += ry2 + px
		} else {
			y--
			py -= tworx2
			p += ry2 + px - py
		}
	}

	// Region 2.
	fx, fy := float64(x)+0.5, float64(y-1)
	p = int(float64(ry2)*fx*fx + float64(rx2)*fy*fy - float64(rx2*ry2))
	for y >= 0 {
		HLine(t, cy+y, cx-x, cx+x, c)
		HLine(t, cy-y, cx-x, cx+x, c)

		y--
		py -= tworx2
		if p > 0 {
			p += rx2 - py
		} else {
			x++
			px += twory2
			p += rx2 - py + px
		}
	}
}
