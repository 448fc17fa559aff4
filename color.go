package fractal

// Color is an 8-bit straight-alpha RGBA color, the cell type of a Framebuffer.
type Color struct {
	R, G, B, A uint8
}

// Common colors.
var (
	Black       = Color{0, 0, 0, 255}
	White       = Color{255, 255, 255, 255}
	Transparent = Color{0, 0, 0, 0}
)

// RGB creates an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// RGBA creates a color with the given alpha.
func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Opaque reports whether the color fully covers what is under it.
func (c Color) Opaque() bool { return c.A == 255 }

// Invisible reports whether the color has no effect when blended.
func (c Color) Invisible() bool { return c.A == 0 }

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a uint8) Color {
	c.A = a
	return c
}

// Blend composites src over dst.
//
// An opaque source replaces the destination, a fully transparent source
// leaves it unchanged. Anything in between is a linear interpolation by the
// source alpha; the destination alpha accumulates as a + dstA*(1-a).
func Blend(dst, src Color) Color {
	if src.Opaque() {
		return src
	}
	if src.Invisible() {
		return dst
	}

	a := float32(src.A)
	inv := float32(255 - src.A)
	const k = 1.0 / 255.0

	return Color{
		R: uint8((float32(src.R)*a + float32(dst.R)*inv) * k),
		G: uint8((float32(src.G)*a + float32(dst.G)*inv) * k),
		B: uint8((float32(src.B)*a + float32(dst.B)*inv) * k),
		A: uint8(a + float32(dst.A)*inv*k),
	}
}

// Weighted scales the alpha of c by a coverage weight in [0, 255].
// The resulting alpha saturates at 255.
func Weighted(c Color, weight int) Color {
	if weight <= 0 {
		c.A = 0
		return c
	}
	a := float32(c.A) * float32(weight) / 255
	if a > 255 {
		a = 255
	}
	c.A = uint8(a)
	return c
}

// Lerp interpolates each channel between a and b. t is clamped to [0, 1].
func Lerp(a, b Color, t float32) Color {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	mix := func(x, y uint8) uint8 {
		return uint8(float32(x) + (float32(y)-float32(x))*t)
	}
	return Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
