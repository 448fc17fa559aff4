package raster

import (
	"math"

	"github.com/gogpu/fractal"
)

// Vignette endpoint colors.
var (
	VignetteInner = fractal.RGB(98, 114, 164)
	VignetteOuter = fractal.RGB(40, 42, 54)
)

// Vignette overwrites the whole target with a radial gradient from
// VignetteInner at the center to VignetteOuter at the corners. Gradient
// noise of amplitude 10 is added to every channel to hide banding.
func Vignette(t Target) {
	w, h := t.Width(), t.Height()
	centerX := float32(w) * 0.5
	centerY := float32(h) * 0.5
	maxDistSq := centerX*centerX + centerY*centerY
	if maxDistSq == 0 {
		return
	}

	lerp := func(a, b uint8, k float32) float32 {
		return float32(a) + (float32(b)-float32(a))*k
	}

	for y := range h {
		for x := range w {
			dx := float32(x) - centerX
			dy := float32(y) - centerY
			k := clamp32((dx*dx+dy*dy)/maxDistSq, 0, 1)

			noise := GradientNoise(float32(x), float32(y)) * 10

			r := clamp32(lerp(VignetteInner.R, VignetteOuter.R, k)+noise, 0, 255)
			g := clamp32(lerp(VignetteInner.G, VignetteOuter.G, k)+noise, 0, 255)
			b := clamp32(lerp(VignetteInner.B, VignetteOuter.B, k)+noise, 0, 255)

			t.Set(x, y, fractal.RGB(uint8(r), uint8(g), uint8(b)))
		}
	}
}

// GradientNoise is interleaved gradient noise: a cheap per-pixel hash in
// [0, 1) with no visible low-frequency pattern.
func GradientNoise(x, y float32) float32 {
	const (
		magicX = 0.06711056
		magicY = 0.00583715
		magicZ = 52.9829189
	)

	dot := x*magicX + y*magicY
	fract := dot - float32(math.Floor(float64(dot)))
	v := magicZ * fract
	return v - float32(math.Floor(float64(v)))
}
