// Package raster draws alpha-blended primitives into a framebuffer.
//
// All primitives take integer pixel coordinates and clip silently: any part
// of a shape outside the target is dropped. Degenerate input (zero-length
// thin lines, non-positive radii, polygons with fewer than three vertices)
// draws nothing.
//
// Colors are composited with fractal.Blend unless noted otherwise, so
// translucent overlays accumulate over the kernel output.
package raster

import (
	"github.com/gogpu/fractal"
)

// Target is a surface the primitives can draw on.
// *fractal.Framebuffer implements it.
type Target interface {
	Width() int
	Height() int

	// Set overwrites a pixel.
	Set(x, y int, c fractal.Color)

	// Blend composites c over a pixel.
	Blend(x, y int, c fractal.Color)

	// BlendWeighted composites c with its alpha scaled by weight in [0, 255].
	BlendWeighted(x, y int, c fractal.Color, weight int)
}

var _ Target = (*fractal.Framebuffer)(nil)

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
