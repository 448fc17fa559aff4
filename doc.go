// Package fractal renders escape-time fractals into a CPU-owned framebuffer
// and hosts the rendering code as a hot-swappable module.
//
// # Overview
//
// The root package holds the types every other package shares: the
// Framebuffer the kernel and rasterizer draw into, the 8-bit Color with its
// blending rule, and the package-wide logger.
//
// # Architecture
//
//   - palette: iteration count to color mapping (seven palettes)
//   - kernel: escape-time iteration, Julia inset, tile scheduler
//   - raster: alpha-blended lines, circles, ellipses and polygons
//   - reload: plugin host that swaps the module while keeping its state
//   - app: the module itself (init, update, render, cleanup, on-reload)
//   - present: texture upload and screenshots
//   - gpu: alternate kernel backend contract
//
// # Coordinate System
//
// Pixel origin (0,0) is the top-left corner, X grows right, Y grows down.
// The complex plane is mapped with c = center + (pixel - size/2) * scale.
//
// # Quick Start
//
//	fb := fractal.NewFramebuffer(800, 600)
//	sched := kernel.NewScheduler(0)
//	defer sched.Close()
//	set := palette.NewSet()
//	sched.Render(fb, kernel.View{CenterX: -0.5, Scale: 0.004}, 256, set.Get(palette.Blue))
//	_ = present.Capture("mandelbrot.png", fb)
package fractal

// Version information
const (
	// Version is the current version of the module
	Version = "0.3.0"
)
