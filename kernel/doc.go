// Package kernel computes escape-time fractals into a framebuffer.
//
// The Mandelbrot kernel maps every pixel p of a w×h screen to the complex
// point c = center + (p - size/2) * scale and iterates z = z² + c from
// z = 0 until |z|² exceeds 4 or the iteration bound is reached. The count
// is turned into a color by a palette.
//
// Work is split into 64x64 tiles (see internal/parallel) that a Scheduler
// runs on a fixed pool of workers. Tiles write disjoint pixels, so no
// locking is involved; Render returns only after every tile finished.
package kernel
