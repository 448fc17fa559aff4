package api

import (
	"log/slog"

	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/gpu"
	"github.com/gogpu/fractal/internal/hud"
	"github.com/gogpu/fractal/internal/parallel"
	"github.com/gogpu/fractal/kernel"
	"github.com/gogpu/fractal/palette"
)

// Platform is the per-frame snapshot the host hands to the module.
//
// Everything except Quit and Capture is input; the module sets those two
// flags to ask the host to exit or to save the frame after presenting.
type Platform struct {
	FB     *fractal.Framebuffer
	Width  int
	Height int

	Input Input

	// Time is the seconds since the host started, DT the seconds since
	// the previous frame.
	Time float64
	DT   float64

	Quit    bool
	Capture bool

	Ctx *Context
}

// BeginFrame clears the output flags before the host fills a new snapshot.
func (p *Platform) BeginFrame() {
	p.Quit = false
	p.Capture = false
}

// Context holds the services the module uses.
//
// The host creates it once together with the State and fills in what it
// owns: the worker pool, the accelerator and the logger. The module builds
// the rest in Init and again in OnReload, since a new module generation
// cannot trust values computed by the previous one.
type Context struct {
	// Host-owned.
	Pool        *parallel.WorkerPool
	Accelerator gpu.Accelerator
	Logger      *slog.Logger

	// MaxIter is the iteration bound of the main view. Zero selects
	// DefaultMaxIter.
	MaxIter int

	// Module-built.
	Palettes  *palette.Set
	Text      *hud.Text
	Scheduler *kernel.Scheduler
}

// DefaultMaxIter is the iteration bound used when the host sets none.
const DefaultMaxIter = 1024

// Iterations returns the iteration bound of the main view.
func (c *Context) Iterations() int {
	if c == nil || c.MaxIter <= 0 {
		return DefaultMaxIter
	}
	return c.MaxIter
}

// Log returns the context logger, or the package logger when none is set.
func (c *Context) Log() *slog.Logger {
	if c == nil || c.Logger == nil {
		return fractal.Logger()
	}
	return c.Logger
}

// Release drops the module-built services. The scheduler does not own the
// pool, so closing it leaves the pool running.
func (c *Context) Release() {
	if c.Scheduler != nil {
		c.Scheduler.Close()
	}
	c.Scheduler = nil
	c.Palettes = nil
	c.Text = nil
}
