package kernel

import (
	"time"

	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/internal/parallel"
	"github.com/gogpu/fractal/palette"
)

// Scheduler runs kernel tiles on a worker pool.
//
// Tile i goes to worker i mod Workers(); a worker starts its next tile only
// after the previous one returned, so at most Workers() tiles are in flight.
type Scheduler struct {
	pool  *parallel.WorkerPool
	owned bool
}

// NewScheduler creates a scheduler with its own pool of the given size.
// A non-positive size uses GOMAXPROCS.
func NewScheduler(workers int) *Scheduler {
	return &Scheduler{pool: parallel.NewWorkerPool(workers), owned: true}
}

// NewSchedulerWithPool creates a scheduler on a pool owned by the caller.
// Close does not close a borrowed pool.
func NewSchedulerWithPool(pool *parallel.WorkerPool) *Scheduler {
	return &Scheduler{pool: pool}
}

// Workers returns the number of tiles that can run at once.
func (s *Scheduler) Workers() int {
	return s.pool.Workers()
}

// Render fills fb with the fractal for view. It blocks until every tile has
// been written.
func (s *Scheduler) Render(fb *fractal.Framebuffer, view View, maxIter int, pal palette.Palette) {
	start := time.Now()
	tiles := Tiles(fb, view, maxIter, pal)
	s.run(fb, tiles)

	fractal.Logger().Debug("kernel: frame rendered",
		"tiles", len(tiles),
		"workers", s.pool.Workers(),
		"elapsed", time.Since(start))
}

// RenderSerial is Render on the calling goroutine. The output is identical.
func (s *Scheduler) RenderSerial(fb *fractal.Framebuffer, view View, maxIter int, pal palette.Palette) {
	for _, t := range Tiles(fb, view, maxIter, pal) {
		RenderTile(fb, t)
	}
}

// RenderJulia draws a Julia inset, splitting it into tiles on the pool.
func (s *Scheduler) RenderJulia(fb *fractal.Framebuffer, j Julia) {
	if !j.valid() {
		return
	}
	regions := parallel.Partition(j.Width, j.Height)
	work := make([]func(), len(regions))
	for i, r := range regions {
		work[i] = func() { renderJuliaRegion(fb, j, r) }
	}
	s.pool.ExecuteAll(work)
	drawJuliaBorder(fb, j)
}

func (s *Scheduler) run(fb *fractal.Framebuffer, tiles []Tile) {
	work := make([]func(), len(tiles))
	for i := range tiles {
		t := tiles[i]
		work[i] = func() { RenderTile(fb, t) }
	}
	s.pool.ExecuteAll(work)
}

// Close releases the pool if the scheduler created it.
func (s *Scheduler) Close() {
	if s.owned {
		s.pool.Close()
	}
}
