package kernel

import (
	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/internal/parallel"
	"github.com/gogpu/fractal/palette"
)

// Tile is one unit of kernel work: a screen region plus everything needed to
// color it. Tiles are created per frame and consumed once.
type Tile struct {
	parallel.Region

	// ScreenWidth and ScreenHeight are the full screen size used by the
	// pixel to complex mapping.
	ScreenWidth  int
	ScreenHeight int

	View    View
	MaxIter int
	Palette palette.Palette
}

// RenderTile computes every pixel of the tile's region and writes the mapped
// colors into fb. Pixels outside fb are skipped.
func RenderTile(fb *fractal.Framebuffer, t Tile) {
	for y := t.StartY; y < t.EndY; y++ {
		cIm := ScreenToComplex(float64(y), t.View.CenterY, t.ScreenHeight, t.View.Scale)
		for x := t.StartX; x < t.EndX; x++ {
			cRe := ScreenToComplex(float64(x), t.View.CenterX, t.ScreenWidth, t.View.Scale)
			iter := Escape(cRe, cIm, t.MaxIter)
			fb.Set(x, y, palette.Map(t.Palette, iter, t.MaxIter))
		}
	}
}

// Tiles partitions the framebuffer into tiles for one frame.
func Tiles(fb *fractal.Framebuffer, view View, maxIter int, pal palette.Palette) []Tile {
	w, h := fb.Width(), fb.Height()
	regions := parallel.Partition(w, h)

	tiles := make([]Tile, len(regions))
	for i, r := range regions {
		tiles[i] = Tile{
			Region:       r,
			ScreenWidth:  w,
			ScreenHeight: h,
			View:         view,
			MaxIter:      maxIter,
			Palette:      pal,
		}
	}
	return tiles
}
