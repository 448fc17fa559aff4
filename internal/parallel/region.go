// Package parallel splits a framebuffer into tiles and runs them on a
// fixed pool of workers.
//
// The screen is divided into 64x64 pixel regions in row-major order. Edge
// regions are clipped to the screen, so the regions of a partition cover
// every pixel exactly once. Regions never overlap, which lets workers write
// to a shared framebuffer without locking.
package parallel

// Tile size constants.
const (
	// TileWidth is the width of a full region in pixels.
	TileWidth = 64

	// TileHeight is the height of a full region in pixels.
	TileHeight = 64
)

// Region is a half-open pixel rectangle [StartX, EndX) × [StartY, EndY).
type Region struct {
	StartX, EndX int
	StartY, EndY int
}

// Width returns the number of columns in the region.
func (r Region) Width() int {
	return r.EndX - r.StartX
}

// Height returns the number of rows in the region.
func (r Region) Height() int {
	return r.EndY - r.StartY
}

// GridSize returns the number of tile columns and rows needed to cover a
// width×height screen.
func GridSize(width, height int) (cols, rows int) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	return (width + TileWidth - 1) / TileWidth, (height + TileHeight - 1) / TileHeight
}

// Partition splits a width×height screen into tile regions in row-major
// order. Edge regions are clipped to the screen. A non-positive dimension
// yields no regions.
func Partition(width, height int) []Region {
	cols, rows := GridSize(width, height)
	if cols == 0 {
		return nil
	}

	regions := make([]Region, 0, cols*rows)
	for ty := range rows {
		startY := ty * TileHeight
		endY := min(height, startY+TileHeight)

		for tx := range cols {
			startX := tx * TileWidth
			endX := min(width, startX+TileWidth)

			regions = append(regions, Region{
				StartX: startX, EndX: endX,
				StartY: startY, EndY: endY,
			})
		}
	}
	return regions
}
