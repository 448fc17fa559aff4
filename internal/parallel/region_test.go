package parallel

import "testing"

// =============================================================================
// Region Tests
// =============================================================================

func TestRegion_Size(t *testing.T) {
	r := Region{StartX: 64, EndX: 100, StartY: 0, EndY: 64}

	if r.Width() != 36 {
		t.Errorf("Width() = %d, want 36", r.Width())
	}
	if r.Height() != 64 {
		t.Errorf("Height() = %d, want 64", r.Height())
	}
}

// =============================================================================
// Partition Tests
// =============================================================================

func TestGridSize(t *testing.T) {
	tests := []struct {
		w, h       int
		cols, rows int
	}{
		{64, 64, 1, 1},
		{65, 64, 2, 1},
		{1920, 1080, 30, 17},
		{1, 1, 1, 1},
		{0, 100, 0, 0},
		{100, -1, 0, 0},
	}
	for _, tt := range tests {
		cols, rows := GridSize(tt.w, tt.h)
		if cols != tt.cols || rows != tt.rows {
			t.Errorf("GridSize(%d, %d) = (%d, %d), want (%d, %d)", tt.w, tt.h, cols, rows, tt.cols, tt.rows)
		}
	}
}

func TestPartition_CoversEveryPixelOnce(t *testing.T) {
	sizes := [][2]int{{1, 1}, {64, 64}, {100, 70}, {200, 130}, {1920, 1080}, {63, 129}}

	for _, sz := range sizes {
		w, h := sz[0], sz[1]
		hits := make([]int, w*h)

		for _, r := range Partition(w, h) {
			if r.Width() > TileWidth || r.Height() > TileHeight {
				t.Errorf("%dx%d: region %+v larger than a tile", w, h, r)
			}
			for y := r.StartY; y < r.EndY; y++ {
				for x := r.StartX; x < r.EndX; x++ {
					hits[y*w+x]++
				}
			}
		}

		for i, n := range hits {
			if n != 1 {
				t.Fatalf("%dx%d: pixel (%d, %d) covered %d times", w, h, i%w, i/w, n)
			}
		}
	}
}

func TestPartition_EdgeRegionsClipped(t *testing.T) {
	regions := Partition(100, 70)

	if len(regions) != 4 {
		t.Fatalf("len(regions) = %d, want 4", len(regions))
	}

	want := []Region{
		{StartX: 0, EndX: 64, StartY: 0, EndY: 64},
		{StartX: 64, EndX: 100, StartY: 0, EndY: 64},
		{StartX: 0, EndX: 64, StartY: 64, EndY: 70},
		{StartX: 64, EndX: 100, StartY: 64, EndY: 70},
	}
	for i, r := range regions {
		if r != want[i] {
			t.Errorf("regions[%d] = %+v, want %+v", i, r, want[i])
		}
	}
}

func TestPartition_Empty(t *testing.T) {
	if got := Partition(0, 0); len(got) != 0 {
		t.Errorf("Partition(0, 0) returned %d regions, want 0", len(got))
	}
	if got := Partition(-10, 50); len(got) != 0 {
		t.Errorf("Partition(-10, 50) returned %d regions, want 0", len(got))
	}
}

func BenchmarkPartition_HD(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Partition(1920, 1080)
	}
}
