package kernel

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/internal/parallel"
	"github.com/gogpu/fractal/palette"
)

var interesting = View{CenterX: -0.5, CenterY: 0, Scale: 0.015}

func TestScheduler_Workers(t *testing.T) {
	s := NewScheduler(0)
	defer s.Close()

	if s.Workers() != runtime.GOMAXPROCS(0) {
		t.Errorf("Workers() = %d, want GOMAXPROCS", s.Workers())
	}

	s3 := NewScheduler(3)
	defer s3.Close()
	if s3.Workers() != 3 {
		t.Errorf("Workers() = %d, want 3", s3.Workers())
	}
}

func TestScheduler_DefaultViewCenterIsInside(t *testing.T) {
	s := NewScheduler(4)
	defer s.Close()

	fb := fractal.NewFramebuffer(64, 48)
	pal := palette.NewSet().Get(palette.Blue)
	s.Render(fb, DefaultView(), 1024, pal)

	if got := fb.Pixel(32, 24); got != fractal.Black {
		t.Errorf("center pixel = %v, want black", got)
	}
}

func TestScheduler_ParallelMatchesSerial(t *testing.T) {
	set := palette.NewSet()

	sizes := [][2]int{{200, 130}, {64, 64}, {1, 1}, {129, 65}}
	for _, sz := range sizes {
		for _, idx := range []palette.Index{palette.Blue, palette.Spectral, palette.Ultra} {
			pal := set.Get(idx)

			par := fractal.NewFramebuffer(sz[0], sz[1])
			ser := fractal.NewFramebuffer(sz[0], sz[1])

			s := NewScheduler(4)
			s.Render(par, interesting, 255, pal)
			s.RenderSerial(ser, interesting, 255, pal)
			s.Close()

			if !bytes.Equal(par.Data(), ser.Data()) {
				t.Errorf("%dx%d %v: parallel output differs from serial", sz[0], sz[1], idx)
			}
		}
	}
}

func TestScheduler_WritesEveryPixel(t *testing.T) {
	s := NewScheduler(3)
	defer s.Close()

	fb := fractal.NewFramebuffer(150, 100)
	s.Render(fb, interesting, 64, palette.NewSet().Get(palette.Grayscale))

	data := fb.Data()
	for i := 3; i < len(data); i += 4 {
		if data[i] != 255 {
			p := i / 4
			t.Fatalf("pixel (%d, %d) not written", p%150, p/150)
		}
	}
}

func TestScheduler_BorrowedPoolSurvivesClose(t *testing.T) {
	pool := parallel.NewWorkerPool(2)
	defer pool.Close()

	s := NewSchedulerWithPool(pool)
	s.Close()

	if !pool.IsRunning() {
		t.Error("Close() closed a borrowed pool")
	}
}

func TestRenderTile_MatchesEscape(t *testing.T) {
	fb := fractal.NewFramebuffer(100, 80)
	pal := palette.NewSet().Get(palette.Grayscale)

	tile := Tile{
		Region:       parallel.Region{StartX: 64, EndX: 100, StartY: 64, EndY: 80},
		ScreenWidth:  100,
		ScreenHeight: 80,
		View:         interesting,
		MaxIter:      100,
		Palette:      pal,
	}
	RenderTile(fb, tile)

	for y := range 80 {
		for x := range 100 {
			got := fb.Pixel(x, y)
			if !tile.Contains(x, y) {
				if got != fractal.Transparent {
					t.Fatalf("pixel (%d, %d) outside the tile written", x, y)
				}
				continue
			}
			re, im := interesting.ToComplex(float64(x), float64(y), 100, 80)
			want := palette.Map(pal, Escape(re, im, 100), 100)
			if got != want {
				t.Fatalf("pixel (%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

// =============================================================================
// Julia Tests
// =============================================================================

func TestRenderJulia(t *testing.T) {
	pal := palette.NewSet().Get(palette.Blue)
	j := Julia{CRe: -0.8, CIm: 0.156, X: 10, Y: 10, Width: 40, Height: 30, MaxIter: 64, Palette: pal}

	fb := fractal.NewFramebuffer(80, 60)
	RenderJulia(fb, j)

	if got := fb.Pixel(30, 10); got != JuliaBorderColor {
		t.Errorf("top border = %v, want %v", got, JuliaBorderColor)
	}
	if got := fb.Pixel(10, 25); got != JuliaBorderColor {
		t.Errorf("left border = %v, want %v", got, JuliaBorderColor)
	}

	// Inset pixel (20, 15) in local coordinates, away from the frame.
	zRe := (20.0 - 20) * (4.0 / 40)
	zIm := (15.0 - 15) * (4.0 / 40)
	want := palette.Map(pal, EscapeFrom(zRe, zIm, -0.8, 0.156, 64), 64)
	if got := fb.Pixel(30, 25); got != want {
		t.Errorf("inset center = %v, want %v", got, want)
	}

	if got := fb.Pixel(75, 55); got != fractal.Transparent {
		t.Errorf("pixel outside inset written: %v", got)
	}
}

func TestScheduler_RenderJuliaMatchesSerial(t *testing.T) {
	pal := palette.NewSet().Get(palette.Neon)
	j := Julia{CRe: 0.285, CIm: 0.01, X: 10, Y: 10, Width: 150, Height: 90, MaxIter: 64, Palette: pal}

	a := fractal.NewFramebuffer(200, 120)
	b := fractal.NewFramebuffer(200, 120)

	s := NewScheduler(4)
	defer s.Close()

	s.RenderJulia(a, j)
	RenderJulia(b, j)

	if !bytes.Equal(a.Data(), b.Data()) {
		t.Error("parallel Julia inset differs from serial")
	}
}

func TestRenderJulia_Degenerate(t *testing.T) {
	fb := fractal.NewFramebuffer(20, 20)
	RenderJulia(fb, Julia{Width: 0, Height: 10, Palette: palette.NewSet().Get(palette.Blue)})
	RenderJulia(fb, Julia{Width: 10, Height: 10})

	for _, v := range fb.Data() {
		if v != 0 {
			t.Fatal("degenerate inset drew pixels")
		}
	}
}

func BenchmarkScheduler_Render(b *testing.B) {
	s := NewScheduler(0)
	defer s.Close()

	fb := fractal.NewFramebuffer(640, 360)
	pal := palette.NewSet().Get(palette.Blue)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Render(fb, DefaultView(), 256, pal)
	}
}

func BenchmarkScheduler_RenderSerial(b *testing.B) {
	s := NewScheduler(1)
	defer s.Close()

	fb := fractal.NewFramebuffer(640, 360)
	pal := palette.NewSet().Get(palette.Blue)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.RenderSerial(fb, DefaultView(), 256, pal)
	}
}
