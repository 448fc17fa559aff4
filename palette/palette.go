// Package palette maps escape-time iteration counts to colors.
//
// Seven palettes are available. Every palette renders points that never
// escaped (iter == max) as opaque black and produces opaque colors otherwise.
//
// Palettes are obtained from a Set, which owns the precomputed spectral
// lookup table. A Set is immutable after construction and safe for
// concurrent use by tile workers.
package palette

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/text/cases"

	"github.com/gogpu/fractal"
)

// Index identifies one of the built-in palettes.
type Index int

// Built-in palettes.
const (
	Grayscale Index = iota
	Rainbow1
	Rainbow2
	Blue
	Neon
	Ultra
	Spectral

	count
)

// Default is the palette used by the renderer when none is configured.
const Default = Blue

// ErrUnknownPalette is returned by Parse for names that match no palette.
var ErrUnknownPalette = errors.New("palette: unknown palette")

var names = [count]string{
	Grayscale: "grayscale",
	Rainbow1:  "rainbow1",
	Rainbow2:  "rainbow2",
	Blue:      "blue",
	Neon:      "neon",
	Ultra:     "ultra",
	Spectral:  "spectral",
}

// String returns the configuration name of the palette.
func (i Index) String() string {
	if i < 0 || i >= count {
		return fmt.Sprintf("Index(%d)", int(i))
	}
	return names[i]
}

// Valid reports whether i names a built-in palette.
func (i Index) Valid() bool {
	return i >= 0 && i < count
}

// Next returns the palette after i, wrapping around after the last one.
func (i Index) Next() Index {
	if !i.Valid() {
		return Default
	}
	return (i + 1) % count
}

// All returns every palette index in declaration order.
func All() []Index {
	out := make([]Index, count)
	for i := range out {
		out[i] = Index(i)
	}
	return out
}

// Parse returns the palette with the given name. Matching is case-insensitive.
func Parse(name string) (Index, error) {
	folded := cases.Fold().String(name)
	for i, n := range names {
		if n == folded {
			return Index(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPalette, name)
}

// Palette converts a non-maximal iteration count into a color.
//
// The interface is sealed; the implementations are the seven built-in
// palettes returned by Set.Get.
type Palette interface {
	// Color returns the color for iter in [0, max).
	Color(iter, maxIter int) fractal.Color

	// Index returns the identifier of the palette.
	Index() Index

	sealed()
}

// Map returns the color of a point that ran for iter iterations out of max.
// A point that reached max is inside the set and is always black.
func Map(p Palette, iter, maxIter int) fractal.Color {
	if iter >= maxIter || maxIter <= 0 {
		return fractal.Black
	}
	if iter < 0 {
		iter = 0
	}
	return p.Color(iter, maxIter)
}

// Set holds one instance of every palette.
type Set struct {
	palettes [count]Palette
	spectral *Table
}

// NewSet builds every palette, including the spectral lookup table.
func NewSet() *Set {
	table := NewTable()
	s := &Set{spectral: table}
	s.palettes = [count]Palette{
		Grayscale: grayscale{},
		Rainbow1:  rainbow1{},
		Rainbow2:  rainbow2{},
		Blue:      blue{},
		Neon:      neon{},
		Ultra:     ultra{},
		Spectral:  spectral{table: table},
	}
	return s
}

// Get returns the palette for i. Unknown indices fall back to Default.
func (s *Set) Get(i Index) Palette {
	if !i.Valid() {
		i = Default
	}
	return s.palettes[i]
}

// Table returns the spectral lookup table owned by the set.
func (s *Set) Table() *Table {
	return s.spectral
}

// to8 converts a channel value in [0, 255] to uint8, saturating out-of-range
// input and mapping NaN to 0.
func to8(v float32) uint8 {
	switch {
	case !(v > 0):
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v)
	}
}

type grayscale struct{}

func (grayscale) Index() Index { return Grayscale }
func (grayscale) sealed()      {}

func (grayscale) Color(iter, maxIter int) fractal.Color {
	v := uint8((iter * 255) / maxIter)
	return fractal.RGB(v, v, v)
}

type rainbow1 struct{}

func (rainbow1) Index() Index { return Rainbow1 }
func (rainbow1) sealed()      {}

// Color cycles through four 64-step ramps, 16 hue steps per iteration.
func (rainbow1) Color(iter, _ int) fractal.Color {
	hue := (iter * 16) % 256
	switch {
	case hue < 64:
		return fractal.RGB(255, uint8(hue*4), 0)
	case hue < 128:
		return fractal.RGB(uint8(255-(hue-64)*4), 255, 0)
	case hue < 192:
		return fractal.RGB(0, 255, uint8((hue-128)*4))
	default:
		return fractal.RGB(0, uint8(255-(hue-192)*4), 255)
	}
}

type rainbow2 struct{}

func (rainbow2) Index() Index { return Rainbow2 }
func (rainbow2) sealed()      {}

// Color sweeps the HSV hue circle once over [0, max) at full saturation and value.
func (rainbow2) Color(iter, maxIter int) fractal.Color {
	hue := float32(iter) / float32(maxIter) * 360
	h := hue / 60
	i := int(h)
	f := h - float32(i)
	q := 1 - f

	var r, g, b float32
	switch i % 6 {
	case 0:
		r, g, b = 1, f, 0
	case 1:
		r, g, b = q, 1, 0
	case 2:
		r, g, b = 0, 1, f
	case 3:
		r, g, b = 0, q, 1
	case 4:
		r, g, b = f, 0, 1
	case 5:
		r, g, b = 1, 0, q
	}
	return fractal.RGB(to8(r*255), to8(g*255), to8(b*255))
}

type blue struct{}

func (blue) Index() Index { return Blue }
func (blue) sealed()      {}

// Color uses the continuous dwell iter - log2(log2(iter)) + 4, normalized by
// max and clamped to [0, 1], fed into three Bernstein-like polynomials.
func (blue) Color(iter, maxIter int) fractal.Color {
	t := SmoothDwell(iter, maxIter)
	u := 1 - t
	r := 9 * u * t * t * t * 255
	g := 15 * u * u * t * t * 255
	b := 8.5 * u * u * u * t * 255
	return fractal.RGB(to8(r), to8(g), to8(b))
}

// SmoothDwell returns the normalized continuous dwell used by the Blue
// palette. The result is always in [0, 1]. The double logarithm is undefined
// below two iterations, those map to 0.
func SmoothDwell(iter, maxIter int) float32 {
	if iter < 2 {
		return 0
	}
	it := float64(iter)
	s := it - math.Log2(math.Log2(it)) + 4
	t := float32(s / float64(maxIter))
	switch {
	case math.IsNaN(float64(t)):
		return 0
	case t < 0:
		return 0
	case t > 1:
		return 1
	}
	return t
}

type neon struct{}

func (neon) Index() Index { return Neon }
func (neon) sealed()      {}

func (neon) Color(iter, maxIter int) fractal.Color {
	t := float64(iter) / float64(maxIter)
	ch := func(phase float64) uint8 {
		return to8(float32(math.Sin(t*6.28+phase)*127 + 128))
	}
	return fractal.RGB(ch(0), ch(2.09), ch(4.18))
}

type ultra struct{}

func (ultra) Index() Index { return Ultra }
func (ultra) sealed()      {}

// Color splits [0, 1) into six bands, each ramping one channel.
func (ultra) Color(iter, maxIter int) fractal.Color {
	t := float32(iter) / float32(maxIter)
	switch {
	case t < 0.16:
		v := to8(t * 255 * 6.25)
		return fractal.RGB(0, v, v*2) // blue channel wraps
	case t < 0.33:
		v := to8((t - 0.16) * 255 * 5.88)
		return fractal.RGB(0, 255, 255-v)
	case t < 0.5:
		v := to8((t - 0.33) * 255 * 5.88)
		return fractal.RGB(v, 255, 0)
	case t < 0.66:
		v := to8((t - 0.5) * 255 * 6.25)
		return fractal.RGB(255, 255-v, 0)
	case t < 0.83:
		v := to8((t - 0.66) * 255 * 5.88)
		return fractal.RGB(255, 0, v)
	default:
		v := to8((t - 0.83) * 255 * 5.88)
		return fractal.RGB(255, v, 255)
	}
}

type spectral struct {
	table *Table
}

func (spectral) Index() Index { return Spectral }
func (spectral) sealed()      {}

func (s spectral) Color(iter, _ int) fractal.Color {
	return s.table[iter%TableSize]
}
