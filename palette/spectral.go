package palette

import (
	"math"

	"github.com/gogpu/fractal"
)

// TableSize is the number of entries in the spectral lookup table.
const TableSize = 512

// Visible range covered by the spectral table, in nanometers.
const (
	minWavelength = 380.0
	maxWavelength = 780.0
)

// Table is the precomputed spectral color ramp.
type Table [TableSize]fractal.Color

// NewTable builds the spectral table. Entry i holds the color of the
// wavelength 380 + i*400/512 nm.
func NewTable() *Table {
	var t Table
	for i := range t {
		t[i] = Wavelength(minWavelength + float64(i)*(maxWavelength-minWavelength)/TableSize)
	}
	return &t
}

// Wavelength approximates the sRGB color of monochromatic light.
//
// The visible range is split into six linear ramps; intensity falls off to
// 30% towards both ends of the range and a 0.8 gamma is applied. Wavelengths
// outside [380, 780] are black.
func Wavelength(nm float64) fractal.Color {
	var r, g, b float64

	switch {
	case nm >= 380 && nm <= 440:
		r = -(nm - 440) / (440 - 380)
		b = 1
	case nm >= 440 && nm <= 490:
		g = (nm - 440) / (490 - 440)
		b = 1
	case nm >= 490 && nm <= 510:
		g = 1
		b = -(nm - 510) / (510 - 490)
	case nm >= 510 && nm <= 580:
		r = (nm - 510) / (580 - 510)
		g = 1
	case nm >= 580 && nm <= 645:
		r = 1
		g = -(nm - 645) / (645 - 580)
	case nm >= 645 && nm <= 780:
		r = 1
	}

	s := 1.0
	if nm > 700 {
		s = 0.3 + 0.7*(780-nm)/(780-700)
	} else if nm < 420 {
		s = 0.3 + 0.7*(nm-380)/(420-380)
	}

	ch := func(v float64) uint8 {
		return to8(float32(math.Pow(v*s, 0.8) * 255))
	}
	return fractal.RGB(ch(r), ch(g), ch(b))
}
