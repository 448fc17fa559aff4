// Package hud draws the heads-up display: short ASCII labels rendered with
// the 7×13 bitmap face and blitted at an integer scale.
package hud

import (
	"image"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/internal/cache"
	"github.com/gogpu/fractal/raster"
)

// DefaultScale is the glyph magnification used by the overlay.
const DefaultScale = 2

// glyphCacheSize bounds the rasterized glyphs kept per Text.
const glyphCacheSize = 256

// glyph is a rasterized, scaled glyph.
type glyph struct {
	// mask bounds are relative to the dot on the baseline.
	mask    *image.Alpha
	advance int
}

// Text draws single-line labels. Glyphs are rasterized once per rune and
// cached. A Text is not safe for concurrent use.
type Text struct {
	face   font.Face
	scale  int
	ascent int
	height int
	glyphs *cache.Cache[rune, *glyph]
}

// NewText returns a text drawer at the given integer scale.
// A scale below 1 is treated as 1.
func NewText(scale int) *Text {
	if scale < 1 {
		scale = 1
	}
	face := basicfont.Face7x13
	m := face.Metrics()
	return &Text{
		face:   face,
		scale:  scale,
		ascent: m.Ascent.Ceil(),
		height: m.Height.Ceil(),
		glyphs: cache.New[rune, *glyph](glyphCacheSize),
	}
}

// Scale returns the magnification factor.
func (t *Text) Scale() int { return t.scale }

// LineHeight returns the height of one line in pixels.
func (t *Text) LineHeight() int { return t.height * t.scale }

// Measure returns the advance width of s in pixels.
func (t *Text) Measure(s string) int {
	return font.MeasureString(t.face, s).Ceil() * t.scale
}

// Draw renders s with its line box's top-left corner at (x, y).
// Glyph coverage is blended with c; pixels outside dst are clipped.
func (t *Text) Draw(dst raster.Target, x, y int, s string, c fractal.Color) {
	baseline := y + t.ascent*t.scale
	dot := x
	for _, r := range s {
		g := t.glyph(r)
		if g == nil {
			continue
		}
		b := g.mask.Bounds()
		for py := b.Min.Y; py < b.Max.Y; py++ {
			for px := b.Min.X; px < b.Max.X; px++ {
				a := g.mask.AlphaAt(px, py).A
				if a == 0 {
					continue
				}
				dst.BlendWeighted(dot+px, baseline+py, c, int(a))
			}
		}
		dot += g.advance
	}
}

func (t *Text) glyph(r rune) *glyph {
	return t.glyphs.GetOrCreate(r, func() *glyph { return t.rasterize(r) })
}

func (t *Text) rasterize(r rune) *glyph {
	dr, mask, maskp, advance, ok := t.face.Glyph(fixed.P(0, 0), r)
	if !ok {
		dr, mask, maskp, advance, ok = t.face.Glyph(fixed.P(0, 0), '?')
		if !ok {
			return nil
		}
	}

	src := image.NewAlpha(dr)
	xdraw.Draw(src, dr, mask, maskp, xdraw.Src)

	scaled := image.NewAlpha(image.Rect(
		dr.Min.X*t.scale, dr.Min.Y*t.scale,
		dr.Max.X*t.scale, dr.Max.Y*t.scale,
	))
	xdraw.NearestNeighbor.Scale(scaled, scaled.Bounds(), src, dr, xdraw.Src, nil)

	return &glyph{mask: scaled, advance: advance.Ceil() * t.scale}
}
