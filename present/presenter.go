package present

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/fractal"
)

var (
	// ErrClosed is returned by Present after Close.
	ErrClosed = errors.New("present: presenter is closed")

	// ErrNoTextureCreator is returned when the draw context cannot create
	// textures.
	ErrNoTextureCreator = errors.New("present: draw context has no texture creator")

	// ErrNotTexture is returned when the created texture cannot be drawn.
	ErrNotTexture = errors.New("present: created value is not a gpucontext.Texture")
)

// textureBackend is the part of a draw context the presenter uses.
type textureBackend interface {
	create(width, height int, data []byte) (any, error)
	draw(tex any, x, y float32) error
}

// textureUpdater matches textures that accept new pixels in place.
type textureUpdater interface {
	UpdateData(data []byte) error
}

type textureDestroyer interface {
	Destroy()
}

// drawerBackend adapts a gpucontext.TextureDrawer.
type drawerBackend struct {
	dc gpucontext.TextureDrawer
}

func (b drawerBackend) create(width, height int, data []byte) (any, error) {
	creator := b.dc.TextureCreator()
	if creator == nil {
		return nil, ErrNoTextureCreator
	}
	tex, err := creator.NewTextureFromRGBA(width, height, data)
	if err != nil {
		return nil, err
	}
	return tex, nil
}

func (b drawerBackend) draw(tex any, x, y float32) error {
	gpuTex, ok := tex.(gpucontext.Texture)
	if !ok {
		return ErrNotTexture
	}
	return b.dc.DrawTexture(gpuTex, x, y)
}

// SurfaceFormat returns the surface format reported by provider, or
// RGBA8Unorm when it reports none.
func SurfaceFormat(provider gpucontext.DeviceProvider) gputypes.TextureFormat {
	if f, ok := provider.(interface{ SurfaceFormat() gputypes.TextureFormat }); ok {
		return f.SurfaceFormat()
	}
	return gputypes.TextureFormatRGBA8Unorm
}

// TexturePresenter draws framebuffers as a full-window texture.
//
// TexturePresenter is not safe for concurrent use.
type TexturePresenter struct {
	swapRB  bool
	texture any
	staging []byte
	width   int
	height  int
	closed  bool
}

// NewTexturePresenter returns a presenter for a surface of the given
// format.
func NewTexturePresenter(format gputypes.TextureFormat) *TexturePresenter {
	return &TexturePresenter{swapRB: format == gputypes.TextureFormatBGRA8Unorm}
}

// Present uploads fb and draws it at the origin of dc.
func (p *TexturePresenter) Present(dc gpucontext.TextureDrawer, fb *fractal.Framebuffer) error {
	return p.present(drawerBackend{dc: dc}, fb)
}

func (p *TexturePresenter) present(b textureBackend, fb *fractal.Framebuffer) error {
	if p.closed {
		return ErrClosed
	}
	w, h := fb.Width(), fb.Height()
	if w == 0 || h == 0 {
		return nil
	}

	data := p.upload(fb)

	if p.texture != nil && (w != p.width || h != p.height) {
		p.destroy()
	}
	if p.texture == nil {
		tex, err := b.create(w, h, data)
		if err != nil {
			return fmt.Errorf("present: create texture: %w", err)
		}
		p.texture, p.width, p.height = tex, w, h
		fractal.Logger().Debug("present: texture created", "width", w, "height", h, "bgra", p.swapRB)
	} else if u, ok := p.texture.(textureUpdater); ok {
		if err := u.UpdateData(data); err != nil {
			return fmt.Errorf("present: update texture: %w", err)
		}
	}

	return b.draw(p.texture, 0, 0)
}

// upload returns the bytes to send, swizzled into a reused buffer when
// the surface is BGRA.
func (p *TexturePresenter) upload(fb *fractal.Framebuffer) []byte {
	src := fb.Data()
	if !p.swapRB {
		return src
	}
	if cap(p.staging) < len(src) {
		p.staging = make([]byte, len(src))
	}
	p.staging = p.staging[:len(src)]
	SwapRB(p.staging, src)
	return p.staging
}

// Close destroys the texture. It is safe to call more than once.
func (p *TexturePresenter) Close() {
	if p.closed {
		return
	}
	p.destroy()
	p.staging = nil
	p.closed = true
}

func (p *TexturePresenter) destroy() {
	if d, ok := p.texture.(textureDestroyer); ok {
		d.Destroy()
	}
	p.texture = nil
	p.width, p.height = 0, 0
}

// SwapRB copies 4-byte pixels from src to dst exchanging the first and
// third byte, converting RGBA to BGRA and back. dst and src may alias.
func SwapRB(dst, src []byte) {
	n := min(len(dst), len(src)) &^ 3
	for i := 0; i < n; i += 4 {
		r, g, b, a := src[i], src[i+1], src[i+2], src[i+3]
		dst[i], dst[i+1], dst[i+2], dst[i+3] = b, g, r, a
	}
}
