// Package app is the swappable module: it reads input, moves the view and
// renders the fractal with its overlays.
//
// The five entry points match api.EntryPoint. cmd/fractal-app exports them
// from a plugin build; tests and the static host call Module directly.
package app

import (
	"errors"

	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/api"
	"github.com/gogpu/fractal/gpu"
	"github.com/gogpu/fractal/internal/hud"
	"github.com/gogpu/fractal/kernel"
	"github.com/gogpu/fractal/palette"
	"github.com/gogpu/fractal/raster"
)

// Interaction constants.
const (
	// ZoomStep is the scale change per scroll unit.
	ZoomStep = 0.1

	// minZoomFactor keeps a large negative scroll from flipping the view.
	minZoomFactor = 0.1

	// JuliaMaxIter is the iteration bound of the Julia inset.
	JuliaMaxIter = 64

	// JuliaOffset is the distance of the inset from the top-left corner.
	JuliaOffset = 10
)

// Overlays that depend on the complex plane are drawn only between these
// scales: further out the grid is noise, further in the orbit leaves the screen.
const (
	OverlayMinScale = 0.0001
	OverlayMaxScale = 0.003
)

// HUD placement, measured from the right edge.
const (
	hudRightInset = 180
	hudTimeY      = 15
	hudBackendY   = 45
	hudZoomY      = 75
)

var (
	hudRows   = [3]int{hudTimeY, hudBackendY, hudZoomY}
	hudColors = [3]fractal.Color{fractal.White, fractal.RGB(255, 255, 0), fractal.RGB(0, 255, 255)}
)

// Module returns the function table of this module.
func Module() api.Module {
	return api.Module{
		Version:  api.Version,
		Init:     Init,
		Update:   Update,
		Render:   Render,
		Cleanup:  Cleanup,
		OnReload: OnReload,
	}
}

// Init resets the state record to the starting view and builds the context.
func Init(p *api.Platform, s *api.State) {
	ctx := buildContext(p)

	*s = api.State{
		Initialized: true,
		Palette:     palette.Default,
	}
	s.ResetView()
	s.UseGPU = ctx.Accelerator != nil && ctx.Accelerator.Ready()

	ctx.Log().Info("app: initialized",
		"backend", hud.Backend(s.UseGPU),
		"palette", s.Palette.String(),
		"workers", ctx.Scheduler.Workers())
}

// Update advances the clock and applies this frame's input to the view.
func Update(p *api.Platform, s *api.State) {
	in := &p.Input
	s.AnimationTime += p.DT
	s.FrameCount++

	if in.Pressed(api.KeyEscape) {
		p.Quit = true
	}
	if in.Pressed(api.KeyF12) {
		p.Capture = true
	}

	if in.ScrollY != 0 && p.Width > 0 && p.Height > 0 {
		factor := max(1+in.ScrollY*ZoomStep, minZoomFactor)
		s.SetView(s.View().ZoomAt(in.MouseX, in.MouseY, p.Width, p.Height, factor))
	}

	updatePan(in, s)
	updateKeys(p, s)

	s.LastMouseX = in.MouseX
	s.LastMouseY = in.MouseY
}

// updatePan drags the view with the right button, anchored where the drag
// started. The pixel offset is truncated to whole pixels.
func updatePan(in *api.Input, s *api.State) {
	held := in.ButtonHeld(api.MouseRight)
	switch {
	case held && !s.IsPanning:
		s.IsPanning = true
		s.PanStartX = in.MouseX
		s.PanStartY = in.MouseY
		s.PanStartCenterX = s.ViewCenterX
		s.PanStartCenterY = s.ViewCenterY
	case !held && s.IsPanning:
		s.IsPanning = false
	}

	if s.IsPanning {
		dx := int(in.MouseX - s.PanStartX)
		dy := int(in.MouseY - s.PanStartY)
		s.ViewCenterX = s.PanStartCenterX - float64(dx)*s.ViewScale
		s.ViewCenterY = s.PanStartCenterY - float64(dy)*s.ViewScale
	}
}

func updateKeys(p *api.Platform, s *api.State) {
	in := &p.Input
	log := p.Ctx.Log()

	if in.Pressed(api.KeyR) {
		s.ResetView()
	}
	if in.Pressed(api.KeyG) {
		acc := accelerator(p)
		if acc != nil && acc.Ready() {
			s.UseGPU = !s.UseGPU
			log.Info("app: switched backend", "backend", hud.Backend(s.UseGPU))
		} else {
			s.UseGPU = false
			log.Info("app: GPU backend not available")
		}
	}
	if in.Pressed(api.KeyP) {
		s.Palette = s.Palette.Next()
		log.Debug("app: palette", "palette", s.Palette.String())
	}
	if in.Pressed(api.KeyO) {
		s.ShowOverlay = !s.ShowOverlay
	}
	if in.Pressed(api.KeyJ) {
		s.ShowJulia = !s.ShowJulia
	}
	if in.Pressed(api.KeyT) {
		s.ShowOrbit = !s.ShowOrbit
	}
}

// Render draws one frame: background, fractal, overlays, then the HUD.
func Render(p *api.Platform, s *api.State) {
	fb := p.FB
	if fb == nil || fb.Width() == 0 || fb.Height() == 0 {
		return
	}
	ctx := ensureContext(p)
	w, h := fb.Width(), fb.Height()
	view := s.View()
	pal := ctx.Palettes.Get(s.Palette)

	raster.Vignette(fb)
	backend := renderKernel(ctx, s, fb, view, ctx.Iterations(), pal)

	mx, my := p.Input.MouseX, p.Input.MouseY
	cRe, cIm := view.ToComplex(mx, my, w, h)

	if view.Scale > OverlayMinScale && view.Scale < OverlayMaxScale {
		if s.ShowOverlay {
			drawComplexPlane(fb, view)
			ctx.Text.Draw(fb, int(mx)+15, int(my)-15, hud.Coordinates(cRe, cIm), fractal.White)
		}
		if s.ShowOrbit {
			drawOrbit(fb, view, cRe, cIm)
		}
	}

	if s.ShowJulia {
		ctx.Scheduler.RenderJulia(fb, kernel.Julia{
			CRe:     cRe,
			CIm:     cIm,
			X:       JuliaOffset,
			Y:       JuliaOffset,
			Width:   w / 4,
			Height:  h / 4,
			MaxIter: JuliaMaxIter,
			Palette: pal,
		})
	}

	for i, line := range hudLines(p.DT, view, backend) {
		ctx.Text.Draw(fb, w-hudRightInset, hudRows[i], line, hudColors[i])
	}
}

// hudLines returns the HUD text top to bottom: frame time, kernel backend
// and zoom relative to the starting view.
func hudLines(dt float64, view kernel.View, backend string) [3]string {
	return [3]string{
		hud.FrameTime(dt),
		backend,
		hud.Zoom(view.Scale, kernel.DefaultScale),
	}
}

// renderKernel fills fb on the selected backend and returns its label.
// A failed GPU frame is redrawn on the CPU; an accelerator that is not
// ready switches the state back to CPU.
func renderKernel(ctx *api.Context, s *api.State, fb *fractal.Framebuffer, view kernel.View, maxIter int, pal palette.Palette) string {
	if s.UseGPU {
		err := gpu.Render(ctx.Accelerator, fb, view, maxIter, pal)
		if err == nil {
			return hud.LabelGPU
		}
		if errors.Is(err, gpu.ErrFallbackToCPU) {
			s.UseGPU = false
			ctx.Log().Warn("app: GPU backend unavailable, switching to CPU")
		} else {
			ctx.Log().Warn("app: GPU frame failed, rendering on CPU", "err", err)
		}
	}
	ctx.Scheduler.Render(fb, view, maxIter, pal)
	return hud.LabelCPU
}

// Cleanup releases what the module built. It runs before every unload.
func Cleanup(p *api.Platform, s *api.State) {
	if p.Ctx != nil {
		p.Ctx.Release()
	}
	p.Ctx.Log().Info("app: cleanup", "frame", s.FrameCount)
}

// OnReload rebuilds the context for the new module generation. The state
// record is kept as is.
func OnReload(p *api.Platform, s *api.State) {
	ctx := buildContext(p)
	if s.UseGPU && (ctx.Accelerator == nil || !ctx.Accelerator.Ready()) {
		s.UseGPU = false
	}
	if !s.Palette.Valid() {
		s.Palette = palette.Default
	}
	ctx.Log().Info("app: reloaded, state preserved",
		"frame", s.FrameCount,
		"time", s.AnimationTime)
}

// buildContext (re)creates every module-built service.
func buildContext(p *api.Platform) *api.Context {
	if p.Ctx == nil {
		p.Ctx = &api.Context{}
	}
	ctx := p.Ctx
	ctx.Release()

	ctx.Palettes = palette.NewSet()
	ctx.Text = hud.NewText(hud.DefaultScale)
	if ctx.Pool != nil {
		ctx.Scheduler = kernel.NewSchedulerWithPool(ctx.Pool)
	} else {
		ctx.Scheduler = kernel.NewScheduler(0)
	}
	return ctx
}

// ensureContext builds the context if Init or OnReload has not.
func ensureContext(p *api.Platform) *api.Context {
	if p.Ctx == nil || p.Ctx.Scheduler == nil || p.Ctx.Palettes == nil || p.Ctx.Text == nil {
		return buildContext(p)
	}
	return p.Ctx
}

func accelerator(p *api.Platform) gpu.Accelerator {
	if p.Ctx == nil {
		return nil
	}
	return p.Ctx.Accelerator
}
