package api

import (
	"github.com/gogpu/fractal/kernel"
	"github.com/gogpu/fractal/palette"
)

// State is the persistent record shared by the host and the module.
//
// The host allocates it once and passes the same address to every module
// generation. Its layout is part of the contract: fields are only ever
// appended, and it holds no pointers, slices, maps or interfaces.
type State struct {
	Initialized   bool
	AnimationTime float64
	FrameCount    uint64

	ViewCenterX float64
	ViewCenterY float64
	ViewScale   float64
	TargetScale float64

	IsPanning       bool
	PanStartX       float64
	PanStartY       float64
	PanStartCenterX float64
	PanStartCenterY float64
	LastMouseX      float64
	LastMouseY      float64

	UseGPU bool

	Palette     palette.Index
	ShowOverlay bool
	ShowJulia   bool
	ShowOrbit   bool
}

// View returns the current view.
func (s *State) View() kernel.View {
	return kernel.View{CenterX: s.ViewCenterX, CenterY: s.ViewCenterY, Scale: s.ViewScale}
}

// SetView stores v as the current view.
func (s *State) SetView(v kernel.View) {
	s.ViewCenterX = v.CenterX
	s.ViewCenterY = v.CenterY
	s.ViewScale = v.Scale
}

// ResetView restores the default view and target scale and stops panning.
func (s *State) ResetView() {
	s.SetView(kernel.DefaultView())
	s.TargetScale = kernel.DefaultScale
	s.IsPanning = false
}
