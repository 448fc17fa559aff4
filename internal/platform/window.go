package platform

import "github.com/gogpu/fractal"

// Window is what the host needs from a window system.
type Window interface {
	// Size returns the framebuffer size in pixels.
	Size() (width, height int)

	// PollEvents delivers pending events to in without blocking.
	PollEvents(in *Input)

	// Present shows fb.
	Present(fb *fractal.Framebuffer) error

	Close()
}

// Headless is a window without a display. It replays scripted events and
// counts presented frames, which is enough to drive the host in tests and
// in batch renders.
type Headless struct {
	width, height int
	script        map[int][]Event
	frame         int
	presented     int
	last          *fractal.Framebuffer
}

// NewHeadless returns a headless window of the given size.
func NewHeadless(width, height int) *Headless {
	return &Headless{
		width:  max(width, 0),
		height: max(height, 0),
		script: make(map[int][]Event),
	}
}

// At schedules events for delivery on the given frame, counted from zero
// by PollEvents calls.
func (h *Headless) At(frame int, events ...Event) *Headless {
	h.script[frame] = append(h.script[frame], events...)
	return h
}

func (h *Headless) Size() (int, int) { return h.width, h.height }

// PollEvents delivers the events scheduled for the current frame.
func (h *Headless) PollEvents(in *Input) {
	for _, ev := range h.script[h.frame] {
		if r, ok := ev.(Resize); ok {
			h.width, h.height = max(r.Width, 0), max(r.Height, 0)
		}
		in.Apply(ev)
	}
	delete(h.script, h.frame)
	h.frame++
}

// Present records fb as the last presented frame.
func (h *Headless) Present(fb *fractal.Framebuffer) error {
	h.presented++
	h.last = fb
	return nil
}

// Presented returns the number of frames presented.
func (h *Headless) Presented() int { return h.presented }

// Last returns the last presented framebuffer.
func (h *Headless) Last() *fractal.Framebuffer { return h.last }

func (h *Headless) Close() {}
