package platform

import (
	"errors"
	"sync"
	"time"

	"github.com/gogpu/gogpu"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/present"
)

// ErrNotDrawing is returned by GPUWindow.Present outside a frame.
var ErrNotDrawing = errors.New("platform: present outside a frame")

// FrameFunc runs one host frame. dt is the time since the previous frame.
type FrameFunc func(dt time.Duration) (quit bool, err error)

// Driver is a window that owns the frame loop. The host hands it the
// frame function instead of polling.
type Driver interface {
	Window
	Run(frame FrameFunc) error
}

// eventQueue buffers events between the window system's callbacks and
// the frame loop.
type eventQueue struct {
	mu     sync.Mutex
	events []Event
}

func (q *eventQueue) push(ev Event) {
	q.mu.Lock()
	q.events = append(q.events, ev)
	q.mu.Unlock()
}

func (q *eventQueue) drain(in *Input) {
	q.mu.Lock()
	events := q.events
	q.events = nil
	q.mu.Unlock()
	for _, ev := range events {
		in.Apply(ev)
	}
}

// GPUWindow is a gogpu window. Frames are uploaded as a texture through
// present.TexturePresenter and drawn over the whole window.
type GPUWindow struct {
	app *gogpu.App

	queue     eventQueue
	presenter *present.TexturePresenter
	drawer    gpucontext.TextureDrawer
	onDevice  func(gpucontext.DeviceProvider)

	width, height int
}

// NewGPUWindow creates the window. It opens when Run is called.
func NewGPUWindow(title string, width, height int) *GPUWindow {
	w := &GPUWindow{width: width, height: height}
	w.app = gogpu.NewApp(gogpu.DefaultConfig().
		WithTitle(title).
		WithSize(width, height))
	Bind(w.app.EventSource(), w.queue.push)
	// The texture goes before gogpu destroys the device.
	w.app.OnClose(func() {
		w.queue.push(CloseRequest{})
		w.Close()
	})
	return w
}

// OnDevice registers fn to receive the window's device provider before
// the first frame, for sharing the device with compute work.
func (w *GPUWindow) OnDevice(fn func(gpucontext.DeviceProvider)) {
	w.onDevice = fn
}

func (w *GPUWindow) Size() (int, int) { return w.width, w.height }

// PollEvents delivers the events received since the last call.
func (w *GPUWindow) PollEvents(in *Input) {
	w.queue.drain(in)
}

// Present draws fb. It is only valid inside the frame function.
func (w *GPUWindow) Present(fb *fractal.Framebuffer) error {
	if w.drawer == nil || w.presenter == nil {
		return ErrNotDrawing
	}
	return w.presenter.Present(w.drawer, fb)
}

// Run opens the window and calls frame once per redraw until frame asks
// to quit or fails, or the window is closed.
func (w *GPUWindow) Run(frame FrameFunc) error {
	var frameErr error
	last := time.Now()
	w.app.OnDraw(func(dc *gogpu.Context) {
		now := time.Now()
		dt := now.Sub(last)
		last = now

		quit, err := w.draw(dc.AsTextureDrawer(), dc.Width(), dc.Height(), w.app.GPUContextProvider(), dt, frame)
		if err != nil {
			frameErr = err
		}
		if quit || err != nil {
			w.app.Quit()
		}
	})
	if err := w.app.Run(); err != nil {
		return err
	}
	return frameErr
}

// draw runs one frame against drawer. The first frame with a provider
// picks the texture format and reports the device.
func (w *GPUWindow) draw(drawer gpucontext.TextureDrawer, width, height int, provider gpucontext.DeviceProvider, dt time.Duration, frame FrameFunc) (bool, error) {
	if width <= 0 || height <= 0 {
		return false, nil
	}
	if width != w.width || height != w.height {
		w.width, w.height = width, height
		w.queue.push(Resize{Width: width, Height: height})
	}
	if w.presenter == nil {
		format := gputypes.TextureFormatRGBA8Unorm
		if provider != nil {
			format = present.SurfaceFormat(provider)
			if w.onDevice != nil {
				w.onDevice(provider)
			}
		}
		w.presenter = present.NewTexturePresenter(format)
	}

	w.drawer = drawer
	defer func() { w.drawer = nil }()
	return frame(dt)
}

// Close releases the presenter's texture. It is safe to call more than
// once.
func (w *GPUWindow) Close() {
	if w.presenter != nil {
		w.presenter.Close()
	}
}
