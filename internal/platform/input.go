package platform

import (
	"sync"

	"github.com/gogpu/fractal/api"
)

// Input accumulates events between frames.
//
// Drivers may deliver events from their own goroutine; Snapshot is called
// from the frame loop. Held state carries over between frames, edges,
// deltas, scroll and typed characters are reset by each Snapshot.
type Input struct {
	mu   sync.Mutex
	cur  api.Input
	seen bool // a motion event has set the cursor at least once

	width, height int
	resized       bool
	closed        bool
}

// Apply records one event. Unknown events are ignored.
func (in *Input) Apply(ev Event) {
	in.mu.Lock()
	defer in.mu.Unlock()

	c := &in.cur
	switch e := ev.(type) {
	case KeyPress:
		if validKey(e.Key) {
			if !c.KeysHeld[e.Key] {
				c.KeysPressed[e.Key] = true
			}
			c.KeysHeld[e.Key] = true
		}
	case KeyRelease:
		if validKey(e.Key) {
			c.KeysHeld[e.Key] = false
			c.KeysReleased[e.Key] = true
		}
	case ButtonPress:
		if validButton(e.Button) {
			if !c.MouseHeld[e.Button] {
				c.MousePressed[e.Button] = true
			}
			c.MouseHeld[e.Button] = true
		}
	case ButtonRelease:
		if validButton(e.Button) {
			c.MouseHeld[e.Button] = false
			c.MouseReleased[e.Button] = true
		}
	case MotionNotify:
		if in.seen {
			c.MouseDX += e.X - c.MouseX
			c.MouseDY += e.Y - c.MouseY
		}
		c.MouseX, c.MouseY = e.X, e.Y
		in.seen = true
	case MouseWheel:
		c.ScrollX += e.DeltaX
		c.ScrollY += e.DeltaY
	case CharInput:
		if c.CharCount < api.MaxChars {
			c.Chars[c.CharCount] = e.Char
			c.CharCount++
		}
	case Resize:
		in.width, in.height = e.Width, e.Height
		in.resized = true
	case CloseRequest:
		in.closed = true
	}
}

// Snapshot copies this frame's input into dst and starts a new frame.
func (in *Input) Snapshot(dst *api.Input) {
	in.mu.Lock()
	defer in.mu.Unlock()

	*dst = in.cur

	c := &in.cur
	c.MouseDX, c.MouseDY = 0, 0
	c.ScrollX, c.ScrollY = 0, 0
	c.MousePressed = [api.MaxMouseButtons]bool{}
	c.MouseReleased = [api.MaxMouseButtons]bool{}
	c.KeysPressed = [api.MaxKeys]bool{}
	c.KeysReleased = [api.MaxKeys]bool{}
	c.CharCount = 0
}

// Resized returns the size of the last Resize event since the previous
// call, if any.
func (in *Input) Resized() (width, height int, ok bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if !in.resized {
		return 0, 0, false
	}
	in.resized = false
	return in.width, in.height, true
}

// CloseRequested reports whether a CloseRequest has been applied.
func (in *Input) CloseRequested() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.closed
}

func validKey(k api.Key) bool { return k >= 0 && k < api.MaxKeys }

func validButton(b api.MouseButton) bool { return b >= 0 && b < api.MaxMouseButtons }
