// Package platform turns window events into the per-frame api.Input
// snapshot and provides the window drivers the host runs on.
package platform

import "github.com/gogpu/fractal/api"

// Event is a window event. Drivers deliver them to Input.Apply.
type Event interface{}

type KeyPress struct {
	Key api.Key
}

type KeyRelease struct {
	Key api.Key
}

type ButtonPress struct {
	Button api.MouseButton
}

type ButtonRelease struct {
	Button api.MouseButton
}

// MotionNotify carries the cursor position in framebuffer pixels.
type MotionNotify struct {
	X, Y float64
}

type MouseWheel struct {
	DeltaX, DeltaY float64
}

// CharInput is one typed Unicode character.
type CharInput struct {
	Char rune
}

// Resize reports the new framebuffer size.
type Resize struct {
	Width, Height int
}

// CloseRequest asks the host to exit.
type CloseRequest struct{}
