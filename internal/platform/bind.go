package platform

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/fractal/api"
)

// Bind registers callbacks on src that translate window events and pass
// them to deliver. deliver may be called from the window system's thread.
func Bind(src gpucontext.EventSource, deliver func(Event)) {
	src.OnKeyPress(func(k gpucontext.Key, _ gpucontext.Modifiers) {
		if key, ok := KeyFromGPU(k); ok {
			deliver(KeyPress{Key: key})
		}
	})
	src.OnKeyRelease(func(k gpucontext.Key, _ gpucontext.Modifiers) {
		if key, ok := KeyFromGPU(k); ok {
			deliver(KeyRelease{Key: key})
		}
	})
	src.OnTextInput(func(text string) {
		for _, r := range text {
			deliver(CharInput{Char: r})
		}
	})
	src.OnMouseMove(func(x, y float64) {
		deliver(MotionNotify{X: x, Y: y})
	})
	src.OnMousePress(func(b gpucontext.MouseButton, x, y float64) {
		deliver(MotionNotify{X: x, Y: y})
		deliver(ButtonPress{Button: api.MouseButton(b)})
	})
	src.OnMouseRelease(func(b gpucontext.MouseButton, x, y float64) {
		deliver(MotionNotify{X: x, Y: y})
		deliver(ButtonRelease{Button: api.MouseButton(b)})
	})
	src.OnScroll(func(dx, dy float64) {
		deliver(MouseWheel{DeltaX: dx, DeltaY: dy})
	})
	src.OnResize(func(w, h int) {
		deliver(Resize{Width: w, Height: h})
	})
}

// namedKeys maps the gpucontext keys outside the letter, digit and
// function key ranges to GLFW numbering.
var namedKeys = map[gpucontext.Key]api.Key{
	gpucontext.KeySpace:        api.KeySpace,
	gpucontext.KeyEscape:       api.KeyEscape,
	gpucontext.KeyEnter:        api.KeyEnter,
	gpucontext.KeyTab:          258,
	gpucontext.KeyBackspace:    259,
	gpucontext.KeyInsert:       260,
	gpucontext.KeyDelete:       261,
	gpucontext.KeyRight:        api.KeyRight,
	gpucontext.KeyLeft:         api.KeyLeft,
	gpucontext.KeyDown:         api.KeyDown,
	gpucontext.KeyUp:           api.KeyUp,
	gpucontext.KeyPageUp:       266,
	gpucontext.KeyPageDown:     267,
	gpucontext.KeyHome:         268,
	gpucontext.KeyEnd:          269,
	gpucontext.KeyMinus:        '-',
	gpucontext.KeyEqual:        '=',
	gpucontext.KeyComma:        ',',
	gpucontext.KeyPeriod:       '.',
	gpucontext.KeySlash:        '/',
	gpucontext.KeyLeftShift:    340,
	gpucontext.KeyLeftControl:  341,
	gpucontext.KeyLeftAlt:      342,
	gpucontext.KeyRightShift:   344,
	gpucontext.KeyRightControl: 345,
	gpucontext.KeyRightAlt:     346,
}

// KeyFromGPU converts a gpucontext key to GLFW numbering.
func KeyFromGPU(k gpucontext.Key) (api.Key, bool) {
	switch {
	case k >= gpucontext.KeyA && k <= gpucontext.KeyZ:
		return api.Key('A' + int(k-gpucontext.KeyA)), true
	case k >= gpucontext.Key0 && k <= gpucontext.Key9:
		return api.Key('0' + int(k-gpucontext.Key0)), true
	case k >= gpucontext.KeyF1 && k <= gpucontext.KeyF12:
		return api.KeyF5 - 4 + api.Key(k-gpucontext.KeyF1), true
	}
	key, ok := namedKeys[k]
	return key, ok
}
