package api

// Key is a keyboard key in GLFW numbering: printable keys use their
// uppercase ASCII code, function keys start at 256.
type Key int

// Keys the module and host react to.
const (
	KeySpace  Key = 32
	KeyG      Key = 71
	KeyJ      Key = 74
	KeyO      Key = 79
	KeyP      Key = 80
	KeyR      Key = 82
	KeyT      Key = 84
	KeyEscape Key = 256
	KeyEnter  Key = 257
	KeyRight  Key = 262
	KeyLeft   Key = 263
	KeyDown   Key = 264
	KeyUp     Key = 265
	KeyF5     Key = 294
	KeyF12    Key = 301
)

// MaxKeys is the size of the per-key state arrays.
const MaxKeys = 512

// MaxChars is the capacity of the typed-character queue.
const MaxChars = 31

// MouseButton is a mouse button in GLFW numbering.
type MouseButton int

// Mouse buttons.
const (
	MouseLeft   MouseButton = 0
	MouseRight  MouseButton = 1
	MouseMiddle MouseButton = 2
)

// MaxMouseButtons is the size of the per-button state arrays.
const MaxMouseButtons = 8

// Input is the input state of one frame.
//
// Held reflects the state at the end of the frame's event polling. Pressed
// and Released are edges that happened during the frame, as are the mouse
// delta, the scroll offsets and the typed characters.
type Input struct {
	MouseX, MouseY   float64
	MouseDX, MouseDY float64

	MousePressed  [MaxMouseButtons]bool
	MouseHeld     [MaxMouseButtons]bool
	MouseReleased [MaxMouseButtons]bool

	ScrollX, ScrollY float64

	KeysPressed  [MaxKeys]bool
	KeysHeld     [MaxKeys]bool
	KeysReleased [MaxKeys]bool

	Chars     [MaxChars]rune
	CharCount int
}

func (k Key) valid() bool { return k >= 0 && k < MaxKeys }

func (b MouseButton) valid() bool { return b >= 0 && b < MaxMouseButtons }

// Pressed reports whether k went down this frame.
func (in *Input) Pressed(k Key) bool { return k.valid() && in.KeysPressed[k] }

// Held reports whether k is down.
func (in *Input) Held(k Key) bool { return k.valid() && in.KeysHeld[k] }

// Released reports whether k went up this frame.
func (in *Input) Released(k Key) bool { return k.valid() && in.KeysReleased[k] }

// ButtonPressed reports whether b went down this frame.
func (in *Input) ButtonPressed(b MouseButton) bool { return b.valid() && in.MousePressed[b] }

// ButtonHeld reports whether b is down.
func (in *Input) ButtonHeld(b MouseButton) bool { return b.valid() && in.MouseHeld[b] }

// ButtonReleased reports whether b went up this frame.
func (in *Input) ButtonReleased(b MouseButton) bool { return b.valid() && in.MouseReleased[b] }

// Typed returns the characters typed this frame.
func (in *Input) Typed() []rune {
	n := min(max(in.CharCount, 0), MaxChars)
	return in.Chars[:n]
}
