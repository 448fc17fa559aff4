package platform

import (
	"sync"
	"testing"

	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/api"
)

func TestInput_KeyEdges(t *testing.T) {
	var in Input
	var snap api.Input

	in.Apply(KeyPress{Key: api.KeyR})
	in.Apply(KeyPress{Key: api.KeyR}) // repeat
	in.Snapshot(&snap)
	if !snap.Pressed(api.KeyR) || !snap.Held(api.KeyR) {
		t.Errorf("frame 1: Pressed=%v Held=%v, want true true", snap.Pressed(api.KeyR), snap.Held(api.KeyR))
	}

	in.Snapshot(&snap)
	if snap.Pressed(api.KeyR) || !snap.Held(api.KeyR) {
		t.Errorf("frame 2: Pressed=%v Held=%v, want false true", snap.Pressed(api.KeyR), snap.Held(api.KeyR))
	}

	in.Apply(KeyRelease{Key: api.KeyR})
	in.Snapshot(&snap)
	if !snap.Released(api.KeyR) || snap.Held(api.KeyR) {
		t.Errorf("frame 3: Released=%v Held=%v, want true false", snap.Released(api.KeyR), snap.Held(api.KeyR))
	}

	in.Snapshot(&snap)
	if snap.Released(api.KeyR) {
		t.Error("frame 4: Released still set")
	}
}

func TestInput_PressAndReleaseInOneFrame(t *testing.T) {
	var in Input
	var snap api.Input

	in.Apply(ButtonPress{Button: api.MouseRight})
	in.Apply(ButtonRelease{Button: api.MouseRight})
	in.Snapshot(&snap)

	if !snap.ButtonPressed(api.MouseRight) || !snap.ButtonReleased(api.MouseRight) {
		t.Error("both edges of a click within one frame must be visible")
	}
	if snap.ButtonHeld(api.MouseRight) {
		t.Error("ButtonHeld after release = true, want false")
	}
}

func TestInput_OutOfRangeIgnored(t *testing.T) {
	var in Input
	in.Apply(KeyPress{Key: -1})
	in.Apply(KeyPress{Key: api.MaxKeys})
	in.Apply(ButtonPress{Button: api.MaxMouseButtons})
	in.Apply("not an event")

	var snap api.Input
	in.Snapshot(&snap)
	if snap != (api.Input{}) {
		t.Error("out-of-range events changed the snapshot")
	}
}

func TestInput_MouseDeltaAndScroll(t *testing.T) {
	var in Input
	var snap api.Input

	in.Apply(MotionNotify{X: 100, Y: 50})
	in.Snapshot(&snap)
	if snap.MouseDX != 0 || snap.MouseDY != 0 {
		t.Errorf("first motion delta = (%v, %v), want (0, 0)", snap.MouseDX, snap.MouseDY)
	}

	in.Apply(MotionNotify{X: 110, Y: 45})
	in.Apply(MotionNotify{X: 120, Y: 40})
	in.Apply(MouseWheel{DeltaY: 1})
	in.Apply(MouseWheel{DeltaX: -0.5, DeltaY: 2})
	in.Snapshot(&snap)

	if snap.MouseX != 120 || snap.MouseY != 40 {
		t.Errorf("mouse = (%v, %v), want (120, 40)", snap.MouseX, snap.MouseY)
	}
	if snap.MouseDX != 20 || snap.MouseDY != -10 {
		t.Errorf("delta = (%v, %v), want (20, -10)", snap.MouseDX, snap.MouseDY)
	}
	if snap.ScrollX != -0.5 || snap.ScrollY != 3 {
		t.Errorf("scroll = (%v, %v), want (-0.5, 3)", snap.ScrollX, snap.ScrollY)
	}

	in.Snapshot(&snap)
	if snap.MouseX != 120 || snap.MouseDX != 0 || snap.ScrollY != 0 {
		t.Errorf("next frame: mouse=%v delta=%v scroll=%v, want 120 0 0", snap.MouseX, snap.MouseDX, snap.ScrollY)
	}
}

func TestInput_CharQueueCapped(t *testing.T) {
	var in Input
	for i := range api.MaxChars + 10 {
		in.Apply(CharInput{Char: rune('a' + i%26)})
	}

	var snap api.Input
	in.Snapshot(&snap)
	if snap.CharCount != api.MaxChars {
		t.Errorf("CharCount = %d, want %d", snap.CharCount, api.MaxChars)
	}
	if snap.Chars[0] != 'a' {
		t.Errorf("Chars[0] = %q, want 'a'", snap.Chars[0])
	}

	in.Snapshot(&snap)
	if snap.CharCount != 0 {
		t.Errorf("CharCount next frame = %d, want 0", snap.CharCount)
	}
}

func TestInput_ResizeAndClose(t *testing.T) {
	var in Input
	if _, _, ok := in.Resized(); ok {
		t.Error("Resized() = ok before any event")
	}
	in.Apply(Resize{Width: 640, Height: 480})
	if w, h, ok := in.Resized(); !ok || w != 640 || h != 480 {
		t.Errorf("Resized() = %d, %d, %v, want 640, 480, true", w, h, ok)
	}
	if _, _, ok := in.Resized(); ok {
		t.Error("Resized() reported the same event twice")
	}

	in.Apply(CloseRequest{})
	if !in.CloseRequested() {
		t.Error("CloseRequested() = false after CloseRequest")
	}
}

func TestInput_ConcurrentApply(t *testing.T) {
	var in Input
	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				in.Apply(MouseWheel{DeltaY: 1})
			}
		}()
	}
	wg.Wait()

	var snap api.Input
	in.Snapshot(&snap)
	if snap.ScrollY != 400 {
		t.Errorf("ScrollY = %v, want 400", snap.ScrollY)
	}
}

func TestHeadless_Script(t *testing.T) {
	w := NewHeadless(320, 200).
		At(0, MotionNotify{X: 5, Y: 6}).
		At(2, KeyPress{Key: api.KeyEscape}, Resize{Width: 100, Height: 80})

	var in Input
	var snap api.Input

	w.PollEvents(&in)
	in.Snapshot(&snap)
	if snap.MouseX != 5 {
		t.Errorf("frame 0 MouseX = %v, want 5", snap.MouseX)
	}

	w.PollEvents(&in)
	in.Snapshot(&snap)
	if snap.Pressed(api.KeyEscape) {
		t.Error("frame 1 received a frame 2 event")
	}

	w.PollEvents(&in)
	in.Snapshot(&snap)
	if !snap.Pressed(api.KeyEscape) {
		t.Error("frame 2 missing Escape")
	}
	if width, height := w.Size(); width != 100 || height != 80 {
		t.Errorf("Size() = %dx%d, want 100x80", width, height)
	}
}

func TestHeadless_Present(t *testing.T) {
	var w Window = NewHeadless(4, 4)
	fb := fractal.NewFramebuffer(4, 4)
	for range 3 {
		if err := w.Present(fb); err != nil {
			t.Fatal(err)
		}
	}
	h := w.(*Headless)
	if h.Presented() != 3 || h.Last() != fb {
		t.Errorf("Presented() = %d, Last() = %p, want 3, %p", h.Presented(), h.Last(), fb)
	}
}
