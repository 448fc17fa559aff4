package api

import (
	"reflect"
	"slices"
	"testing"

	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/internal/parallel"
	"github.com/gogpu/fractal/kernel"
)

// pointerFree reports whether values of t contain no references.
func pointerFree(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return pointerFree(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if !pointerFree(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func TestState_IsPlainValue(t *testing.T) {
	if !pointerFree(reflect.TypeOf(State{})) {
		t.Error("State contains references; it must stay a plain value type")
	}
}

func TestState_LeadingFieldOrder(t *testing.T) {
	want := []string{
		"Initialized", "AnimationTime", "FrameCount",
		"ViewCenterX", "ViewCenterY", "ViewScale", "TargetScale",
		"IsPanning", "PanStartX", "PanStartY", "PanStartCenterX", "PanStartCenterY",
		"LastMouseX", "LastMouseY", "UseGPU",
	}
	typ := reflect.TypeOf(State{})
	for i, name := range want {
		if got := typ.Field(i).Name; got != name {
			t.Errorf("State field %d = %s, want %s", i, got, name)
		}
	}
}

func TestState_View(t *testing.T) {
	var s State
	v := kernel.View{CenterX: 1, CenterY: -2, Scale: 0.5}
	s.SetView(v)
	if got := s.View(); got != v {
		t.Errorf("View() = %+v, want %+v", got, v)
	}

	s.IsPanning = true
	s.TargetScale = 7
	s.ResetView()
	if got := s.View(); got != kernel.DefaultView() {
		t.Errorf("View() after ResetView = %+v, want %+v", got, kernel.DefaultView())
	}
	if s.TargetScale != kernel.DefaultScale {
		t.Errorf("TargetScale after ResetView = %v, want %v", s.TargetScale, kernel.DefaultScale)
	}
	if s.IsPanning {
		t.Error("IsPanning after ResetView = true, want false")
	}
}

func TestModule_Missing(t *testing.T) {
	noop := func(*Platform, *State) {}
	tests := []struct {
		name string
		m    Module
		want []string
	}{
		{"complete", Module{Update: noop, Render: noop}, nil},
		{"no update", Module{Render: noop, Init: noop}, []string{SymbolUpdate}},
		{"no render", Module{Update: noop}, []string{SymbolRender}},
		{"empty", Module{}, []string{SymbolUpdate, SymbolRender}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.Missing(); !slices.Equal(got, tt.want) {
				t.Errorf("Missing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCall(t *testing.T) {
	Call(nil, &Platform{}, &State{})

	var s State
	Call(func(_ *Platform, s *State) { s.FrameCount++ }, &Platform{}, &s)
	if s.FrameCount != 1 {
		t.Errorf("FrameCount = %d, want 1", s.FrameCount)
	}
}

func TestInput_Bounds(t *testing.T) {
	var in Input
	in.KeysPressed[KeyF5] = true
	in.KeysHeld[KeyEscape] = true
	in.KeysReleased[KeyR] = true
	in.MousePressed[MouseRight] = true

	if !in.Pressed(KeyF5) || !in.Held(KeyEscape) || !in.Released(KeyR) {
		t.Error("key queries do not reflect the arrays")
	}
	if !in.ButtonPressed(MouseRight) || in.ButtonHeld(MouseRight) {
		t.Error("button queries do not reflect the arrays")
	}

	for _, k := range []Key{-1, MaxKeys, 10000} {
		if in.Pressed(k) || in.Held(k) || in.Released(k) {
			t.Errorf("out-of-range key %d reported as set", k)
		}
	}
	for _, b := range []MouseButton{-1, MaxMouseButtons} {
		if in.ButtonPressed(b) || in.ButtonHeld(b) || in.ButtonReleased(b) {
			t.Errorf("out-of-range button %d reported as set", b)
		}
	}
}

func TestInput_Typed(t *testing.T) {
	var in Input
	if got := in.Typed(); len(got) != 0 {
		t.Errorf("Typed() = %q, want empty", got)
	}
	in.Chars[0], in.Chars[1] = 'h', 'i'
	in.CharCount = 2
	if got := string(in.Typed()); got != "hi" {
		t.Errorf("Typed() = %q, want %q", got, "hi")
	}
	in.CharCount = 1000
	if got := len(in.Typed()); got != MaxChars {
		t.Errorf("len(Typed()) with overflowing count = %d, want %d", got, MaxChars)
	}
}

func TestKeyNumbering(t *testing.T) {
	tests := []struct {
		key  Key
		want int
	}{
		{KeyEscape, 256},
		{KeyF5, 294},
		{KeyF12, 301},
		{KeyR, 'R'},
		{KeyG, 'G'},
		{KeyP, 'P'},
		{KeyO, 'O'},
		{KeyJ, 'J'},
		{KeyT, 'T'},
	}
	for _, tt := range tests {
		if int(tt.key) != tt.want {
			t.Errorf("key = %d, want %d", tt.key, tt.want)
		}
	}
}

func TestPlatform_BeginFrame(t *testing.T) {
	p := Platform{Quit: true, Capture: true}
	p.BeginFrame()
	if p.Quit || p.Capture {
		t.Errorf("BeginFrame() left Quit=%v Capture=%v", p.Quit, p.Capture)
	}
}

func TestContext_Log(t *testing.T) {
	var nilCtx *Context
	if nilCtx.Log() != fractal.Logger() {
		t.Error("nil Context Log() is not the package logger")
	}
	if (&Context{}).Log() != fractal.Logger() {
		t.Error("empty Context Log() is not the package logger")
	}
}

func TestContext_Iterations(t *testing.T) {
	tests := []struct {
		name string
		ctx  *Context
		want int
	}{
		{"nil", nil, DefaultMaxIter},
		{"unset", &Context{}, DefaultMaxIter},
		{"negative", &Context{MaxIter: -5}, DefaultMaxIter},
		{"explicit", &Context{MaxIter: 256}, 256},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ctx.Iterations(); got != tt.want {
				t.Errorf("Iterations() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestContext_ReleaseKeepsPool(t *testing.T) {
	pool := parallel.NewWorkerPool(2)
	defer pool.Close()

	ctx := &Context{Pool: pool, Scheduler: kernel.NewSchedulerWithPool(pool)}
	ctx.Release()

	if ctx.Scheduler != nil {
		t.Error("Scheduler not cleared by Release")
	}
	if !pool.IsRunning() {
		t.Error("Release closed the host-owned pool")
	}
}
