package reload

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/fractal/api"
)

// symbols is a Library backed by a map, the way a plugin exposes its
// exported functions and variables.
type symbols map[string]any

func (s symbols) Lookup(name string) (any, error) {
	sym, ok := s[name]
	if !ok {
		return nil, fmt.Errorf("symbol %s not found", name)
	}
	return sym, nil
}

func (symbols) Close() error { return nil }

func TestResolve_PluginSymbols(t *testing.T) {
	calls := 0
	fn := func(*api.Platform, *api.State) { calls++ }
	version := api.Version

	m, err := resolve(symbols{
		api.SymbolVersion: &version,
		api.SymbolInit:    fn,
		api.SymbolUpdate:  fn,
		api.SymbolRender:  fn,
	})
	require.NoError(t, err)

	assert.NotNil(t, m.Init)
	assert.NotNil(t, m.Update)
	assert.NotNil(t, m.Render)
	assert.Nil(t, m.Cleanup)
	assert.Nil(t, m.OnReload)

	m.Update(&api.Platform{}, &api.State{})
	assert.Equal(t, 1, calls)
}

func TestResolve_OptionalVersion(t *testing.T) {
	fn := func(*api.Platform, *api.State) {}
	m, err := resolve(symbols{api.SymbolUpdate: fn, api.SymbolRender: fn})
	require.NoError(t, err)
	assert.Equal(t, api.Version, m.Version)
}

func TestResolve_Errors(t *testing.T) {
	fn := func(*api.Platform, *api.State) {}
	stale := api.Version + 1
	tests := []struct {
		name string
		lib  symbols
		want error
	}{
		{"no update", symbols{api.SymbolRender: fn}, ErrMissingEntryPoint},
		{"no render", symbols{api.SymbolUpdate: fn}, ErrMissingEntryPoint},
		{"wrong type", symbols{api.SymbolUpdate: fn, api.SymbolRender: func() {}}, ErrMissingEntryPoint},
		{"stale version", symbols{api.SymbolVersion: &stale, api.SymbolUpdate: fn, api.SymbolRender: fn}, ErrVersionMismatch},
		{"version not int", symbols{api.SymbolVersion: "1", api.SymbolUpdate: fn, api.SymbolRender: fn}, ErrVersionMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolve(tt.lib)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestStaticLoader_PublishAndFail(t *testing.T) {
	var rec recorder
	l := &StaticLoader{}

	_, err := l.Open("x")
	require.ErrorIs(t, err, ErrNoModule)

	l.Publish(rec.module("a"))
	lib, err := l.Open("y")
	require.NoError(t, err)
	m, err := resolve(lib)
	require.NoError(t, err)
	assert.NotNil(t, m.OnReload)

	boom := fmt.Errorf("boom")
	l.Fail(boom)
	_, err = l.Open("z")
	require.ErrorIs(t, err, boom)

	assert.Equal(t, []string{"x", "y", "z"}, l.Opened())
}
