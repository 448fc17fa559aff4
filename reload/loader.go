package reload

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/api"
)

// Library is an opened module artifact.
type Library interface {
	// Lookup returns the exported symbol with the given name.
	Lookup(name string) (any, error)

	// Close releases the library. Loaders that cannot unload code treat
	// it as a no-op.
	Close() error
}

// Loader opens module artifacts.
type Loader interface {
	Open(path string) (Library, error)
}

// resolve builds the function table of lib. The contract version symbol
// is optional; when present it must match api.Version. Update and Render
// are mandatory.
func resolve(lib Library) (api.Module, error) {
	m := api.Module{Version: api.Version}

	if sym, err := lib.Lookup(api.SymbolVersion); err == nil {
		v, ok := sym.(*int)
		if !ok {
			return api.Module{}, fmt.Errorf("%w: %s has type %T", ErrVersionMismatch, api.SymbolVersion, sym)
		}
		if *v != api.Version {
			return api.Module{}, fmt.Errorf("%w: module %d, host %d", ErrVersionMismatch, *v, api.Version)
		}
		m.Version = *v
	}

	entries := []struct {
		name string
		dst  *api.EntryPoint
	}{
		{api.SymbolInit, &m.Init},
		{api.SymbolUpdate, &m.Update},
		{api.SymbolRender, &m.Render},
		{api.SymbolCleanup, &m.Cleanup},
		{api.SymbolOnReload, &m.OnReload},
	}
	for _, e := range entries {
		sym, err := lib.Lookup(e.name)
		if err != nil {
			fractal.Logger().Debug("reload: symbol not found", "symbol", e.name)
			continue
		}
		fn, ok := entryPoint(sym)
		if !ok {
			fractal.Logger().Debug("reload: symbol has wrong type", "symbol", e.name, "type", fmt.Sprintf("%T", sym))
			continue
		}
		*e.dst = fn
	}

	if missing := m.Missing(); len(missing) > 0 {
		return api.Module{}, fmt.Errorf("%w: %s", ErrMissingEntryPoint, strings.Join(missing, ", "))
	}
	return m, nil
}

// entryPoint accepts both the named and the unnamed function type, since
// an exported plugin function carries the unnamed one.
func entryPoint(sym any) (api.EntryPoint, bool) {
	switch fn := sym.(type) {
	case func(*api.Platform, *api.State):
		return fn, fn != nil
	case api.EntryPoint:
		return fn, fn != nil
	case *api.EntryPoint:
		if fn == nil || *fn == nil {
			return nil, false
		}
		return *fn, true
	default:
		return nil, false
	}
}

// StaticLoader serves modules linked into the host binary. Publish
// replaces the module that the next Open returns, which is how tests and
// platforms without plugin support stand in for a rebuilt artifact.
type StaticLoader struct {
	mu     sync.Mutex
	module api.Module
	ok     bool
	err    error
	opened []string
}

// NewStaticLoader returns a loader that serves m.
func NewStaticLoader(m api.Module) *StaticLoader {
	l := &StaticLoader{}
	l.Publish(m)
	return l
}

// Publish makes m the module returned by the next Open and clears any
// failure set by Fail.
func (l *StaticLoader) Publish(m api.Module) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.module = m
	l.ok = true
	l.err = nil
}

// Fail makes the next Open calls return err.
func (l *StaticLoader) Fail(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.err = err
}

// Opened returns the paths passed to Open, oldest first.
func (l *StaticLoader) Opened() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.opened...)
}

// Open implements Loader.
func (l *StaticLoader) Open(path string) (Library, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.opened = append(l.opened, path)
	if l.err != nil {
		return nil, fmt.Errorf("reload: open %s: %w", path, l.err)
	}
	if !l.ok {
		return nil, ErrNoModule
	}
	return &staticLibrary{module: l.module}, nil
}

// staticLibrary exposes a module table through symbol lookup.
type staticLibrary struct {
	module api.Module
}

func (s *staticLibrary) Lookup(name string) (any, error) {
	var fn api.EntryPoint
	switch name {
	case api.SymbolVersion:
		v := s.module.Version
		return &v, nil
	case api.SymbolInit:
		fn = s.module.Init
	case api.SymbolUpdate:
		fn = s.module.Update
	case api.SymbolRender:
		fn = s.module.Render
	case api.SymbolCleanup:
		fn = s.module.Cleanup
	case api.SymbolOnReload:
		fn = s.module.OnReload
	}
	if fn == nil {
		return nil, fmt.Errorf("reload: symbol %s not found", name)
	}
	return fn, nil
}

func (s *staticLibrary) Close() error { return nil }
