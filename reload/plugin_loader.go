//go:build (linux || darwin || freebsd) && cgo

package reload

import (
	"fmt"
	"plugin"
)

// PluginLoader opens modules built with -buildmode=plugin.
//
// Go plugins cannot be unloaded, so every generation stays mapped until
// the process exits. The runtime also refuses a plugin whose package path
// it has seen before; build generations with PluginBuilder, which gives
// each one a package of its own.
type PluginLoader struct{}

// Open implements Loader.
func (PluginLoader) Open(path string) (Library, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reload: open plugin %s: %w", path, err)
	}
	return pluginLibrary{p: p}, nil
}

type pluginLibrary struct {
	p *plugin.Plugin
}

func (l pluginLibrary) Lookup(name string) (any, error) {
	return l.p.Lookup(name)
}

func (pluginLibrary) Close() error { return nil }
