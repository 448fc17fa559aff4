//go:build !((linux || darwin || freebsd) && cgo)

package reload

// PluginLoader is unavailable on this platform; use StaticLoader.
type PluginLoader struct{}

// Open always fails with ErrPluginsUnsupported.
func (PluginLoader) Open(string) (Library, error) {
	return nil, ErrPluginsUnsupported
}
