package reload

import "errors"

var (
	// ErrBuildInProgress is returned by RequestBuild while a build runs.
	// The request is rejected, not queued.
	ErrBuildInProgress = errors.New("reload: build already in progress")

	// ErrNoBuilder is returned by RequestBuild when the host has no builder.
	ErrNoBuilder = errors.New("reload: no builder configured")

	// ErrBuildFailed wraps the exit status of a failed build.
	ErrBuildFailed = errors.New("reload: build failed")

	// ErrMissingEntryPoint reports a module without Update or Render.
	ErrMissingEntryPoint = errors.New("reload: missing mandatory entry point")

	// ErrVersionMismatch reports a module built against another api.Version.
	ErrVersionMismatch = errors.New("reload: module contract version mismatch")

	// ErrNoModule is returned by StaticLoader when nothing was published.
	ErrNoModule = errors.New("reload: no module published")

	// ErrPluginsUnsupported is returned by PluginLoader on platforms
	// without Go plugin support.
	ErrPluginsUnsupported = errors.New("reload: plugins are not supported on this platform")
)
