package reload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/api"
)

// StatFunc returns the modification time of the artifact at path.
type StatFunc func(path string) (time.Time, error)

// HostOption configures a Host during creation.
type HostOption func(*hostOptions)

type hostOptions struct {
	loader   Loader
	builder  Builder
	stat     StatFunc
	artifact string
	loadDir  string
	logger   *slog.Logger
	ctx      *api.Context
}

// WithLoader sets the loader. The default is PluginLoader.
func WithLoader(l Loader) HostOption {
	return func(o *hostOptions) { o.loader = l }
}

// WithBuilder sets the builder used by RequestBuild.
func WithBuilder(b Builder) HostOption {
	return func(o *hostOptions) { o.builder = b }
}

// WithStat replaces os.Stat for artifact timestamps.
func WithStat(fn StatFunc) HostOption {
	return func(o *hostOptions) { o.stat = fn }
}

// WithArtifact sets the path of the module artifact. Without one, Load
// opens the loader with an empty path and CheckReload never swaps.
func WithArtifact(path string) HostOption {
	return func(o *hostOptions) { o.artifact = path }
}

// WithLoadDir sets where the per-generation copies of the artifact go.
// The default is a directory under os.TempDir.
func WithLoadDir(dir string) HostOption {
	return func(o *hostOptions) { o.loadDir = dir }
}

// WithLogger sets the host logger. The default is fractal.Logger().
func WithLogger(l *slog.Logger) HostOption {
	return func(o *hostOptions) { o.logger = l }
}

// WithContext supplies the service context with the host-owned fields
// (pool, accelerator, logger, iteration bound) filled in.
func WithContext(c *api.Context) HostOption {
	return func(o *hostOptions) { o.ctx = c }
}

// Host keeps one module resident and swaps it when the artifact changes.
//
// Host is not safe for concurrent use; the frame loop drives it from a
// single goroutine.
type Host struct {
	loader   Loader
	builder  Builder
	stat     StatFunc
	artifact string
	loadDir  string
	log      *slog.Logger

	state *api.State
	ctx   *api.Context

	module     *api.Module
	lib        Library
	modTime    time.Time
	generation int
	copies     []string
	reloads    int
	reloading  bool

	job *BuildJob
}

// NewHost allocates the State record and the Context. Neither is
// reallocated for the lifetime of the host.
func NewHost(opts ...HostOption) (*Host, error) {
	o := hostOptions{
		loader:  PluginLoader{},
		stat:    statModTime,
		loadDir: filepath.Join(os.TempDir(), "fractal-reload"),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.loader == nil {
		return nil, errors.New("reload: nil loader")
	}
	if o.stat == nil {
		o.stat = statModTime
	}
	if o.logger == nil {
		o.logger = fractal.Logger()
	}
	if o.ctx == nil {
		o.ctx = &api.Context{}
	}
	if o.ctx.Logger == nil {
		o.ctx.Logger = o.logger
	}

	return &Host{
		loader:   o.loader,
		builder:  o.builder,
		stat:     o.stat,
		artifact: o.artifact,
		loadDir:  o.loadDir,
		log:      o.logger,
		state:    &api.State{},
		ctx:      o.ctx,
	}, nil
}

func statModTime(path string) (time.Time, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return fi.ModTime(), nil
}

// State returns the persistent state record.
func (h *Host) State() *api.State { return h.state }

// Context returns the service context handed to the module.
func (h *Host) Context() *api.Context { return h.ctx }

// Generation returns the number of load attempts so far.
func (h *Host) Generation() int { return h.generation }

// Reloads returns the number of successful swaps after the first load.
func (h *Host) Reloads() int { return h.reloads }

// HasModule reports whether a module is resident.
func (h *Host) HasModule() bool { return h.module != nil }

// Status returns the current position in the reload cycle.
func (h *Host) Status() Status {
	switch {
	case h.reloading:
		return Reloading
	case h.module == nil:
		return Unloaded
	case h.job != nil:
		return Compiling
	default:
		return Loaded
	}
}

// Load performs the initial load and calls Init. On failure the host stays
// moduleless and keeps running; a later artifact change retries.
func (h *Host) Load(p *api.Platform) error {
	p.Ctx = h.ctx
	if h.artifact != "" {
		mt, err := h.stat(h.artifact)
		if err != nil {
			return fmt.Errorf("reload: stat artifact: %w", err)
		}
		h.modTime = mt
	}

	m, err := h.open()
	if err != nil {
		h.log.Warn("reload: initial load failed", "artifact", h.artifact, "err", err)
		return err
	}
	h.module = m
	api.Call(m.Init, p, h.state)
	h.log.Info("reload: module loaded", "artifact", h.artifact, "generation", h.generation)
	return nil
}

// RequestBuild starts a build. It is allowed without a resident module so
// that a broken module can be fixed without a restart.
func (h *Host) RequestBuild(ctx context.Context) (*BuildJob, error) {
	if h.builder == nil {
		return nil, ErrNoBuilder
	}
	if h.job != nil {
		return nil, ErrBuildInProgress
	}
	job, err := h.builder.Start(ctx)
	if err != nil {
		h.log.Warn("reload: build did not start", "err", err)
		return nil, err
	}
	h.job = job
	h.log.Info("reload: build started", "id", job.ID)
	return job, nil
}

// PollBuild checks the running build without blocking. When it has
// finished the outcome is logged and the job cleared. It never swaps
// modules; the new artifact is picked up by CheckReload.
func (h *Host) PollBuild() (finished bool, err error) {
	if h.job == nil {
		return false, nil
	}
	done, err := h.job.Poll()
	if !done {
		return false, nil
	}
	id, elapsed := h.job.ID, time.Since(h.job.Started)
	h.job = nil
	if err != nil {
		h.log.Warn("reload: build failed", "id", id, "elapsed", elapsed, "err", err)
		return true, err
	}
	h.log.Info("reload: build finished", "id", id, "elapsed", elapsed)
	return true, nil
}

// CheckReload swaps the module when the artifact's modification time has
// changed since the last attempt. It reports whether a swap was attempted.
//
// The new time is remembered even when the swap fails, so a broken
// artifact is not retried until it changes again. After a failed swap the
// host is moduleless; the State record is untouched.
func (h *Host) CheckReload(p *api.Platform) (bool, error) {
	if h.artifact == "" {
		return false, nil
	}
	mt, err := h.stat(h.artifact)
	if err != nil {
		// Missing while the builder rewrites it.
		return false, nil
	}
	if mt.Equal(h.modTime) {
		return false, nil
	}
	h.modTime = mt

	h.reloading = true
	defer func() { h.reloading = false }()

	p.Ctx = h.ctx
	h.unload(p)

	m, err := h.open()
	if err != nil {
		h.log.Warn("reload: reload aborted, running without module", "artifact", h.artifact, "err", err)
		return true, err
	}
	h.module = m

	if h.state.Initialized {
		api.Call(m.OnReload, p, h.state)
	} else {
		api.Call(m.Init, p, h.state)
	}
	h.reloads++
	h.log.Info("reload: module reloaded", "generation", h.generation, "frame", h.state.FrameCount)
	return true, nil
}

// Frame runs Update and then Render. Without a module it does nothing.
func (h *Host) Frame(p *api.Platform) {
	if h.module == nil {
		return
	}
	p.Ctx = h.ctx
	api.Call(h.module.Update, p, h.state)
	api.Call(h.module.Render, p, h.state)
}

// Shutdown calls Cleanup, closes the library and removes the generation
// copies.
func (h *Host) Shutdown(p *api.Platform) {
	p.Ctx = h.ctx
	h.unload(p)
	for _, path := range h.copies {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			h.log.Debug("reload: remove copy", "path", path, "err", err)
		}
	}
	h.copies = nil
}

// unload runs Cleanup and closes the current library.
func (h *Host) unload(p *api.Platform) {
	if h.module != nil {
		api.Call(h.module.Cleanup, p, h.state)
		h.module = nil
	}
	if h.lib != nil {
		if err := h.lib.Close(); err != nil {
			h.log.Warn("reload: close library", "err", err)
		}
		h.lib = nil
	}
}

// open copies the artifact to a fresh generation path, opens it and
// resolves the module table.
func (h *Host) open() (*api.Module, error) {
	h.generation++

	path := h.artifact
	if path != "" {
		dst, err := h.copyArtifact()
		if err != nil {
			return nil, err
		}
		path = dst
	}

	lib, err := h.loader.Open(path)
	if err != nil {
		return nil, err
	}
	m, err := resolve(lib)
	if err != nil {
		if cerr := lib.Close(); cerr != nil {
			h.log.Debug("reload: close rejected library", "err", cerr)
		}
		return nil, err
	}
	h.lib = lib
	return &m, nil
}

// GenerationPath returns <dir>/<name>.<generation><ext> for artifact.
func GenerationPath(dir, artifact string, generation int) string {
	base := filepath.Base(artifact)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, name+"."+strconv.Itoa(generation)+ext)
}

func (h *Host) copyArtifact() (string, error) {
	if err := os.MkdirAll(h.loadDir, 0o750); err != nil {
		return "", fmt.Errorf("reload: create load dir: %w", err)
	}
	dst := GenerationPath(h.loadDir, h.artifact, h.generation)
	if err := copyFile(dst, h.artifact); err != nil {
		return "", fmt.Errorf("reload: copy artifact: %w", err)
	}
	h.copies = append(h.copies, dst)
	return dst, nil
}

func copyFile(dst, src string) error {
	in, err := os.Open(src) //nolint:gosec // path comes from the host configuration
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755) //nolint:gosec // shared objects must be readable by the loader
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
