package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/api"
	"github.com/gogpu/fractal/app"
	"github.com/gogpu/fractal/gpu"
	"github.com/gogpu/fractal/internal/config"
	"github.com/gogpu/fractal/internal/parallel"
	"github.com/gogpu/fractal/internal/platform"
	"github.com/gogpu/fractal/present"
	"github.com/gogpu/fractal/reload"
)

// frameStep is the simulated frame time of the headless driver.
const frameStep = time.Second / 60

// runner owns everything the frame loop touches.
type runner struct {
	cfg  config.Config
	log  *slog.Logger
	host *reload.Host
	win  platform.Window
	in   *platform.Input
	p    *api.Platform

	frames int
	clock  time.Duration
}

func run(cfg config.Config, logger *slog.Logger) error {
	pool := parallel.NewWorkerPool(cfg.Render.Workers)
	defer pool.Close()

	ctx := &api.Context{
		Pool:    pool,
		Logger:  logger,
		MaxIter: cfg.Render.MaxIter,
	}
	var acc *gpu.ComputeAccelerator
	if cfg.Render.GPU {
		acc = gpu.NewComputeAccelerator()
		if err := acc.Init(); err != nil {
			logger.Warn("fractal: GPU init", "err", err)
		}
		defer acc.Close()
		ctx.Accelerator = acc
	}

	if err := prebuild(cfg.Reload, logger); err != nil {
		return err
	}

	var win platform.Window
	if cfg.Window.Headless {
		win = platform.NewHeadless(cfg.Window.Width, cfg.Window.Height)
	} else {
		gw := platform.NewGPUWindow(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height)
		if acc != nil {
			// Compute shares the window's device when the backend exposes it.
			gw.OnDevice(func(p gpucontext.DeviceProvider) {
				if err := acc.SetDeviceProvider(p); err != nil {
					logger.Debug("fractal: compute keeps its own device", "err", err)
				}
			})
		}
		win = gw
	}

	r, err := newRunner(cfg, logger, ctx, win)
	if err != nil {
		return err
	}
	return r.loop()
}

// newBuilder returns the F5 builder for cfg, or nil when none is set.
func newBuilder(cfg config.Reload) reload.Builder {
	switch {
	case cfg.Source != "":
		return &reload.PluginBuilder{Source: cfg.Source, Output: cfg.Artifact}
	case len(cfg.BuildCommand) > 0:
		return &reload.ExecBuilder{Command: cfg.BuildCommand}
	}
	return nil
}

// prebuild builds the artifact from the module source when it does not
// exist yet.
func prebuild(cfg config.Reload, logger *slog.Logger) error {
	if cfg.Source == "" {
		return nil
	}
	if _, err := os.Stat(cfg.Artifact); err == nil {
		return nil
	}
	logger.Info("fractal: building module", "source", cfg.Source, "artifact", cfg.Artifact)

	ctx := context.Background()
	job, err := newBuilder(cfg).Start(ctx)
	if err != nil {
		return fmt.Errorf("fractal: build module: %w", err)
	}
	if err := job.Wait(ctx); err != nil {
		return fmt.Errorf("fractal: build module: %w", err)
	}
	return nil
}

func newRunner(cfg config.Config, logger *slog.Logger, ctx *api.Context, win platform.Window) (*runner, error) {
	opts := []reload.HostOption{
		reload.WithLogger(logger),
		reload.WithContext(ctx),
	}
	if cfg.Reload.Artifact != "" {
		opts = append(opts, reload.WithLoader(reload.PluginLoader{}), reload.WithArtifact(cfg.Reload.Artifact))
		if cfg.Reload.LoadDir != "" {
			opts = append(opts, reload.WithLoadDir(cfg.Reload.LoadDir))
		}
	} else {
		opts = append(opts, reload.WithLoader(reload.NewStaticLoader(app.Module())))
	}
	if b := newBuilder(cfg.Reload); b != nil {
		opts = append(opts, reload.WithBuilder(b))
	}

	host, err := reload.NewHost(opts...)
	if err != nil {
		return nil, err
	}

	w, h := win.Size()
	return &runner{
		cfg:  cfg,
		log:  logger,
		host: host,
		win:  win,
		in:   &platform.Input{},
		p: &api.Platform{
			FB:     fractal.NewFramebuffer(w, h),
			Width:  w,
			Height: h,
		},
	}, nil
}

// loop loads the module and runs frames until the module quits, the
// window closes or the frame limit is reached. A window that owns the
// frame loop drives it; otherwise frames advance by frameStep. A headless
// run without a limit renders one frame and writes it to the capture path.
func (r *runner) loop() error {
	defer r.win.Close()

	if err := r.host.Load(r.p); err != nil {
		r.log.Warn("fractal: running without module", "err", err)
	} else {
		r.host.State().Palette = r.cfg.PaletteIndex()
	}
	defer r.host.Shutdown(r.p)

	limit := r.cfg.Frames
	if _, headless := r.win.(*platform.Headless); headless && limit == 0 {
		limit = 1
	}

	step := func(dt time.Duration) (bool, error) {
		r.win.PollEvents(r.in)
		quit := r.frame(dt)
		if err := r.win.Present(r.p.FB); err != nil {
			return true, err
		}
		return quit || (limit > 0 && r.frames >= limit), nil
	}

	if d, ok := r.win.(platform.Driver); ok {
		return d.Run(step)
	}
	for {
		quit, err := step(frameStep)
		if err != nil {
			return err
		}
		if quit {
			break
		}
	}

	if _, headless := r.win.(*platform.Headless); headless {
		return present.Capture(r.cfg.Capture.Path, r.p.FB)
	}
	return nil
}

// frame runs one iteration of the host loop and reports whether to quit.
func (r *runner) frame(dt time.Duration) bool {
	p := r.p
	p.BeginFrame()
	r.in.Snapshot(&p.Input)

	if w, h, ok := r.in.Resized(); ok && (w != p.Width || h != p.Height) {
		p.FB.Resize(w, h)
		p.Width, p.Height = w, h
	}

	if p.Input.Pressed(api.KeyF5) {
		r.rebuild()
	}
	r.host.PollBuild()
	_, _ = r.host.CheckReload(p) // failures are logged by the host

	r.clock += dt
	p.Time = r.clock.Seconds()
	p.DT = dt.Seconds()

	r.host.Frame(p)
	r.frames++

	if p.Capture {
		if err := present.Capture(r.cfg.Capture.Path, p.FB); err != nil {
			r.log.Warn("fractal: capture failed", "path", r.cfg.Capture.Path, "err", err)
		}
	}
	return p.Quit || r.in.CloseRequested()
}

func (r *runner) rebuild() {
	_, err := r.host.RequestBuild(context.Background())
	switch {
	case err == nil:
	case errors.Is(err, reload.ErrBuildInProgress):
		r.log.Info("fractal: build already running")
	case errors.Is(err, reload.ErrNoBuilder):
		r.log.Info("fractal: no build command configured")
	default:
		r.log.Warn("fractal: build request failed", "err", err)
	}
}
