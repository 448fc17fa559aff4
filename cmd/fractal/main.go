// Command fractal runs the fractal explorer host.
//
// The module is linked in statically unless reload.artifact (or -artifact)
// names a plugin, in which case the host reloads it whenever the file
// changes. With -source the host builds the plugin from that package at
// startup and again on F5, run from the module root:
//
//	fractal -artifact build/fractal-app.so -source app
//
// Plugins can also be built outside the host with cmd/fractal-app.
//
// With -headless the host renders without a window and writes the final
// frame to the capture path, which makes it usable for batch renders:
//
//	fractal -headless -width 1920 -height 1080 -palette spectral -output mandel.png
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/internal/config"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML configuration file")
		width      = flag.Int("width", 0, "framebuffer width")
		height     = flag.Int("height", 0, "framebuffer height")
		maxIter    = flag.Int("max-iter", 0, "iteration bound")
		pal        = flag.String("palette", "", "palette name")
		workers    = flag.Int("workers", -1, "tile workers (0 = GOMAXPROCS)")
		noGPU      = flag.Bool("no-gpu", false, "disable the GPU backend")
		artifact   = flag.String("artifact", "", "module plugin to load and watch")
		source     = flag.String("source", "", "module package to build into the artifact")
		headless   = flag.Bool("headless", false, "render without a window")
		frames     = flag.Int("frames", -1, "frames to render before exiting")
		output     = flag.String("output", "", "capture path (.tga, .png, .bmp, .tiff)")
		logLevel   = flag.String("log-level", "", "debug, info, warn or error")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	// Flags override the file only when given.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Window.Width = *width
		case "height":
			cfg.Window.Height = *height
		case "max-iter":
			cfg.Render.MaxIter = *maxIter
		case "palette":
			cfg.Render.Palette = *pal
		case "workers":
			cfg.Render.Workers = *workers
		case "no-gpu":
			cfg.Render.GPU = !*noGPU
		case "artifact":
			cfg.Reload.Artifact = *artifact
		case "source":
			cfg.Reload.Source = *source
		case "headless":
			cfg.Window.Headless = *headless
		case "frames":
			cfg.Frames = *frames
		case "output":
			cfg.Capture.Path = *output
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	fractal.SetLogger(logger)

	if err := run(cfg, logger); err != nil {
		fmt.Fprintln(os.Stderr, "fractal:", err)
		os.Exit(1)
	}
}
