// Command fractal-app builds the explorer module as a hot-reloadable Go
// plugin. Run it from the module root while the host is running:
//
//	go run ./cmd/fractal-app -o build/fractal-app.so
//
// Every build is a new plugin package, so the host can open it next to
// the generations it already loaded.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gogpu/fractal/reload"
)

func main() {
	var (
		output  = flag.String("o", "build/fractal-app.so", "plugin output path")
		source  = flag.String("source", "app", "module package directory")
		root    = flag.String("root", ".", "directory holding go.mod")
		tags    = flag.String("tags", "", "build tags, as for go build")
		timeout = flag.Duration("timeout", 5*time.Minute, "build timeout")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	b := &reload.PluginBuilder{Source: *source, Output: *output, Root: *root}
	if *tags != "" {
		b.Flags = []string{"-tags=" + *tags}
	}

	if err := run(b, *timeout, logger); err != nil {
		fmt.Fprintln(os.Stderr, "fractal-app:", err)
		os.Exit(1)
	}
}

func run(b *reload.PluginBuilder, timeout time.Duration, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	job, err := b.Start(ctx)
	if err != nil {
		return err
	}
	if err := job.Wait(ctx); err != nil {
		return err
	}
	logger.Info("plugin built", "output", b.Output, "build", job.ID, "took", time.Since(start).Round(time.Millisecond))
	return nil
}
