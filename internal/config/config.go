// Package config loads the host configuration from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/fractal/palette"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

const maxDimension = 0xFFFF

// Config is the host configuration. Zero values in a file keep the
// defaults; see Default.
type Config struct {
	Window  Window  `yaml:"window"`
	Render  Render  `yaml:"render"`
	Reload  Reload  `yaml:"reload"`
	Capture Capture `yaml:"capture"`

	// Frames stops the host after this many frames. Zero runs until quit.
	Frames int `yaml:"frames"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

type Window struct {
	Title    string `yaml:"title"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Headless bool   `yaml:"headless"`
}

type Render struct {
	MaxIter int    `yaml:"max_iter"`
	Palette string `yaml:"palette"`

	// Workers is the tile worker count; zero uses GOMAXPROCS.
	Workers int  `yaml:"workers"`
	GPU     bool `yaml:"gpu"`
}

type Reload struct {
	// Artifact is the module plugin. Empty links the module statically.
	Artifact string `yaml:"artifact"`

	// LoadDir receives the per-generation copies of Artifact.
	LoadDir string `yaml:"load_dir"`

	// Source is the module package directory. When set, F5 builds it
	// into Artifact as a new plugin generation, and a missing Artifact
	// is built at startup.
	Source string `yaml:"source"`

	// BuildCommand runs on F5 instead; "{id}" is replaced by the build ID.
	BuildCommand []string `yaml:"build_command"`
}

type Capture struct {
	Path string `yaml:"path"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Window: Window{
			Title:  "fractal",
			Width:  1280,
			Height: 720,
		},
		Render: Render{
			MaxIter: 1024,
			Palette: palette.Default.String(),
			GPU:     true,
		},
		Capture:  Capture{Path: "screenshot.tga"},
		LogLevel: "info",
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid field.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Window.Width <= 0 || c.Window.Width > maxDimension {
		bad("window.width %d out of range", c.Window.Width)
	}
	if c.Window.Height <= 0 || c.Window.Height > maxDimension {
		bad("window.height %d out of range", c.Window.Height)
	}
	if c.Render.MaxIter < 1 {
		bad("render.max_iter %d must be positive", c.Render.MaxIter)
	}
	if _, err := palette.Parse(c.Render.Palette); err != nil {
		bad("render.palette %q", c.Render.Palette)
	}
	if c.Render.Workers < 0 {
		bad("render.workers %d must not be negative", c.Render.Workers)
	}
	if c.Frames < 0 {
		bad("frames %d must not be negative", c.Frames)
	}
	if c.Capture.Path == "" {
		bad("capture.path is empty")
	}
	if c.Reload.LoadDir != "" && c.Reload.Artifact == "" {
		bad("reload.load_dir set without reload.artifact")
	}
	if c.Reload.Source != "" && c.Reload.Artifact == "" {
		bad("reload.source set without reload.artifact")
	}
	if c.Reload.Source != "" && len(c.Reload.BuildCommand) > 0 {
		bad("reload.source and reload.build_command are exclusive")
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		bad("log_level %q", c.LogLevel)
	}
	return errors.Join(errs...)
}

// PaletteIndex returns the configured palette. Call after Validate.
func (c *Config) PaletteIndex() palette.Index {
	i, err := palette.Parse(c.Render.Palette)
	if err != nil {
		return palette.Default
	}
	return i
}

// SlogLevel returns the configured log level. Call after Validate.
func (c *Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
