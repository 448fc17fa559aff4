package reload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
)

// DefaultStageDir is where PluginBuilder writes the generated plugin
// packages, relative to the module root.
const DefaultStageDir = "reloadgen"

// pluginMainFile completes a staged module package into a plugin main
// package.
const (
	pluginMainFile = "zz_reload_main.go"
	pluginMain     = `// Code generated by reload.PluginBuilder. DO NOT EDIT.

package main

import "github.com/gogpu/fractal/api"

var ModuleVersion = api.Version

func main() {}
`
)

// PluginBuilder builds a module package as a Go plugin with a new package
// identity on every build.
//
// The Go runtime refuses to open two plugins with the same package path,
// and it keeps running the first loaded copy of any package that two
// plugins share. PluginBuilder therefore copies the non-test sources of
// Source into <Root>/<StageDir>/g<build id>, rewrites them to package
// main and builds that directory. Each generation is a package of its own.
// The packages the module imports are shared with the host and must not
// change while it runs.
//
// The plugin is built next to Output and renamed over it once the build
// succeeded, so the host never sees a partly written artifact.
type PluginBuilder struct {
	// Source is the module package directory, for example "app".
	// A relative path is resolved against Root.
	Source string

	// Output is the plugin path the host watches.
	Output string

	// Root is the directory holding go.mod. Empty means the working
	// directory.
	Root string

	// StageDir is relative to Root. Empty means DefaultStageDir.
	StageDir string

	// Go is the go command. Empty means "go".
	Go string

	// Flags are extra go build flags, for example "-tags=nogpu". The
	// host and the plugin must be built with the same flags.
	Flags []string

	Env []string
}

// Start stages the sources and launches go build.
func (b *PluginBuilder) Start(ctx context.Context) (*BuildJob, error) {
	if b.Source == "" || b.Output == "" {
		return nil, errors.New("reload: plugin builder needs a source and an output")
	}
	out, err := filepath.Abs(b.Output)
	if err != nil {
		return nil, fmt.Errorf("reload: output path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o750); err != nil {
		return nil, fmt.Errorf("reload: output dir: %w", err)
	}

	job := NewBuildJob()
	pkg, err := b.stage(job.ID)
	if err != nil {
		return nil, err
	}
	rel, err := filepath.Rel(b.root(), pkg)
	if err != nil {
		b.unstage(pkg)
		return nil, fmt.Errorf("reload: stage path: %w", err)
	}

	tmp := out + ".building"
	args := []string{b.goCommand(), "build", "-buildmode=plugin", "-o", tmp}
	args = append(args, b.Flags...)
	args = append(args, "./"+filepath.ToSlash(rel))

	err = startCommand(ctx, job, args, b.root(), b.Env, func(err error) error {
		b.unstage(pkg)
		if err != nil {
			_ = os.Remove(tmp)
			return err
		}
		if err := os.Rename(tmp, out); err != nil {
			return fmt.Errorf("reload: install plugin: %w", err)
		}
		return nil
	})
	if err != nil {
		b.unstage(pkg)
		return nil, err
	}
	return job, nil
}

// stage writes the plugin package of build id and returns its directory.
func (b *PluginBuilder) stage(id string) (string, error) {
	src := b.Source
	if !filepath.IsAbs(src) {
		src = filepath.Join(b.root(), src)
	}
	names, err := filepath.Glob(filepath.Join(src, "*.go"))
	if err != nil {
		return "", fmt.Errorf("reload: list sources: %w", err)
	}

	dir := filepath.Join(b.root(), b.stageDir(), "g"+strings.ReplaceAll(id, "-", ""))
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("reload: stage: %w", err)
	}

	fset := token.NewFileSet()
	copied := 0
	for _, name := range names {
		if strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, name, nil, parser.ParseComments)
		if err != nil {
			b.unstage(dir)
			return "", fmt.Errorf("reload: parse module source: %w", err)
		}
		f.Name.Name = "main"

		var buf bytes.Buffer
		if err := format.Node(&buf, fset, f); err != nil {
			b.unstage(dir)
			return "", fmt.Errorf("reload: format %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, filepath.Base(name)), buf.Bytes(), 0o600); err != nil {
			b.unstage(dir)
			return "", fmt.Errorf("reload: stage: %w", err)
		}
		copied++
	}
	if copied == 0 {
		b.unstage(dir)
		return "", fmt.Errorf("reload: no Go sources in %s", src)
	}

	if err := os.WriteFile(filepath.Join(dir, pluginMainFile), []byte(pluginMain), 0o600); err != nil {
		b.unstage(dir)
		return "", fmt.Errorf("reload: stage: %w", err)
	}
	return dir, nil
}

// unstage removes a staged package and the stage directory once empty.
func (b *PluginBuilder) unstage(dir string) {
	_ = os.RemoveAll(dir)
	_ = os.Remove(filepath.Dir(dir))
}

func (b *PluginBuilder) root() string {
	if b.Root == "" {
		return "."
	}
	return b.Root
}

func (b *PluginBuilder) stageDir() string {
	if b.StageDir == "" {
		return DefaultStageDir
	}
	return b.StageDir
}

func (b *PluginBuilder) goCommand() string {
	if b.Go == "" {
		return "go"
	}
	return b.Go
}
