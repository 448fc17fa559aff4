//go:build (linux || darwin || freebsd) && cgo

package reload

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/fractal/api"
)

// stepModule adds a per-build step to FrameCount on every Update.
const stepModule = `package counter

import "github.com/gogpu/fractal/api"

const step = %d

func Init(_ *api.Platform, s *api.State)   { s.Initialized = true }
func Update(_ *api.Platform, s *api.State) { s.FrameCount += step }
func Render(*api.Platform, *api.State)     {}
func Cleanup(*api.Platform, *api.State)    {}
func OnReload(*api.Platform, *api.State)   {}
`

func TestPluginBuilder_HotReloadRunsNewCode(t *testing.T) {
	if testing.Short() {
		t.Skip("builds two plugins")
	}
	if testing.CoverMode() != "" {
		t.Skip("a coverage build cannot open plugins built without coverage")
	}
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go command not available")
	}

	root, err := filepath.Abs("..")
	require.NoError(t, err)
	const stage = "reloadgen-test"
	t.Cleanup(func() { _ = os.RemoveAll(filepath.Join(root, stage)) })

	src := t.TempDir()
	b := &PluginBuilder{
		Source:   src,
		Output:   filepath.Join(t.TempDir(), "counter.so"),
		Root:     root,
		StageDir: stage,
		Flags:    pluginFlags,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	build := func(step int) {
		t.Helper()
		code := fmt.Appendf(nil, stepModule, step)
		require.NoError(t, os.WriteFile(filepath.Join(src, "counter.go"), code, 0o600))
		job, err := b.Start(ctx)
		require.NoError(t, err)
		require.NoError(t, job.Wait(ctx))
	}

	build(1)
	h, err := NewHost(WithLoader(PluginLoader{}), WithArtifact(b.Output), WithLoadDir(t.TempDir()))
	require.NoError(t, err)
	p := &api.Platform{}
	require.NoError(t, h.Load(p))
	defer h.Shutdown(p)

	h.Frame(p)
	require.EqualValues(t, 1, h.State().FrameCount)

	build(1000)
	// Independent of the file system's timestamp resolution.
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(b.Output, later, later))

	swapped, err := h.CheckReload(p)
	require.NoError(t, err)
	require.True(t, swapped)
	assert.Equal(t, Loaded, h.Status())

	h.Frame(p)
	assert.EqualValues(t, 1001, h.State().FrameCount, "the second generation's Update must run")
	assert.Equal(t, 1, h.Reloads())
}
