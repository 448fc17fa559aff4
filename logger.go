package fractal

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler drops every record. Enabled reports false, so the tile
// workers and the frame loop never build attributes nobody reads.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr is read by every module generation and by the GPU readback
// path, possibly while the host swaps the logger.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger installs the logger used by the renderer packages and by the
// reload host when no api.Context logger is set. The explorer binary calls
// it once at startup with the configured level; library users get silence
// until they do the same. Nil restores the silent default.
//
// Log levels used:
//   - [slog.LevelDebug]: tile dispatch, symbol resolution, palette rebuilds
//   - [slog.LevelInfo]: module load/reload, build start and finish, captures
//   - [slog.LevelWarn]: build failures, aborted reloads, GPU fallback
//
// Example:
//
//	fractal.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the logger installed by SetLogger. Module code should
// prefer api.Context.Log, which falls back to this one.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
