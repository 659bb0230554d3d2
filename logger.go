package webvfx

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/mcanthony/webvfx/mainthread"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	l := newNopLogger()
	loggerPtr.Store(l)
}

// SetLogger configures the logger for webvfx and all its sub-packages.
// By default, webvfx produces no log output. Call SetLogger to enable logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by webvfx:
//   - [slog.LevelDebug]: internal diagnostics (dispatch, load milestones)
//   - [slog.LevelInfo]: important lifecycle events (backend selected, GPU info)
//   - [slog.LevelWarn]: non-fatal issues (CPU fallback, dropped tasks)
//   - [slog.LevelError]: failed operations reported as false to the caller
//
// Example:
//
//	webvfx.SetLogger(slog.Default())
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	// mainthread cannot import this package, so the logger is pushed down.
	mainthread.SetLogger(l)
}

// Logger returns the current logger used by webvfx.
// Sub-packages (mainthread, content backends, gpu) call this to share the
// same logger configuration without introducing import cycles.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
