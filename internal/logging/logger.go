// Package logging holds the process-wide logger shared by chartexport and
// its sub-packages. The root package re-exports SetLogger and Logger; sub-packages
// import this package directly so that no import cycle through the root is needed.
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
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
// Set can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// Set replaces the shared logger. Passing nil restores the silent default.
func Set(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the shared logger. It is never nil.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// Silent reports whether l discards everything, i.e. it is the default logger.
func Silent(l *slog.Logger) bool {
	_, ok := l.Handler().(nopHandler)
	return ok
}
