// Package logger holds the process-wide structured logger shared by every
// KufiCraft package. It is silent until Set is called.
package logger

import (
	"context"
	"log/slog"
	"sync/atomic"
)

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// Set installs l as the active logger. Passing nil restores the silent default.
// Safe for concurrent use.
func Set(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// For returns the active logger tagged with a component attribute, e.g.
// For("storage").Info("saved", "path", p).
func For(component string) *slog.Logger {
	return loggerPtr.Load().With("component", component)
}
