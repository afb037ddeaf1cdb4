// Package observability provides the logger shared by every zonedesk component.
package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
)

// sentryFlushTimeout bounds how long Close waits for queued events.
const sentryFlushTimeout = 2 * time.Second

// CoreLogger is a structured logger that can also report errors to Sentry.
//
// Sentry reporting is enabled only when the logger is created with a hub,
// so a CoreLogger is always safe to use without any remote configuration.
type CoreLogger struct {
	*slog.Logger

	hub *sentry.Hub
}

// CoreLoggerParams configures NewCoreLogger.
type CoreLoggerParams struct {
	// Writer receives log lines. Nil discards them.
	Writer io.Writer

	// Level is the minimum level that is written.
	Level slog.Level

	// SentryDSN enables error capture when non-empty.
	SentryDSN string

	// Release is reported to Sentry with every event.
	Release string
}

// NewCoreLogger returns a logger writing JSON lines to params.Writer.
//
// A Sentry client is created when a DSN is provided. An invalid DSN is
// not fatal: the logger falls back to local logging and records why.
func NewCoreLogger(params CoreLoggerParams) *CoreLogger {
	w := params.Writer
	if w == nil {
		w = io.Discard
	}
	logger := &CoreLogger{
		Logger: slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: params.Level})),
	}

	if params.SentryDSN == "" {
		return logger
	}

	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:     params.SentryDSN,
		Release: params.Release,
	})
	if err != nil {
		logger.Warn("observability: sentry disabled", "error", err)
		return logger
	}
	logger.hub = sentry.NewHub(client, sentry.NewScope())
	return logger
}

// NewNoOpLogger returns a logger that drops everything.
func NewNoOpLogger() *CoreLogger {
	return &CoreLogger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// CaptureError logs err at error level and reports it to Sentry if enabled.
//
// Context cancellation is logged but never reported.
func (cl *CoreLogger) CaptureError(err error, args ...any) {
	if err == nil {
		return
	}
	cl.Error(err.Error(), args...)

	if cl.hub == nil || errors.Is(err, context.Canceled) {
		return
	}
	cl.hub.WithScope(func(scope *sentry.Scope) {
		for i := 0; i+1 < len(args); i += 2 {
			if key, ok := args[i].(string); ok {
				scope.SetExtra(key, args[i+1])
			}
		}
		cl.hub.CaptureException(err)
	})
}

// CaptureWarning logs msg at warn level and reports it to Sentry if enabled.
func (cl *CoreLogger) CaptureWarning(msg string, args ...any) {
	cl.Warn(msg, args...)
	if cl.hub != nil {
		cl.hub.CaptureMessage(msg)
	}
}

// With returns a logger that includes args in every record.
func (cl *CoreLogger) With(args ...any) *CoreLogger {
	return &CoreLogger{Logger: cl.Logger.With(args...), hub: cl.hub}
}

// Close flushes pending Sentry events.
func (cl *CoreLogger) Close() {
	if cl.hub != nil {
		cl.hub.Flush(sentryFlushTimeout)
	}
}
