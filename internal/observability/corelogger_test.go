package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradezones/zonedesk/internal/observability"
)

func TestCaptureError_WritesErrorRecord(t *testing.T) {
	var buf bytes.Buffer
	logger := observability.NewCoreLogger(observability.CoreLoggerParams{
		Writer: &buf,
		Level:  slog.LevelDebug,
	})

	logger.CaptureError(errors.New("zoneapi: update failed"), "zone_id", 7)

	out := buf.String()
	assert.Contains(t, out, `"level":"ERROR"`)
	assert.Contains(t, out, "zoneapi: update failed")
	assert.Contains(t, out, `"zone_id":7`)
}

func TestCaptureError_IgnoresNil(t *testing.T) {
	var buf bytes.Buffer
	logger := observability.NewCoreLogger(observability.CoreLoggerParams{Writer: &buf})

	logger.CaptureError(nil)

	assert.Empty(t, buf.String())
}

func TestCaptureError_CanceledIsLoggedOnly(t *testing.T) {
	var buf bytes.Buffer
	logger := observability.NewCoreLogger(observability.CoreLoggerParams{Writer: &buf})

	logger.CaptureError(context.Canceled)

	assert.Contains(t, buf.String(), "context canceled")
}

func TestNewCoreLogger_InvalidDSNFallsBackToLocal(t *testing.T) {
	var buf bytes.Buffer
	logger := observability.NewCoreLogger(observability.CoreLoggerParams{
		Writer:    &buf,
		SentryDSN: "not a dsn",
	})
	require.NotNil(t, logger)

	assert.Contains(t, buf.String(), "sentry disabled")
	logger.Close()
}

func TestWith_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := observability.NewCoreLogger(observability.CoreLoggerParams{Writer: &buf}).
		With("component", "table")

	logger.Info("table: loaded")

	assert.Contains(t, buf.String(), `"component":"table"`)
}

func TestNoOpLogger_Discards(t *testing.T) {
	logger := observability.NewNoOpLogger()
	logger.Info("anything")
	logger.CaptureError(errors.New("boom"))
	logger.Close()
}
