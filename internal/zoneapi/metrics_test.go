package zoneapi_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/tradezones/zonedesk/internal/zoneapi"
)

func TestWriteMetrics_TextExposition(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"zones":[]}`)
	}))
	t.Cleanup(srv.Close)

	reg := prometheus.NewRegistry()
	client, err := zoneapi.NewClient(zoneapi.ClientParams{
		BaseURL: srv.URL,
		Timeout: time.Second,
		Metrics: zoneapi.NewMetrics(reg),
	})
	require.NoError(t, err)
	_, err = client.ListZones(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, zoneapi.WriteMetrics(&buf, reg))

	out := buf.String()
	require.Contains(t, out, "# TYPE zonedesk_zoneapi_requests_total counter")
	require.Contains(t, out, `zonedesk_zoneapi_requests_total{op="list",outcome="ok"} 1`)
	require.Contains(t, out, "zonedesk_zoneapi_request_duration_seconds_count")
}

func TestWriteMetrics_EmptyRegistry(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, zoneapi.WriteMetrics(&buf, prometheus.NewRegistry()))
	require.Empty(t, buf.String())
}
