package zoneapi

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// Request outcomes used as metric labels.
const (
	OutcomeOK        = "ok"
	OutcomeRejected  = "rejected"
	OutcomeTransport = "transport_error"
)

// Metrics records request counts and latencies per operation.
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewMetrics creates the client metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zonedesk",
			Subsystem: "zoneapi",
			Name:      "requests_total",
			Help:      "Zone API requests by operation and outcome.",
		}, []string{"op", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "zonedesk",
			Subsystem: "zoneapi",
			Name:      "request_duration_seconds",
			Help:      "Zone API request latency by operation.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
		}, []string{"op"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.latency)
	}
	return m
}

func (m *Metrics) observe(op Operation, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(string(op), outcome).Inc()
	m.latency.WithLabelValues(string(op)).Observe(elapsed.Seconds())
}

// RequestCount returns the number of requests recorded for op and outcome.
func (m *Metrics) RequestCount(op Operation, outcome string) float64 {
	if m == nil {
		return 0
	}
	counter, err := m.requests.GetMetricWithLabelValues(string(op), outcome)
	if err != nil {
		return 0
	}
	return counterValue(counter)
}

func counterValue(c prometheus.Counter) float64 {
	var pb dto.Metric
	if err := c.Write(&pb); err != nil {
		return 0
	}
	return pb.GetCounter().GetValue()
}

// WriteMetrics writes everything g gathers in the Prometheus text format.
func WriteMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("zoneapi: gather metrics: %v", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("zoneapi: write metrics: %v", err)
		}
	}
	return nil
}
