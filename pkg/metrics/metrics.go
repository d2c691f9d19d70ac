package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service collectors. A nil *Metrics is valid and records
// nothing, so callers never need to guard their calls.
type Metrics struct {
	requestDuration *prometheus.HistogramVec
	operations      *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "accounts_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "accounts_operations_total",
				Help: "Total account operations by name and outcome",
			},
			[]string{"operation", "success"},
		),
	}
	reg.MustRegister(m.requestDuration, m.operations)
	return m
}

// ObserveRequest records one request. route is the route template, never the
// raw path.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// RecordOperation counts an account operation by outcome.
func (m *Metrics) RecordOperation(operation string, success bool) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, strconv.FormatBool(success)).Inc()
}
