// Package metrics provides Prometheus metrics for the relay.
package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "nanum_relay"

// Metrics contains all Prometheus metrics exposed by the relay.
type Metrics struct {
	// Share lifecycle
	SharesCreated prometheus.Counter
	SharesDeleted prometheus.Counter

	// Block transfer
	BlocksUploaded   prometheus.Counter
	BlocksDownloaded prometheus.Counter
	BytesUploaded    prometheus.Counter
	BytesDownloaded  prometheus.Counter
	BlockLatency     *prometheus.HistogramVec

	// Auth
	AuthSuccesses prometheus.Counter
	AuthFailures  *prometheus.CounterVec

	// Errors
	StorageErrors *prometheus.CounterVec

	// HTTP
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

var (
	defaultMetrics *Metrics
	metricsOnce    sync.Once
)

// Default returns the process-wide default metrics instance, registered
// against the global Prometheus registry on first use.
func Default() *Metrics {
	metricsOnce.Do(func() {
		defaultMetrics = NewMetrics()
	})
	return defaultMetrics
}

// NewMetrics creates a new Metrics instance registered against the global
// Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry creates a new Metrics instance registered against
// reg, used by tests to avoid colliding with the global registry.
func NewMetricsWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		SharesCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shares_created_total",
			Help:      "Total number of shares created",
		}),
		SharesDeleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shares_deleted_total",
			Help:      "Total number of shares deleted via the admin path",
		}),
		BlocksUploaded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_uploaded_total",
			Help:      "Total number of ciphertext blocks accepted",
		}),
		BlocksDownloaded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_downloaded_total",
			Help:      "Total number of ciphertext blocks served",
		}),
		BytesUploaded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_uploaded_total",
			Help:      "Total ciphertext bytes accepted",
		}),
		BytesDownloaded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_downloaded_total",
			Help:      "Total ciphertext bytes served",
		}),
		BlockLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "block_request_latency_seconds",
			Help:      "Latency of block GET/POST requests",
		}, []string{"method"}),
		AuthSuccesses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_successes_total",
			Help:      "Total number of requests that passed session authentication",
		}),
		AuthFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_failures_total",
			Help:      "Total number of requests rejected by session authentication, by reason",
		}, []string{"reason"}),
		StorageErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_errors_total",
			Help:      "Total number of object store errors, by operation",
		}, []string{"operation"}),
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests handled, by route and status",
		}, []string{"route", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration, by route",
		}, []string{"route"}),
	}
}

// RecordBlockUpload records a single accepted ciphertext block of n bytes.
func (m *Metrics) RecordBlockUpload(n int) {
	m.BlocksUploaded.Inc()
	m.BytesUploaded.Add(float64(n))
}

// RecordBlockDownload records a single served ciphertext block of n bytes.
func (m *Metrics) RecordBlockDownload(n int) {
	m.BlocksDownloaded.Inc()
	m.BytesDownloaded.Add(float64(n))
}

// RecordAuthFailure increments the auth failure counter for the given reason.
func (m *Metrics) RecordAuthFailure(reason string) {
	m.AuthFailures.WithLabelValues(reason).Inc()
}

// RecordStorageError increments the storage error counter for the given operation.
func (m *Metrics) RecordStorageError(operation string) {
	m.StorageErrors.WithLabelValues(operation).Inc()
}

// RecordRequest records an HTTP request's route, status code and duration in seconds.
func (m *Metrics) RecordRequest(route string, status int, seconds float64) {
	m.RequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(seconds)
}
