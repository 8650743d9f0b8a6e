package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for the API. Every Metrics value owns
// its registry so several servers can live in one process.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// Document metrics
	documentsValidatedTotal *prometheus.CounterVec
	documentBytes           prometheus.Histogram

	// Spool metrics
	spoolOperationsTotal   *prometheus.CounterVec
	spoolOperationDuration *prometheus.HistogramVec
	spoolDocuments         prometheus.Gauge

	// API key authentication metrics
	authRequestsTotal *prometheus.CounterVec
}

// NewMetrics creates a registry and registers all metrics on it
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bsonview_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bsonview_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "bsonview_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),

		documentsValidatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bsonview_documents_validated_total",
				Help: "Total number of validation runs by outcome and mode",
			},
			[]string{"result", "mode"},
		),

		documentBytes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bsonview_document_bytes",
				Help:    "Declared size of accepted documents",
				Buckets: prometheus.ExponentialBuckets(16, 4, 10),
			},
		),

		spoolOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bsonview_spool_operations_total",
				Help: "Total number of spool operations",
			},
			[]string{"operation", "status"},
		),

		spoolOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bsonview_spool_operation_duration_seconds",
				Help:    "Spool operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		spoolDocuments: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "bsonview_spool_documents",
				Help: "Number of documents held in the spool",
			},
		),

		authRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bsonview_auth_requests_total",
				Help: "Total number of authentication requests",
			},
			[]string{"status"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mostly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func outcome(success bool) string {
	if success {
		return statusSuccess
	}
	return statusError
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	statusCodeStr := strconv.Itoa(statusCode)

	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCodeStr).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordValidation records the outcome of one validation run
func (m *Metrics) RecordValidation(valid, strict bool) {
	result := "valid"
	if !valid {
		result = "invalid"
	}
	mode := "shallow"
	if strict {
		mode = "strict"
	}
	m.documentsValidatedTotal.WithLabelValues(result, mode).Inc()
}

// RecordDocumentSize records the declared size of an accepted document
func (m *Metrics) RecordDocumentSize(size uint32) {
	m.documentBytes.Observe(float64(size))
}

// RecordSpoolOperation records a spool operation
func (m *Metrics) RecordSpoolOperation(operation string, success bool, duration time.Duration) {
	m.spoolOperationsTotal.WithLabelValues(operation, outcome(success)).Inc()
	m.spoolOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetSpoolDocuments updates the spool size gauge
func (m *Metrics) SetSpoolDocuments(n int) {
	m.spoolDocuments.Set(float64(n))
}

// RecordAuthRequest records an authentication request
func (m *Metrics) RecordAuthRequest(success bool) {
	m.authRequestsTotal.WithLabelValues(outcome(success)).Inc()
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler(rw, r)

		m.RecordHTTPRequest(method, endpoint, rw.statusCode, time.Since(start))
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
