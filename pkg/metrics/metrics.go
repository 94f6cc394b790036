// Package metrics provides Prometheus instrumentation for storeadmin.
//
// The client side records every outbound request to the backend; the mock
// backend reuses the same registry and serves it at /metrics so a local
// end-to-end setup can be scraped from one place.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ClientRequestDuration tracks outbound request latency, broken down
	// by method, route pattern, and status code. The path label carries the
	// unexpanded route ("/products/%d"), never an interpolated id, so the
	// label set stays bounded.
	ClientRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "storeadmin",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Duration of outbound API requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// ClientRequestTotal counts all outbound API requests.
	ClientRequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storeadmin",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Total number of outbound API requests.",
		},
		[]string{"method", "path", "status"},
	)

	// CacheHits / CacheMisses track list-query cache effectiveness.
	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storeadmin",
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Total cache hits.",
		},
		[]string{"driver"}, // "redis" | "memory"
	)
	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storeadmin",
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Total cache misses.",
		},
		[]string{"driver"},
	)

	// MockRequestDuration tracks the mock backend's own request handling.
	MockRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "storeadmin",
			Subsystem: "mock",
			Name:      "request_duration_seconds",
			Help:      "Duration of mock backend requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "status"},
	)
)

// DefaultRegistry is the Prometheus registry used by storeadmin.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	// Go runtime metrics (GC, goroutines, memory)
	DefaultRegistry.MustRegister(collectors.NewGoCollector())
	// OS process metrics (CPU, open FDs)
	DefaultRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	DefaultRegistry.MustRegister(
		ClientRequestDuration,
		ClientRequestTotal,
		CacheHits,
		CacheMisses,
		MockRequestDuration,
	)
}

// ObserveRequest records one outbound API request. A zero status means the
// request never produced a response (network failure).
func ObserveRequest(method, path string, status int, d time.Duration) {
	code := "network_error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	ClientRequestDuration.WithLabelValues(method, path, code).Observe(d.Seconds())
	ClientRequestTotal.WithLabelValues(method, path, code).Inc()
}

// Handler serves the registry for Prometheus scraping.
func Handler() http.Handler {
	return promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{})
}

// Middleware instruments an HTTP server (used by the mock backend).
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			MockRequestDuration.
				WithLabelValues(r.Method, strconv.Itoa(sw.status)).
				Observe(time.Since(start).Seconds())
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
