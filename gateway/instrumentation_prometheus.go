package gateway

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/TykTechnologies/kvrouter/storage"
)

// PrometheusMetrics holds all Prometheus metric collectors for the router
type PrometheusMetrics struct {
	numKeys         prometheus.GaugeFunc
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.SummaryVec

	registry *prometheus.Registry
}

// NewPrometheusMetrics creates and registers all Prometheus metrics.
// The key count is read from backend on every scrape, bounded by timeout.
func NewPrometheusMetrics(prefix string, backend storage.Backend, timeout time.Duration) *PrometheusMetrics {
	registry := prometheus.NewRegistry()

	pm := &PrometheusMetrics{
		registry: registry,
	}

	pm.numKeys = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: prefix,
		Name:      "num_keys",
		Help:      "Number of keys in the backend",
	}, func() float64 {
		return backendSize(backend, timeout)
	})

	pm.requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: prefix,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by method, status and endpoint",
		},
		[]string{"method", "status", "endpoint"},
	)

	pm.requestDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace: prefix,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds by method, status and endpoint",
		},
		[]string{"method", "status", "endpoint"},
	)

	registry.MustRegister(
		pm.numKeys,
		pm.requestsTotal,
		pm.requestDuration,
	)

	return pm
}

func backendSize(backend storage.Backend, timeout time.Duration) float64 {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	n, err := backend.Size(ctx)
	if err != nil {
		gwLog.WithError(err).Warning("Could not read backend size")
		return math.NaN()
	}
	return float64(n)
}

// RegisterGoCollectors registers the Go runtime and process collectors
func (pm *PrometheusMetrics) RegisterGoCollectors() {
	pm.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	log.Debug("Registered Prometheus Go runtime and process collectors")
}

// RecordRequest records request metrics (called from middleware)
func (pm *PrometheusMetrics) RecordRequest(endpoint, method string, statusCode int, duration time.Duration) {
	labels := prometheus.Labels{
		"method":   method,
		"status":   strconv.Itoa(statusCode),
		"endpoint": endpoint,
	}
	pm.requestsTotal.With(labels).Inc()
	pm.requestDuration.With(labels).Observe(duration.Seconds())
}

// Handler returns the HTTP handler for metrics endpoint
func (pm *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(pm.registry, promhttp.HandlerOpts{})
}
