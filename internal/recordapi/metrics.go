package recordapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	itemFailures *prometheus.CounterVec
	rateLimited  prometheus.Counter
}

// NewMetrics registers the record API collectors plus Go runtime and
// process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "learnquest_recordapi_requests_total",
				Help: "Record API requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "learnquest_recordapi_request_duration_seconds",
				Help:    "Record API request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		itemFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "learnquest_recordapi_item_failures_total",
				Help: "Failed items of batch calls by collection and operation",
			},
			[]string{"collection", "op"},
		),
		rateLimited: factory.NewCounter(prometheus.CounterOpts{
			Name: "learnquest_recordapi_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and embedding.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) observeItems(collection, op string, failed int) {
	if failed > 0 {
		m.itemFailures.WithLabelValues(collection, op).Add(float64(failed))
	}
}

// middleware records request counts and latency per chi route pattern.
func (m *Metrics) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Inc()
		m.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
