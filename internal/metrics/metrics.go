// Package metrics exposes Prometheus counters for the HTTP layer and the
// discovery pipelines.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "niche_finder"

// Registry owns every collector the service exports. It is built once at
// startup and shared; a nil *Registry is valid and records nothing.
type Registry struct {
	reg *prometheus.Registry

	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	searches       *prometheus.CounterVec
	searchDuration *prometheus.HistogramVec
	nichesReturned *prometheus.HistogramVec
}

// NewRegistry creates a registry with process and Go runtime collectors
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{
		reg: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status class.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Discovery pipeline runs by kind and outcome.",
		}, []string{"kind", "outcome"}),
		searchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Discovery pipeline latency including the completion call.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 60},
		}, []string{"kind"}),
		nichesReturned: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "niches_returned",
			Help:      "Number of niches returned per successful search.",
			Buckets:   []float64{1, 2, 3, 4, 5, 6, 7, 8},
		}, []string{"kind"}),
	}

	reg.MustRegister(r.httpRequests, r.httpDuration, r.searches, r.searchDuration, r.nichesReturned)
	return r
}

// ObserveHTTP records one served request
func (r *Registry) ObserveHTTP(method, route string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(method, route, StatusClass(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveSearch records one pipeline run. outcome is "ok" or an error kind.
func (r *Registry) ObserveSearch(kind, outcome string, niches int, d time.Duration) {
	if r == nil {
		return
	}
	r.searches.WithLabelValues(kind, outcome).Inc()
	r.searchDuration.WithLabelValues(kind).Observe(d.Seconds())
	if outcome == "ok" {
		r.nichesReturned.WithLabelValues(kind).Observe(float64(niches))
	}
}

// Gatherer exposes the underlying registry for tests and custom exporters
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler serves the Prometheus exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// EchoHandler adapts Handler for echo routes
func (r *Registry) EchoHandler() echo.HandlerFunc {
	return echo.WrapHandler(r.Handler())
}

// StatusClass buckets an HTTP status into 1xx..5xx
func StatusClass(code int) string {
	if code < 100 || code > 599 {
		return "0"
	}
	return strconv.Itoa(code/100) + "xx"
}
