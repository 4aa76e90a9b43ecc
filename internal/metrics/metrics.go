// Package metrics exposes Prometheus collectors for the HTTP surface and upstream providers.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "creator_analytics"

var (
	registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests served, by route and status code.",
	}, []string{"method", "route", "status"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"method", "route"})

	upstreamCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_calls_total",
		Help:      "Calls to third-party providers, by provider and outcome.",
	}, []string{"provider", "outcome"})

	trendFallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "trend_fallbacks_total",
		Help:      "Trend sources served from demo data after a live fetch failed.",
	}, []string{"source"})

	reportFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "report_fallbacks_total",
		Help:      "AI reports replaced by the static report.",
	})
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequests,
		httpDuration,
		upstreamCalls,
		trendFallbacks,
		reportFallbacks,
	)
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}

// Registry returns the collector registry, mainly for tests.
func Registry() *prometheus.Registry {
	return registry
}

// ObserveHTTP records one served request.
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordUpstream counts a provider call; a nil err is a success.
func RecordUpstream(provider string, err error) {
	outcome := "success"
	switch {
	case err == nil:
	case errors.Is(err, context.DeadlineExceeded) || isTimeout(err):
		outcome = "timeout"
	default:
		outcome = "error"
	}
	upstreamCalls.WithLabelValues(provider, outcome).Inc()
}

// RecordTrendFallback counts a trend source replaced by demo data.
func RecordTrendFallback(source string) {
	trendFallbacks.WithLabelValues(source).Inc()
}

// RecordReportFallback counts a static report served instead of model output.
func RecordReportFallback() {
	reportFallbacks.Inc()
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
