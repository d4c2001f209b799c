// Package metrics exposes Prometheus collectors for the gallery service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec
	pigSubmissionsTotal        *prometheus.CounterVec
	commentSubmissionsTotal    *prometheus.CounterVec
	likesTotal                 prometheus.Counter

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)

		pigSubmissionsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pig_submissions_total",
				Help: "Total number of pig submissions, labeled by outcome.",
			},
			[]string{"status"},
		)

		commentSubmissionsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "comment_submissions_total",
				Help: "Total number of comment submissions, labeled by outcome.",
			},
			[]string{"status"},
		)

		likesTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "likes_total",
				Help: "Total number of successful like increments.",
			},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveSubmission increments the pig submission counter for the outcome.
func ObserveSubmission(status string) {
	pigSubmissionsTotal.WithLabelValues(status).Inc()
}

// ObserveComment increments the comment submission counter for the outcome.
func ObserveComment(status string) {
	commentSubmissionsTotal.WithLabelValues(status).Inc()
}

// ObserveLike increments the like counter.
func ObserveLike() {
	likesTotal.Inc()
}
