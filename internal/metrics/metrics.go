// Package metrics exposes Prometheus collectors for the portfolio server.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec
	contactSubmissionsTotal    *prometheus.CounterVec
	motionReplaysTotal         *prometheus.CounterVec
	motionReplayEvents         prometheus.Histogram
	visitorsTrackedTotal       prometheus.Counter

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
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)

		contactSubmissionsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_contact_submissions_total",
				Help: "Contact form submissions, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		motionReplaysTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_motion_replays_total",
				Help: "Scroll trace replays, labeled by result.",
			},
			[]string{"result"},
		)

		motionReplayEvents = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "portfolio_motion_replay_events",
				Help:    "Number of timeline events produced per replay.",
				Buckets: prometheus.ExponentialBuckets(8, 2, 8),
			},
		)

		visitorsTrackedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "portfolio_visitors_tracked_total",
				Help: "Page views recorded by the privacy-preserving tracker.",
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

// ObserveContact counts a contact submission outcome.
func ObserveContact(outcome string) {
	contactSubmissionsTotal.WithLabelValues(outcome).Inc()
}

// ObserveReplay counts a replay and, when it succeeded, its event volume.
func ObserveReplay(ok bool, events int) {
	if !ok {
		motionReplaysTotal.WithLabelValues("rejected").Inc()
		return
	}
	motionReplaysTotal.WithLabelValues("ok").Inc()
	motionReplayEvents.Observe(float64(events))
}

// ObserveVisit counts a tracked page view.
func ObserveVisit() {
	visitorsTrackedTotal.Inc()
}

// Middleware records request count and latency per matched gin route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
