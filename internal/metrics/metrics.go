package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application collectors.
	Registry = prometheus.NewRegistry()

	HTTPInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "store_rating",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "store_rating",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "store_rating",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	RatingSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "store_rating",
			Subsystem: "ratings",
			Name:      "submissions_total",
			Help:      "Rating submissions by outcome (created, updated, rejected).",
		},
		[]string{"outcome"},
	)

	PolicyDenials = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "store_rating",
			Subsystem: "policy",
			Name:      "denials_total",
			Help:      "Authorization policy denials by role and action.",
		},
		[]string{"role", "action"},
	)

	PlatformTotals = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "store_rating",
			Subsystem: "platform",
			Name:      "total",
			Help:      "Platform cardinalities from the last stats snapshot.",
		},
		[]string{"kind"}, // users, stores, ratings
	)

	TaskRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "store_rating",
			Subsystem: "task",
			Name:      "runs_total",
			Help:      "Background job runs by task and result.",
		},
		[]string{"task", "result"},
	)
)

func init() {
	Registry.MustRegister(
		HTTPInFlight,
		HTTPRequests,
		HTTPDuration,
		RatingSubmissions,
		PolicyDenials,
		PlatformTotals,
		TaskRuns,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
