// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "fitness_records",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fitness_records",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fitness_records",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	authDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fitness_records",
			Subsystem: "auth",
			Name:      "decisions_total",
			Help:      "Authentication and admin gate outcomes.",
		},
		[]string{"gate", "outcome"},
	)

	revokedTokens = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fitness_records",
			Subsystem: "auth",
			Name:      "revocations_total",
			Help:      "Session tokens added to the revocation registry.",
		},
	)

	advisories = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fitness_records",
			Subsystem: "recommend",
			Name:      "advisories_total",
			Help:      "Recommendations produced by the engine.",
		},
		[]string{"source"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		authDecisions,
		revokedTokens,
		advisories,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RequestStarted marks a request in flight and returns the func that records
// its completion.  route should be the matched route pattern so that ids in
// the path do not explode label cardinality.
func RequestStarted() func(method, route string, status int) {
	start := time.Now()
	httpInFlight.Inc()
	return func(method, route string, status int) {
		httpInFlight.Dec()
		if route == "" {
			route = "unmatched"
		}
		method = strings.ToUpper(method)
		httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// RecordAuthDecision counts one gate outcome, e.g. ("authenticate", "revoked").
func RecordAuthDecision(gate, outcome string) {
	authDecisions.WithLabelValues(gate, outcome).Inc()
}

// RecordRevocation counts a logout or account deletion.
func RecordRevocation() {
	revokedTokens.Inc()
}

// RecordAdvisory counts an advisory produced for a meal or workout.
func RecordAdvisory(source string) {
	advisories.WithLabelValues(source).Inc()
}
