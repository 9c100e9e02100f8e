package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blestack",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "blestack",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
	transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blestack",
			Subsystem: "navigator",
			Name:      "transitions_total",
			Help:      "Navigator operations by outcome.",
		},
		[]string{"op", "outcome"},
	)
	sessionsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "blestack",
			Subsystem: "sessions",
			Name:      "created_total",
			Help:      "Explorer sessions created.",
		},
	)
	sessionsEvicted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "blestack",
			Subsystem: "sessions",
			Name:      "evicted_total",
			Help:      "Explorer sessions evicted from the store.",
		},
	)
	sessionsLive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "blestack",
			Subsystem: "sessions",
			Name:      "live",
			Help:      "Explorer sessions currently held.",
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			httpDuration,
			transitions,
			sessionsCreated,
			sessionsEvicted,
			sessionsLive,
		)
	})
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}

// RecordTransition counts one navigator operation. outcome is "ok" or an
// error kind.
func RecordTransition(op, outcome string) {
	RegisterMetrics()
	transitions.WithLabelValues(op, outcome).Inc()
}

func RecordSessionCreated(live int) {
	RegisterMetrics()
	sessionsCreated.Inc()
	sessionsLive.Set(float64(live))
}

func RecordSessionEvicted(live int) {
	RegisterMetrics()
	sessionsEvicted.Inc()
	sessionsLive.Set(float64(live))
}

func RecordSessionLive(live int) {
	RegisterMetrics()
	sessionsLive.Set(float64(live))
}
