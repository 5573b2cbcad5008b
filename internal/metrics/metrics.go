package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	trackingRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ambassadord",
			Name:      "tracking_runs_total",
			Help:      "Tracking batch runs by trigger reason.",
		},
		[]string{"reason"},
	)

	itemsProcessed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ambassadord",
			Name:      "tracking_items_processed_total",
			Help:      "Submissions successfully refreshed.",
		},
	)

	itemErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ambassadord",
			Name:      "tracking_item_errors_total",
			Help:      "Per-item tracking failures.",
		},
	)

	runDuration = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ambassadord",
			Name:      "tracking_last_run_duration_seconds",
			Help:      "Duration of the last tracking batch.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ambassadord",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(trackingRuns, itemsProcessed, itemErrors, runDuration, httpRequests)
	})
}

// IncRun increments the run counter for a trigger reason.
func IncRun(reason string) {
	trackingRuns.WithLabelValues(reason).Inc()
}

// AddProcessed records successfully refreshed submissions.
func AddProcessed(n int) {
	itemsProcessed.Add(float64(n))
}

// AddItemErrors records per-item failures.
func AddItemErrors(n int) {
	itemErrors.Add(float64(n))
}

// SetRunDuration records the duration of the last batch in seconds.
func SetRunDuration(seconds float64) {
	runDuration.Set(seconds)
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}
