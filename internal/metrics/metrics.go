// Package metrics exposes the Prometheus instrumentation of the branch sync
// server. Metrics are package-level and registered once; handlers record
// through the helper functions.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	batchesReceived = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "possync",
			Name:      "sync_batches_total",
			Help:      "Batch submissions received by the sync endpoint.",
		},
	)

	itemOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "possync",
			Name:      "sync_items_total",
			Help:      "Processed batch items by outcome.",
		},
		[]string{"outcome"},
	)

	batchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "possync",
			Name:      "sync_batch_duration_seconds",
			Help:      "Time spent applying one batch submission.",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

// Outcome labels for [IncItem].
const (
	OutcomeAccepted  = "accepted"
	OutcomeRejected  = "rejected"
	OutcomeRetryable = "retryable"
)

// Register registers the sync server metrics with the default Prometheus
// registry. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(batchesReceived, itemOutcomes, batchDuration)
	})
}

// IncBatch counts one received batch submission.
func IncBatch() {
	batchesReceived.Inc()
}

// IncItem counts one item outcome; use the Outcome* constants as label.
func IncItem(outcome string) {
	itemOutcomes.WithLabelValues(outcome).Inc()
}

// ObserveBatchDuration records how long one batch took to apply.
func ObserveBatchDuration(d time.Duration) {
	batchDuration.Observe(d.Seconds())
}
