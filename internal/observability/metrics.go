// Package observability exposes prometheus metrics for the engines.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	operationCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gather",
		Subsystem: "engine",
		Name:      "operations_total",
		Help:      "Engine operations grouped by operation and outcome.",
	}, []string{"operation", "outcome"})

	compensationCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gather",
		Subsystem: "engine",
		Name:      "compensations_total",
		Help:      "Compensating actions grouped by operation and result.",
	}, []string{"operation", "result"})

	lastCreatedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gather",
		Subsystem: "engine",
		Name:      "last_activity_created_timestamp_seconds",
		Help:      "Unix timestamp of the most recent activity created.",
	})
)

func init() {
	prometheus.MustRegister(operationCounter, compensationCounter, lastCreatedGauge)
}

// RecordOperation counts one engine operation with the given outcome label.
func RecordOperation(operation, outcome string) {
	operationCounter.WithLabelValues(operation, outcome).Inc()
}

// RecordCompensation counts a compensating action. Result is "applied" or
// "failed".
func RecordCompensation(operation, result string) {
	compensationCounter.WithLabelValues(operation, result).Inc()
}

// RecordActivityCreated updates the creation watermark gauge.
func RecordActivityCreated(ts time.Time) {
	if ts.IsZero() {
		return
	}
	lastCreatedGauge.Set(float64(ts.Unix()))
}
