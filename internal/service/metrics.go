package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasktracker_operations_total",
			Help: "Total number of domain operations by result",
		},
		[]string{"op", "result"},
	)

	operationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tasktracker_operation_duration_seconds",
			Help:    "Duration of domain operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
)

// observe records one operation. Call it deferred with a pointer to the
// named error result.
func observe(op string, start time.Time, err *error) {
	operationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	result := "success"
	if err != nil && *err != nil {
		result = "error"
	}
	operationCount.WithLabelValues(op, result).Inc()
}
