// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values for QueryRequests.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

var (
	QueryRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_query_requests_total",
			Help: "Total number of natural-language queries processed",
		},
		[]string{"intent", "outcome"},
	)

	QueryConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "task_query_confidence",
			Help:    "Confidence score assigned to parsed queries",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
	)

	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "task_query_duration_seconds",
			Help: "Duration of query processing in seconds",
		},
		[]string{"intent"},
	)

	EntityCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entity_cache_lookups_total",
			Help: "Entity directory cache lookups by kind and result",
		},
		[]string{"kind", "result"},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)
)
