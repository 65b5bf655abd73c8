// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
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

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_served_total",
			Help: "Total size recommendations served, by recommended size",
		},
		[]string{"recommended_size"},
	)

	RecommendationConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_confidence_score",
			Help:    "Distribution of recommendation confidence scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	WidgetEventsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "widget_events_recorded_total",
			Help: "Total widget telemetry events recorded, by event type",
		},
		[]string{"event_type"},
	)

	FitReportsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fit_reports_sent_total",
			Help: "Total fit reports delivered, by channel",
		},
		[]string{"channel"},
	)
)
