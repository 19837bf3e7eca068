package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "videos_jobs_total",
		Help: "Finished jobs by type and status",
	}, []string{"type", "status"})

	JobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "videos_job_duration_seconds",
		Help:    "Duration of jobs from start to finish",
		Buckets: prometheus.ExponentialBuckets(0.1, 2.5, 12),
	}, []string{"type"})

	JobsDispatchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "videos_jobs_dispatched_total",
		Help: "Jobs handed to a dispatcher, by type and dispatcher",
	}, []string{"type", "dispatcher"})

	SourceDeletionFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "videos_source_deletion_failed_total",
		Help: "Temporary sources left on disk after a successful transcode",
	})

	ClassificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "videos_classifications_total",
		Help: "Classification decisions by content kind and result",
	}, []string{"kind", "result"})

	PackagePublishTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "videos_package_publish_total",
		Help: "Package mirror uploads by outcome",
	}, []string{"outcome"})
)

func ObserveJob(jobType, status string, d time.Duration) {
	if jobType == "" {
		jobType = "unknown"
	}
	JobsTotal.WithLabelValues(jobType, status).Inc()
	JobDuration.WithLabelValues(jobType).Observe(d.Seconds())
}

func IncDispatched(jobType, dispatcher string) {
	JobsDispatchedTotal.WithLabelValues(jobType, dispatcher).Inc()
}

func IncSourceDeletionFailed() {
	SourceDeletionFailedTotal.Inc()
}

// IncClassification records a short-form decision; result is "short_form" or "standard".
func IncClassification(kind string, shortForm bool) {
	result := "standard"
	if shortForm {
		result = "short_form"
	}
	ClassificationsTotal.WithLabelValues(kind, result).Inc()
}

func IncPackagePublish(outcome string) {
	PackagePublishTotal.WithLabelValues(outcome).Inc()
}
