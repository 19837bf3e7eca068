package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProcessDuration tracks wall time of ffmpeg/ffprobe invocations.
	ProcessDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "videos_process_duration_seconds",
		Help:    "Duration of external media process invocations",
		Buckets: prometheus.ExponentialBuckets(0.05, 2.5, 12), // 50ms to ~12h
	}, []string{"binary", "outcome"})

	ProcessTerminateTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "videos_process_terminate_total",
		Help: "Signals sent to external process groups",
	}, []string{"signal", "result"})
)

func ObserveProcess(binary, outcome string, d time.Duration) {
	ProcessDuration.WithLabelValues(binary, outcome).Observe(d.Seconds())
}

func IncProcTerminate(signal, result string) {
	ProcessTerminateTotal.WithLabelValues(signal, result).Inc()
}
