package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ImportMetrics records volume and outcome of guest import jobs.
type ImportMetrics struct {
	duration  *prometheus.HistogramVec
	completed *prometheus.CounterVec
	rows      *prometheus.CounterVec
}

// NewImportMetrics registers the import metrics on the provided registerer.
// A nil registerer yields a no-op instance, which keeps tests quiet.
func NewImportMetrics(reg prometheus.Registerer) *ImportMetrics {
	if reg == nil {
		return &ImportMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "import_job_duration_seconds",
		Help:    "Duration of guest import jobs in seconds.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
	}, []string{"status"})
	completed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "import_jobs_completed_total",
		Help: "Import jobs finished, by terminal status.",
	}, []string{"status"})
	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "import_rows_total",
		Help: "Rows processed by import jobs, by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(duration, completed, rows)
	return &ImportMetrics{
		duration:  duration,
		completed: completed,
		rows:      rows,
	}
}

// ObserveJob records the duration and terminal status of a finished job.
func (m *ImportMetrics) ObserveJob(status string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	label := normalizeLabel(status)
	m.duration.WithLabelValues(label).Observe(duration.Seconds())
	m.completed.WithLabelValues(label).Inc()
}

// AddRows accumulates processed row counts by outcome (ok / error).
func (m *ImportMetrics) AddRows(outcome string, n int) {
	if m == nil || m.rows == nil || n <= 0 {
		return
	}
	m.rows.WithLabelValues(normalizeLabel(outcome)).Add(float64(n))
}

func normalizeLabel(label string) string {
	if label == "" {
		return "unknown"
	}
	return label
}
