// Package metrics records pipeline outcomes in a private Prometheus registry
// and exports them in the text exposition format, e.g. for the node exporter
// textfile collector.
package metrics

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes the metrics exported by the fetch-analytics binary.
const Namespace = "fetch_analytics"

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Recorder holds the pipeline metrics.
type Recorder struct {
	registry        *prometheus.Registry
	processedTotal  *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	durationSeconds *prometheus.HistogramVec
	fileSizeBytes   *prometheus.HistogramVec
}

// New creates a Recorder whose metric names are prefixed with namespace.
func New(namespace string) *Recorder {
	r := &Recorder{registry: prometheus.NewRegistry()}

	r.processedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "Pipeline runs by format and status.",
		},
		[]string{"format", "status"},
	)
	r.errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_errors_total",
			Help:      "Pipeline failures by format and error kind.",
		},
		[]string{"format", "kind"},
	)
	r.durationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_duration_seconds",
			Help:      "Duration of a full fetch, write and summarize run.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"format"},
	)
	// Buckets: 1KB, 10KB, 100KB, 1MB, 10MB, 100MB
	r.fileSizeBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "file_size_bytes",
			Help:      "Size of persisted data files.",
			Buckets:   prometheus.ExponentialBuckets(1024, 10, 6),
		},
		[]string{"format"},
	)

	r.registry.MustRegister(
		r.processedTotal,
		r.errorsTotal,
		r.durationSeconds,
		r.fileSizeBytes,
	)
	return r
}

// ObserveSuccess records a completed run that persisted size bytes.
func (r *Recorder) ObserveSuccess(format string, duration time.Duration, size int) {
	r.processedTotal.WithLabelValues(format, StatusSuccess).Inc()
	r.durationSeconds.WithLabelValues(format).Observe(duration.Seconds())
	r.fileSizeBytes.WithLabelValues(format).Observe(float64(size))
}

// ObserveFailure records a failed run and the kind of error that ended it.
func (r *Recorder) ObserveFailure(format, kind string, duration time.Duration) {
	r.processedTotal.WithLabelValues(format, StatusError).Inc()
	r.errorsTotal.WithLabelValues(format, kind).Inc()
	r.durationSeconds.WithLabelValues(format).Observe(duration.Seconds())
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes all metrics to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return errors.Wrapf(err, "failed to write metrics to %s", path)
	}
	return nil
}
