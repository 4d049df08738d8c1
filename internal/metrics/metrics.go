// Package metrics records generator runs as Prometheus collectors on a
// private registry. Runs are short lived, so the registry is written to a
// node_exporter textfile instead of being scraped.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "frogdata"

// Run status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Recorder aggregates publish and run outcomes.
type Recorder struct {
	registry    *prometheus.Registry
	rows        *prometheus.CounterVec
	bytes       *prometheus.CounterVec
	defects     *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	runs        *prometheus.CounterVec
	lastSuccess prometheus.Gauge
}

// NewRecorder constructs a recorder with its collectors registered on a fresh
// registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_written_total",
			Help:      "Data rows written per fixture dataset.",
		}, []string{"dataset"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_written_total",
			Help:      "Encoded CSV bytes written per fixture dataset.",
		}, []string{"dataset"}),
		defects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "defects_injected_total",
			Help:      "Deliberate data-quality defects injected per dataset and kind.",
		}, []string{"dataset", "kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "publish_duration_seconds",
			Help:      "Time spent publishing one fixture dataset.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"dataset"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Generator runs by outcome.",
		}, []string{"status"}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful generator run.",
		}),
	}
	r.registry.MustRegister(r.rows, r.bytes, r.defects, r.duration, r.runs, r.lastSuccess)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// ObservePublish records one written dataset.
func (r *Recorder) ObservePublish(dataset string, rows int, size int64, duration time.Duration) {
	if dataset == "" {
		return
	}
	r.rows.WithLabelValues(dataset).Add(float64(rows))
	r.bytes.WithLabelValues(dataset).Add(float64(size))
	r.duration.WithLabelValues(dataset).Observe(duration.Seconds())
}

// ObserveDefect counts one injected defect.
func (r *Recorder) ObserveDefect(dataset, kind string) {
	r.defects.WithLabelValues(dataset, kind).Inc()
}

// ObserveRun records a run outcome. finished is used for the last success
// gauge.
func (r *Recorder) ObserveRun(success bool, finished time.Time) {
	if !success {
		r.runs.WithLabelValues(StatusError).Inc()
		return
	}
	r.runs.WithLabelValues(StatusSuccess).Inc()
	r.lastSuccess.Set(float64(finished.Unix()))
}

// WriteTextfile writes the registry in the text exposition format to path,
// atomically replacing any previous file.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
