// Package metrics exposes Prometheus counters for an ingestion run.
// The recorder owns a private registry, so nothing is registered
// globally; the handler is mounted only when a listen address is
// configured.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds the run's metrics.
type Recorder struct {
	registry *prometheus.Registry

	processed prometheus.Counter
	inserted  prometheus.Counter
	skipped   *prometheus.CounterVec
	duration  prometheus.Gauge
}

// New creates a recorder with a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,

		processed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ogm2sqlite",
			Name:      "records_processed_total",
			Help:      "Records read from the source corpus",
		}),
		inserted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ogm2sqlite",
			Name:      "records_inserted_total",
			Help:      "Records stored across all three structures",
		}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ogm2sqlite",
			Name:      "records_skipped_total",
			Help:      "Records excluded from the corpus",
		}, []string{"reason"}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ogm2sqlite",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of the last completed run",
		}),
	}
	reg.MustRegister(r.processed, r.inserted, r.skipped, r.duration)
	return r
}

// RecordProcessed counts one record read from the corpus.
func (r *Recorder) RecordProcessed() { r.processed.Inc() }

// RecordInserted counts one record stored in all three structures.
func (r *Recorder) RecordInserted() { r.inserted.Inc() }

// RecordSkipped counts one excluded record, bucketed by failure kind.
func (r *Recorder) RecordSkipped(reason string) {
	r.skipped.WithLabelValues(reason).Inc()
}

// SetRunDuration records the wall-clock time of the completed run.
func (r *Recorder) SetRunDuration(d time.Duration) {
	r.duration.Set(d.Seconds())
}

// Handler serves the registry for Prometheus scrapes.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
