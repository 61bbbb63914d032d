// Package metrics exposes poll loop counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.trai.ch/dirpoll/internal/core/domain"
	"go.trai.ch/dirpoll/internal/core/ports"
)

const namespace = "dirpoll"

var _ ports.Metrics = (*Metrics)(nil)

// Metrics implements ports.Metrics with collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	scans        prometheus.Counter
	scanSeconds  prometheus.Histogram
	trackedFiles prometheus.Gauge
	skipped      prometheus.Counter
	batches      *prometheus.CounterVec
	events       *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		scans: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "scans_total",
			Help:      "Total number of full directory scans",
		}),
		scanSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "scan_duration_seconds",
			Help:      "Time spent walking the tree per scan",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
		trackedFiles: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "tracked_files",
			Help:      "Number of files in the most recent snapshot",
		}),
		skipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "skipped_scans_total",
			Help:      "Total number of polls short-circuited by the root pre-check",
		}),
		batches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifier",
			Name:      "batches_total",
			Help:      "Total number of published batches, per event kind",
		}, []string{"kind"}),
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifier",
			Name:      "events_total",
			Help:      "Total number of files or renames published, per event kind",
		}, []string{"kind"}),
	}
}

// ObserveScan records a completed scan.
func (m *Metrics) ObserveScan(d time.Duration, files int) {
	m.scans.Inc()
	m.scanSeconds.Observe(d.Seconds())
	m.trackedFiles.Set(float64(files))
}

// SkippedScan records a short-circuited poll.
func (m *Metrics) SkippedScan() {
	m.skipped.Inc()
}

// Published records one batch of n items.
func (m *Metrics) Published(kind domain.EventKind, n int) {
	m.batches.WithLabelValues(kind.String()).Inc()
	m.events.WithLabelValues(kind.String()).Add(float64(n))
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the collectors in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
