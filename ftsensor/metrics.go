package ftsensor

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/simbridge/metric"
)

// Metrics holds Prometheus metrics for one sensor instance
type Metrics struct {
	samplesPublished  prometheus.Counter
	ticksSkipped      *prometheus.CounterVec
	publishErrors     prometheus.Counter
	activeSubscribers prometheus.Gauge
	publishLatency    prometheus.Histogram
}

// newMetrics creates and registers sensor metrics.
// Returns nil if no registry is provided (nil input = nil feature pattern).
func newMetrics(registry *metric.MetricsRegistry, name string) *Metrics {
	if registry == nil {
		return nil
	}

	labels := prometheus.Labels{"sensor": name}

	metrics := &Metrics{
		samplesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "simbridge",
			Subsystem:   "ftsensor",
			Name:        "samples_published_total",
			Help:        "Wrench samples published to the transport",
			ConstLabels: labels,
		}),
		ticksSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "simbridge",
			Subsystem:   "ftsensor",
			Name:        "ticks_skipped_total",
			Help:        "Ticks skipped without sampling, by reason",
			ConstLabels: labels,
		}, []string{"reason"}),
		publishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "simbridge",
			Subsystem:   "ftsensor",
			Name:        "publish_errors_total",
			Help:        "Failed transport publish calls",
			ConstLabels: labels,
		}),
		activeSubscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "simbridge",
			Subsystem:   "ftsensor",
			Name:        "active_subscribers",
			Help:        "Currently active subscribers on the sensor topic",
			ConstLabels: labels,
		}),
		publishLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "simbridge",
			Subsystem:   "ftsensor",
			Name:        "publish_duration_seconds",
			Help:        "Time spent in the transport publish call",
			ConstLabels: labels,
			Buckets:     []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}),
	}

	serviceName := "ftsensor_" + name
	_ = registry.RegisterCounter(serviceName, "samples_published", metrics.samplesPublished)
	_ = registry.RegisterCounterVec(serviceName, "ticks_skipped", metrics.ticksSkipped)
	_ = registry.RegisterCounter(serviceName, "publish_errors", metrics.publishErrors)
	_ = registry.RegisterGauge(serviceName, "active_subscribers", metrics.activeSubscribers)
	_ = registry.RegisterHistogram(serviceName, "publish_latency", metrics.publishLatency)

	return metrics
}
