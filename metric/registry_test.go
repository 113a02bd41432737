package metric

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/simbridge/errors"
)

func newTestCounter(name string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "simbridge",
		Subsystem: "test",
		Name:      name,
		Help:      "test counter",
	})
}

func TestMetricsRegistry_RegisterCounter(t *testing.T) {
	registry := NewMetricsRegistry()

	err := registry.RegisterCounter("ftsensor", "samples", newTestCounter("samples_total"))
	require.NoError(t, err)

	// Same service/metric key is rejected
	err = registry.RegisterCounter("ftsensor", "samples", newTestCounter("samples2_total"))
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))

	// Same collector name under a different key is a prometheus conflict
	err = registry.RegisterCounter("other", "samples", newTestCounter("samples_total"))
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestMetricsRegistry_Unregister(t *testing.T) {
	registry := NewMetricsRegistry()

	require.NoError(t, registry.RegisterGauge("ftsensor", "subscribers",
		prometheus.NewGauge(prometheus.GaugeOpts{Name: "simbridge_test_subscribers", Help: "h"})))

	assert.True(t, registry.Unregister("ftsensor", "subscribers"))
	assert.False(t, registry.Unregister("ftsensor", "subscribers"))

	// Re-registration after unregister must succeed
	require.NoError(t, registry.RegisterGauge("ftsensor", "subscribers",
		prometheus.NewGauge(prometheus.GaugeOpts{Name: "simbridge_test_subscribers", Help: "h"})))
}

func TestMetricsRegistry_RegisterCounterVec(t *testing.T) {
	registry := NewMetricsRegistry()

	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "simbridge_test_skips_total",
		Help: "h",
	}, []string{"reason"})

	require.NoError(t, registry.RegisterCounterVec("ftsensor", "skips", vec))
	vec.WithLabelValues("rate_limit").Inc()

	families, err := registry.PrometheusRegistry().Gather()
	require.NoError(t, err)

	found := false
	for _, fam := range families {
		if fam.GetName() == "simbridge_test_skips_total" {
			found = true
		}
	}
	assert.True(t, found, "registered metric should be gatherable")
}
