package health

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestMetricsCollector_RecordSearch_IncrementsCountersAndHistograms(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsCollectorWithRegistry("test", reg)

	m.RecordSearch("docs", "ok", 10*time.Millisecond, 5)

	c, err := m.SearchRequestsTotal.GetMetricWithLabelValues("docs", "ok")
	require.NoError(t, err)
	assert.Equal(t, float64(1), counterValue(t, c))
}

func TestMetricsCollector_CacheHitMiss_SeparateCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsCollectorWithRegistry("test", reg)

	m.RecordCacheHit("query")
	m.RecordCacheHit("query")
	m.RecordCacheMiss("query")

	hit, err := m.CacheHits.GetMetricWithLabelValues("query")
	require.NoError(t, err)
	miss, err := m.CacheMisses.GetMetricWithLabelValues("query")
	require.NoError(t, err)
	assert.Equal(t, float64(2), counterValue(t, hit))
	assert.Equal(t, float64(1), counterValue(t, miss))
}

func TestMetricsCollector_DefaultNamespace_AppliedWhenEmpty(t *testing.T) {
	reg := prometheus.NewRegistry()
	assert.NotPanics(t, func() {
		NewMetricsCollectorWithRegistry("", reg)
	})
}
