// Package health exposes Prometheus metrics and a plain status snapshot
// for service health, cache hit rates, and indexing progress (spec.md §4,
// §6's /api/status and /health* endpoints).
package health

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector holds all Prometheus metrics for the search service.
type MetricsCollector struct {
	SearchRequestsTotal   *prometheus.CounterVec
	SearchDuration        *prometheus.HistogramVec
	SearchResultsReturned *prometheus.HistogramVec

	IndexOperations    *prometheus.CounterVec
	IndexDuration      *prometheus.HistogramVec
	IndexedFilesTotal  prometheus.Counter
	IndexedChunksTotal prometheus.Counter
	IndexErrorsTotal   *prometheus.CounterVec

	EmbeddingRequests *prometheus.CounterVec
	EmbeddingDuration *prometheus.HistogramVec

	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	CollectionVectorCount *prometheus.GaugeVec
	SystemStartTime       prometheus.Gauge
	SystemHealth          *prometheus.GaugeVec
}

// NewMetricsCollector creates and registers all Prometheus metrics under
// namespace on the default registerer.
func NewMetricsCollector(namespace string) *MetricsCollector {
	return NewMetricsCollectorWithRegistry(namespace, prometheus.DefaultRegisterer)
}

// NewMetricsCollectorWithRegistry creates metrics on a specific registry,
// so tests don't collide on the process-global default registry.
func NewMetricsCollectorWithRegistry(namespace string, reg prometheus.Registerer) *MetricsCollector {
	if namespace == "" {
		namespace = "docsearch"
	}

	counterVec := func(name, help string, labels []string) *prometheus.CounterVec {
		return promauto.With(reg).NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help}, labels)
	}
	histogramVec := func(name, help string, buckets []float64, labels []string) *prometheus.HistogramVec {
		return promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: name, Help: help, Buckets: buckets}, labels)
	}
	counter := func(name, help string) prometheus.Counter {
		return promauto.With(reg).NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help})
	}
	gauge := func(name, help string) prometheus.Gauge {
		return promauto.With(reg).NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
	}
	gaugeVec := func(name, help string, labels []string) *prometheus.GaugeVec {
		return promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help}, labels)
	}

	return &MetricsCollector{
		SearchRequestsTotal: counterVec("search_requests_total", "Total search requests by collection and status", []string{"collection", "status"}),
		SearchDuration: histogramVec("search_duration_seconds", "Search request duration in seconds",
			[]float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5}, []string{"collection"}),
		SearchResultsReturned: histogramVec("search_results_returned", "Number of results returned per search",
			[]float64{0, 1, 5, 10, 25, 50, 100}, []string{"collection"}),

		IndexOperations:    counterVec("index_operations_total", "Total indexing operations by collection and status", []string{"collection", "status"}),
		IndexDuration:      histogramVec("index_duration_seconds", "Indexing batch duration in seconds", []float64{.1, .5, 1, 5, 10, 30, 60, 300}, []string{"collection"}),
		IndexedFilesTotal:  counter("indexed_files_total", "Total number of files indexed"),
		IndexedChunksTotal: counter("indexed_chunks_total", "Total number of chunks indexed"),
		IndexErrorsTotal:   counterVec("index_errors_total", "Total indexing errors by type", []string{"error_type"}),

		EmbeddingRequests: counterVec("embedding_requests_total", "Total embedding requests by provider and status", []string{"provider", "status"}),
		EmbeddingDuration: histogramVec("embedding_duration_seconds", "Embedding generation duration in seconds", []float64{.01, .05, .1, .25, .5, 1, 2.5}, []string{"provider"}),

		CacheHits:   counterVec("cache_hits_total", "Total cache hits by layer", []string{"layer"}),
		CacheMisses: counterVec("cache_misses_total", "Total cache misses by layer", []string{"layer"}),

		CollectionVectorCount: gaugeVec("collection_vector_count", "Vector count per collection", []string{"collection"}),
		SystemStartTime:       gauge("system_start_time_seconds", "Unix timestamp when the service started"),
		SystemHealth:          gaugeVec("system_health_status", "Component health status (1 = healthy, 0 = unhealthy)", []string{"component"}),
	}
}

func (m *MetricsCollector) RecordSearch(collection, status string, duration time.Duration, resultCount int) {
	m.SearchRequestsTotal.WithLabelValues(collection, status).Inc()
	m.SearchDuration.WithLabelValues(collection).Observe(duration.Seconds())
	m.SearchResultsReturned.WithLabelValues(collection).Observe(float64(resultCount))
}

func (m *MetricsCollector) RecordIndexOperation(collection, status string, duration time.Duration) {
	m.IndexOperations.WithLabelValues(collection, status).Inc()
	m.IndexDuration.WithLabelValues(collection).Observe(duration.Seconds())
}

func (m *MetricsCollector) RecordIndexedFiles(n int)  { m.IndexedFilesTotal.Add(float64(n)) }
func (m *MetricsCollector) RecordIndexedChunks(n int) { m.IndexedChunksTotal.Add(float64(n)) }
func (m *MetricsCollector) RecordIndexError(errorType string) {
	m.IndexErrorsTotal.WithLabelValues(errorType).Inc()
}

func (m *MetricsCollector) RecordEmbedding(provider, status string, duration time.Duration) {
	m.EmbeddingRequests.WithLabelValues(provider, status).Inc()
	m.EmbeddingDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

func (m *MetricsCollector) RecordCacheHit(layer string)  { m.CacheHits.WithLabelValues(layer).Inc() }
func (m *MetricsCollector) RecordCacheMiss(layer string) { m.CacheMisses.WithLabelValues(layer).Inc() }

func (m *MetricsCollector) SetCollectionVectorCount(collection string, count int) {
	m.CollectionVectorCount.WithLabelValues(collection).Set(float64(count))
}

func (m *MetricsCollector) SetSystemStartTime(t time.Time) { m.SystemStartTime.Set(float64(t.Unix())) }

func (m *MetricsCollector) SetComponentHealth(component string, healthy bool) {
	v := 0.0
	if healthy {
		v = 1.0
	}
	m.SystemHealth.WithLabelValues(component).Set(v)
}
