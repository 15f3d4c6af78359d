package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/admissions-eligibility-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry             *prometheus.Registry
	handler              http.Handler
	requestDuration      *prometheus.HistogramVec
	requestTotal         *prometheus.CounterVec
	cacheLatency         prometheus.Observer
	cacheWrite           prometheus.Observer
	cacheHitRatio        prometheus.Gauge
	cacheHits            prometheus.Counter
	cacheMisses          prometheus.Counter
	catalogQueryDuration *prometheus.HistogramVec
	checkDuration        *prometheus.HistogramVec
	checksTotal          *prometheus.CounterVec
	outcomesTotal        *prometheus.CounterVec
	batchJobsTotal       *prometheus.CounterVec

	cacheHitCount             uint64
	cacheMissCount            uint64
	requestCount              uint64
	requestDurationTotal      uint64
	catalogQueryCount         uint64
	catalogQueryDurationTotal uint64
	checkCount                uint64

	mu       sync.Mutex
	outcomes map[string]uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	catalogQueryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_query_duration_seconds",
		Help:    "Duration of catalog loads per collection",
		Buckets: prometheus.DefBuckets,
	}, []string{"collection"})

	checkDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "eligibility_check_duration_seconds",
		Help:    "Duration of eligibility evaluations",
		Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"institution"})

	checksTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "eligibility_checks_total",
		Help: "Total eligibility checks by institution",
	}, []string{"institution"})

	outcomesTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "eligibility_outcomes_total",
		Help: "Programme verdicts produced by status",
	}, []string{"status"})

	batchJobsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "batch_jobs_total",
		Help: "Batch eligibility job transitions by status",
	}, []string{"status"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
		catalogQueryDuration, checkDuration, checksTotal, outcomesTotal, batchJobsTotal, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:             registry,
		handler:              handler,
		requestDuration:      requestDuration,
		requestTotal:         requestTotal,
		cacheLatency:         cacheLatency,
		cacheWrite:           cacheWrite,
		cacheHitRatio:        cacheHitRatio,
		cacheHits:            cacheHits,
		cacheMisses:          cacheMisses,
		catalogQueryDuration: catalogQueryDuration,
		checkDuration:        checkDuration,
		checksTotal:          checksTotal,
		outcomesTotal:        outcomesTotal,
		batchJobsTotal:       batchJobsTotal,
		outcomes:             map[string]uint64{},
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	if total := hits + misses; total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveCatalogQuery records how long loading one catalog collection took.
func (m *MetricsService) ObserveCatalogQuery(collection string, duration time.Duration) {
	if m == nil {
		return
	}
	m.catalogQueryDuration.WithLabelValues(collection).Observe(duration.Seconds())
	atomic.AddUint64(&m.catalogQueryCount, 1)
	atomic.AddUint64(&m.catalogQueryDurationTotal, uint64(duration.Nanoseconds()))
}

// ObserveEligibilityCheck records one evaluation run and the verdict of every programme it produced.
func (m *MetricsService) ObserveEligibilityCheck(institution string, results []models.EligibilityResult, duration time.Duration) {
	if m == nil {
		return
	}
	m.checksTotal.WithLabelValues(institution).Inc()
	m.checkDuration.WithLabelValues(institution).Observe(duration.Seconds())
	atomic.AddUint64(&m.checkCount, 1)

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range results {
		status := string(r.Status)
		m.outcomesTotal.WithLabelValues(status).Inc()
		m.outcomes[status]++
	}
}

// ObserveBatchJob counts a batch job reaching status.
func (m *MetricsService) ObserveBatchJob(status string) {
	if m == nil {
		return
	}
	m.batchJobsTotal.WithLabelValues(status).Inc()
}

// Snapshot returns aggregated metrics suitable for the metrics summary endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)
	catalogCount := atomic.LoadUint64(&m.catalogQueryCount)
	catalogDuration := atomic.LoadUint64(&m.catalogQueryDurationTotal)

	var cacheRatio float64
	if totalLookups := hits + misses; totalLookups > 0 {
		cacheRatio = float64(hits) / float64(totalLookups)
	}

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	var avgCatalogMs float64
	if catalogCount > 0 {
		avgCatalogMs = float64(catalogDuration) / float64(catalogCount) / float64(time.Millisecond)
	}

	m.mu.Lock()
	outcomes := make(map[string]uint64, len(m.outcomes))
	for status, count := range m.outcomes {
		outcomes[status] = count
	}
	m.mu.Unlock()

	return models.SystemMetrics{
		CacheHitRatio:            cacheRatio,
		CacheHits:                hits,
		CacheMisses:              misses,
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		CatalogQueryCount:        catalogCount,
		AverageCatalogQueryMs:    avgCatalogMs,
		EligibilityChecks:        atomic.LoadUint64(&m.checkCount),
		OutcomesByStatus:         outcomes,
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
