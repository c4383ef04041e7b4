package providers

import (
	"pbcheck/internal/structures"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeFallback = "fallback"
	OutcomeSkipped  = "skipped"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncFetchTotal(outcome string)
	ObserveFetchDuration(duration time.Duration)
	IncParseTotal(strategy, outcome string)
	ObservePersistenceDuration(duration time.Duration)
	SetLastFetch(t time.Time)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	fetchTotal          *prometheus.CounterVec
	fetchDuration       prometheus.Histogram
	parseTotal          *prometheus.CounterVec
	persistenceDuration prometheus.Histogram
	lastFetchUnix       atomic.Int64
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncFetchTotal(outcome string) {
	m.fetchTotal.WithLabelValues(outcome).Inc()
}

func (m *MetricsProvider) ObserveFetchDuration(duration time.Duration) {
	m.fetchDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncParseTotal(strategy, outcome string) {
	m.parseTotal.WithLabelValues(strategy, outcome).Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) SetLastFetch(t time.Time) {
	m.lastFetchUnix.Store(t.Unix())
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pbcheck_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pbcheck_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pbcheck_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pbcheck_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		fetchTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pbcheck_drawing_fetch_total",
			Help: "Drawing acquisitions by outcome",
		}, []string{"outcome"}),

		fetchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "pbcheck_drawing_fetch_duration_seconds",
			Help:    "Duration of remote drawing fetches in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		parseTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pbcheck_drawing_parse_total",
			Help: "Drawing parse attempts by strategy and outcome",
		}, []string{"strategy", "outcome"}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "pbcheck_persistence_duration_seconds",
			Help:    "Duration of persistence operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "pbcheck_drawing_age_seconds",
		Help: "Seconds since the last successful drawing fetch, -1 when never fetched",
	}, func() float64 {
		last := m.lastFetchUnix.Load()
		if last == 0 {
			return -1
		}
		return time.Since(time.Unix(last, 0)).Seconds()
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncFetchTotal(_ string)                           {}
func (n *noopMetrics) ObserveFetchDuration(_ time.Duration)             {}
func (n *noopMetrics) IncParseTotal(_, _ string)                        {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) SetLastFetch(_ time.Time)                         {}
