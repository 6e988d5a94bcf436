package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"pilot/internal/structures"
	"time"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits(collection string)
	IncCacheMisses(collection string)
	ObservePersistenceDuration(collection string, duration time.Duration)
	IncPersistenceErrors(collection string)
	IncGenerations(kind string)
	IncQuotaDenied(resource string)
	IncChatMessages()
	ObserveAIDuration(operation string, duration time.Duration, failed bool)
	SetStreak(current, longest int)
	SetEntriesTotal(count int)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           *prometheus.CounterVec
	cacheMisses         *prometheus.CounterVec
	persistenceDuration *prometheus.HistogramVec
	persistenceErrors   *prometheus.CounterVec
	generations         *prometheus.CounterVec
	quotaDenied         *prometheus.CounterVec
	chatMessages        prometheus.Counter
	aiDuration          *prometheus.HistogramVec
	streak              *prometheus.GaugeVec
	entriesTotal        prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits(collection string) {
	m.cacheHits.WithLabelValues(collection).Inc()
}

func (m *MetricsProvider) IncCacheMisses(collection string) {
	m.cacheMisses.WithLabelValues(collection).Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(collection string, duration time.Duration) {
	m.persistenceDuration.WithLabelValues(collection).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncPersistenceErrors(collection string) {
	m.persistenceErrors.WithLabelValues(collection).Inc()
}

func (m *MetricsProvider) IncGenerations(kind string) {
	m.generations.WithLabelValues(kind).Inc()
}

func (m *MetricsProvider) IncQuotaDenied(resource string) {
	m.quotaDenied.WithLabelValues(resource).Inc()
}

func (m *MetricsProvider) IncChatMessages() {
	m.chatMessages.Inc()
}

func (m *MetricsProvider) ObserveAIDuration(operation string, duration time.Duration, failed bool) {
	outcome := "ok"
	if failed {
		outcome = "error"
	}
	m.aiDuration.WithLabelValues(operation, outcome).Observe(duration.Seconds())
}

func (m *MetricsProvider) SetStreak(current, longest int) {
	m.streak.WithLabelValues("current").Set(float64(current))
	m.streak.WithLabelValues("longest").Set(float64(longest))
}

func (m *MetricsProvider) SetEntriesTotal(count int) {
	m.entriesTotal.Set(float64(count))
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

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pilot_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pilot_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pilot_cache_hits_total",
			Help: "Total number of record cache hits",
		}, []string{"collection"}),

		cacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pilot_cache_misses_total",
			Help: "Total number of record cache misses",
		}, []string{"collection"}),

		persistenceDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pilot_persistence_duration_seconds",
			Help:    "Duration of collection writes in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"collection"}),

		persistenceErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pilot_persistence_errors_total",
			Help: "Total number of failed collection writes",
		}, []string{"collection"}),

		generations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pilot_generations_total",
			Help: "Total number of generated tasks",
		}, []string{"kind"}),

		quotaDenied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pilot_quota_denied_total",
			Help: "Total number of actions refused by a quota",
		}, []string{"resource"}),

		chatMessages: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pilot_chat_messages_total",
			Help: "Total number of chat messages sent",
		}),

		aiDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pilot_ai_duration_seconds",
			Help:    "Duration of task-generation collaborator calls in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"operation", "outcome"}),

		streak: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pilot_streak_days",
			Help: "Current and longest streak in days",
		}, []string{"kind"}),

		entriesTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "pilot_entries_total",
			Help: "Number of stored daily entries",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                     {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)     {}
func (n *noopMetrics) IncCacheHits(_ string)                                {}
func (n *noopMetrics) IncCacheMisses(_ string)                              {}
func (n *noopMetrics) ObservePersistenceDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncPersistenceErrors(_ string)                        {}
func (n *noopMetrics) IncGenerations(_ string)                              {}
func (n *noopMetrics) IncQuotaDenied(_ string)                              {}
func (n *noopMetrics) IncChatMessages()                                     {}
func (n *noopMetrics) ObserveAIDuration(_ string, _ time.Duration, _ bool)  {}
func (n *noopMetrics) SetStreak(_, _ int)                                   {}
func (n *noopMetrics) SetEntriesTotal(_ int)                                {}
