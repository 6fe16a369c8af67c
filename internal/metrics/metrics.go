package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records service-level counters and timings
type Metrics interface {
	IncRequestsTotal(route string, status int)
	ObserveRequestDuration(route string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncGuesses(correct bool)
	IncUpserts(outcome string)
	IncStoreConflicts()
	ObserveStoreDuration(op string, duration time.Duration)
	Handler() http.Handler
}

// Upsert outcomes
const (
	OutcomeCreated = "created"
	OutcomeUpdated = "updated"
	OutcomeFailed  = "failed"
)

// Prometheus implements Metrics on its own registry
type Prometheus struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	guesses         *prometheus.CounterVec
	upserts         *prometheus.CounterVec
	storeConflicts  prometheus.Counter
	storeDuration   *prometheus.HistogramVec
}

// New returns Prometheus metrics when enabled, otherwise a no-op
func New(enabled bool) Metrics {
	if !enabled {
		return Noop{}
	}
	return NewPrometheus(prometheus.NewRegistry())
}

// NewPrometheus registers all collectors on reg
func NewPrometheus(reg *prometheus.Registry) *Prometheus {
	reg.MustRegister(collectors.NewGoCollector())
	f := promauto.With(reg)

	return &Prometheus{
		registry: reg,
		requestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "skylandly_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"route", "status"}),

		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "skylandly_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),

		cacheHits: f.NewCounter(prometheus.CounterOpts{
			Name: "skylandly_daily_cache_hits_total",
			Help: "Daily answer lookups served from cache",
		}),

		cacheMisses: f.NewCounter(prometheus.CounterOpts{
			Name: "skylandly_daily_cache_misses_total",
			Help: "Daily answer lookups that ran the selector",
		}),

		guesses: f.NewCounterVec(prometheus.CounterOpts{
			Name: "skylandly_guesses_total",
			Help: "Guesses compared against the daily answer",
		}, []string{"correct"}),

		upserts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "skylandly_result_upserts_total",
			Help: "Daily result upserts by outcome",
		}, []string{"outcome"}),

		storeConflicts: f.NewCounter(prometheus.CounterOpts{
			Name: "skylandly_store_conflicts_total",
			Help: "Store write conflicts that triggered a retry",
		}),

		storeDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "skylandly_store_duration_seconds",
			Help:    "Ledger store operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
	}
}

func (m *Prometheus) IncRequestsTotal(route string, status int) {
	m.requestsTotal.WithLabelValues(route, statusBucket(status)).Inc()
}

func (m *Prometheus) ObserveRequestDuration(route string, duration time.Duration) {
	m.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

func (m *Prometheus) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *Prometheus) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *Prometheus) IncGuesses(correct bool) {
	label := "false"
	if correct {
		label = "true"
	}
	m.guesses.WithLabelValues(label).Inc()
}

func (m *Prometheus) IncUpserts(outcome string) {
	m.upserts.WithLabelValues(outcome).Inc()
}

func (m *Prometheus) IncStoreConflicts() {
	m.storeConflicts.Inc()
}

func (m *Prometheus) ObserveStoreDuration(op string, duration time.Duration) {
	m.storeDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus exposition format
func (m *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func statusBucket(code int) string {
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

// Noop discards everything
type Noop struct{}

func (Noop) IncRequestsTotal(_ string, _ int)                 {}
func (Noop) ObserveRequestDuration(_ string, _ time.Duration) {}
func (Noop) IncCacheHits()                                    {}
func (Noop) IncCacheMisses()                                  {}
func (Noop) IncGuesses(_ bool)                                {}
func (Noop) IncUpserts(_ string)                              {}
func (Noop) IncStoreConflicts()                               {}
func (Noop) ObserveStoreDuration(_ string, _ time.Duration)   {}
func (Noop) Handler() http.Handler                            { return http.NotFoundHandler() }
