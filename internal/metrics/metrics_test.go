package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheus_Counters(t *testing.T) {
	m := NewPrometheus(prometheus.NewRegistry())

	m.IncCacheHits()
	m.IncCacheHits()
	m.IncCacheMisses()
	m.IncGuesses(true)
	m.IncGuesses(false)
	m.IncGuesses(false)
	m.IncUpserts(OutcomeCreated)
	m.IncStoreConflicts()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheHits))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheMisses))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.guesses.WithLabelValues("true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.guesses.WithLabelValues("false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.upserts.WithLabelValues(OutcomeCreated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeConflicts))
}

func TestPrometheus_RequestsBucketedByStatus(t *testing.T) {
	m := NewPrometheus(prometheus.NewRegistry())

	m.IncRequestsTotal("/api/v1/game/daily", 200)
	m.IncRequestsTotal("/api/v1/game/daily", 204)
	m.IncRequestsTotal("/api/v1/game/daily", 404)
	m.ObserveRequestDuration("/api/v1/game/daily", 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("/api/v1/game/daily", "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("/api/v1/game/daily", "4xx")))
}

func TestPrometheus_Handler(t *testing.T) {
	m := NewPrometheus(prometheus.NewRegistry())
	m.IncGuesses(true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "skylandly_guesses_total")
}

func TestNew_Disabled(t *testing.T) {
	m := New(false)
	assert.IsType(t, Noop{}, m)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatusBucket(t *testing.T) {
	assert.Equal(t, "1xx", statusBucket(101))
	assert.Equal(t, "2xx", statusBucket(200))
	assert.Equal(t, "3xx", statusBucket(302))
	assert.Equal(t, "4xx", statusBucket(409))
	assert.Equal(t, "5xx", statusBucket(503))
}
