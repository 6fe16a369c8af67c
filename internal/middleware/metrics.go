package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mcoot/skylandly/internal/metrics"
)

// Metrics records request counts and latency per route template
func Metrics(m metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := NewResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			route := routeName(r)
			m.IncRequestsTotal(route, wrapped.Status())
			m.ObserveRequestDuration(route, time.Since(start))
		})
	}
}

// routeName prefers the mux path template so ids and query strings do not explode label cardinality
func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return r.URL.Path
}
