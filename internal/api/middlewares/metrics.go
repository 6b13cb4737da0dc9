package middlewares

import (
	"net/http"
	"strconv"
	"time"

	"github.com/5w1tchy/storyshelf/internal/metrics"
)

// Metrics records request counts and latency per route pattern. It must
// wrap the ServeMux directly: the mux stores the matched pattern on the
// request it was given.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}

		next.ServeHTTP(sw, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.HttpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(sw.Status())).Inc()
		metrics.HttpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
