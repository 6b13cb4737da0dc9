package middlewares

import (
	"net/http"
	"slices"

	"github.com/5w1tchy/storyshelf/internal/api/apperr"
	"github.com/5w1tchy/storyshelf/internal/logger"
)

// CORS admits browser requests from the given origins only. Requests
// without an Origin header pass through untouched.
func CORS(origins []string) Middleware {
	allowed := slices.Clone(origins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}
			if !slices.Contains(allowed, origin) {
				logger.For(r.Context()).WithField("origin", origin).
					Warnf("CORS blocked %s %s", r.Method, r.URL.Path)
				apperr.Forbidden(w, r, "origin not allowed")
				return
			}

			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Range, X-Request-ID")
			h.Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")
			h.Set("Access-Control-Max-Age", "3600")
			h.Set("Access-Control-Expose-Headers",
				"X-Request-ID, X-Response-Time, X-RateLimit-Limit, X-RateLimit-Remaining, Retry-After, Content-Range, Accept-Ranges")

			// Fast-path preflight
			if r.Method == http.MethodOptions {
				h.Add("Vary", "Access-Control-Request-Method")
				h.Add("Vary", "Access-Control-Request-Headers")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
