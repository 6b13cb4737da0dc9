package middlewares

import "net/http"

// SecurityHeaders sets the baseline headers. Cache-Control defaults to
// no-store; asset handlers override it with their own directive.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-DNS-Prefetch-Control", "off")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cache-Control", "no-store")
		h.Set("Cross-Origin-Resource-Policy", "same-site")

		// HSTS should only be effective over HTTPS (r.TLS != nil)
		if r.TLS != nil {
			h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		}

		h.Set("Content-Security-Policy", "default-src 'self'; img-src 'self' data:")

		next.ServeHTTP(w, r)
	})
}
