package middlewares

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/5w1tchy/storyshelf/internal/logger"
)

// RequestLogger logs one line per request once the handler returns.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}

		next.ServeHTTP(sw, r)

		entry := logger.For(r.Context()).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": sw.Status(),
			"bytes":  sw.bytes,
			"remote": r.RemoteAddr,
			"took":   time.Since(start).String(),
		})
		if sw.Status() >= http.StatusInternalServerError {
			entry.Warn("http.request")
			return
		}
		entry.Info("http.request")
	})
}
