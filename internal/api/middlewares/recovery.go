package middlewares

import (
	"net/http"
	"runtime/debug"

	"github.com/sirupsen/logrus"

	"github.com/5w1tchy/storyshelf/internal/api/apperr"
	"github.com/5w1tchy/storyshelf/internal/logger"
)

func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				logger.For(r.Context()).WithFields(logrus.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
					"panic":  err,
					"stack":  string(debug.Stack()),
				}).Error("panic recovered")

				// Don't expose internal errors to client
				apperr.Internal(w, r, "unexpected server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
