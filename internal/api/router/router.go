package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/5w1tchy/storyshelf/internal/api/handlers"
	"github.com/5w1tchy/storyshelf/internal/api/handlers/books"
	"github.com/5w1tchy/storyshelf/internal/api/middlewares"
)

// Router wires every route. listMW wraps the listing only, since it is
// the one request that can trigger disk writes and rasterization.
func Router(h *books.Handler, listMW ...middlewares.Middleware) http.Handler {
	mux := http.NewServeMux()

	h.Mount(mux, func(next http.Handler) http.Handler {
		return middlewares.Chain(next, listMW...)
	})

	mux.Handle("GET /healthz", handlers.Health(h.Store.Root()))
	mux.Handle("GET /metrics", promhttp.Handler())

	return middlewares.Metrics(mux)
}
