// Package books serves the catalog: the listing, one book's detail, raw
// assets under the books root and generated thumbnails.
package books

import (
	"net/http"

	"github.com/5w1tchy/storyshelf/internal/store/catalog"
)

const (
	assetCacheControl     = "public, max-age=3600"
	thumbnailCacheControl = "public, max-age=31536000"
)

type Handler struct {
	Store *catalog.Store
}

func New(store *catalog.Store) *Handler {
	return &Handler{Store: store}
}

// Mount registers the catalog routes on mux. list is wrapped by the
// caller-supplied chain, which is where listing-only middleware such as
// the rate limiter goes.
func (h *Handler) Mount(mux *http.ServeMux, list func(http.Handler) http.Handler) {
	if list == nil {
		list = func(next http.Handler) http.Handler { return next }
	}
	mux.Handle("GET /{$}", list(http.HandlerFunc(h.List)))
	mux.HandleFunc("GET /book/{id}", h.Detail)
	mux.HandleFunc("GET /api/books/{path...}", h.Asset)
	mux.HandleFunc("GET /api/thumbnails/{bookId}", h.Thumbnail)
}
