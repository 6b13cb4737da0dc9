package books

import (
	"net/http"

	"github.com/5w1tchy/storyshelf/internal/api/apperr"
	"github.com/5w1tchy/storyshelf/internal/api/httpx"
	"github.com/5w1tchy/storyshelf/internal/logger"
	"github.com/5w1tchy/storyshelf/internal/store/catalog"
)

// GET /
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Store.Sync(r.Context())
	if err != nil {
		logger.For(r.Context()).WithError(err).Error("catalog sync failed")
		apperr.Internal(w, r, "failed to load catalog")
		return
	}
	httpx.OK(w, catalog.Summaries(doc))
}
