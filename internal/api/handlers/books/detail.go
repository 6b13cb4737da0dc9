package books

import (
	"errors"
	"net/http"

	"github.com/5w1tchy/storyshelf/internal/api/apperr"
	"github.com/5w1tchy/storyshelf/internal/api/httpx"
	"github.com/5w1tchy/storyshelf/internal/attribution"
	"github.com/5w1tchy/storyshelf/internal/logger"
	"github.com/5w1tchy/storyshelf/internal/models"
	"github.com/5w1tchy/storyshelf/internal/store/catalog"
)

// GET /book/{id}
// Reads the cached record without syncing; the attribution text comes
// from disk on every request.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	dir, err := h.Store.Inspect(id)
	if errors.Is(err, catalog.ErrNotFound) {
		apperr.NotFound(w, r, "book not found")
		return
	}
	if err != nil {
		logger.For(ctx).WithError(err).WithField("book", id).Error("inspect book dir")
		apperr.Internal(w, r, "failed to read book")
		return
	}
	if dir.PDF == "" {
		apperr.NotFound(w, r, "book has no pdf")
		return
	}

	meta, _ := h.Store.Lookup(ctx, id)
	if dir.HasThumbnail {
		meta.ThumbnailPath = catalog.PDFPath(id, h.Store.ThumbnailName())
	}

	content, err := h.Store.ReadAttribution(dir)
	if err != nil {
		logger.For(ctx).WithError(err).WithField("book", id).Warn("attribution unreadable")
	}

	title := meta.Title
	if title == "" {
		title = attribution.CleanTitle(id)
	}

	httpx.OK(w, models.Detail{
		ID:                 id,
		Title:              title,
		EpubPath:           catalog.PDFPath(id, dir.PDF),
		Metadata:           meta,
		AttributionContent: content,
	})
}
