package books

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/5w1tchy/storyshelf/internal/api/apperr"
	"github.com/5w1tchy/storyshelf/internal/logger"
	"github.com/5w1tchy/storyshelf/internal/store/catalog"
)

// GET /api/thumbnails/{bookId}
func (h *Handler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("bookId")
	if !catalog.ValidID(id) {
		apperr.NotFound(w, r, "thumbnail not found")
		return
	}

	f, err := os.Open(filepath.Join(h.Store.Root(), id, h.Store.ThumbnailName()))
	if errors.Is(err, fs.ErrNotExist) {
		apperr.NotFound(w, r, "thumbnail not found")
		return
	}
	if err != nil {
		logger.For(r.Context()).WithError(err).WithField("book", id).Error("open thumbnail")
		apperr.Internal(w, r, "error reading thumbnail")
		return
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil || st.IsDir() {
		logger.For(r.Context()).WithError(err).WithField("book", id).Error("stat thumbnail")
		apperr.Internal(w, r, "error reading thumbnail")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", thumbnailCacheControl)
	http.ServeContent(w, r, st.Name(), st.ModTime(), f)
}
