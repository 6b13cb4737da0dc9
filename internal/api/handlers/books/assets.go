package books

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/5w1tchy/storyshelf/internal/api/apperr"
	"github.com/5w1tchy/storyshelf/internal/logger"
)

var contentTypes = map[string]string{
	".epub": "application/epub+zip",
	".txt":  "text/plain; charset=utf-8",
	".html": "text/html; charset=utf-8",
	".css":  "text/css",
	".js":   "application/javascript",
}

func contentType(name string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// resolve maps a request path onto the books root. ok is false when the
// cleaned path would leave the root.
func resolve(root, rel string) (string, bool) {
	base, err := filepath.Abs(root)
	if err != nil {
		return "", false
	}
	full := filepath.Join(base, filepath.FromSlash(rel))
	r, err := filepath.Rel(base, full)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", false
	}
	return full, true
}

// GET /api/books/{path...}
func (h *Handler) Asset(w http.ResponseWriter, r *http.Request) {
	rel := r.PathValue("path")
	full, ok := resolve(h.Store.Root(), rel)
	if !ok || strings.Contains(rel, "\x00") {
		logger.For(r.Context()).WithField("path", rel).Warn("asset path escapes books root")
		apperr.Forbidden(w, r, "path outside books directory")
		return
	}

	st, err := os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		apperr.NotFound(w, r, "file not found")
		return
	}
	if err != nil {
		logger.For(r.Context()).WithError(err).WithField("path", rel).Error("stat asset")
		apperr.Internal(w, r, "failed to read file")
		return
	}
	if st.IsDir() {
		apperr.Forbidden(w, r, "path is a directory")
		return
	}

	f, err := os.Open(full)
	if err != nil {
		logger.For(r.Context()).WithError(err).WithField("path", rel).Error("open asset")
		apperr.Internal(w, r, "failed to read file")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", contentType(full))
	w.Header().Set("Cache-Control", assetCacheControl)
	http.ServeContent(w, r, st.Name(), st.ModTime(), f)
}
