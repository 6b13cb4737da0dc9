package books

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/5w1tchy/storyshelf/internal/models"
	"github.com/5w1tchy/storyshelf/internal/store/catalog"
	"github.com/5w1tchy/storyshelf/internal/thumbnail"
)

const sampleAttribution = "Title: Sample Book\nwritten by A. Author under Pratham Books (© Pratham Books, 2020) under a CC BY 4.0 license on StoryWeaver. Read, create and translate stories for free on www.storyweaver.org.in"

type envelope[T any] struct {
	Status string `json:"status"`
	Data   T      `json:"data"`
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func newServer(t *testing.T, root string) (*Handler, http.Handler) {
	t.Helper()
	store := catalog.New(catalog.Options{
		Root:       root,
		Thumbnails: thumbnail.NewGenerator(thumbnail.NewPlaceholder()),
	})
	h := New(store)
	mux := http.NewServeMux()
	h.Mount(mux, nil)
	return h, mux
}

func sampleRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "01-sample-book", "book.pdf"), "%PDF-1.4")
	writeFile(t, filepath.Join(root, "01-sample-book", "StoryWeaverAttribution_sample.txt"), sampleAttribution)
	return root
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestList_EndToEnd(t *testing.T) {
	_, srv := newServer(t, sampleRoot(t))

	rec := get(t, srv, "/")
	require.Equal(t, http.StatusOK, rec.Code)

	var body envelope[[]models.Summary]
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "success", body.Status)
	require.Len(t, body.Data, 1)

	got := body.Data[0]
	assert.Equal(t, "01-sample-book", got.ID)
	assert.Equal(t, "Sample Book", got.Title)
	assert.Equal(t, "A. Author", got.Metadata.Author)
	assert.NotEmpty(t, got.Metadata.License)
	assert.Equal(t, "/api/books/01-sample-book/book.pdf", got.EpubPath)
	require.Equal(t, "/api/thumbnails/01-sample-book", got.ThumbnailPath)

	thumb := get(t, srv, got.ThumbnailPath)
	require.Equal(t, http.StatusOK, thumb.Code)
	assert.Equal(t, "image/png", thumb.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=31536000", thumb.Header().Get("Cache-Control"))
	assert.Equal(t, "\x89PNG", thumb.Body.String()[:4])
}

func TestList_MissingRootIsEmpty(t *testing.T) {
	_, srv := newServer(t, filepath.Join(t.TempDir(), "missing"))

	rec := get(t, srv, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success","data":[]}`, rec.Body.String())
}

func TestList_RootIsAFileIsEmpty(t *testing.T) {
	root := filepath.Join(t.TempDir(), "books")
	writeFile(t, root, "not a dir")
	_, srv := newServer(t, root)

	rec := get(t, srv, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success","data":[]}`, rec.Body.String())
}

func TestDetail(t *testing.T) {
	root := sampleRoot(t)
	_, srv := newServer(t, root)

	// Before any listing the cache is empty and the title falls back.
	rec := get(t, srv, "/book/01-sample-book")
	require.Equal(t, http.StatusOK, rec.Code)
	var before envelope[models.Detail]
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&before))
	assert.Equal(t, "Sample Book", before.Data.Title)
	assert.Empty(t, before.Data.Metadata.Author)
	assert.Empty(t, before.Data.Metadata.ThumbnailPath)
	assert.Equal(t, sampleAttribution, before.Data.AttributionContent)
	assert.Equal(t, "/api/books/01-sample-book/book.pdf", before.Data.EpubPath)

	require.Equal(t, http.StatusOK, get(t, srv, "/").Code)

	rec = get(t, srv, "/book/01-sample-book")
	require.Equal(t, http.StatusOK, rec.Code)
	var after envelope[models.Detail]
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&after))
	assert.Equal(t, "A. Author", after.Data.Metadata.Author)
	assert.Equal(t, "/api/books/01-sample-book/thumbnail.png", after.Data.Metadata.ThumbnailPath)
}

func TestDetail_TitleFallsBackToFolderName(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "03-the-lost-kitten", "kitten.pdf"), "%PDF")
	_, srv := newServer(t, root)

	rec := get(t, srv, "/book/03-the-lost-kitten")
	require.Equal(t, http.StatusOK, rec.Code)
	var body envelope[models.Detail]
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "The Lost Kitten", body.Data.Title)
	assert.Empty(t, body.Data.AttributionContent)
}

func TestDetail_NotFound(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "no-pdf", "notes.txt"), "x")

	cases := map[string]string{
		"missing dir": "/book/absent",
		"no pdf":      "/book/no-pdf",
	}
	_, srv := newServer(t, root)
	for name, path := range cases {
		t.Run(name, func(t *testing.T) {
			rec := get(t, srv, path)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
		})
	}

	t.Run("missing root", func(t *testing.T) {
		_, srv := newServer(t, filepath.Join(root, "nowhere"))
		assert.Equal(t, http.StatusNotFound, get(t, srv, "/book/absent").Code)
	})
}

func TestAsset(t *testing.T) {
	root := sampleRoot(t)
	writeFile(t, filepath.Join(root, "01-sample-book", "page.html"), "<p>hi</p>")
	writeFile(t, filepath.Join(root, "01-sample-book", "extra", "book.epub"), "PK")
	_, srv := newServer(t, root)

	cases := []struct {
		path        string
		contentType string
	}{
		{"/api/books/01-sample-book/page.html", "text/html; charset=utf-8"},
		{"/api/books/01-sample-book/extra/book.epub", "application/epub+zip"},
		{"/api/books/01-sample-book/StoryWeaverAttribution_sample.txt", "text/plain; charset=utf-8"},
		{"/api/books/01-sample-book/book.pdf", "application/octet-stream"},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			rec := get(t, srv, tc.path)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tc.contentType, rec.Header().Get("Content-Type"))
			assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))
		})
	}

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/api/books/01-sample-book/missing.txt").Code)
	assert.Equal(t, http.StatusForbidden, get(t, srv, "/api/books/01-sample-book/extra").Code)
}

func TestAsset_Range(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b", "notes.txt"), "0123456789")
	_, srv := newServer(t, root)

	req := httptest.NewRequest(http.MethodGet, "/api/books/b/notes.txt", nil)
	req.Header.Set("Range", "bytes=2-4")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusPartialContent, rec.Code)
	assert.Equal(t, "234", rec.Body.String())
}

func TestAsset_TraversalIsForbidden(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "books")
	writeFile(t, filepath.Join(root, "b", "book.pdf"), "%PDF")
	writeFile(t, filepath.Join(parent, "secret.txt"), "top secret")
	h, _ := newServer(t, root)

	for _, p := range []string{"../secret.txt", "b/../../secret.txt", ".."} {
		t.Run(p, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/books/x", nil)
			req.SetPathValue("path", p)
			rec := httptest.NewRecorder()
			h.Asset(rec, req)

			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.NotContains(t, rec.Body.String(), "top secret")
		})
	}
}

func TestThumbnail_NotFound(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b", "book.pdf"), "%PDF")
	h, srv := newServer(t, root)

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/api/thumbnails/b").Code)

	req := httptest.NewRequest(http.MethodGet, "/api/thumbnails/x", nil)
	req.SetPathValue("bookId", "..")
	rec := httptest.NewRecorder()
	h.Thumbnail(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
