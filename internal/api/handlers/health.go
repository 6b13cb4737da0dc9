package handlers

import (
	"net/http"
	"os"

	"github.com/5w1tchy/storyshelf/internal/api/httpx"
)

// Health reports liveness and whether the books root is currently
// readable. A missing root is not an error: the catalog is just empty.
func Health(booksRoot string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, err := os.Stat(booksRoot)
		httpx.OK(w, map[string]any{
			"alive":     true,
			"booksRoot": err == nil,
		})
	}
}
