package apperr

import (
	"encoding/json"
	"net/http"

	"github.com/5w1tchy/storyshelf/internal/logger"
)

type Problem struct {
	Type      string `json:"type,omitempty"`   // RFC7807 type URI
	Title     string `json:"title"`            // short summary
	Status    int    `json:"status"`           // HTTP status code
	Detail    string `json:"detail,omitempty"` // human details
	Instance  string `json:"instance,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func Write(w http.ResponseWriter, r *http.Request, p Problem) {
	if p.Status == 0 {
		p.Status = http.StatusInternalServerError
	}
	if p.Title == "" {
		p.Title = http.StatusText(p.Status)
	}
	if p.Instance == "" && r != nil {
		p.Instance = r.URL.Path
	}
	if p.RequestID == "" && r != nil {
		if rid, _ := r.Context().Value(logger.RequestIDKey).(string); rid != "" {
			p.RequestID = rid
		} else if rid := r.Header.Get("X-Request-ID"); rid != "" {
			p.RequestID = rid
		}
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.Header().Del("Content-Length")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// Convenience: fast write with just status+title+detail
func WriteStatus(w http.ResponseWriter, r *http.Request, status int, title, detail string) {
	Write(w, r, Problem{Status: status, Title: title, Detail: detail})
}

func NotFound(w http.ResponseWriter, r *http.Request, detail string) {
	WriteStatus(w, r, http.StatusNotFound, "Not Found", detail)
}

func Forbidden(w http.ResponseWriter, r *http.Request, detail string) {
	WriteStatus(w, r, http.StatusForbidden, "Forbidden", detail)
}

func Internal(w http.ResponseWriter, r *http.Request, detail string) {
	WriteStatus(w, r, http.StatusInternalServerError, "Internal Server Error", detail)
}
