package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestLimiter(rps float64, burst int) (*RateLimiter, *time.Time) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(rps, burst, PerIPKey("list"))
	rl.now = func() time.Time { return now }
	return rl, &now
}

func hit(h http.Handler, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = ip + ":4242"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_BlocksAfterBurst(t *testing.T) {
	rl, _ := newTestLimiter(1, 2)
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for i := 0; i < 2; i++ {
		if rec := hit(h, "10.0.0.1"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}

	rec := hit(h, "10.0.0.1")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "1" {
		t.Errorf("Expected Retry-After 1, got %q", rec.Header().Get("Retry-After"))
	}

	if rec := hit(h, "10.0.0.2"); rec.Code != http.StatusOK {
		t.Errorf("other clients must keep their own bucket, got %d", rec.Code)
	}
}

func TestRateLimiter_Refills(t *testing.T) {
	rl, now := newTestLimiter(1, 1)
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	hit(h, "10.0.0.1")
	if rec := hit(h, "10.0.0.1"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429, got %d", rec.Code)
	}

	*now = now.Add(time.Second)
	if rec := hit(h, "10.0.0.1"); rec.Code != http.StatusOK {
		t.Errorf("Expected 200 after refill, got %d", rec.Code)
	}
}

func TestRateLimiter_SweepsIdleBuckets(t *testing.T) {
	rl, now := newTestLimiter(1, 1)
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	hit(h, "10.0.0.1")
	*now = now.Add(rl.idle + time.Minute)
	hit(h, "10.0.0.2")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.buckets["list:10.0.0.1"]; ok {
		t.Error("idle bucket should have been swept")
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	if got := clientIP(req); got != "192.0.2.1" {
		t.Errorf("Expected remote host, got %q", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := clientIP(req); got != "203.0.113.9" {
		t.Errorf("Expected first forwarded address, got %q", got)
	}
}
