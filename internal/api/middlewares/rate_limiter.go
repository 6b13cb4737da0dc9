package middlewares

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/5w1tchy/storyshelf/internal/api/apperr"
	"github.com/5w1tchy/storyshelf/internal/logger"
)

// --------- Key helpers ---------

type KeyFunc func(r *http.Request) string

// Per-IP (good default).
func PerIPKey(prefix string) KeyFunc {
	return func(r *http.Request) string {
		ip := clientIP(r)
		if ip == "" {
			ip = "unknown"
		}
		return prefix + ":" + ip
	}
}

func clientIP(r *http.Request) string {
	// X-Forwarded-For may have a list: client, proxy1, proxy2...
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xrip := r.Header.Get("X-Real-IP"); xrip != "" {
		return xrip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}

// --------- Token bucket per key ---------

// RateLimiter keeps one token bucket per key. Buckets idle for longer than
// the idle window are dropped on the next sweep.
type RateLimiter struct {
	limit rate.Limit
	burst int
	keyFn KeyFunc
	idle  time.Duration
	now   func() time.Time

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

func NewRateLimiter(ratePerSecond float64, burst int, keyFn KeyFunc) *RateLimiter {
	return &RateLimiter{
		limit:   rate.Limit(ratePerSecond),
		burst:   burst,
		keyFn:   keyFn,
		idle:    10 * time.Minute,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

func (rl *RateLimiter) reserve(key string) (*rate.Reservation, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) > rl.idle {
		for k, b := range rl.buckets {
			if now.Sub(b.seen) > rl.idle {
				delete(rl.buckets, k)
			}
		}
		rl.lastSweep = now
	}

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(rl.limit, rl.burst)}
		rl.buckets[key] = b
	}
	b.seen = now
	res := b.lim.ReserveN(now, 1)
	return res, max(0, int(b.lim.TokensAt(now)))
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := rl.keyFn(r)
		res, remaining := rl.reserve(key)

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.burst))

		delay := res.DelayFrom(rl.now())
		if !res.OK() || delay > 0 {
			res.CancelAt(rl.now())
			sec := int64(math.Ceil(delay.Seconds()))
			if sec < 1 {
				sec = 1
			}
			w.Header().Set("Retry-After", strconv.FormatInt(sec, 10))
			w.Header().Set("X-RateLimit-Remaining", "0")

			logger.For(r.Context()).WithField("key", key).
				Warnf("rate limit hit, retry after %ds", sec)

			apperr.WriteStatus(w, r, http.StatusTooManyRequests, "Too Many Requests", "slow down and retry later")
			return
		}

		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		next.ServeHTTP(w, r)
	})
}
