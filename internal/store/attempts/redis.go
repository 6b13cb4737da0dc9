package attempts

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/5w1tchy/storyshelf/internal/logger"
)

// Redis shares retry gates between instances serving the same books root.
// Every operation fails open: a Redis outage means "attempt now".
type Redis struct {
	rdb     *redis.Client
	prefix  string
	backoff Backoff
	shortTO time.Duration

	warnOnce sync.Once
}

func NewRedis(rdb *redis.Client, prefix string, b Backoff) *Redis {
	if prefix == "" {
		prefix = "shelf:thumb:"
	}
	return &Redis{rdb: rdb, prefix: prefix, backoff: b, shortTO: 150 * time.Millisecond}
}

func (r *Redis) gateKey(id string) string  { return r.prefix + "gate:" + id }
func (r *Redis) countKey(id string) string { return r.prefix + "count:" + id }

func (r *Redis) ShouldAttempt(ctx context.Context, id string) bool {
	ctx, cancel := context.WithTimeout(ctx, r.shortTO)
	defer cancel()
	n, err := r.rdb.Exists(ctx, r.gateKey(id)).Result()
	if err != nil {
		r.warn(ctx, err)
		return true
	}
	return n == 0
}

func (r *Redis) RecordFailure(ctx context.Context, id string) {
	ctx, cancel := context.WithTimeout(ctx, r.shortTO)
	defer cancel()

	failures, err := r.rdb.Incr(ctx, r.countKey(id)).Result()
	if err != nil {
		r.warn(ctx, err)
		return
	}
	wait := r.backoff.After(int(failures))

	pipe := r.rdb.Pipeline()
	// the counter outlives the gate so consecutive failures keep doubling
	pipe.Expire(ctx, r.countKey(id), 2*r.backoff.Max+wait)
	if wait > 0 {
		pipe.Set(ctx, r.gateKey(id), failures, wait)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		r.warn(ctx, err)
	}
}

func (r *Redis) RecordSuccess(ctx context.Context, id string) {
	ctx, cancel := context.WithTimeout(ctx, r.shortTO)
	defer cancel()
	if err := r.rdb.Del(ctx, r.gateKey(id), r.countKey(id)).Err(); err != nil {
		r.warn(ctx, err)
	}
}

func (r *Redis) warn(ctx context.Context, err error) {
	r.warnOnce.Do(func() {
		logger.For(ctx).WithError(err).Warn("attempt tracker: redis unavailable, retrying thumbnails without backoff (muted next)")
	})
}
