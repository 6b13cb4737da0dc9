package validate

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/5w1tchy/storyshelf/internal/config"
)

// HardeningWarnings returns non-fatal warnings worth logging on startup.
func HardeningWarnings(cfg *config.Config) []string {
	var warns []string

	if st, err := os.Stat(cfg.BooksDir); err != nil {
		warns = append(warns, fmt.Sprintf("SHELF_BOOKS_DIR=%s is not readable (%v); the catalog will be empty", cfg.BooksDir, err))
	} else if !st.IsDir() {
		warns = append(warns, fmt.Sprintf("SHELF_BOOKS_DIR=%s is not a directory; the catalog will be empty", cfg.BooksDir))
	}

	if _, err := exec.LookPath(cfg.ConvertBin); err != nil {
		warns = append(warns, fmt.Sprintf("%s not found on PATH; thumbnails will use the drawn placeholder", cfg.ConvertBin))
	}

	if cfg.RasterTimeout > 5*time.Minute {
		warns = append(warns, fmt.Sprintf("SHELF_RASTER_TIMEOUT=%s is long; a stuck rasterizer blocks the listing that triggered it", cfg.RasterTimeout))
	}

	if cfg.RateLimitRPS == 0 {
		warns = append(warns, "SHELF_RATE_LIMIT_RPS=0 disables rate limiting of the listing endpoint")
	}

	if strings.EqualFold(cfg.AppEnv, "production") {
		if !cfg.TLSEnabled() {
			warns = append(warns, "TLS not configured; terminate TLS in front of this service in production")
		}
		if u := cfg.RedisURL; u != "" && strings.HasPrefix(u, "redis://") {
			warns = append(warns, "SHELF_REDIS_URL uses redis:// (no TLS). Prefer rediss:// for TLS")
		}
	}

	return warns
}

// PingRedis checks connectivity with a short timeout.
func PingRedis(rdb *redis.Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	_, err := rdb.Ping(ctx).Result()
	return err
}
