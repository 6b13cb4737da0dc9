package cli

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/5w1tchy/storyshelf/internal/config"
	"github.com/5w1tchy/storyshelf/internal/logger"
	storage "github.com/5w1tchy/storyshelf/internal/storage/s3"
	"github.com/5w1tchy/storyshelf/internal/store/attempts"
	"github.com/5w1tchy/storyshelf/internal/store/catalog"
	"github.com/5w1tchy/storyshelf/internal/thumbnail"
	"github.com/5w1tchy/storyshelf/internal/validate"
)

// app is everything the commands share once configuration is loaded.
type app struct {
	store *catalog.Store
	rdb   *redis.Client
}

func (a *app) Close() {
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
}

// newApp wires the catalog store. Optional backends (Redis, the S3
// mirror) that fail to come up are logged and left out; the store then
// runs on its in-process defaults.
func newApp(ctx context.Context, c *config.Config) *app {
	log := logger.For(ctx)
	a := &app{}
	backoff := attempts.Backoff{Base: c.RetryBase, Max: c.RetryMax}

	var tracker attempts.Tracker = attempts.NewMemory(backoff)
	if c.RedisURL != "" {
		if rdb, err := dialRedis(c.RedisURL); err != nil {
			log.WithError(err).Warn("invalid SHELF_REDIS_URL, tracking thumbnail retries in memory")
		} else if err := validate.PingRedis(rdb, 2*time.Second); err != nil {
			log.WithError(err).Warn("redis unreachable, tracking thumbnail retries in memory")
			_ = rdb.Close()
		} else {
			log.Info("connected to redis")
			a.rdb = rdb
			tracker = attempts.NewRedis(rdb, "", backoff)
		}
	}

	opts := catalog.Options{
		Root:              c.BooksDir,
		MetadataFile:      c.MetadataPath(),
		AttributionPrefix: c.AttributionPrefix,
		ThumbnailName:     c.ThumbnailName,
		Thumbnails:        thumbnail.Default(c.ConvertBin, thumbnail.WithTimeout(c.RasterTimeout)),
		Attempts:          tracker,
	}

	if c.MirrorEnabled() {
		mirror, err := storage.NewClient(ctx, storage.Options{
			Endpoint:        c.MirrorEndpoint,
			Region:          c.MirrorRegion,
			Bucket:          c.MirrorBucket,
			AccessKeyID:     c.AWSAccessKeyID,
			SecretAccessKey: c.AWSSecretKey,
			PathStyle:       c.MirrorPathStyle,
			KeyPrefix:       c.MirrorPrefix,
		})
		if err != nil {
			log.WithError(err).Warn("thumbnail mirror disabled")
		} else {
			opts.Mirror = mirror
		}
	}

	a.store = catalog.New(opts)
	return a
}

func dialRedis(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url) // e.g. rediss://default:<token>@host:port
	if err != nil {
		return nil, err
	}
	if opt.TLSConfig != nil && opt.TLSConfig.MinVersion < tls.VersionTLS12 {
		opt.TLSConfig.MinVersion = tls.VersionTLS12
	}
	opt.DialTimeout = 2 * time.Second
	opt.ReadTimeout = 500 * time.Millisecond
	opt.WriteTimeout = 500 * time.Millisecond
	return redis.NewClient(opt), nil
}
