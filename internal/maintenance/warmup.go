package maintenance

import (
	"context"
	"time"

	"github.com/5w1tchy/storyshelf/internal/logger"
	"github.com/5w1tchy/storyshelf/internal/store/catalog"
)

// Syncer is the part of the catalog store the warm-up job needs.
type Syncer interface {
	Sync(ctx context.Context) (catalog.Document, error)
}

// StartCatalogWarmup syncs the catalog once immediately and then every
// interval until ctx is done, so thumbnails for newly dropped books are
// ready before the first listing asks for them. A non-positive interval
// disables the job. The returned channel closes when the job exits.
func StartCatalogWarmup(ctx context.Context, s Syncer, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	if interval <= 0 {
		close(done)
		return done
	}

	go func() {
		defer close(done)
		log := logger.For(ctx).WithField("job", "catalog-warmup")

		runOnce := func() {
			defer logger.Track(ctx, "catalog warmup")()
			doc, err := s.Sync(ctx)
			if err != nil {
				log.WithError(err).Error("warmup sync failed")
				return
			}
			log.WithField("books", len(doc)).Debug("warmup sync done")
		}

		runOnce()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runOnce()
			}
		}
	}()
	return done
}
