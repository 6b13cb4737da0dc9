package catalog

import (
	"context"
	"errors"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/5w1tchy/storyshelf/internal/logger"
	"github.com/5w1tchy/storyshelf/internal/metrics"
	"github.com/5w1tchy/storyshelf/internal/models"
	"github.com/5w1tchy/storyshelf/internal/thumbnail"
)

// Sync reconciles the metadata document with the books root and returns
// it. New books are parsed and inserted, missing thumbnails generated, and
// path fields refreshed on every record. The document is written back only
// when something changed, so repeated syncs of an unchanged tree are
// read-only. A failed write-back is logged; the returned document is still
// complete. An unreadable root yields the cached document. Cancelling ctx
// stops thumbnail generation; work finished before that is still saved.
func (s *Store) Sync(ctx context.Context) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	defer func() { metrics.CatalogSyncDuration.Observe(time.Since(start).Seconds()) }()
	log := logger.For(ctx).WithField("root", s.root)

	if _, err := os.Stat(s.root); errors.Is(err, fs.ErrNotExist) {
		log.Debug("books root missing, catalog empty")
		return Document{}, nil
	}

	doc := s.Load(ctx)

	entries, err := os.ReadDir(s.root)
	if err != nil {
		log.WithError(err).Warn("books root unreadable, serving cached catalog")
		metrics.CatalogBooks.Set(float64(len(doc)))
		return doc, nil
	}

	dirty := false
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir, err := s.Inspect(e.Name())
		if err != nil {
			log.WithError(err).WithField("book", e.Name()).Warn("skipping unreadable book dir")
			continue
		}
		if dir.PDF == "" {
			continue
		}

		book, known := doc[dir.ID]
		if !known {
			book, err = s.describe(dir)
			if err != nil {
				log.WithError(err).WithField("book", dir.ID).Warn("attribution unreadable, using folder title")
			}
			dirty = true
		}

		if !dir.HasThumbnail && s.generateThumbnail(ctx, log, dir, book.Title) {
			dirty = true
		}

		pdf, thumb := PDFPath(dir.ID, dir.PDF), ThumbnailPath(dir.ID)
		if book.PDF != pdf || book.Thumbnail != thumb {
			book.PDF, book.Thumbnail = pdf, thumb
			dirty = true
		}
		doc[dir.ID] = book
	}

	if dirty {
		if err := s.Persist(doc); err != nil {
			metrics.CatalogWrites.WithLabelValues("failure").Inc()
			log.WithError(err).Error("could not save metadata document")
		} else {
			metrics.CatalogWrites.WithLabelValues("success").Inc()
			log.WithField("books", len(doc)).Info("metadata document saved")
		}
	}
	metrics.CatalogBooks.Set(float64(len(doc)))
	return doc, nil
}

// generateThumbnail reports whether a new thumbnail landed on disk. Books
// whose generation keeps failing are skipped until their backoff elapses.
func (s *Store) generateThumbnail(ctx context.Context, log *logrus.Entry, dir BookDir, title string) bool {
	if s.thumbnails == nil || ctx.Err() != nil {
		return false
	}
	if s.attempts != nil && !s.attempts.ShouldAttempt(ctx, dir.ID) {
		log.WithField("book", dir.ID).Debug("thumbnail retry deferred")
		return false
	}

	out := filepath.Join(dir.Path, s.thumbName)
	err := s.thumbnails.Generate(ctx, thumbnail.Request{
		PDFPath:    filepath.Join(dir.Path, dir.PDF),
		OutputPath: out,
		Title:      title,
	})
	if err != nil {
		if ctx.Err() != nil {
			log.WithField("book", dir.ID).Debug("thumbnail generation cancelled")
			return false
		}
		if s.attempts != nil {
			s.attempts.RecordFailure(ctx, dir.ID)
		}
		log.WithError(err).WithField("book", dir.ID).Warn("no thumbnail available")
		return false
	}
	if s.attempts != nil {
		s.attempts.RecordSuccess(ctx, dir.ID)
	}

	if s.mirror != nil {
		if err := s.mirror.MirrorThumbnail(ctx, dir.ID, out); err != nil {
			log.WithError(err).WithField("book", dir.ID).Warn("thumbnail mirror failed")
		}
	}
	return true
}

// Summaries flattens doc into listing entries ordered by id.
func Summaries(doc Document) []models.Summary {
	ids := slices.Sorted(maps.Keys(doc))
	out := make([]models.Summary, 0, len(ids))
	for _, id := range ids {
		b := doc[id]
		out = append(out, models.Summary{
			ID:            id,
			Title:         b.Title,
			EpubPath:      b.PDF,
			ThumbnailPath: ThumbnailPath(id),
			Metadata:      b,
		})
	}
	return out
}
