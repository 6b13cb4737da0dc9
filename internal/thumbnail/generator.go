// Package thumbnail renders cover images for cataloged PDFs.
//
// A Generator tries its strategies in order: the ImageMagick Rasterizer
// when the binary is installed, then the drawn Placeholder. Callers treat
// any returned error as "no thumbnail available".
package thumbnail

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/5w1tchy/storyshelf/internal/logger"
	"github.com/5w1tchy/storyshelf/internal/metrics"
)

var (
	ErrSourceMissing    = errors.New("thumbnail: source pdf missing")
	ErrGenerationFailed = errors.New("thumbnail: generation failed")
)

// Request describes one thumbnail to produce.
type Request struct {
	PDFPath    string
	OutputPath string
	Title      string
}

// Strategy is one way of producing a thumbnail. Available is a cheap
// capability probe run before every Render.
type Strategy interface {
	Name() string
	Available(ctx context.Context) bool
	Render(ctx context.Context, req Request) error
}

// Generator runs strategies in order until one succeeds.
type Generator struct {
	strategies []Strategy
}

func NewGenerator(strategies ...Strategy) *Generator {
	return &Generator{strategies: strategies}
}

// Default returns the rasterizer-then-placeholder chain.
func Default(convertBin string, rasterOpts ...RasterOption) *Generator {
	return NewGenerator(NewRasterizer(convertBin, rasterOpts...), NewPlaceholder())
}

// Generate writes a PNG to req.OutputPath. It returns ErrSourceMissing
// without touching the filesystem when the PDF does not exist, and
// ErrGenerationFailed when no strategy produced an image. A cancelled
// ctx stops the chain and returns the context error with no output.
func (g *Generator) Generate(ctx context.Context, req Request) error {
	log := logger.For(ctx).WithField("output", req.OutputPath)

	if _, err := os.Stat(req.PDFPath); err != nil {
		log.WithError(err).Warn("thumbnail source missing")
		return fmt.Errorf("%w: %s", ErrSourceMissing, req.PDFPath)
	}

	if err := os.MkdirAll(filepath.Dir(req.OutputPath), 0o755); err != nil {
		return fmt.Errorf("%w: create output dir: %v", ErrGenerationFailed, err)
	}

	for _, s := range g.strategies {
		if err := ctx.Err(); err != nil {
			return g.abandon(ctx, req, err)
		}
		if !s.Available(ctx) {
			log.WithField("strategy", s.Name()).Debug("thumbnail strategy unavailable")
			metrics.ThumbnailGenerations.WithLabelValues(s.Name(), "unavailable").Inc()
			continue
		}
		if err := s.Render(ctx, req); err != nil {
			if ctx.Err() != nil {
				return g.abandon(ctx, req, ctx.Err())
			}
			log.WithField("strategy", s.Name()).WithError(err).Warn("thumbnail strategy failed")
			metrics.ThumbnailGenerations.WithLabelValues(s.Name(), "failure").Inc()
			continue
		}
		metrics.ThumbnailGenerations.WithLabelValues(s.Name(), "success").Inc()
		log.WithField("strategy", s.Name()).Info("thumbnail created")
		return nil
	}

	// A failed strategy may leave a partial file behind; an absent
	// thumbnail must stay absent.
	_ = os.Remove(req.OutputPath)
	return ErrGenerationFailed
}

func (g *Generator) abandon(ctx context.Context, req Request, err error) error {
	_ = os.Remove(req.OutputPath)
	logger.For(ctx).WithField("output", req.OutputPath).WithError(err).Debug("thumbnail generation cancelled")
	return fmt.Errorf("thumbnail: %w", err)
}
