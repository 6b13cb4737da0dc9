// Package catalog keeps the metadata document for a books root in step
// with the directories on disk.
//
// The filesystem decides which books exist; the YAML document holds every
// derived field. Textual fields are written once, when a book is first
// seen, and never overwritten afterwards.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/5w1tchy/storyshelf/internal/attribution"
	"github.com/5w1tchy/storyshelf/internal/models"
	"github.com/5w1tchy/storyshelf/internal/store/attempts"
	"github.com/5w1tchy/storyshelf/internal/thumbnail"
)

const (
	DefaultMetadataFile      = "metadata.yaml"
	DefaultAttributionPrefix = "StoryWeaverAttribution_"
	DefaultThumbnailName     = "thumbnail.png"
)

var ErrNotFound = errors.New("catalog: book not found")

// Document maps a book id (its directory name) to its record.
type Document map[string]models.Book

// Thumbnailer produces a thumbnail image for one book.
type Thumbnailer interface {
	Generate(ctx context.Context, req thumbnail.Request) error
}

// Mirror receives every freshly generated thumbnail.
type Mirror interface {
	MirrorThumbnail(ctx context.Context, bookID, path string) error
}

type Options struct {
	Root              string
	MetadataFile      string // defaults to <Root>/metadata.yaml
	AttributionPrefix string
	ThumbnailName     string

	Thumbnails Thumbnailer      // nil disables generation
	Attempts   attempts.Tracker // nil retries on every sync
	Mirror     Mirror           // optional
}

// Store serializes Sync calls so concurrent listings never interleave a
// read-modify-write of the metadata document.
type Store struct {
	root       string
	metaPath   string
	attrPrefix string
	thumbName  string
	thumbnails Thumbnailer
	attempts   attempts.Tracker
	mirror     Mirror

	mu sync.Mutex
}

func New(o Options) *Store {
	s := &Store{
		root:       o.Root,
		metaPath:   o.MetadataFile,
		attrPrefix: o.AttributionPrefix,
		thumbName:  o.ThumbnailName,
		thumbnails: o.Thumbnails,
		attempts:   o.Attempts,
		mirror:     o.Mirror,
	}
	if s.metaPath == "" {
		s.metaPath = filepath.Join(s.root, DefaultMetadataFile)
	}
	if s.attrPrefix == "" {
		s.attrPrefix = DefaultAttributionPrefix
	}
	if s.thumbName == "" {
		s.thumbName = DefaultThumbnailName
	}
	return s
}

func (s *Store) Root() string          { return s.root }
func (s *Store) MetadataPath() string  { return s.metaPath }
func (s *Store) ThumbnailName() string { return s.thumbName }

// BookDir is what one book directory contains. Empty names mean absent.
type BookDir struct {
	ID           string
	Path         string
	PDF          string
	Attribution  string
	HasThumbnail bool
}

// ValidID rejects ids that could address anything but a direct child of
// the books root.
func ValidID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, `/\`) && !strings.Contains(id, "\x00")
}

// Inspect lists the files of one book directory. It returns ErrNotFound
// when the root or the directory is missing.
func (s *Store) Inspect(id string) (BookDir, error) {
	if !ValidID(id) {
		return BookDir{}, ErrNotFound
	}
	dir := BookDir{ID: id, Path: filepath.Join(s.root, id)}

	entries, err := os.ReadDir(dir.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return BookDir{}, ErrNotFound
	}
	if err != nil {
		return BookDir{}, fmt.Errorf("read book dir %s: %w", id, err)
	}

	for _, e := range entries {
		name := e.Name()
		switch {
		case e.IsDir():
		case dir.PDF == "" && strings.HasSuffix(name, ".pdf"):
			dir.PDF = name
		case dir.Attribution == "" && strings.HasPrefix(name, s.attrPrefix):
			dir.Attribution = name
		case name == s.thumbName:
			dir.HasThumbnail = true
		}
	}
	return dir, nil
}

// ReadAttribution returns the raw attribution text of dir, or "" when the
// directory has none.
func (s *Store) ReadAttribution(dir BookDir) (string, error) {
	if dir.Attribution == "" {
		return "", nil
	}
	b, err := os.ReadFile(filepath.Join(dir.Path, dir.Attribution))
	if err != nil {
		return "", fmt.Errorf("read attribution %s: %w", dir.ID, err)
	}
	return string(b), nil
}

// PDFPath is the asset URL of a book's PDF.
func PDFPath(id, file string) string { return "/api/books/" + id + "/" + file }

// ThumbnailPath is the thumbnail endpoint URL of a book.
func ThumbnailPath(id string) string { return "/api/thumbnails/" + id }

// describe builds the record for a book seen for the first time.
func (s *Store) describe(dir BookDir) (models.Book, error) {
	text, err := s.ReadAttribution(dir)
	if err != nil {
		return models.Book{Title: attribution.CleanTitle(dir.ID)}, err
	}
	b := attribution.Parse(text)
	if b.Title == "" {
		b.Title = attribution.CleanTitle(dir.ID)
	}
	return b, nil
}
