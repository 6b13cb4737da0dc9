package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/5w1tchy/storyshelf/internal/logger"
	"github.com/5w1tchy/storyshelf/internal/models"
)

// Load reads the metadata document. A missing file is an empty document;
// an unreadable or malformed one is logged and treated as empty.
func (s *Store) Load(ctx context.Context) Document {
	doc, err := readDocument(s.metaPath)
	if err != nil {
		logger.For(ctx).WithError(err).WithField("file", s.metaPath).Error("metadata document unusable, starting empty")
		return Document{}
	}
	return doc
}

// Lookup returns the cached record for id straight from the metadata file,
// without syncing.
func (s *Store) Lookup(ctx context.Context, id string) (models.Book, bool) {
	b, ok := s.Load(ctx)[id]
	return b, ok
}

// Persist overwrites the metadata document atomically.
func (s *Store) Persist(doc Document) error {
	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	dir := filepath.Dir(s.metaPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create metadata dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".metadata-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp metadata: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		return fmt.Errorf("write metadata: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close metadata: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.metaPath); err != nil {
		return fmt.Errorf("replace metadata: %w", err)
	}
	return nil
}

func readDocument(path string) (Document, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Document{}, nil
	}
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}
