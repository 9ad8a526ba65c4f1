// Package localstore keeps small per-user documents as YAML files under a state directory.
package localstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/mrops-br/inventario-console/internal/app/history"
	"github.com/mrops-br/inventario-console/internal/app/settings"
	"gopkg.in/yaml.v3"
)

const (
	themeKey   = "theme"
	historyKey = "history"
)

type themeDocument struct {
	Theme settings.Theme `yaml:"theme"`
}

type historyDocument struct {
	Entries []history.Entry `yaml:"entries"`
}

// FileStore implements settings.Store and history.Store on top of one YAML file per key.
type FileStore struct {
	mu     sync.Mutex
	dir    string
	logger *slog.Logger
}

// NewFileStore creates a store rooted at dir. The directory is created on first write.
func NewFileStore(dir string, logger *slog.Logger) *FileStore {
	return &FileStore{dir: dir, logger: logger}
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".yaml")
}

// read decodes the document for key into out. found is false when the file does not exist.
func (s *FileStore) read(ctx context.Context, key string, out any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// write replaces the document for key through a temp file and rename.
func (s *FileStore) write(ctx context.Context, key string, in any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := yaml.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	s.logger.DebugContext(ctx, "Local state saved",
		slog.String("key", key),
		slog.Int("bytes", len(data)),
	)
	return nil
}

// LoadTheme reads the theme preference.
func (s *FileStore) LoadTheme(ctx context.Context) (settings.Theme, bool, error) {
	var doc themeDocument
	found, err := s.read(ctx, themeKey, &doc)
	if err != nil || !found {
		return "", false, err
	}
	return doc.Theme, doc.Theme != "", nil
}

// SaveTheme writes the theme preference.
func (s *FileStore) SaveTheme(ctx context.Context, theme settings.Theme) error {
	return s.write(ctx, themeKey, themeDocument{Theme: theme})
}

// LoadHistory reads the action log, newest first.
func (s *FileStore) LoadHistory(ctx context.Context) ([]history.Entry, error) {
	var doc historyDocument
	if _, err := s.read(ctx, historyKey, &doc); err != nil {
		return nil, err
	}
	return doc.Entries, nil
}

// SaveHistory writes the action log.
func (s *FileStore) SaveHistory(ctx context.Context, entries []history.Entry) error {
	return s.write(ctx, historyKey, historyDocument{Entries: entries})
}
