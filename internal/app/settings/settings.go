// Package settings holds the screen preferences that survive between sessions.
package settings

import (
	"context"
	"fmt"
	"sync"
)

// Theme is the colour scheme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Store persists the theme under a single key.
type Store interface {
	LoadTheme(ctx context.Context) (Theme, bool, error)
	SaveTheme(ctx context.Context, theme Theme) error
}

// AppSettings is the in-memory view of the persisted preferences.
type AppSettings struct {
	mu    sync.RWMutex
	store Store
	theme Theme
}

// Load reads the stored theme, falling back to light when nothing valid is stored.
func Load(ctx context.Context, store Store) (*AppSettings, error) {
	s := &AppSettings{store: store, theme: ThemeLight}

	theme, ok, err := store.LoadTheme(ctx)
	if err != nil {
		return s, fmt.Errorf("failed to load theme: %w", err)
	}
	if ok && (theme == ThemeLight || theme == ThemeDark) {
		s.theme = theme
	}
	return s, nil
}

// Theme returns the current theme.
func (s *AppSettings) Theme() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// Toggle flips the theme and writes it through to the store.
// The in-memory value changes even if the write fails.
func (s *AppSettings) Toggle(ctx context.Context) (Theme, error) {
	s.mu.Lock()
	if s.theme == ThemeDark {
		s.theme = ThemeLight
	} else {
		s.theme = ThemeDark
	}
	theme := s.theme
	s.mu.Unlock()

	if err := s.store.SaveTheme(ctx, theme); err != nil {
		return theme, fmt.Errorf("failed to save theme: %w", err)
	}
	return theme, nil
}
