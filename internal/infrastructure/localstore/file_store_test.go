package localstore

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/mrops-br/inventario-console/internal/app/history"
	"github.com/mrops-br/inventario-console/internal/app/settings"
)

func newTestStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "state")
	return NewFileStore(dir, slog.New(slog.NewTextHandler(io.Discard, nil))), dir
}

func TestTheme_MissingFile(t *testing.T) {
	store, _ := newTestStore(t)

	theme, ok, err := store.LoadTheme(context.Background())
	if err != nil || ok || theme != "" {
		t.Fatalf("expected nothing stored, got %q ok=%v err=%v", theme, ok, err)
	}
}

func TestTheme_SaveAndLoad(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveTheme(ctx, settings.ThemeDark); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "theme.yaml"))
	if err != nil {
		t.Fatalf("expected theme file, got %v", err)
	}
	if !strings.Contains(string(data), "theme: dark") {
		t.Fatalf("unexpected theme file %q", data)
	}

	theme, ok, err := store.LoadTheme(ctx)
	if err != nil || !ok || theme != settings.ThemeDark {
		t.Fatalf("expected dark, got %q ok=%v err=%v", theme, ok, err)
	}
}

func TestHistory_SaveAndLoad(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	entries := []history.Entry{
		{Message: "Producto agregado: Pen", Kind: history.KindAdd, Timestamp: ts.Add(time.Minute)},
		{Message: "Edición cancelada", Kind: history.KindInfo, Timestamp: ts},
	}
	if err := store.SaveHistory(ctx, entries); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	got, err := store.LoadHistory(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if diff := cmp.Diff(entries, got); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestHistory_CorruptFile(t *testing.T) {
	store, dir := newTestStore(t)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "history.yaml"), []byte("entries: [: bad"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := store.LoadHistory(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
}
