// Package export serializes the product cache for download.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mrops-br/inventario-console/internal/domain"
)

// Header is the first line of every export.
const Header = "ID,Nombre,Precio,Descripción"

// FileSaver hands serialized content to whatever writes it out.
type FileSaver interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// ProductsCSV joins each product's fields with commas, one row per product, in input order.
// Fields are written verbatim: embedded commas and quotes are not escaped.
func ProductsCSV(products []domain.Product) string {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteByte('\n')
	for _, p := range products {
		b.WriteString(strings.Join([]string{p.ID, p.Name, p.Price, p.Description}, ","))
		b.WriteByte('\n')
	}
	return b.String()
}

// FileName returns the export name for the given day.
func FileName(now time.Time) string {
	return fmt.Sprintf("productos_%s.csv", now.Format(time.DateOnly))
}

// DirSaver writes exports into a directory.
type DirSaver struct {
	Dir string
}

// Save writes data to Dir/name and returns the full path.
func (d DirSaver) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(d.Dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}
