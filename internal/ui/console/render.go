package console

import (
	"fmt"
	"strings"
	"time"

	"github.com/mgutz/ansi"
	"github.com/mrops-br/inventario-console/internal/app/catalog"
	"github.com/mrops-br/inventario-console/internal/app/history"
	"github.com/mrops-br/inventario-console/internal/app/screen"
	"github.com/mrops-br/inventario-console/internal/app/settings"
	"github.com/mrops-br/inventario-console/internal/domain"
)

// Palette holds the colour functions for one theme.
type Palette struct {
	Title   func(string) string
	Header  func(string) string
	Muted   func(string) string
	Success func(string) string
	Error   func(string) string
	Info    func(string) string
	Warning func(string) string
}

var palettes = map[settings.Theme]Palette{
	settings.ThemeLight: {
		Title:   ansi.ColorFunc("blue+b"),
		Header:  ansi.ColorFunc("black+bu"),
		Muted:   ansi.ColorFunc("black+h"),
		Success: ansi.ColorFunc("green"),
		Error:   ansi.ColorFunc("red+b"),
		Info:    ansi.ColorFunc("blue"),
		Warning: ansi.ColorFunc("yellow"),
	},
	settings.ThemeDark: {
		Title:   ansi.ColorFunc("cyan+b:black"),
		Header:  ansi.ColorFunc("white+bu:black"),
		Muted:   ansi.ColorFunc("white:black"),
		Success: ansi.ColorFunc("green+h:black"),
		Error:   ansi.ColorFunc("red+h:black"),
		Info:    ansi.ColorFunc("cyan:black"),
		Warning: ansi.ColorFunc("yellow+h:black"),
	},
}

func plain(s string) string { return s }

var plainPalette = Palette{
	Title:   plain,
	Header:  plain,
	Muted:   plain,
	Success: plain,
	Error:   plain,
	Info:    plain,
	Warning: plain,
}

// PaletteFor returns the palette for theme; colours off yields undecorated text.
func PaletteFor(theme settings.Theme, colors bool) Palette {
	if !colors {
		return plainPalette
	}
	if p, ok := palettes[theme]; ok {
		return p
	}
	return palettes[settings.ThemeLight]
}

// FormatPrice renders a price in soles. Unparsable prices are shown as received.
func FormatPrice(raw string) string {
	v, ok := domain.ParsePrice(raw)
	if !ok {
		return raw
	}
	return fmt.Sprintf("S/. %.2f", v)
}

var bucketLabels = map[catalog.PriceBucket]string{
	catalog.BucketAll:     "Todos los precios",
	catalog.BucketUpTo50:  "S/. 0 - 50",
	catalog.Bucket50To100: "S/. 50 - 100",
	catalog.BucketOver100: "Más de S/. 100",
}

var sortLabels = map[catalog.SortDirection]string{
	catalog.SortNone: "Sin orden",
	catalog.SortAsc:  "Precio ascendente",
	catalog.SortDesc: "Precio descendente",
}

// Renderer turns a screen view into text.
type Renderer struct {
	Colors bool
}

// Render draws the whole screen.
func (r Renderer) Render(v screen.View) string {
	p := PaletteFor(v.Theme, r.Colors)

	var b strings.Builder
	b.WriteString(p.Title("Inventario de productos"))
	b.WriteString("\n\n")

	if v.Toast != nil {
		b.WriteString(toastColor(p, v.Toast.Kind)(v.Toast.Text))
		b.WriteString("\n\n")
	}

	search := v.Criteria.SearchText
	if search == "" {
		search = "-"
	}
	fmt.Fprintf(&b, "%s %s | %s | %s\n",
		p.Muted("Búsqueda:"), search, bucketLabels[v.Criteria.Bucket], sortLabels[v.Criteria.Sort])

	if v.State != screen.StateIdle {
		b.WriteString(p.Muted(stateLabel(v.State)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(v.Items) == 0 {
		b.WriteString(p.Muted("No hay productos para mostrar."))
		b.WriteString("\n")
	} else {
		b.WriteString(p.Header(fmt.Sprintf("%-8s %-24s %12s  %s", "ID", "Nombre", "Precio", "Descripción")))
		b.WriteString("\n")
		for _, item := range v.Items {
			fmt.Fprintf(&b, "%-8s %-24s %12s  %s\n", item.ID, item.Name, FormatPrice(item.Price), item.Description)
		}
	}

	fmt.Fprintf(&b, "\nPágina %d de %d (%d de %d productos)\n",
		v.Page, max(v.TotalPages, 1), v.FilteredCount, v.CachedCount)

	if v.Editing() {
		fmt.Fprintf(&b, "%s %s\n", p.Info("Editando:"), v.Draft.Name)
	}

	if len(v.History) > 0 {
		b.WriteString("\n")
		b.WriteString(p.Header("Historial reciente"))
		b.WriteString("\n")
		for _, e := range v.History {
			b.WriteString(r.entryLine(p, e))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// RenderHistory lists every retained entry.
func (r Renderer) RenderHistory(theme settings.Theme, entries []history.Entry) string {
	p := PaletteFor(theme, r.Colors)
	if len(entries) == 0 {
		return p.Muted("El historial está vacío.")
	}

	var b strings.Builder
	b.WriteString(p.Header("Historial"))
	b.WriteString("\n")
	for _, e := range entries {
		b.WriteString(r.entryLine(p, e))
		b.WriteString("\n")
	}
	return b.String()
}

func (r Renderer) entryLine(p Palette, e history.Entry) string {
	stamp := p.Muted(e.Timestamp.Local().Format(time.DateTime))
	return fmt.Sprintf("%s %s", stamp, kindColor(p, e.Kind)(e.Message))
}

func toastColor(p Palette, kind screen.ToastKind) func(string) string {
	switch kind {
	case screen.ToastSuccess:
		return p.Success
	case screen.ToastError:
		return p.Error
	case screen.ToastWarning:
		return p.Warning
	default:
		return p.Info
	}
}

func kindColor(p Palette, kind history.Kind) func(string) string {
	switch kind {
	case history.KindAdd:
		return p.Success
	case history.KindDelete:
		return p.Error
	case history.KindEdit:
		return p.Warning
	default:
		return p.Info
	}
}

func stateLabel(s screen.State) string {
	switch s {
	case screen.StateLoading:
		return "Cargando..."
	case screen.StateSubmitting:
		return "Guardando..."
	case screen.StateDeleting:
		return "Eliminando..."
	default:
		return ""
	}
}
