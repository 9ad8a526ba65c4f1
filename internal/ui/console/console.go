// Package console runs the inventory screen as an interactive terminal loop.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mrops-br/inventario-console/internal/app/catalog"
	"github.com/mrops-br/inventario-console/internal/app/screen"
	"github.com/mrops-br/inventario-console/internal/domain"
	"github.com/mrops-br/inventario-console/internal/infrastructure/telemetry"
)

type command struct {
	label string
	op    string
	run   func(c *Console, ctx context.Context) error
}

var errQuit = errors.New("quit")

var commands = []command{
	{"Actualizar lista", "refresh", (*Console).refresh},
	{"Página siguiente", "next_page", (*Console).nextPage},
	{"Página anterior", "prev_page", (*Console).prevPage},
	{"Ir a página", "go_to_page", (*Console).goToPage},
	{"Buscar por nombre", "search", (*Console).search},
	{"Filtrar por precio", "bucket", (*Console).bucket},
	{"Ordenar por precio", "sort", (*Console).sort},
	{"Guardar producto", "submit", (*Console).submit},
	{"Editar producto", "edit", (*Console).edit},
	{"Cancelar edición", "cancel_edit", (*Console).cancelEdit},
	{"Eliminar producto", "delete", (*Console).delete},
	{"Cambiar tema", "toggle_theme", (*Console).toggleTheme},
	{"Exportar CSV", "export", (*Console).export},
	{"Ver historial", "history", (*Console).showHistory},
	{"Salir", "quit", func(*Console, context.Context) error { return errQuit }},
}

func commandLabels() []string {
	labels := make([]string, len(commands))
	for i, cmd := range commands {
		labels[i] = cmd.label
	}
	return labels
}

// Console wires a controller to a prompt driver.
type Console struct {
	ctrl     *screen.Controller
	driver   PromptDriver
	renderer Renderer
	out      io.Writer
	logger   *slog.Logger
}

// New creates a console. Colours are applied only when colors is true.
func New(ctrl *screen.Controller, driver PromptDriver, out io.Writer, colors bool, logger *slog.Logger) *Console {
	return &Console{
		ctrl:     ctrl,
		driver:   driver,
		renderer: Renderer{Colors: colors},
		out:      out,
		logger:   logger,
	}
}

// Run draws the screen and executes commands until the user quits or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	labels := commandLabels()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(c.out, c.renderer.Render(c.ctrl.View()))

		idx, err := c.driver.Select(ctx, SelectConfig{
			Message:  "¿Qué deseas hacer?",
			Options:  labels,
			PageSize: len(labels),
		})
		if errors.Is(err, ErrAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(commands) {
			continue
		}

		cmd := commands[idx]
		opCtx := telemetry.WithOperation(ctx, cmd.op)
		err = cmd.run(c, opCtx)
		switch {
		case errors.Is(err, errQuit):
			return nil
		case errors.Is(err, ErrAborted):
			c.logger.DebugContext(opCtx, "Command aborted")
		case err != nil:
			c.logger.DebugContext(opCtx, "Command finished with error",
				slog.String("error", err.Error()),
			)
		}
	}
}

func (c *Console) refresh(ctx context.Context) error {
	return c.ctrl.Refresh(ctx)
}

func (c *Console) nextPage(context.Context) error {
	c.ctrl.NextPage()
	return nil
}

func (c *Console) prevPage(context.Context) error {
	c.ctrl.PrevPage()
	return nil
}

func (c *Console) goToPage(ctx context.Context) error {
	raw, err := c.driver.Input(ctx, InputConfig{
		Message:   "Número de página:",
		Validator: validatePageNumber,
	})
	if err != nil {
		return err
	}
	page, _ := strconv.Atoi(strings.TrimSpace(raw))
	if !c.ctrl.GoToPage(page) {
		return c.driver.Info(ctx, "Esa página no existe.")
	}
	return nil
}

func validatePageNumber(s string) error {
	if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
		return errors.New("ingresa un número")
	}
	return nil
}

func (c *Console) search(ctx context.Context) error {
	text, err := c.driver.Input(ctx, InputConfig{
		Message: "Buscar por nombre:",
		Default: c.ctrl.Criteria().SearchText,
		Help:    "Deja vacío para ver todos los productos.",
	})
	if err != nil {
		return err
	}
	c.ctrl.SetSearchText(text)
	c.ctrl.FlushSearch()
	return nil
}

func (c *Console) bucket(ctx context.Context) error {
	current := c.ctrl.Criteria().Bucket
	options := make([]string, len(catalog.Buckets))
	selected := 0
	for i, b := range catalog.Buckets {
		options[i] = bucketLabels[b]
		if b == current {
			selected = i
		}
	}

	idx, err := c.driver.Select(ctx, SelectConfig{
		Message:      "Rango de precio:",
		Options:      options,
		DefaultIndex: selected,
	})
	if err != nil {
		return err
	}
	if idx >= 0 && idx < len(catalog.Buckets) {
		c.ctrl.SetPriceBucket(catalog.Buckets[idx])
	}
	return nil
}

func (c *Console) sort(ctx context.Context) error {
	current := c.ctrl.Criteria().Sort
	options := make([]string, len(catalog.SortDirections))
	selected := 0
	for i, d := range catalog.SortDirections {
		options[i] = sortLabels[d]
		if d == current {
			selected = i
		}
	}

	idx, err := c.driver.Select(ctx, SelectConfig{
		Message:      "Orden:",
		Options:      options,
		DefaultIndex: selected,
	})
	if err != nil {
		return err
	}
	if idx >= 0 && idx < len(catalog.SortDirections) {
		c.ctrl.SetSortDirection(catalog.SortDirections[idx])
	}
	return nil
}

// submit fills the form starting from the current draft and saves it.
func (c *Console) submit(ctx context.Context) error {
	current := c.ctrl.Draft()

	name, err := c.driver.Input(ctx, InputConfig{Message: "Nombre:", Default: current.Name})
	if err != nil {
		return err
	}
	price, err := c.driver.Input(ctx, InputConfig{Message: "Precio:", Default: current.Price})
	if err != nil {
		return err
	}
	description, err := c.driver.Input(ctx, InputConfig{Message: "Descripción:", Default: current.Description})
	if err != nil {
		return err
	}

	c.ctrl.SetDraft(domain.Draft{Name: name, Price: price, Description: description})
	return c.ctrl.Submit(ctx)
}

// pickProduct lets the user choose one of the products on the current page.
func (c *Console) pickProduct(ctx context.Context, message string) (domain.Product, bool, error) {
	items := c.ctrl.View().Items
	if len(items) == 0 {
		return domain.Product{}, false, c.driver.Info(ctx, "No hay productos en esta página.")
	}

	options := make([]string, len(items))
	for i, p := range items {
		options[i] = fmt.Sprintf("%s  %s  %s", p.ID, p.Name, FormatPrice(p.Price))
	}
	idx, err := c.driver.Select(ctx, SelectConfig{Message: message, Options: options})
	if err != nil {
		return domain.Product{}, false, err
	}
	if idx < 0 || idx >= len(items) {
		return domain.Product{}, false, nil
	}
	return items[idx], true, nil
}

func (c *Console) edit(ctx context.Context) error {
	p, ok, err := c.pickProduct(ctx, "Producto a editar:")
	if err != nil || !ok {
		return err
	}
	return c.ctrl.RequestEdit(p.ID)
}

func (c *Console) cancelEdit(ctx context.Context) error {
	c.ctrl.CancelEdit(ctx)
	return nil
}

func (c *Console) delete(ctx context.Context) error {
	p, ok, err := c.pickProduct(ctx, "Producto a eliminar:")
	if err != nil || !ok {
		return err
	}

	target, err := c.ctrl.RequestDelete(p.ID)
	if err != nil {
		return err
	}

	confirmed, err := c.driver.Confirm(ctx, ConfirmConfig{
		Message: fmt.Sprintf("¿Eliminar el producto %q?", target.Name),
	})
	if err != nil || !confirmed {
		c.ctrl.DismissDelete()
		return err
	}
	return c.ctrl.ConfirmDelete(ctx)
}

func (c *Console) toggleTheme(ctx context.Context) error {
	_, err := c.ctrl.ToggleTheme(ctx)
	return err
}

func (c *Console) export(ctx context.Context) error {
	_, err := c.ctrl.ExportCSV(ctx)
	return err
}

func (c *Console) showHistory(ctx context.Context) error {
	v := c.ctrl.View()
	return c.driver.Info(ctx, c.renderer.RenderHistory(v.Theme, c.ctrl.History()))
}
