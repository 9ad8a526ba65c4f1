package screen

import (
	"github.com/mrops-br/inventario-console/internal/app/catalog"
	"github.com/mrops-br/inventario-console/internal/app/history"
	"github.com/mrops-br/inventario-console/internal/app/settings"
	"github.com/mrops-br/inventario-console/internal/domain"
)

// View is a consistent snapshot of everything the screen renders.
type View struct {
	State         State
	Items         []domain.Product
	Page          int
	TotalPages    int
	FilteredCount int
	CachedCount   int
	Criteria      catalog.Criteria
	PendingSearch string
	Draft         domain.Draft
	EditingID     string
	PendingDelete *DeleteTarget
	Toast         *Toast
	History       []history.Entry
	Theme         settings.Theme
}

// Editing reports whether the form is editing an existing product.
func (v View) Editing() bool {
	return v.EditingID != ""
}

// HasPrev reports whether the previous-page control is enabled.
func (v View) HasPrev() bool {
	return v.Page > 1
}

// HasNext reports whether the next-page control is enabled.
func (v View) HasNext() bool {
	return v.Page < v.TotalPages
}

// View runs filter, sort and paginate over the cache and returns the result
// together with the rest of the screen state.
func (c *Controller) View() View {
	c.mu.Lock()
	filtered := catalog.Apply(c.products, c.criteria)
	page := catalog.Paginate(filtered, c.opts.PageSize, c.page)

	v := View{
		State:         c.state,
		Items:         page.Items,
		Page:          c.page,
		TotalPages:    page.TotalPages,
		FilteredCount: page.TotalItems,
		CachedCount:   len(c.products),
		Criteria:      c.criteria,
		PendingSearch: c.pendingSearch,
		Draft:         c.draft,
		EditingID:     c.editingID,
	}
	if c.pendingDelete != nil {
		target := *c.pendingDelete
		v.PendingDelete = &target
	}
	if c.toast != nil {
		toast := *c.toast
		v.Toast = &toast
	}
	c.mu.Unlock()

	v.History = c.history.Recent(history.RecentEntries)
	v.Theme = c.settings.Theme()
	return v
}
