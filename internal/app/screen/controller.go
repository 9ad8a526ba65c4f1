// Package screen implements the inventory screen controller.
//
// The controller owns the draft, the filter criteria, the product cache and
// the action history. The cache is only ever replaced wholesale by a
// successful list call: after every create, update or delete the full list is
// fetched again, and server responses to mutations are never merged in.
package screen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mrops-br/inventario-console/internal/app/catalog"
	"github.com/mrops-br/inventario-console/internal/app/export"
	"github.com/mrops-br/inventario-console/internal/app/history"
	"github.com/mrops-br/inventario-console/internal/app/settings"
	"github.com/mrops-br/inventario-console/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrUnknownProduct  = errors.New("product is not in the current list")
	ErrNoPendingDelete = errors.New("no delete is awaiting confirmation")
)

const (
	searchLabel = "search"
	toastLabel  = "toast"
)

// State is the in-flight operation of the screen.
type State string

const (
	StateIdle       State = "idle"
	StateLoading    State = "loading"
	StateSubmitting State = "submitting"
	StateDeleting   State = "deleting"
)

// Scheduler runs delayed tasks, one per label, each new task replacing the pending one.
type Scheduler interface {
	Schedule(label string, d time.Duration, fn func())
	Cancel(label string) bool
	Flush(label string) bool
	Stop()
}

// DeleteTarget is the product awaiting delete confirmation.
type DeleteTarget struct {
	ID   string
	Name string
}

// Options holds the screen's timing and layout knobs.
type Options struct {
	PageSize       int
	SearchDebounce time.Duration
	ToastTTL       time.Duration
	Now            func() time.Time
}

func (o Options) withDefaults() Options {
	if o.PageSize <= 0 {
		o.PageSize = catalog.DefaultPageSize
	}
	if o.SearchDebounce <= 0 {
		o.SearchDebounce = 200 * time.Millisecond
	}
	if o.ToastTTL <= 0 {
		o.ToastTTL = 3 * time.Second
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Dependencies are the collaborators injected at construction.
type Dependencies struct {
	Gateway      domain.ProductGateway
	History      *history.Log
	HistoryStore history.Store
	Settings     *settings.AppSettings
	Saver        export.FileSaver
	Scheduler    Scheduler
	Tracer       trace.Tracer
	Meter        metric.Meter
	Logger       *slog.Logger
}

// Controller drives one inventory screen. All methods are safe for concurrent use.
type Controller struct {
	gateway      domain.ProductGateway
	history      *history.Log
	historyStore history.Store
	settings     *settings.AppSettings
	saver        export.FileSaver
	scheduler    Scheduler
	tracer       trace.Tracer
	logger       *slog.Logger
	operations   metric.Int64Counter
	opts         Options

	mu            sync.Mutex
	state         State
	products      []domain.Product
	draft         domain.Draft
	editingID     string
	pendingDelete *DeleteTarget
	criteria      catalog.Criteria
	pendingSearch string
	searchSeq     uint64
	page          int
	toast         *Toast
	toastSeq      uint64
}

// NewController creates a controller in the Idle state with an empty cache.
func NewController(deps Dependencies, opts Options) *Controller {
	operations, _ := deps.Meter.Int64Counter(
		"inventory.screen.operations",
		metric.WithDescription("Total number of inventory screen operations"),
	)

	return &Controller{
		gateway:      deps.Gateway,
		history:      deps.History,
		historyStore: deps.HistoryStore,
		settings:     deps.Settings,
		saver:        deps.Saver,
		scheduler:    deps.Scheduler,
		tracer:       deps.Tracer,
		logger:       deps.Logger,
		operations:   operations,
		opts:         opts.withDefaults(),
		state:        StateIdle,
		products:     []domain.Product{},
		criteria: catalog.Criteria{
			Bucket: catalog.BucketAll,
			Sort:   catalog.SortNone,
		},
		page: 1,
	}
}

func (c *Controller) count(ctx context.Context, operation, result string) {
	c.operations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)
}

// Activate runs the initial load: the draft is reset and the list fetched.
func (c *Controller) Activate(ctx context.Context) error {
	c.mu.Lock()
	c.draft = domain.Draft{}
	c.editingID = ""
	c.mu.Unlock()

	return c.Refresh(ctx)
}

// Refresh fetches the full list and reports the outcome with a toast.
// On failure the cache keeps its previous value.
func (c *Controller) Refresh(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "InventoryController.Refresh")
	defer span.End()

	if err := c.resync(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load products")
		c.showToast(msgLoadFailed, ToastError)
		c.count(ctx, "load", "failure")
		return err
	}

	c.showToast(msgLoaded, ToastSuccess)
	c.count(ctx, "load", "success")
	span.SetStatus(codes.Ok, "Products loaded")
	return nil
}

// resync replaces the cache with the remote list. The last call to complete wins.
func (c *Controller) resync(ctx context.Context) error {
	c.setState(StateLoading)
	defer c.setState(StateIdle)

	products, err := c.gateway.ListAll(ctx)
	if err != nil {
		c.logger.ErrorContext(ctx, "Failed to list products",
			slog.String("error", err.Error()),
		)
		return err
	}

	c.mu.Lock()
	c.products = products
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "Product cache replaced",
		slog.Int("count", len(products)),
	)
	return nil
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// Draft returns the current form contents.
func (c *Controller) Draft() domain.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// SetDraft replaces the form contents.
func (c *Controller) SetDraft(d domain.Draft) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = d
}

// Editing returns the id of the product being edited, if any.
func (c *Controller) Editing() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editingID, c.editingID != ""
}

// Submit validates the draft and creates or updates the product.
// Validation failures never reach the network; the draft is kept on any failure.
func (c *Controller) Submit(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "InventoryController.Submit")
	defer span.End()

	c.mu.Lock()
	draft, editingID := c.draft, c.editingID
	if err := draft.Validate(); err != nil {
		msg := msgNonPositive
		if errors.Is(err, domain.ErrEmptyName) {
			msg = msgEmptyName
		}
		c.showToastLocked(msg, ToastError)
		c.mu.Unlock()

		span.RecordError(err)
		span.SetStatus(codes.Error, "Validation failed")
		c.logger.WarnContext(ctx, "Draft rejected",
			slog.String("error", err.Error()),
		)
		c.count(ctx, "submit", "invalid")
		return err
	}
	c.state = StateSubmitting
	c.mu.Unlock()

	operation := "create"
	if editingID != "" {
		operation = "update"
	}
	span.SetAttributes(
		attribute.String("inventory.operation", operation),
		attribute.String("product.id", editingID),
	)

	var (
		saved domain.Product
		err   error
	)
	if editingID != "" {
		saved, err = c.gateway.Update(ctx, editingID, draft)
	} else {
		saved, err = c.gateway.Create(ctx, draft)
	}
	if err != nil {
		c.mu.Lock()
		c.state = StateIdle
		c.showToastLocked(msgSaveFailed, ToastError)
		c.mu.Unlock()

		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to save product")
		c.logger.ErrorContext(ctx, "Failed to save product",
			slog.String("operation", operation),
			slog.String("error", err.Error()),
		)
		c.count(ctx, operation, "failure")
		return err
	}

	name := saved.Name
	if name == "" {
		name = draft.Name
	}

	c.mu.Lock()
	c.state = StateIdle
	c.draft = domain.Draft{}
	c.editingID = ""
	c.mu.Unlock()

	if editingID != "" {
		c.record(ctx, fmt.Sprintf(historyUpdated, name), history.KindEdit)
		c.showToast(msgUpdated, ToastSuccess)
	} else {
		c.record(ctx, fmt.Sprintf(historyAdded, name), history.KindAdd)
		c.showToast(msgAdded, ToastSuccess)
	}
	c.count(ctx, operation, "success")

	c.logger.InfoContext(ctx, "Product saved",
		slog.String("operation", operation),
		slog.String("product_id", saved.ID),
	)

	c.resyncAfterMutation(ctx)
	span.SetStatus(codes.Ok, "Product saved")
	return nil
}

// resyncAfterMutation refreshes the cache silently; only a failure is surfaced.
func (c *Controller) resyncAfterMutation(ctx context.Context) {
	if err := c.resync(ctx); err != nil {
		c.showToast(msgResyncFailed, ToastWarning)
	}
}

// RequestEdit copies a cached product into the draft and marks it as the edit target.
func (c *Controller) RequestEdit(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.findLocked(id)
	if !ok {
		return ErrUnknownProduct
	}
	c.draft = p.Draft()
	c.editingID = p.ID
	return nil
}

// CancelEdit clears the draft and the edit target.
func (c *Controller) CancelEdit(ctx context.Context) {
	c.mu.Lock()
	name := c.draft.Name
	wasEditing := c.editingID != ""
	c.draft = domain.Draft{}
	c.editingID = ""
	c.showToastLocked(msgEditCancelled, ToastInfo)
	c.mu.Unlock()

	if wasEditing {
		c.record(ctx, fmt.Sprintf(historyCancelled, name), history.KindInfo)
	}
}

// RequestDelete opens the confirmation for a cached product. Nothing is changed yet.
func (c *Controller) RequestDelete(id string) (DeleteTarget, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.findLocked(id)
	if !ok {
		return DeleteTarget{}, ErrUnknownProduct
	}
	target := DeleteTarget{ID: p.ID, Name: p.Name}
	c.pendingDelete = &target
	return target, nil
}

// PendingDelete returns the product awaiting confirmation, if any.
func (c *Controller) PendingDelete() (DeleteTarget, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pendingDelete == nil {
		return DeleteTarget{}, false
	}
	return *c.pendingDelete, true
}

// DismissDelete closes the confirmation without doing anything else.
func (c *Controller) DismissDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingDelete = nil
}

// ConfirmDelete removes the pending product. The confirmation is closed whatever the outcome.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "InventoryController.ConfirmDelete")
	defer span.End()

	c.mu.Lock()
	target := c.pendingDelete
	c.pendingDelete = nil
	if target == nil {
		c.mu.Unlock()
		return ErrNoPendingDelete
	}
	c.state = StateDeleting
	c.mu.Unlock()

	span.SetAttributes(attribute.String("product.id", target.ID))

	if err := c.gateway.Remove(ctx, target.ID); err != nil {
		c.mu.Lock()
		c.state = StateIdle
		c.showToastLocked(msgDeleteFailed, ToastError)
		c.mu.Unlock()

		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete product")
		c.logger.ErrorContext(ctx, "Failed to delete product",
			slog.String("product_id", target.ID),
			slog.String("error", err.Error()),
		)
		c.count(ctx, "delete", "failure")
		return err
	}

	c.setState(StateIdle)
	c.record(ctx, fmt.Sprintf(historyDeleted, target.Name), history.KindDelete)
	c.showToast(msgDeleted, ToastSuccess)
	c.count(ctx, "delete", "success")

	c.logger.InfoContext(ctx, "Product deleted",
		slog.String("product_id", target.ID),
	)

	c.resyncAfterMutation(ctx)
	span.SetStatus(codes.Ok, "Product deleted")
	return nil
}

// findLocked looks id up in the cache. A blank id never matches: it is how
// "not editing" is represented.
func (c *Controller) findLocked(id string) (domain.Product, bool) {
	if id == "" {
		return domain.Product{}, false
	}
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// SetSearchText debounces a search keystroke. Only the latest text within the
// debounce window is committed to the filter.
func (c *Controller) SetSearchText(text string) {
	c.mu.Lock()
	c.searchSeq++
	seq := c.searchSeq
	c.pendingSearch = text
	c.mu.Unlock()

	c.scheduler.Schedule(searchLabel, c.opts.SearchDebounce, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.searchSeq != seq {
			return
		}
		c.criteria.SearchText = text
	})
}

// FlushSearch commits a pending search immediately.
func (c *Controller) FlushSearch() {
	c.scheduler.Flush(searchLabel)
}

// SetPriceBucket changes the bucket filter. The current page is kept.
func (c *Controller) SetPriceBucket(b catalog.PriceBucket) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.criteria.Bucket = b
}

// SetSortDirection changes the price ordering. The current page is kept.
func (c *Controller) SetSortDirection(d catalog.SortDirection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.criteria.Sort = d
}

// Criteria returns the committed filter state.
func (c *Controller) Criteria() catalog.Criteria {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.criteria
}

func (c *Controller) totalPagesLocked() int {
	return catalog.TotalPages(len(catalog.Apply(c.products, c.criteria)), c.opts.PageSize)
}

// NextPage advances one page unless already on the last one.
func (c *Controller) NextPage() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.page >= c.totalPagesLocked() {
		return false
	}
	c.page++
	return true
}

// PrevPage goes back one page unless already on the first one.
func (c *Controller) PrevPage() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.page <= 1 {
		return false
	}
	c.page--
	return true
}

// GoToPage jumps to page if it exists.
func (c *Controller) GoToPage(page int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !catalog.ValidPage(page, c.totalPagesLocked()) {
		return false
	}
	c.page = page
	return true
}

// Products returns a copy of the raw cache in server order.
func (c *Controller) Products() []domain.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Product(nil), c.products...)
}

// ToggleTheme flips the theme preference and persists it.
func (c *Controller) ToggleTheme(ctx context.Context) (settings.Theme, error) {
	theme, err := c.settings.Toggle(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "Failed to persist theme",
			slog.String("error", err.Error()),
		)
		c.showToast(msgThemeNotSaved, ToastWarning)
		return theme, err
	}

	msg := msgThemeLight
	if theme == settings.ThemeDark {
		msg = msgThemeDark
	}
	c.showToast(msg, ToastInfo)
	return theme, nil
}

// ExportCSV serializes the whole cache, unfiltered, and hands it to the file saver.
func (c *Controller) ExportCSV(ctx context.Context) (string, error) {
	ctx, span := c.tracer.Start(ctx, "InventoryController.ExportCSV")
	defer span.End()

	products := c.Products()
	data := export.ProductsCSV(products)
	name := export.FileName(c.opts.Now())

	path, err := c.saver.Save(ctx, name, []byte(data))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to export products")
		c.logger.ErrorContext(ctx, "Failed to export products",
			slog.String("error", err.Error()),
		)
		c.showToast(msgExportFailed, ToastError)
		c.count(ctx, "export", "failure")
		return "", err
	}

	c.record(ctx, fmt.Sprintf(historyExported, len(products)), history.KindInfo)
	c.showToast(fmt.Sprintf(msgExported, path), ToastSuccess)
	c.count(ctx, "export", "success")

	span.SetAttributes(attribute.Int("product.count", len(products)))
	span.SetStatus(codes.Ok, "Products exported")
	return path, nil
}

// History returns every retained history entry, newest first.
func (c *Controller) History() []history.Entry {
	return c.history.Entries()
}

// record appends to the history and persists it. A persistence failure is only logged.
func (c *Controller) record(ctx context.Context, message string, kind history.Kind) {
	c.history.Record(message, kind)

	if c.historyStore == nil {
		return
	}
	if err := c.historyStore.SaveHistory(ctx, c.history.Entries()); err != nil {
		c.logger.WarnContext(ctx, "Failed to persist history",
			slog.String("error", err.Error()),
		)
	}
}

func (c *Controller) showToast(text string, kind ToastKind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.showToastLocked(text, kind)
}

// showToastLocked replaces the current toast and re-arms its expiry.
func (c *Controller) showToastLocked(text string, kind ToastKind) {
	c.toastSeq++
	seq := c.toastSeq
	c.toast = &Toast{Text: text, Kind: kind}

	c.scheduler.Schedule(toastLabel, c.opts.ToastTTL, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.toastSeq == seq {
			c.toast = nil
		}
	})
}

// Toast returns the visible toast, if any.
func (c *Controller) Toast() (Toast, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.toast == nil {
		return Toast{}, false
	}
	return *c.toast, true
}

// DismissToast hides the toast before it expires.
func (c *Controller) DismissToast() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.toastSeq++
	c.toast = nil
	c.scheduler.Cancel(toastLabel)
}

// Close cancels pending timers.
func (c *Controller) Close() {
	c.scheduler.Stop()
}
