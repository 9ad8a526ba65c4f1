package screen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/mrops-br/inventario-console/internal/app/catalog"
	"github.com/mrops-br/inventario-console/internal/app/history"
	"github.com/mrops-br/inventario-console/internal/app/settings"
	"github.com/mrops-br/inventario-console/internal/domain"
	"github.com/mrops-br/inventario-console/internal/infrastructure/schedule"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

var errNetwork = &domain.TransportError{Op: "test", Err: errors.New("connection refused")}

// fakeGateway mimics the remote service with an in-memory list.
type fakeGateway struct {
	mu        sync.Mutex
	products  []domain.Product
	nextID    int
	listErr   error
	saveErr   error
	removeErr error
	// emptyReply makes create and update succeed without echoing the record.
	emptyReply bool
	calls      []string
}

func (g *fakeGateway) ListAll(context.Context) ([]domain.Product, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, "list")
	if g.listErr != nil {
		return nil, g.listErr
	}
	return append([]domain.Product(nil), g.products...), nil
}

func (g *fakeGateway) Create(_ context.Context, d domain.Draft) (domain.Product, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, "create")
	if g.saveErr != nil {
		return domain.Product{}, g.saveErr
	}
	g.nextID++
	p := domain.Product{ID: fmt.Sprint(100 + g.nextID), Name: d.Name, Price: d.Price, Description: d.Description}
	g.products = append(g.products, p)
	if g.emptyReply {
		return domain.Product{}, nil
	}
	return p, nil
}

func (g *fakeGateway) Update(_ context.Context, id string, d domain.Draft) (domain.Product, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, "update:"+id)
	if g.saveErr != nil {
		return domain.Product{}, g.saveErr
	}
	for i := range g.products {
		if g.products[i].ID == id {
			g.products[i] = domain.Product{ID: id, Name: d.Name, Price: d.Price, Description: d.Description}
			if g.emptyReply {
				return domain.Product{}, nil
			}
			return g.products[i], nil
		}
	}
	return domain.Product{}, &domain.TransportError{Op: "update", StatusCode: 404, Err: domain.ErrProductNotFound}
}

func (g *fakeGateway) Remove(_ context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, "remove:"+id)
	if g.removeErr != nil {
		return g.removeErr
	}
	for i := range g.products {
		if g.products[i].ID == id {
			g.products = append(g.products[:i], g.products[i+1:]...)
			return nil
		}
	}
	return &domain.TransportError{Op: "delete", StatusCode: 404, Err: domain.ErrProductNotFound}
}

func (g *fakeGateway) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

func (g *fakeGateway) resetCalls() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = nil
}

type manualTimer struct {
	fn      func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

// manualClock collects timers; fire runs the ones still armed.
type manualClock struct {
	mu     sync.Mutex
	timers []*manualTimer
}

func (c *manualClock) AfterFunc(_ time.Duration, fn func()) schedule.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (c *manualClock) fire() {
	c.mu.Lock()
	timers := c.timers
	c.timers = nil
	c.mu.Unlock()
	for _, t := range timers {
		if !t.stopped {
			t.fn()
		}
	}
}

type memoryHistoryStore struct {
	saved [][]history.Entry
}

func (s *memoryHistoryStore) LoadHistory(context.Context) ([]history.Entry, error) {
	return nil, nil
}

func (s *memoryHistoryStore) SaveHistory(_ context.Context, entries []history.Entry) error {
	s.saved = append(s.saved, entries)
	return nil
}

type memoryThemeStore struct {
	theme settings.Theme
}

func (s *memoryThemeStore) LoadTheme(context.Context) (settings.Theme, bool, error) {
	return s.theme, s.theme != "", nil
}

func (s *memoryThemeStore) SaveTheme(_ context.Context, theme settings.Theme) error {
	s.theme = theme
	return nil
}

type memorySaver struct {
	name string
	data string
	err  error
}

func (s *memorySaver) Save(_ context.Context, name string, data []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.name, s.data = name, string(data)
	return "/tmp/" + name, nil
}

type harness struct {
	ctrl    *Controller
	gateway *fakeGateway
	clock   *manualClock
	log     *history.Log
	store   *memoryHistoryStore
	saver   *memorySaver
	themes  *memoryThemeStore
}

func newHarness(t *testing.T, products ...domain.Product) *harness {
	t.Helper()

	h := &harness{
		gateway: &fakeGateway{products: products},
		clock:   &manualClock{},
		log:     history.NewLog(nil, nil),
		store:   &memoryHistoryStore{},
		saver:   &memorySaver{},
		themes:  &memoryThemeStore{},
	}
	prefs, err := settings.Load(context.Background(), h.themes)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}

	h.ctrl = NewController(Dependencies{
		Gateway:      h.gateway,
		History:      h.log,
		HistoryStore: h.store,
		Settings:     prefs,
		Saver:        h.saver,
		Scheduler:    schedule.New(schedule.WithAfterFunc(h.clock.AfterFunc)),
		Tracer:       tracenoop.NewTracerProvider().Tracer("test"),
		Meter:        metricnoop.NewMeterProvider().Meter("test"),
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, Options{
		Now: func() time.Time { return time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC) },
	})
	t.Cleanup(h.ctrl.Close)
	return h
}

func (h *harness) toast(t *testing.T) Toast {
	t.Helper()
	toast, ok := h.ctrl.Toast()
	if !ok {
		t.Fatalf("expected a toast to be visible")
	}
	return toast
}

func penAndDesk() []domain.Product {
	return []domain.Product{
		{ID: "1", Name: "Pen", Price: "10"},
		{ID: "2", Name: "Desk", Price: "120"},
	}
}

func TestActivate_LoadsCache(t *testing.T) {
	h := newHarness(t, penAndDesk()...)

	if err := h.ctrl.Activate(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if diff := cmp.Diff(penAndDesk(), h.ctrl.Products()); diff != "" {
		t.Fatalf("cache mismatch (-want +got):\n%s", diff)
	}
	if toast := h.toast(t); toast.Kind != ToastSuccess {
		t.Fatalf("expected success toast, got %+v", toast)
	}
	if v := h.ctrl.View(); v.State != StateIdle || v.Page != 1 || v.TotalPages != 1 {
		t.Fatalf("unexpected view after load: %+v", v)
	}
}

func TestActivate_FailureKeepsEmptyCache(t *testing.T) {
	h := newHarness(t)
	h.gateway.listErr = errNetwork

	err := h.ctrl.Activate(context.Background())
	if !errors.Is(err, errNetwork) {
		t.Fatalf("expected transport error, got %v", err)
	}

	if got := h.ctrl.Products(); len(got) != 0 {
		t.Fatalf("expected empty cache, got %v", got)
	}
	if toast := h.toast(t); toast.Kind != ToastError || toast.Text != msgLoadFailed {
		t.Fatalf("unexpected toast %+v", toast)
	}
	if diff := cmp.Diff([]string{"list"}, h.gateway.Calls()); diff != "" {
		t.Fatalf("expected a single list attempt (-want +got):\n%s", diff)
	}
	if h.ctrl.View().State != StateIdle {
		t.Fatalf("expected controller back in idle")
	}
}

func TestRefresh_FailureKeepsPreviousCache(t *testing.T) {
	h := newHarness(t, penAndDesk()...)
	_ = h.ctrl.Activate(context.Background())

	h.gateway.listErr = errNetwork
	if err := h.ctrl.Refresh(context.Background()); err == nil {
		t.Fatalf("expected refresh error")
	}
	if diff := cmp.Diff(penAndDesk(), h.ctrl.Products()); diff != "" {
		t.Fatalf("cache changed on failed refresh (-want +got):\n%s", diff)
	}
}

func TestSubmit_ValidationNeverCallsNetwork(t *testing.T) {
	cases := []struct {
		name  string
		draft domain.Draft
		want  error
		toast string
	}{
		{"empty name", domain.Draft{Name: "", Price: "10"}, domain.ErrEmptyName, msgEmptyName},
		{"blank name", domain.Draft{Name: "   ", Price: "10"}, domain.ErrEmptyName, msgEmptyName},
		{"zero price", domain.Draft{Name: "Pen", Price: "0"}, domain.ErrNonPositivePrice, msgNonPositive},
		{"negative price", domain.Draft{Name: "Pen", Price: "-5"}, domain.ErrNonPositivePrice, msgNonPositive},
		{"missing price", domain.Draft{Name: "Pen"}, domain.ErrNonPositivePrice, msgNonPositive},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			h.ctrl.SetDraft(tc.draft)

			err := h.ctrl.Submit(context.Background())
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if calls := h.gateway.Calls(); len(calls) != 0 {
				t.Fatalf("expected no network calls, got %v", calls)
			}
			if toast := h.toast(t); toast.Kind != ToastError || toast.Text != tc.toast {
				t.Fatalf("unexpected toast %+v", toast)
			}
			if h.ctrl.Draft() != tc.draft {
				t.Fatalf("expected draft to be preserved")
			}
		})
	}
}

func TestSubmit_CreateSuccess(t *testing.T) {
	h := newHarness(t, penAndDesk()...)
	_ = h.ctrl.Activate(context.Background())
	h.gateway.resetCalls()

	h.ctrl.SetDraft(domain.Draft{Name: "Lamp", Price: "75", Description: "desk lamp"})
	if err := h.ctrl.Submit(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if diff := cmp.Diff([]string{"create", "list"}, h.gateway.Calls()); diff != "" {
		t.Fatalf("unexpected calls (-want +got):\n%s", diff)
	}
	if !h.ctrl.Draft().IsZero() {
		t.Fatalf("expected draft to be reset, got %+v", h.ctrl.Draft())
	}
	if _, editing := h.ctrl.Editing(); editing {
		t.Fatalf("expected no edit target")
	}

	entries := h.log.Entries()
	if len(entries) != 1 || entries[0].Kind != history.KindAdd || !strings.Contains(entries[0].Message, "Lamp") {
		t.Fatalf("unexpected history %+v", entries)
	}
	if len(h.store.saved) != 1 {
		t.Fatalf("expected history to be persisted once, got %d", len(h.store.saved))
	}
	if toast := h.toast(t); toast.Kind != ToastSuccess || toast.Text != msgAdded {
		t.Fatalf("unexpected toast %+v", toast)
	}
	if got := len(h.ctrl.Products()); got != 3 {
		t.Fatalf("expected refreshed cache of 3, got %d", got)
	}
}

func TestSubmit_EmptyReplyCountsAsSaved(t *testing.T) {
	h := newHarness(t)
	h.gateway.emptyReply = true

	h.ctrl.SetDraft(domain.Draft{Name: "Lamp", Price: "75"})
	if err := h.ctrl.Submit(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if diff := cmp.Diff([]string{"create", "list"}, h.gateway.Calls()); diff != "" {
		t.Fatalf("unexpected calls (-want +got):\n%s", diff)
	}
	if !h.ctrl.Draft().IsZero() {
		t.Fatalf("expected draft to be reset, got %+v", h.ctrl.Draft())
	}
	entries := h.log.Entries()
	if len(entries) != 1 || entries[0].Kind != history.KindAdd || entries[0].Message != "Producto agregado: Lamp" {
		t.Fatalf("unexpected history %+v", entries)
	}
	if toast := h.toast(t); toast.Text != msgAdded {
		t.Fatalf("unexpected toast %+v", toast)
	}
	if got := h.ctrl.Products(); len(got) != 1 || got[0].Name != "Lamp" {
		t.Fatalf("expected refreshed cache, got %+v", got)
	}
}

func TestRequestEditAndDelete_RejectBlankID(t *testing.T) {
	h := newHarness(t, domain.Product{ID: "", Name: "Ghost", Price: "5"})
	_ = h.ctrl.Activate(context.Background())

	if err := h.ctrl.RequestEdit(""); !errors.Is(err, ErrUnknownProduct) {
		t.Fatalf("expected ErrUnknownProduct for edit, got %v", err)
	}
	if _, editing := h.ctrl.Editing(); editing {
		t.Fatalf("expected no edit target")
	}
	if _, err := h.ctrl.RequestDelete(""); !errors.Is(err, ErrUnknownProduct) {
		t.Fatalf("expected ErrUnknownProduct for delete, got %v", err)
	}
	if _, pending := h.ctrl.PendingDelete(); pending {
		t.Fatalf("expected no pending delete")
	}
}

func TestSubmit_EditUpdatesTarget(t *testing.T) {
	h := newHarness(t, penAndDesk()...)
	_ = h.ctrl.Activate(context.Background())
	h.gateway.resetCalls()

	if err := h.ctrl.RequestEdit("2"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := h.ctrl.Draft(); got != (domain.Draft{Name: "Desk", Price: "120"}) {
		t.Fatalf("unexpected draft %+v", got)
	}
	if calls := h.gateway.Calls(); len(calls) != 0 {
		t.Fatalf("edit request must not call the network, got %v", calls)
	}

	h.ctrl.SetDraft(domain.Draft{Name: "Desk", Price: "99"})
	if err := h.ctrl.Submit(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if diff := cmp.Diff([]string{"update:2", "list"}, h.gateway.Calls()); diff != "" {
		t.Fatalf("unexpected calls (-want +got):\n%s", diff)
	}
	if entries := h.log.Entries(); len(entries) != 1 || entries[0].Kind != history.KindEdit {
		t.Fatalf("unexpected history %+v", entries)
	}
	if toast := h.toast(t); toast.Text != msgUpdated {
		t.Fatalf("unexpected toast %+v", toast)
	}
}

func TestSubmit_FailureKeepsDraftAndSkipsRefresh(t *testing.T) {
	h := newHarness(t)
	h.gateway.saveErr = errNetwork

	draft := domain.Draft{Name: "Pen", Price: "10"}
	h.ctrl.SetDraft(draft)
	if err := h.ctrl.Submit(context.Background()); !errors.Is(err, errNetwork) {
		t.Fatalf("expected transport error, got %v", err)
	}

	if diff := cmp.Diff([]string{"create"}, h.gateway.Calls()); diff != "" {
		t.Fatalf("unexpected calls (-want +got):\n%s", diff)
	}
	if h.ctrl.Draft() != draft {
		t.Fatalf("expected draft to be preserved")
	}
	if h.log.Len() != 0 {
		t.Fatalf("expected no history on failure")
	}
	if toast := h.toast(t); toast.Kind != ToastError || toast.Text != msgSaveFailed {
		t.Fatalf("unexpected toast %+v", toast)
	}
}

func TestSubmit_RefreshFailureAfterSaveWarns(t *testing.T) {
	h := newHarness(t)
	h.gateway.listErr = errNetwork

	h.ctrl.SetDraft(domain.Draft{Name: "Pen", Price: "10"})
	if err := h.ctrl.Submit(context.Background()); err != nil {
		t.Fatalf("expected save to succeed, got %v", err)
	}
	if toast := h.toast(t); toast.Kind != ToastWarning {
		t.Fatalf("expected warning toast, got %+v", toast)
	}
	if h.log.Len() != 1 {
		t.Fatalf("expected the save to be logged")
	}
}

func TestCancelEdit(t *testing.T) {
	h := newHarness(t, penAndDesk()...)
	_ = h.ctrl.Activate(context.Background())
	h.gateway.resetCalls()

	_ = h.ctrl.RequestEdit("1")
	h.ctrl.CancelEdit(context.Background())

	if !h.ctrl.Draft().IsZero() {
		t.Fatalf("expected empty draft")
	}
	if _, editing := h.ctrl.Editing(); editing {
		t.Fatalf("expected edit target to be cleared")
	}
	if toast := h.toast(t); toast.Kind != ToastInfo || toast.Text != msgEditCancelled {
		t.Fatalf("unexpected toast %+v", toast)
	}
	if calls := h.gateway.Calls(); len(calls) != 0 {
		t.Fatalf("cancel must not call the network, got %v", calls)
	}
}

func TestRequestEdit_UnknownProduct(t *testing.T) {
	h := newHarness(t)
	if err := h.ctrl.RequestEdit("42"); !errors.Is(err, ErrUnknownProduct) {
		t.Fatalf("expected ErrUnknownProduct, got %v", err)
	}
}

func TestDelete_CancelIsNoOp(t *testing.T) {
	h := newHarness(t, penAndDesk()...)
	_ = h.ctrl.Activate(context.Background())
	h.gateway.resetCalls()

	target, err := h.ctrl.RequestDelete("2")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if target != (DeleteTarget{ID: "2", Name: "Desk"}) {
		t.Fatalf("unexpected target %+v", target)
	}
	if v := h.ctrl.View(); v.PendingDelete == nil || v.PendingDelete.ID != "2" {
		t.Fatalf("expected pending delete in view")
	}

	h.ctrl.DismissDelete()

	if diff := cmp.Diff(penAndDesk(), h.ctrl.Products()); diff != "" {
		t.Fatalf("cache changed (-want +got):\n%s", diff)
	}
	if h.log.Len() != 0 {
		t.Fatalf("expected history unchanged")
	}
	if calls := h.gateway.Calls(); len(calls) != 0 {
		t.Fatalf("expected no network calls, got %v", calls)
	}
	if _, pending := h.ctrl.PendingDelete(); pending {
		t.Fatalf("expected prompt to be dismissed")
	}
}

func TestDelete_ConfirmSuccess(t *testing.T) {
	h := newHarness(t, penAndDesk()...)
	_ = h.ctrl.Activate(context.Background())
	h.gateway.resetCalls()

	_, _ = h.ctrl.RequestDelete("2")
	if err := h.ctrl.ConfirmDelete(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if diff := cmp.Diff([]string{"remove:2", "list"}, h.gateway.Calls()); diff != "" {
		t.Fatalf("unexpected calls (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(penAndDesk()[:1], h.ctrl.Products()); diff != "" {
		t.Fatalf("cache mismatch (-want +got):\n%s", diff)
	}
	entries := h.log.Entries()
	if len(entries) != 1 || entries[0].Kind != history.KindDelete || !strings.Contains(entries[0].Message, "Desk") {
		t.Fatalf("unexpected history %+v", entries)
	}
	if _, pending := h.ctrl.PendingDelete(); pending {
		t.Fatalf("expected prompt to be dismissed")
	}
	if toast := h.toast(t); toast.Text != msgDeleted {
		t.Fatalf("unexpected toast %+v", toast)
	}
}

func TestDelete_ConfirmFailure(t *testing.T) {
	h := newHarness(t, penAndDesk()...)
	_ = h.ctrl.Activate(context.Background())
	h.gateway.resetCalls()
	h.gateway.removeErr = errNetwork

	_, _ = h.ctrl.RequestDelete("1")
	if err := h.ctrl.ConfirmDelete(context.Background()); !errors.Is(err, errNetwork) {
		t.Fatalf("expected transport error, got %v", err)
	}

	if diff := cmp.Diff([]string{"remove:1"}, h.gateway.Calls()); diff != "" {
		t.Fatalf("unexpected calls (-want +got):\n%s", diff)
	}
	if _, pending := h.ctrl.PendingDelete(); pending {
		t.Fatalf("expected prompt to be dismissed after failure")
	}
	if toast := h.toast(t); toast.Kind != ToastError || toast.Text != msgDeleteFailed {
		t.Fatalf("unexpected toast %+v", toast)
	}
	if h.log.Len() != 0 {
		t.Fatalf("expected no history on failure")
	}

	if err := h.ctrl.ConfirmDelete(context.Background()); !errors.Is(err, ErrNoPendingDelete) {
		t.Fatalf("expected ErrNoPendingDelete, got %v", err)
	}
}

func TestHistory_CappedAfterManyMutations(t *testing.T) {
	h := newHarness(t)

	for i := 1; i <= history.MaxEntries+1; i++ {
		h.ctrl.SetDraft(domain.Draft{Name: fmt.Sprintf("item %d", i), Price: "1"})
		if err := h.ctrl.Submit(context.Background()); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}

	entries := h.log.Entries()
	if len(entries) != history.MaxEntries {
		t.Fatalf("expected %d entries, got %d", history.MaxEntries, len(entries))
	}
	if !strings.Contains(entries[0].Message, "item 51") {
		t.Fatalf("unexpected newest entry %q", entries[0].Message)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Message, "item 1") {
			t.Fatalf("oldest entry should be gone")
		}
	}
	if v := h.ctrl.View(); len(v.History) != history.RecentEntries {
		t.Fatalf("expected %d recent entries in view, got %d", history.RecentEntries, len(v.History))
	}
}

func TestSearch_Debounced(t *testing.T) {
	h := newHarness(t, penAndDesk()...)
	_ = h.ctrl.Activate(context.Background())

	h.ctrl.SetSearchText("d")
	h.ctrl.SetSearchText("de")
	h.ctrl.SetSearchText("DES")

	if got := h.ctrl.Criteria().SearchText; got != "" {
		t.Fatalf("search committed before debounce: %q", got)
	}
	if v := h.ctrl.View(); v.FilteredCount != 2 || v.PendingSearch != "DES" {
		t.Fatalf("unexpected view before debounce: %+v", v)
	}

	h.clock.fire()

	if got := h.ctrl.Criteria().SearchText; got != "DES" {
		t.Fatalf("expected latest search to be committed, got %q", got)
	}
	v := h.ctrl.View()
	if len(v.Items) != 1 || v.Items[0].Name != "Desk" {
		t.Fatalf("unexpected items %+v", v.Items)
	}
}

func TestSearch_Flush(t *testing.T) {
	h := newHarness(t, penAndDesk()...)
	_ = h.ctrl.Activate(context.Background())

	h.ctrl.SetSearchText("pen")
	h.ctrl.FlushSearch()

	if got := h.ctrl.Criteria().SearchText; got != "pen" {
		t.Fatalf("expected flushed search, got %q", got)
	}
}

func TestFilterScenario_BucketAndSort(t *testing.T) {
	h := newHarness(t, penAndDesk()...)
	_ = h.ctrl.Activate(context.Background())

	h.ctrl.SetPriceBucket(catalog.BucketOver100)
	h.ctrl.SetSortDirection(catalog.SortDesc)

	want := []domain.Product{{ID: "2", Name: "Desk", Price: "120"}}
	if diff := cmp.Diff(want, h.ctrl.View().Items); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestPagination(t *testing.T) {
	var products []domain.Product
	for i := 1; i <= 12; i++ {
		products = append(products, domain.Product{ID: fmt.Sprint(i), Name: fmt.Sprintf("item %d", i), Price: fmt.Sprint(i * 10)})
	}
	h := newHarness(t, products...)
	_ = h.ctrl.Activate(context.Background())

	v := h.ctrl.View()
	if v.TotalPages != 3 || len(v.Items) != 5 || v.HasPrev() || !v.HasNext() {
		t.Fatalf("unexpected first page: page=%d total=%d items=%d", v.Page, v.TotalPages, len(v.Items))
	}
	if h.ctrl.PrevPage() {
		t.Fatalf("expected prev on page 1 to be a no-op")
	}
	if !h.ctrl.NextPage() || !h.ctrl.NextPage() {
		t.Fatalf("expected to reach page 3")
	}
	if h.ctrl.NextPage() {
		t.Fatalf("expected next on last page to be a no-op")
	}
	if v := h.ctrl.View(); v.Page != 3 || len(v.Items) != 2 {
		t.Fatalf("unexpected last page: page=%d items=%d", v.Page, len(v.Items))
	}
	if h.ctrl.GoToPage(0) || h.ctrl.GoToPage(4) {
		t.Fatalf("expected out-of-range pages to be rejected")
	}

	// Narrowing the filter keeps the current page even when it no longer exists.
	h.ctrl.SetPriceBucket(catalog.BucketUpTo50)
	v = h.ctrl.View()
	if v.Page != 3 || v.TotalPages != 1 || len(v.Items) != 0 {
		t.Fatalf("expected stale empty page, got page=%d total=%d items=%d", v.Page, v.TotalPages, len(v.Items))
	}
	if !h.ctrl.GoToPage(1) {
		t.Fatalf("expected page 1 to be reachable")
	}
	if got := len(h.ctrl.View().Items); got != 5 {
		t.Fatalf("expected 5 items on page 1, got %d", got)
	}
}

func TestToast_ExpiresAndIsReplaced(t *testing.T) {
	h := newHarness(t)

	h.ctrl.SetDraft(domain.Draft{})
	_ = h.ctrl.Submit(context.Background())
	h.ctrl.SetDraft(domain.Draft{Name: "Pen", Price: "0"})
	_ = h.ctrl.Submit(context.Background())

	if toast := h.toast(t); toast.Text != msgNonPositive {
		t.Fatalf("expected newest toast to replace the previous one, got %+v", toast)
	}

	h.clock.fire()
	if _, ok := h.ctrl.Toast(); ok {
		t.Fatalf("expected toast to expire")
	}
}

func TestExportCSV_UsesUnfilteredCache(t *testing.T) {
	h := newHarness(t, penAndDesk()...)
	_ = h.ctrl.Activate(context.Background())
	h.ctrl.SetPriceBucket(catalog.BucketOver100)

	path, err := h.ctrl.ExportCSV(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if path != "/tmp/productos_2024-03-09.csv" || h.saver.name != "productos_2024-03-09.csv" {
		t.Fatalf("unexpected export target %q / %q", path, h.saver.name)
	}
	want := "ID,Nombre,Precio,Descripción\n1,Pen,10,\n2,Desk,120,\n"
	if h.saver.data != want {
		t.Fatalf("unexpected csv %q", h.saver.data)
	}
	if entries := h.log.Entries(); len(entries) != 1 || entries[0].Kind != history.KindInfo {
		t.Fatalf("unexpected history %+v", entries)
	}
}

func TestExportCSV_Failure(t *testing.T) {
	h := newHarness(t)
	h.saver.err = errors.New("read-only file system")

	if _, err := h.ctrl.ExportCSV(context.Background()); err == nil {
		t.Fatalf("expected export error")
	}
	if toast := h.toast(t); toast.Kind != ToastError || toast.Text != msgExportFailed {
		t.Fatalf("unexpected toast %+v", toast)
	}
}

func TestToggleTheme(t *testing.T) {
	h := newHarness(t)

	theme, err := h.ctrl.ToggleTheme(context.Background())
	if err != nil || theme != settings.ThemeDark {
		t.Fatalf("expected dark, got %q (err=%v)", theme, err)
	}
	if h.themes.theme != settings.ThemeDark {
		t.Fatalf("expected theme to be persisted")
	}
	if v := h.ctrl.View(); v.Theme != settings.ThemeDark {
		t.Fatalf("expected view theme dark, got %q", v.Theme)
	}
}
