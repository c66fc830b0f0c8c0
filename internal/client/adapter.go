package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/frahmantamala/spendwise/internal/analytics"
	"github.com/frahmantamala/spendwise/internal/expense"
)

var (
	ErrMissingFields  = errors.New("please fill all fields")
	ErrSubmitInFlight = errors.New("an expense is already being submitted")
	ErrDemoEntry      = errors.New("demo entries cannot be deleted")
	ErrInvalidID      = errors.New("invalid expense id")
)

// API is the part of the protocol the adapter drives.
type API interface {
	ListExpenses(ctx context.Context) ([]expense.Expense, error)
	CreateExpense(ctx context.Context, dto expense.CreateExpenseDTO) (*expense.Expense, error)
	DeleteExpense(ctx context.Context, id int64) error
}

// Renderer receives a complete view after every state change.
type Renderer interface {
	Render(Snapshot)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(Snapshot)

func (f RendererFunc) Render(s Snapshot) { f(s) }

// Adapter keeps the displayed list, total and chart series in sync with the
// API. It substitutes demo entries whenever the API has nothing to show.
type Adapter struct {
	api      API
	renderer Renderer
	logger   *slog.Logger
	now      func() time.Time

	refreshMu  sync.Mutex
	mu         sync.RWMutex
	snapshot   Snapshot
	submitting atomic.Bool
}

func NewAdapter(api API, renderer Renderer, logger *slog.Logger) *Adapter {
	if renderer == nil {
		renderer = RendererFunc(func(Snapshot) {})
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{
		api:      api,
		renderer: renderer,
		logger:   logger,
		now:      time.Now,
		snapshot: Snapshot{Mode: ModeLoading},
	}
}

// SetClock replaces the time source used to date demo entries.
func (a *Adapter) SetClock(now func() time.Time) {
	a.now = now
}

// Snapshot returns the last rendered view.
func (a *Adapter) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snapshot
}

func (a *Adapter) publish(s Snapshot) {
	a.mu.Lock()
	a.snapshot = s
	a.mu.Unlock()
	a.renderer.Render(s)
}

// Refresh re-fetches the list and renders it. A failed fetch or an empty
// store falls back to demo entries; the failure is kept in Snapshot.Err.
func (a *Adapter) Refresh(ctx context.Context) Snapshot {
	a.refreshMu.Lock()
	defer a.refreshMu.Unlock()

	a.publish(Snapshot{Mode: ModeLoading})

	entries, demo, err := a.load(ctx)
	mode := ModeLive
	if demo {
		mode = ModeDemo
	}

	snapshot := buildSnapshot(mode, entries, err)
	a.publish(snapshot)
	return snapshot
}

// load fetches the list, falling back to demo entries when it is empty or
// the request fails.
func (a *Adapter) load(ctx context.Context) ([]analytics.Entry, bool, error) {
	records, err := a.api.ListExpenses(ctx)
	if err != nil {
		a.logger.WarnContext(ctx, "failed to load expenses, using demo data", "error", err)
		return DemoEntries(a.now()), true, err
	}
	if len(records) == 0 {
		return DemoEntries(a.now()), true, nil
	}
	return ToEntries(records), false, nil
}

// Add submits a new expense and waits for the follow-up refresh. A second
// call while one is in flight fails with ErrSubmitInFlight.
func (a *Adapter) Add(ctx context.Context, title string, amount float64, category string) (*expense.Expense, error) {
	title = strings.TrimSpace(title)
	category = strings.TrimSpace(category)
	if title == "" || category == "" || amount == 0 {
		return nil, ErrMissingFields
	}

	if !a.submitting.CompareAndSwap(false, true) {
		return nil, ErrSubmitInFlight
	}
	defer a.submitting.Store(false)

	created, err := a.api.CreateExpense(ctx, expense.CreateExpenseDTO{
		Title:    title,
		Amount:   &amount,
		Category: category,
	})
	if err != nil {
		a.logger.ErrorContext(ctx, "failed to add expense", "error", err)
		return nil, err
	}

	a.Refresh(ctx)
	return created, nil
}

// Delete removes a stored expense and waits for the follow-up refresh. Demo
// entries are refused without contacting the API.
func (a *Adapter) Delete(ctx context.Context, id string) error {
	if IsDemoID(id) || a.isDemoEntry(id) {
		return ErrDemoEntry
	}
	numeric, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return ErrInvalidID
	}

	if err := a.api.DeleteExpense(ctx, numeric); err != nil {
		a.logger.ErrorContext(ctx, "failed to delete expense", "error", err, "expense_id", numeric)
		return err
	}

	a.Refresh(ctx)
	return nil
}

func (a *Adapter) isDemoEntry(id string) bool {
	for _, e := range a.Snapshot().Entries {
		if e.ID == id {
			return e.Demo
		}
	}
	return false
}

// Report builds the analytics report from the current API data, or from
// demo entries when there is none. The bool reports demo usage.
func (a *Adapter) Report(ctx context.Context) (analytics.Report, bool) {
	entries, demo, _ := a.load(ctx)
	return analytics.BuildReport(entries, a.now()), demo
}

// ExportCSV writes the current API data, or demo entries, as CSV in loc.
func (a *Adapter) ExportCSV(ctx context.Context, w io.Writer, loc *time.Location) (bool, error) {
	entries, demo, _ := a.load(ctx)
	return demo, analytics.WriteCSV(w, entries, loc)
}
