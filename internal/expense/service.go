package expense

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/frahmantamala/spendwise/internal"
	"github.com/frahmantamala/spendwise/internal/core/events"
	"github.com/patrickmn/go-cache"
)

const statsCacheKey = "stats:by_category"

// RepositoryAPI defines the data access methods for expenses.
type RepositoryAPI interface {
	Create(ctx context.Context, expense *Expense) error
	ListAll(ctx context.Context) ([]*Expense, error)
	DeleteByID(ctx context.Context, id int64) error
	SumByCategory(ctx context.Context) ([]CategoryTotal, error)
}

// Service handles expense business logic
type Service struct {
	repo      RepositoryAPI
	publisher events.Publisher
	stats     *cache.Cache
	logger    *slog.Logger
	now       func() time.Time

	// statsMu orders cache fills against invalidation; statsGen counts
	// invalidations so a fill that raced a mutation is dropped.
	statsMu  sync.Mutex
	statsGen uint64
}

// NewService creates a new expense service. publisher and stats may be nil.
func NewService(repo RepositoryAPI, publisher events.Publisher, stats *cache.Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		stats:     stats,
		logger:    logger,
		now:       time.Now,
	}
}

// SetClock replaces the source of creation timestamps.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// CreateExpense validates the request and stores a new record with a server
// assigned id and date.
func (s *Service) CreateExpense(ctx context.Context, dto CreateExpenseDTO) (*Expense, error) {
	if err := dto.Validate(); err != nil {
		s.logger.WarnContext(ctx, "expense validation failed", "error", err)
		return nil, err
	}

	expense := NewExpense(dto, s.now())
	if err := s.repo.Create(ctx, expense); err != nil {
		s.logger.ErrorContext(ctx, "failed to create expense", "error", err)
		return nil, storageError("failed to create expense", err)
	}

	s.invalidateStats()
	s.publish(ctx, events.NewExpenseCreatedEvent(expense.ID, expense.Title, expense.Amount, expense.Category, expense.Date))

	s.logger.InfoContext(ctx, "expense created successfully",
		"expense_id", expense.ID,
		"amount", expense.Amount,
		"category", expense.Category)

	return expense, nil
}

// ListExpenses returns every record, newest first.
func (s *Service) ListExpenses(ctx context.Context) ([]*Expense, error) {
	expenses, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list expenses", "error", err)
		return nil, storageError("failed to list expenses", err)
	}
	if expenses == nil {
		expenses = []*Expense{}
	}
	return expenses, nil
}

func (s *Service) DeleteExpense(ctx context.Context, id int64) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			s.logger.WarnContext(ctx, "expense not deleted", "error", err, "expense_id", id)
			return err
		}
		s.logger.ErrorContext(ctx, "failed to delete expense", "error", err, "expense_id", id)
		return storageError("failed to delete expense", err)
	}

	s.invalidateStats()
	s.publish(ctx, events.NewExpenseDeletedEvent(id))

	s.logger.InfoContext(ctx, "expense deleted successfully", "expense_id", id)
	return nil
}

// CategoryStats returns per-category totals. Results are cached until the
// next successful mutation or TTL expiry.
func (s *Service) CategoryStats(ctx context.Context) ([]CategoryTotal, error) {
	if s.stats != nil {
		if cached, found := s.stats.Get(statsCacheKey); found {
			return append([]CategoryTotal(nil), cached.([]CategoryTotal)...), nil
		}
	}

	gen := s.statsGeneration()
	totals, err := s.repo.SumByCategory(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to aggregate expenses", "error", err)
		return nil, storageError("failed to aggregate expenses", err)
	}
	if totals == nil {
		totals = []CategoryTotal{}
	}

	s.fillStats(gen, totals)
	return totals, nil
}

func (s *Service) statsGeneration() uint64 {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return s.statsGen
}

// fillStats caches totals unless a mutation invalidated the cache after the
// query started.
func (s *Service) fillStats(gen uint64, totals []CategoryTotal) {
	if s.stats == nil {
		return
	}
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	if gen != s.statsGen {
		return
	}
	s.stats.SetDefault(statsCacheKey, append([]CategoryTotal(nil), totals...))
}

// invalidateStats runs before the mutation response is written, so a
// subsequent read never sees stale totals.
func (s *Service) invalidateStats() {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	s.statsGen++
	if s.stats != nil {
		s.stats.Delete(statsCacheKey)
	}
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish event",
			"error", err,
			"event_type", event.EventType())
	}
}

func storageError(message string, err error) error {
	if appErr, ok := internal.IsAppError(err); ok {
		return appErr
	}
	return internal.NewStorageError(message, err)
}
