package category

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/spendwise/internal/analytics"
	"github.com/frahmantamala/spendwise/internal/expense"
)

// StatsSource is satisfied by the expense service.
type StatsSource interface {
	CategoryStats(ctx context.Context) ([]expense.CategoryTotal, error)
}

type Service struct {
	stats  StatsSource
	logger *slog.Logger
}

func NewService(stats StatsSource, logger *slog.Logger) *Service {
	return &Service{
		stats:  stats,
		logger: logger,
	}
}

// GetAllCategories lists the known categories in display order followed by
// any other recorded category, each with the amount spent in it so far.
func (s *Service) GetAllCategories(ctx context.Context) ([]Category, error) {
	totals, err := s.stats.CategoryStats(ctx)
	if err != nil {
		s.logger.Error("failed to get category totals", "error", err)
		return nil, err
	}

	spent := make(map[string]float64, len(totals))
	for _, t := range totals {
		spent[t.Category] = t.Total
	}

	known := analytics.KnownCategories()
	categories := make([]Category, 0, len(known)+len(totals))
	seen := make(map[string]bool, len(known))
	for _, name := range known {
		c := NewCategory(name, true)
		c.Total = spent[name]
		categories = append(categories, c)
		seen[name] = true
	}
	for _, t := range totals {
		if seen[t.Category] {
			continue
		}
		c := NewCategory(t.Category, false)
		c.Total = t.Total
		categories = append(categories, c)
	}

	s.logger.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}
