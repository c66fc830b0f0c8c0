package expense

import (
	"time"

	expenseDatamodel "github.com/frahmantamala/spendwise/internal/core/datamodel/expense"
)

// Expense is a single persisted spending record. Records are immutable once
// created; the only lifecycle transition after creation is deletion.
type Expense struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Amount   float64   `json:"amount"`
	Category string    `json:"category"`
	Date     time.Time `json:"date"`
}

// CategoryTotal is the coarse per-category aggregate served by /stats.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// NewExpense builds a record from a validated request. ID is left for the
// store to assign; the date is always server time at millisecond precision.
func NewExpense(dto CreateExpenseDTO, now time.Time) *Expense {
	return &Expense{
		Title:    dto.TrimmedTitle(),
		Amount:   *dto.Amount,
		Category: dto.TrimmedCategory(),
		Date:     now.UTC().Truncate(time.Millisecond),
	}
}

func ToDataModel(e *Expense) *expenseDatamodel.Expense {
	return &expenseDatamodel.Expense{
		ID:       e.ID,
		Title:    e.Title,
		Amount:   e.Amount,
		Category: e.Category,
		Date:     e.Date,
	}
}

func FromDataModel(e *expenseDatamodel.Expense) *Expense {
	return &Expense{
		ID:       e.ID,
		Title:    e.Title,
		Amount:   e.Amount,
		Category: e.Category,
		Date:     e.Date.UTC(),
	}
}

func FromDataModelSlice(expenses []*expenseDatamodel.Expense) []*Expense {
	result := make([]*Expense, len(expenses))
	for i, e := range expenses {
		result[i] = FromDataModel(e)
	}
	return result
}

func CategoryTotalsFromDataModel(rows []expenseDatamodel.CategoryTotal) []CategoryTotal {
	result := make([]CategoryTotal, len(rows))
	for i, row := range rows {
		result[i] = CategoryTotal{Category: row.Category, Total: row.Total}
	}
	return result
}
