package store

import (
	"context"
	"fmt"
	"time"

	"github.com/frahmantamala/spendwise/internal"
	expenseDatamodel "github.com/frahmantamala/spendwise/internal/core/datamodel/expense"
	"github.com/frahmantamala/spendwise/internal/database"
	"github.com/frahmantamala/spendwise/internal/expense"
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

const sumByCategoryQuery = `SELECT category, SUM(amount) AS total
FROM expenses
GROUP BY category
ORDER BY category ASC`

// ExpenseRepository implements expense.RepositoryAPI on top of gorm for
// record CRUD and sqlx for the aggregate query.
type ExpenseRepository struct {
	db           *gorm.DB
	sqlx         *sqlx.DB
	queryTimeout time.Duration
}

func NewExpenseRepository(db *database.DB, queryTimeout time.Duration) *ExpenseRepository {
	return &ExpenseRepository{
		db:           db.Gorm,
		sqlx:         db.SQLX,
		queryTimeout: queryTimeout,
	}
}

// Create inserts the record and writes the assigned id back into exp.
func (r *ExpenseRepository) Create(ctx context.Context, exp *expense.Expense) error {
	ctx, cancel := internal.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	row := expense.ToDataModel(exp)
	row.ID = 0
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	exp.ID = row.ID
	return nil
}

// ListAll returns every record, newest first. Records sharing a timestamp
// come back in reverse insertion order.
func (r *ExpenseRepository) ListAll(ctx context.Context) ([]*expense.Expense, error) {
	ctx, cancel := internal.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	var rows []*expenseDatamodel.Expense
	err := r.db.WithContext(ctx).
		Order("date DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expense.FromDataModelSlice(rows), nil
}

func (r *ExpenseRepository) DeleteByID(ctx context.Context, id int64) error {
	ctx, cancel := internal.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	result := r.db.WithContext(ctx).Delete(&expenseDatamodel.Expense{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete expense %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return expense.ErrExpenseNotFound
	}
	return nil
}

// SumByCategory totals amounts per category. Categories without records are
// absent from the result.
func (r *ExpenseRepository) SumByCategory(ctx context.Context) ([]expense.CategoryTotal, error) {
	ctx, cancel := internal.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	var rows []expenseDatamodel.CategoryTotal
	if err := r.sqlx.SelectContext(ctx, &rows, sumByCategoryQuery); err != nil {
		return nil, fmt.Errorf("sum expenses by category: %w", err)
	}
	return expense.CategoryTotalsFromDataModel(rows), nil
}

// DeleteAll empties the table; used by the seeder.
func (r *ExpenseRepository) DeleteAll(ctx context.Context) (int64, error) {
	ctx, cancel := internal.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	result := r.db.WithContext(ctx).Where("1 = 1").Delete(&expenseDatamodel.Expense{})
	if result.Error != nil {
		return 0, fmt.Errorf("clear expenses: %w", result.Error)
	}
	return result.RowsAffected, nil
}
