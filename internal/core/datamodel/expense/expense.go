package expense

import "time"

// Expense is the row layout of the expenses table.
type Expense struct {
	ID       int64     `gorm:"primaryKey;autoIncrement" db:"id"`
	Title    string    `gorm:"column:title;not null" db:"title"`
	Amount   float64   `gorm:"column:amount;not null" db:"amount"`
	Category string    `gorm:"column:category;not null" db:"category"`
	Date     time.Time `gorm:"column:date;not null" db:"date"`
}

func (Expense) TableName() string {
	return "expenses"
}

// CategoryTotal is one row of the grouped SUM(amount) query.
type CategoryTotal struct {
	Category string  `db:"category"`
	Total    float64 `db:"total"`
}
