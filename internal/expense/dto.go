package expense

import (
	"strings"

	"github.com/frahmantamala/spendwise/internal"
	"github.com/frahmantamala/spendwise/internal/core/common/validation"
)

const (
	MsgExpenseAdded   = "Expense added successfully!"
	MsgExpenseDeleted = "Expense deleted successfully!"
	MsgAPIRunning     = "🚀 Campus Expense Tracker API is running!"
)

// CreateExpenseDTO represents the request payload for creating an expense.
// Amount is a pointer so an omitted field can be told apart from zero; any
// id or date sent by the client is not decoded at all.
type CreateExpenseDTO struct {
	Title    string   `json:"title"`
	Amount   *float64 `json:"amount"`
	Category string   `json:"category"`
}

// Validate validates the CreateExpenseDTO
func (dto CreateExpenseDTO) Validate() error {
	if appErr := validation.ValidateNewExpense(dto.Title, dto.Amount, dto.Category); appErr != nil {
		return appErr
	}
	return nil
}

func (dto CreateExpenseDTO) TrimmedTitle() string {
	return strings.TrimSpace(dto.Title)
}

func (dto CreateExpenseDTO) TrimmedCategory() string {
	return strings.TrimSpace(dto.Category)
}

// CreateExpenseResponse is the 201 body: the stored record plus a message.
type CreateExpenseResponse struct {
	*Expense
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Domain errors
var (
	ErrExpenseNotFound = internal.ErrExpenseNotFound
)
