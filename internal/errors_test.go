package internal_test

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/frahmantamala/spendwise/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("AppError", func() {
	It("renders a not found error as a 404 body", func() {
		status, body := internal.ErrExpenseNotFound.ToHTTPResponse()
		Expect(status).To(Equal(http.StatusNotFound))
		Expect(body).To(Equal(internal.Response{Error: "Expense not found"}))
	})

	It("surfaces the driver message for storage failures", func() {
		appErr := internal.NewStorageError("failed to list expenses", errors.New("database is locked"))
		status, body := appErr.ToHTTPResponse()
		Expect(status).To(Equal(http.StatusInternalServerError))
		Expect(body).To(Equal(internal.Response{Error: "database is locked"}))
		Expect(errors.Unwrap(appErr)).To(MatchError("database is locked"))
	})

	It("joins field messages for validation failures", func() {
		appErr := internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: []internal.ValidationError{
				{Field: "title", Message: "title is required"},
				{Field: "amount", Message: "amount must be greater than 0"},
			}})
		Expect(appErr.PublicMessage()).To(Equal("title is required; amount must be greater than 0"))
	})

	It("is found through wrapping", func() {
		wrapped := fmt.Errorf("delete: %w", internal.ErrExpenseNotFound)
		appErr, ok := internal.IsAppError(wrapped)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(internal.ErrCodeExpenseNotFound))

		_, ok = internal.IsAppError(errors.New("plain"))
		Expect(ok).To(BeFalse())
	})
})
