package client_test

import (
	"context"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/spendwise/internal/client"
	"github.com/frahmantamala/spendwise/internal/expense"
)

var _ = Describe("APIClient", func() {
	var (
		repo   *memoryRepository
		api    *client.APIClient
		ctx    context.Context
		amount = func(v float64) *float64 { return &v }
	)

	BeforeEach(func() {
		repo = &memoryRepository{}
		server := newAPIServer(repo)
		DeferCleanup(server.Close)
		api = client.NewAPIClient(server.URL+"/", nil)
		ctx = context.Background()
	})

	It("reads the greeting", func() {
		msg, err := api.Info(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(msg).To(Equal(expense.MsgAPIRunning))
	})

	It("creates, lists, aggregates and deletes", func() {
		created, err := api.CreateExpense(ctx, expense.CreateExpenseDTO{Title: "Lunch", Amount: amount(250), Category: "Food"})
		Expect(err).NotTo(HaveOccurred())
		Expect(created.ID).To(Equal(int64(1)))
		Expect(created.Title).To(Equal("Lunch"))

		list, err := api.ListExpenses(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(HaveLen(1))
		Expect(list[0].Amount).To(Equal(250.0))

		stats, err := api.Stats(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(stats).To(Equal([]expense.CategoryTotal{{Category: "Food", Total: 250}}))

		Expect(api.DeleteExpense(ctx, created.ID)).To(Succeed())

		err = api.DeleteExpense(ctx, created.ID)
		Expect(client.IsNotFound(err)).To(BeTrue())
		Expect(err).To(MatchError(ContainSubstring("Expense not found")))
	})

	It("decodes error bodies into APIError", func() {
		_, err := api.CreateExpense(ctx, expense.CreateExpenseDTO{Title: "Lunch"})

		var apiErr *client.APIError
		Expect(err).To(BeAssignableToTypeOf(apiErr))
		apiErr = err.(*client.APIError)
		Expect(apiErr.StatusCode).To(Equal(http.StatusBadRequest))
		Expect(apiErr.Message).To(Equal("Title, amount, and category are required"))
	})

	It("returns an empty list rather than nil", func() {
		list, err := api.ListExpenses(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(list).NotTo(BeNil())
		Expect(list).To(BeEmpty())
	})
})
