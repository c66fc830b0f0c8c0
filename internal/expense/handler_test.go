package expense_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/patrickmn/go-cache"

	"github.com/frahmantamala/spendwise/internal/expense"
)

var _ = Describe("ExpenseHandler", func() {
	var (
		mockRepo *mockExpenseRepository
		service  *expense.Service
		router   *chi.Mux
	)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}
		req := httptest.NewRequest(method, path, reader)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	decode := func(rec *httptest.ResponseRecorder, into interface{}) {
		ExpectWithOffset(1, json.Unmarshal(rec.Body.Bytes(), into)).To(Succeed())
	}

	errorBody := func(rec *httptest.ResponseRecorder) map[string]string {
		var body map[string]string
		decode(rec, &body)
		return body
	}

	BeforeEach(func() {
		mockRepo = newMockExpenseRepository()
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		service = expense.NewService(mockRepo, nil, cache.New(time.Minute, time.Minute), logger)
		service.SetClock(func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) })

		h := expense.NewHandler(service)
		router = chi.NewRouter()
		router.Get("/", h.Home)
		router.Get("/expenses", h.ListExpenses)
		router.Post("/expenses", h.CreateExpense)
		router.Delete("/expenses/{id}", h.DeleteExpense)
		router.Get("/stats", h.Stats)
	})

	It("answers the home route", func() {
		rec := do(http.MethodGet, "/", "")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(expense.MsgAPIRunning))
	})

	Describe("POST /expenses", func() {
		It("creates the record and echoes it with a message", func() {
			rec := do(http.MethodPost, "/expenses", `{"title":"Lunch","amount":250,"category":"Food","id":77,"date":"1999-01-01T00:00:00Z"}`)

			Expect(rec.Code).To(Equal(http.StatusCreated))
			var body map[string]interface{}
			decode(rec, &body)
			Expect(body).To(HaveKeyWithValue("id", BeNumerically("==", 1)))
			Expect(body).To(HaveKeyWithValue("title", "Lunch"))
			Expect(body).To(HaveKeyWithValue("amount", BeNumerically("==", 250)))
			Expect(body).To(HaveKeyWithValue("category", "Food"))
			Expect(body).To(HaveKeyWithValue("date", "2024-01-02T03:04:05Z"))
			Expect(body).To(HaveKeyWithValue("message", expense.MsgExpenseAdded))
		})

		DescribeTable("rejects bad requests with an error body",
			func(payload string, message string) {
				rec := do(http.MethodPost, "/expenses", payload)

				Expect(rec.Code).To(Equal(http.StatusBadRequest))
				Expect(errorBody(rec)).To(Equal(map[string]string{"error": message}))
				Expect(mockRepo.expenses).To(BeEmpty())
			},
			Entry("missing fields", `{"title":"Lunch"}`, "Title, amount, and category are required"),
			Entry("empty title", `{"title":"","amount":5,"category":"Food"}`, "Title, amount, and category are required"),
			Entry("non-positive amount", `{"title":"Lunch","amount":-1,"category":"Food"}`, "amount must be greater than 0"),
			Entry("malformed JSON", `{"title":`, "invalid request body"),
			Entry("amount of the wrong type", `{"title":"Lunch","amount":"lots","category":"Food"}`, "invalid request body"),
		)

		It("returns 500 with the storage message", func() {
			mockRepo.createError = errors.New("database is locked")

			rec := do(http.MethodPost, "/expenses", `{"title":"Lunch","amount":1,"category":"Food"}`)

			Expect(rec.Code).To(Equal(http.StatusInternalServerError))
			Expect(errorBody(rec)).To(Equal(map[string]string{"error": "database is locked"}))
		})
	})

	Describe("GET /expenses", func() {
		It("returns an empty JSON array when nothing is stored", func() {
			rec := do(http.MethodGet, "/expenses", "")

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(strings.TrimSpace(rec.Body.String())).To(Equal("[]"))
		})

		It("returns 500 when the store fails", func() {
			mockRepo.listError = errors.New("no such table: expenses")

			rec := do(http.MethodGet, "/expenses", "")

			Expect(rec.Code).To(Equal(http.StatusInternalServerError))
			Expect(errorBody(rec)).To(Equal(map[string]string{"error": "no such table: expenses"}))
		})
	})

	Describe("DELETE /expenses/{id}", func() {
		It("deletes and then reports not found", func() {
			_, err := service.CreateExpense(context.Background(), expense.CreateExpenseDTO{Title: "x", Amount: amount(1), Category: "Food"})
			Expect(err).NotTo(HaveOccurred())

			rec := do(http.MethodDelete, "/expenses/1", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring(expense.MsgExpenseDeleted))

			rec = do(http.MethodDelete, "/expenses/1", "")
			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(errorBody(rec)).To(Equal(map[string]string{"error": "Expense not found"}))
		})

		It("rejects a non-integer id", func() {
			rec := do(http.MethodDelete, "/expenses/sample1", "")

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(errorBody(rec)).To(Equal(map[string]string{"error": "invalid expense ID"}))
		})
	})

	Describe("GET /stats", func() {
		It("returns category totals", func() {
			for _, payload := range []string{
				`{"title":"a","amount":100,"category":"Food"}`,
				`{"title":"b","amount":50,"category":"Food"}`,
				`{"title":"c","amount":25,"category":"Transport"}`,
			} {
				Expect(do(http.MethodPost, "/expenses", payload).Code).To(Equal(http.StatusCreated))
			}

			rec := do(http.MethodGet, "/stats", "")

			Expect(rec.Code).To(Equal(http.StatusOK))
			var totals []expense.CategoryTotal
			decode(rec, &totals)
			Expect(totals).To(Equal([]expense.CategoryTotal{
				{Category: "Food", Total: 150},
				{Category: "Transport", Total: 25},
			}))
		})
	})
})
