package category_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/spendwise/internal/category"
	"github.com/frahmantamala/spendwise/internal/expense"
	"github.com/frahmantamala/spendwise/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubStats struct {
	totals []expense.CategoryTotal
	err    error
}

func (s stubStats) CategoryStats(context.Context) ([]expense.CategoryTotal, error) {
	return s.totals, s.err
}

var _ = Describe("Category", func() {
	var (
		slogger *slog.Logger
		stats   stubStats
		handler *category.Handler
	)

	BeforeEach(func() {
		slogger = slog.New(slog.NewTextHandler(io.Discard, nil))
		stats = stubStats{}
	})

	build := func() {
		service := category.NewService(stats, slogger)
		handler = category.NewHandler(&transport.BaseHandler{Logger: slogger}, service)
	}

	Describe("GetAllCategories", func() {
		It("lists the known categories with zero totals when nothing is recorded", func() {
			categories, err := category.NewService(stats, slogger).GetAllCategories(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(categories).To(HaveLen(7))
			Expect(categories[0]).To(Equal(category.Category{Name: "Food", Emoji: "🍔", Color: "#FF6384", Known: true}))
			for _, c := range categories {
				Expect(c.Known).To(BeTrue())
				Expect(c.Total).To(BeZero())
			}
		})

		It("fills totals and appends unknown categories with default styling", func() {
			stats.totals = []expense.CategoryTotal{
				{Category: "Coffee", Total: 9.5},
				{Category: "Food", Total: 42},
			}
			categories, err := category.NewService(stats, slogger).GetAllCategories(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(categories).To(HaveLen(8))
			Expect(categories[0].Total).To(Equal(42.0))
			Expect(categories[7]).To(Equal(category.Category{Name: "Coffee", Emoji: "📦", Color: "#C9CBCF", Total: 9.5}))
		})
	})

	Describe("GetCategories", func() {
		It("responds with the category list", func() {
			stats.totals = []expense.CategoryTotal{{Category: "Health", Total: 12}}
			build()

			rec := httptest.NewRecorder()
			handler.GetCategories(rec, httptest.NewRequest(http.MethodGet, "/categories", nil))

			Expect(rec.Code).To(Equal(http.StatusOK))
			var body category.CategoriesResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body.Categories).To(HaveLen(7))
			Expect(body.Categories[5].Name).To(Equal("Health"))
			Expect(body.Categories[5].Total).To(Equal(12.0))
		})

		It("answers 500 with the error body when stats fail", func() {
			stats.err = errors.New("database is locked")
			build()

			rec := httptest.NewRecorder()
			handler.GetCategories(rec, httptest.NewRequest(http.MethodGet, "/categories", nil))

			Expect(rec.Code).To(Equal(http.StatusInternalServerError))
			Expect(rec.Body.String()).To(MatchJSON(`{"error":"database is locked"}`))
		})
	})
})
