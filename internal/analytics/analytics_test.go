package analytics_test

import (
	"bytes"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/spendwise/internal/analytics"
)

var _ = Describe("Aggregation", func() {
	day := func(d, h int) time.Time {
		return time.Date(2024, 3, d, h, 0, 0, 0, time.UTC)
	}

	var entries []analytics.Entry

	BeforeEach(func() {
		entries = []analytics.Entry{
			{ID: "1", Title: "Lunch", Amount: 100, Category: "Food", Date: day(2, 12)},
			{ID: "2", Title: "Dinner", Amount: 50, Category: "Food", Date: day(2, 19)},
			{ID: "3", Title: "Bus", Amount: 25, Category: "Transport", Date: day(1, 8)},
		}
	})

	Describe("ComputeOverview", func() {
		It("summarises the entries", func() {
			overview := analytics.ComputeOverview(entries)

			Expect(overview.HasData).To(BeTrue())
			Expect(overview.Total).To(Equal(175.0))
			Expect(overview.Count).To(Equal(3))
			Expect(overview.Average).To(BeNumerically("~", 58.3333, 0.0001))
			Expect(overview.Highest).To(Equal(100.0))
			Expect(overview.Lowest).To(Equal(25.0))
		})

		It("reports no data for an empty list without dividing by zero", func() {
			Expect(analytics.ComputeOverview(nil)).To(Equal(analytics.Overview{}))
		})

		It("sums decimal amounts exactly", func() {
			cents := []analytics.Entry{{Amount: 0.1}, {Amount: 0.2}}
			Expect(analytics.ComputeOverview(cents).Total).To(Equal(0.3))
			Expect(analytics.Total(cents)).To(Equal(0.3))
		})
	})

	Describe("CategoryBreakdown", func() {
		It("groups by category with percentages and averages", func() {
			breakdown := analytics.CategoryBreakdown(entries)

			Expect(breakdown).To(HaveLen(2))
			Expect(breakdown[0].Category).To(Equal("Food"))
			Expect(breakdown[0].Total).To(Equal(150.0))
			Expect(breakdown[0].Count).To(Equal(2))
			Expect(breakdown[0].Items).To(Equal([]string{"Lunch", "Dinner"}))
			Expect(breakdown[0].AveragePerItem).To(Equal(75.0))
			Expect(breakdown[0].Percentage).To(BeNumerically("~", 85.714, 0.001))

			Expect(breakdown[1].Category).To(Equal("Transport"))
			Expect(breakdown[1].Total).To(Equal(25.0))
			Expect(breakdown[1].Percentage).To(BeNumerically("~", 14.286, 0.001))
		})

		It("keeps first-seen order for equal totals", func() {
			tied := []analytics.Entry{
				{Title: "a", Amount: 10, Category: "Bills"},
				{Title: "b", Amount: 10, Category: "Health"},
				{Title: "c", Amount: 30, Category: "Other"},
			}

			breakdown := analytics.CategoryBreakdown(tied)
			Expect([]string{breakdown[0].Category, breakdown[1].Category, breakdown[2].Category}).
				To(Equal([]string{"Other", "Bills", "Health"}))
		})

		It("returns an empty slice for no entries", func() {
			Expect(analytics.CategoryBreakdown(nil)).To(BeEmpty())
		})
	})

	Describe("CategoryTotals", func() {
		It("projects the sums in first-seen order", func() {
			Expect(analytics.CategoryTotals(entries)).To(Equal([]analytics.CategoryTotal{
				{Category: "Food", Total: 150},
				{Category: "Transport", Total: 25},
			}))
		})
	})

	Describe("SpendingTrends", func() {
		It("finds the highest and lowest UTC days", func() {
			trends := analytics.SpendingTrends(entries)

			Expect(trends.DaysTracked).To(Equal(2))
			Expect(trends.HighestDay).To(Equal(analytics.DayTotal{Date: "2024-03-02", Amount: 150}))
			Expect(trends.LowestDay).To(Equal(analytics.DayTotal{Date: "2024-03-01", Amount: 25}))
		})

		It("is empty for no entries", func() {
			Expect(analytics.SpendingTrends(nil)).To(Equal(analytics.Trends{}))
		})
	})

	Describe("BuildReport", func() {
		now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

		It("rounds to two decimals and keeps three sample items", func() {
			many := append(entries,
				analytics.Entry{Title: "Snack", Amount: 10.333, Category: "Food", Date: day(3, 9)},
				analytics.Entry{Title: "Tea", Amount: 5, Category: "Food", Date: day(3, 10)},
			)

			report := analytics.BuildReport(many, now)

			Expect(report.HasData).To(BeTrue())
			Expect(report.TotalTransactions).To(Equal(5))
			Expect(report.TotalSpending).To(Equal(190.33))
			Expect(report.Categories[0].Category).To(Equal("Food"))
			Expect(report.Categories[0].Total).To(Equal(165.33))
			Expect(report.Categories[0].SampleItems).To(Equal([]string{"Lunch", "Dinner", "Snack"}))
			Expect(report.Trends.DaysTracked).To(Equal(3))
			Expect(report.GeneratedAt).To(Equal(now))
		})

		It("reports no data for an empty list", func() {
			report := analytics.BuildReport(nil, now)

			Expect(report.HasData).To(BeFalse())
			Expect(report.Error).To(Equal(analytics.NoDataMessage))
		})

		It("names report files after the generation time", func() {
			Expect(analytics.ReportFileName(now)).To(Equal("expense_report_20240305_100000.json"))
			Expect(analytics.ExportFileName(now)).To(Equal("spendwise_expenses_2024-03-05.csv"))
		})
	})

	Describe("WriteCSV", func() {
		It("quotes titles and dates and renders dates in the given zone", func() {
			ist := time.FixedZone("IST", 5*3600+1800)
			rows := []analytics.Entry{
				{ID: "7", Title: `Pizza "large"`, Amount: 12.5, Category: "Food", Date: time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)},
				{ID: "sample1", Title: "Sample Lunch", Amount: 250, Category: "Food", Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
			}

			var buf bytes.Buffer
			Expect(analytics.WriteCSV(&buf, rows, ist)).To(Succeed())

			Expect(buf.String()).To(Equal(
				"ID,Title,Amount,Category,Date\n" +
					`7,"Pizza ""large""",12.5,Food,"02/01/2024, 2:30:00 pm"` + "\n" +
					`sample1,"Sample Lunch",250,Food,"02/01/2024, 5:30:00 am"` + "\n",
			))
		})

		It("quotes categories that would break the row", func() {
			at := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
			rows := []analytics.Entry{
				{ID: "1", Title: "Snacks", Amount: 3, Category: "Food, Drinks", Date: at},
				{ID: "2", Title: "Gift", Amount: 4, Category: `The "Big" One`, Date: at},
				{ID: "3", Title: "Note", Amount: 5, Category: "Line\nBreak", Date: at},
			}

			var buf bytes.Buffer
			Expect(analytics.WriteCSV(&buf, rows, time.UTC)).To(Succeed())

			Expect(buf.String()).To(Equal(
				"ID,Title,Amount,Category,Date\n" +
					`1,"Snacks",3,"Food, Drinks","02/01/2024, 9:00:00 am"` + "\n" +
					`2,"Gift",4,"The ""Big"" One","02/01/2024, 9:00:00 am"` + "\n" +
					"3,\"Note\",5,\"Line\nBreak\",\"02/01/2024, 9:00:00 am\"\n",
			))
		})

		It("writes only the header for no entries", func() {
			var buf bytes.Buffer
			Expect(analytics.WriteCSV(&buf, nil, time.UTC)).To(Succeed())
			Expect(buf.String()).To(Equal("ID,Title,Amount,Category,Date\n"))
		})
	})

	Describe("WriteSummary", func() {
		It("prints thousands separated amounts", func() {
			big := []analytics.Entry{
				{Title: "Laptop", Amount: 1234.5, Category: "Shopping", Date: day(4, 9)},
			}

			var buf bytes.Buffer
			Expect(analytics.WriteSummary(&buf, analytics.BuildReport(big, time.Now()))).To(Succeed())

			Expect(buf.String()).To(ContainSubstring("Total Spending:      ₹1,234.50"))
			Expect(buf.String()).To(ContainSubstring("🛒 Shopping:"))
			Expect(buf.String()).To(ContainSubstring("Days Tracked:           1"))
		})

		It("prints the no data message", func() {
			var buf bytes.Buffer
			Expect(analytics.WriteSummary(&buf, analytics.BuildReport(nil, time.Now()))).To(Succeed())
			Expect(buf.String()).To(ContainSubstring(analytics.NoDataMessage))
		})
	})

	Describe("category display", func() {
		It("falls back to defaults for unknown categories", func() {
			Expect(analytics.Emoji("Food")).To(Equal("🍔"))
			Expect(analytics.Color("Food")).To(Equal("#FF6384"))
			Expect(analytics.Emoji("Books")).To(Equal(analytics.DefaultEmoji))
			Expect(analytics.Color("Books")).To(Equal(analytics.DefaultColor))
		})
	})
})
