package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// NoDataMessage is reported in place of statistics for an empty input.
const NoDataMessage = "No data available"

const sampleItemCount = 3

type ReportCategory struct {
	Category    string   `json:"category"`
	Count       int      `json:"count"`
	Total       float64  `json:"total"`
	Average     float64  `json:"average"`
	Percentage  float64  `json:"percentage"`
	SampleItems []string `json:"sample_items"`
}

// Report is the full analytics document, also written as the JSON export.
type Report struct {
	HasData           bool             `json:"has_data"`
	Error             string           `json:"error,omitempty"`
	TotalSpending     float64          `json:"total_spending"`
	TotalTransactions int              `json:"total_transactions"`
	AverageExpense    float64          `json:"average_expense"`
	HighestExpense    float64          `json:"highest_expense"`
	LowestExpense     float64          `json:"lowest_expense"`
	Categories        []ReportCategory `json:"categories"`
	Trends            Trends           `json:"trends"`
	GeneratedAt       time.Time        `json:"generated_at"`
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// BuildReport combines the overview, category breakdown and trends.
func BuildReport(entries []Entry, now time.Time) Report {
	if len(entries) == 0 {
		return Report{
			Error:       NoDataMessage,
			Categories:  []ReportCategory{},
			GeneratedAt: now,
		}
	}

	overview := ComputeOverview(entries)
	breakdown := CategoryBreakdown(entries)

	categories := make([]ReportCategory, len(breakdown))
	for i, stat := range breakdown {
		samples := stat.Items
		if len(samples) > sampleItemCount {
			samples = samples[:sampleItemCount]
		}
		categories[i] = ReportCategory{
			Category:    stat.Category,
			Count:       stat.Count,
			Total:       round2(stat.Total),
			Average:     round2(stat.AveragePerItem),
			Percentage:  round2(stat.Percentage),
			SampleItems: append([]string(nil), samples...),
		}
	}

	return Report{
		HasData:           true,
		TotalSpending:     round2(overview.Total),
		TotalTransactions: overview.Count,
		AverageExpense:    round2(overview.Average),
		HighestExpense:    overview.Highest,
		LowestExpense:     overview.Lowest,
		Categories:        categories,
		Trends:            SpendingTrends(entries),
		GeneratedAt:       now,
	}
}

// ReportFileName is the default name of a JSON report generated at now.
func ReportFileName(now time.Time) string {
	return "expense_report_" + now.Format("20060102_150405") + ".json"
}
