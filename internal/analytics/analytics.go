// Package analytics derives statistics from a list of expense entries. It
// never touches storage; callers pass the records they already hold.
package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Entry is the aggregation input. ID is a string so placeholder records
// with non-numeric ids can be aggregated alongside stored ones.
type Entry struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Amount   float64   `json:"amount"`
	Category string    `json:"category"`
	Date     time.Time `json:"date"`
	Demo     bool      `json:"demo,omitempty"`
}

type Overview struct {
	Total   float64 `json:"total"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
	Highest float64 `json:"highest"`
	Lowest  float64 `json:"lowest"`
	HasData bool    `json:"has_data"`
}

type CategoryStat struct {
	Category       string   `json:"category"`
	Total          float64  `json:"total"`
	Count          int      `json:"count"`
	Items          []string `json:"items"`
	Percentage     float64  `json:"percentage"`
	AveragePerItem float64  `json:"average_per_item"`
}

type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

type DayTotal struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

type Trends struct {
	HighestDay  DayTotal `json:"highest_spending_day"`
	LowestDay   DayTotal `json:"lowest_spending_day"`
	DaysTracked int      `json:"days_tracked"`
}

const dayLayout = "2006-01-02"

var hundred = decimal.NewFromInt(100)

// ComputeOverview computes totals over every entry. An empty input reports
// HasData=false with zero values.
func ComputeOverview(entries []Entry) Overview {
	if len(entries) == 0 {
		return Overview{}
	}

	total := decimal.Zero
	highest := entries[0].Amount
	lowest := entries[0].Amount
	for _, e := range entries {
		total = total.Add(decimal.NewFromFloat(e.Amount))
		highest = max(highest, e.Amount)
		lowest = min(lowest, e.Amount)
	}

	count := len(entries)
	return Overview{
		Total:   total.InexactFloat64(),
		Count:   count,
		Average: total.Div(decimal.NewFromInt(int64(count))).InexactFloat64(),
		Highest: highest,
		Lowest:  lowest,
		HasData: true,
	}
}

type bucket struct {
	category string
	total    decimal.Decimal
	count    int
	items    []string
}

// accumulate groups entries by category in first-encountered order.
func accumulate(entries []Entry) ([]*bucket, decimal.Decimal) {
	index := make(map[string]*bucket)
	var order []*bucket
	grand := decimal.Zero

	for _, e := range entries {
		amount := decimal.NewFromFloat(e.Amount)
		grand = grand.Add(amount)

		b, ok := index[e.Category]
		if !ok {
			b = &bucket{category: e.Category, total: decimal.Zero}
			index[e.Category] = b
			order = append(order, b)
		}
		b.total = b.total.Add(amount)
		b.count++
		b.items = append(b.items, e.Title)
	}
	return order, grand
}

// CategoryBreakdown returns one entry per category, largest total first.
// Categories with equal totals keep the order they were first seen in.
func CategoryBreakdown(entries []Entry) []CategoryStat {
	buckets, grand := accumulate(entries)

	stats := make([]CategoryStat, 0, len(buckets))
	for _, b := range buckets {
		stat := CategoryStat{
			Category:       b.category,
			Total:          b.total.InexactFloat64(),
			Count:          b.count,
			Items:          b.items,
			AveragePerItem: b.total.Div(decimal.NewFromInt(int64(b.count))).InexactFloat64(),
		}
		if grand.IsPositive() {
			stat.Percentage = b.total.Mul(hundred).Div(grand).InexactFloat64()
		}
		stats = append(stats, stat)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Total > stats[j].Total
	})
	return stats
}

// CategoryTotals is the chart series: per-category sums in the order the
// categories first appear in entries.
func CategoryTotals(entries []Entry) []CategoryTotal {
	buckets, _ := accumulate(entries)

	totals := make([]CategoryTotal, len(buckets))
	for i, b := range buckets {
		totals[i] = CategoryTotal{Category: b.category, Total: b.total.InexactFloat64()}
	}
	return totals
}

// SpendingTrends groups spending by UTC calendar day. Among days with equal
// totals the first seen is the highest and the last seen is the lowest.
func SpendingTrends(entries []Entry) Trends {
	index := make(map[string]decimal.Decimal)
	var days []string
	for _, e := range entries {
		day := e.Date.UTC().Format(dayLayout)
		if _, ok := index[day]; !ok {
			days = append(days, day)
			index[day] = decimal.Zero
		}
		index[day] = index[day].Add(decimal.NewFromFloat(e.Amount))
	}

	if len(days) == 0 {
		return Trends{}
	}

	highest, lowest := days[0], days[0]
	for _, day := range days[1:] {
		if index[day].GreaterThan(index[highest]) {
			highest = day
		}
		if index[day].LessThanOrEqual(index[lowest]) {
			lowest = day
		}
	}

	return Trends{
		HighestDay:  DayTotal{Date: highest, Amount: index[highest].InexactFloat64()},
		LowestDay:   DayTotal{Date: lowest, Amount: index[lowest].InexactFloat64()},
		DaysTracked: len(days),
	}
}

// Total sums the amounts exactly.
func Total(entries []Entry) float64 {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(decimal.NewFromFloat(e.Amount))
	}
	return total.InexactFloat64()
}
