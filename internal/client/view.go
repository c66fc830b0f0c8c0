package client

import (
	"strconv"
	"strings"
	"time"

	"github.com/frahmantamala/spendwise/internal/analytics"
	"github.com/frahmantamala/spendwise/internal/expense"
)

type Mode int

const (
	ModeLoading Mode = iota
	ModeLive
	ModeDemo
)

func (m Mode) String() string {
	switch m {
	case ModeLive:
		return "live"
	case ModeDemo:
		return "demo"
	default:
		return "loading"
	}
}

// ChartSeries is one chart's data; labels, values and colors line up by index.
type ChartSeries struct {
	Labels []string
	Values []float64
	Colors []string
}

// Snapshot is everything a view needs to draw itself. Each render gets
// freshly built slices.
type Snapshot struct {
	Mode          Mode
	Entries       []analytics.Entry
	Total         float64
	Pie           ChartSeries
	Bar           ChartSeries
	UsingDemoData bool
	Err           error
}

const demoIDPrefix = "sample"

type demoSeed struct {
	title    string
	amount   float64
	category string
}

var demoSeeds = []demoSeed{
	{"Sample Lunch", 250, "Food"},
	{"Sample Bus Fare", 50, "Transport"},
	{"Sample Movie", 300, "Entertainment"},
	{"Sample Shopping", 500, "Shopping"},
	{"Sample Electricity", 400, "Bills"},
}

// DemoEntries returns the five placeholder entries dated at now.
func DemoEntries(now time.Time) []analytics.Entry {
	entries := make([]analytics.Entry, len(demoSeeds))
	for i, s := range demoSeeds {
		entries[i] = analytics.Entry{
			ID:       demoIDPrefix + strconv.Itoa(i+1),
			Title:    s.title,
			Amount:   s.amount,
			Category: s.category,
			Date:     now.UTC(),
			Demo:     true,
		}
	}
	return entries
}

// DemoExpenses returns the placeholder data as create requests, for seeding.
func DemoExpenses() []expense.CreateExpenseDTO {
	dtos := make([]expense.CreateExpenseDTO, len(demoSeeds))
	for i, s := range demoSeeds {
		amount := s.amount
		dtos[i] = expense.CreateExpenseDTO{Title: s.title, Amount: &amount, Category: s.category}
	}
	return dtos
}

func IsDemoID(id string) bool {
	return strings.HasPrefix(id, demoIDPrefix)
}

func ToEntries(records []expense.Expense) []analytics.Entry {
	entries := make([]analytics.Entry, len(records))
	for i, r := range records {
		entries[i] = analytics.Entry{
			ID:       strconv.FormatInt(r.ID, 10),
			Title:    r.Title,
			Amount:   r.Amount,
			Category: r.Category,
			Date:     r.Date,
		}
	}
	return entries
}

func buildSnapshot(mode Mode, entries []analytics.Entry, err error) Snapshot {
	totals := analytics.CategoryTotals(entries)
	return Snapshot{
		Mode:          mode,
		Entries:       entries,
		Total:         analytics.Total(entries),
		Pie:           series(totals),
		Bar:           series(totals),
		UsingDemoData: mode == ModeDemo,
		Err:           err,
	}
}

func series(totals []analytics.CategoryTotal) ChartSeries {
	s := ChartSeries{
		Labels: make([]string, len(totals)),
		Values: make([]float64, len(totals)),
		Colors: make([]string, len(totals)),
	}
	for i, t := range totals {
		s.Labels[i] = t.Category
		s.Values[i] = t.Total
		s.Colors[i] = analytics.Color(t.Category)
	}
	return s
}
