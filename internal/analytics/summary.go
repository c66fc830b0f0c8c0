package analytics

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const rule = 60

func money(v float64) string {
	return "₹" + humanize.FormatFloat("#,###.##", v)
}

// WriteSummary prints the report for a terminal.
func WriteSummary(w io.Writer, report Report) error {
	var b strings.Builder

	if !report.HasData {
		fmt.Fprintf(&b, "❌ %s\n", NoDataMessage)
		_, err := io.WriteString(w, b.String())
		return err
	}

	line := strings.Repeat("=", rule)
	dash := strings.Repeat("-", rule)

	fmt.Fprintf(&b, "\n%s\n📊 SPENDWISE ANALYTICS REPORT\n%s\n", line, line)

	fmt.Fprintf(&b, "\n💰 OVERALL STATISTICS\n")
	fmt.Fprintf(&b, "   Total Spending:      %s\n", money(report.TotalSpending))
	fmt.Fprintf(&b, "   Total Transactions:  %d\n", report.TotalTransactions)
	fmt.Fprintf(&b, "   Average Expense:     %s\n", money(report.AverageExpense))
	fmt.Fprintf(&b, "   Highest Expense:     %s\n", money(report.HighestExpense))
	fmt.Fprintf(&b, "   Lowest Expense:      %s\n", money(report.LowestExpense))

	fmt.Fprintf(&b, "\n📈 CATEGORY BREAKDOWN\n%s\n", dash)
	for _, c := range report.Categories {
		examples := c.SampleItems
		if len(examples) > 2 {
			examples = examples[:2]
		}
		fmt.Fprintf(&b, "\n   %s %s:\n", Emoji(c.Category), c.Category)
		fmt.Fprintf(&b, "      Total:      %s (%s%%)\n", money(c.Total), humanize.FormatFloat("#.##", c.Percentage))
		fmt.Fprintf(&b, "      Count:      %d transactions\n", c.Count)
		fmt.Fprintf(&b, "      Average:    %s\n", money(c.Average))
		fmt.Fprintf(&b, "      Examples:   %s\n", strings.Join(examples, ", "))
	}

	t := report.Trends
	fmt.Fprintf(&b, "\n📅 SPENDING TRENDS\n%s\n", dash)
	fmt.Fprintf(&b, "   Days Tracked:           %d\n", t.DaysTracked)
	fmt.Fprintf(&b, "   Highest Spending Day:   %s (%s)\n", t.HighestDay.Date, money(t.HighestDay.Amount))
	fmt.Fprintf(&b, "   Lowest Spending Day:    %s (%s)\n", t.LowestDay.Date, money(t.LowestDay.Amount))

	fmt.Fprintf(&b, "\n%s\nReport generated at: %s\n%s\n", line, report.GeneratedAt.Format(time.RFC3339), line)

	_, err := io.WriteString(w, b.String())
	return err
}
