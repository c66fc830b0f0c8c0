package analytics

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

const (
	csvHeader     = "ID,Title,Amount,Category,Date"
	csvDateLayout = "02/01/2006, 3:04:05 pm"
)

// WriteCSV writes one line per entry after the header. Title and date are
// always double quoted, the category only when it needs to be. The date is
// shown in loc.
func WriteCSV(w io.Writer, entries []Entry, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, csvHeader); err != nil {
		return err
	}
	for _, e := range entries {
		_, err := fmt.Fprintf(bw, "%s,%s,%s,%s,%s\n",
			e.ID,
			quote(e.Title),
			strconv.FormatFloat(e.Amount, 'f', -1, 64),
			escapeField(e.Category),
			quote(e.Date.In(loc).Format(csvDateLayout)),
		)
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// escapeField quotes s only when it would otherwise break the row.
func escapeField(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return quote(s)
	}
	return s
}

// ExportFileName is the default name of a CSV export generated at now.
func ExportFileName(now time.Time) string {
	return "spendwise_expenses_" + now.Format("2006-01-02") + ".csv"
}
