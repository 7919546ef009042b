package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/gamma-omg/weekly-timing/internal/analysis"
)

// WriteText renders r in the console layout.
func WriteText(w io.Writer, r *analysis.Report) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "Weekly highs/lows for %s\n\n", analysis.DescribeWeek(r.WeekStart))

	fmt.Fprintln(bw, "Top 3 lows:")
	for _, b := range r.Lows {
		fmt.Fprintf(bw, "  $%s on %s at %s\n", b.Low.StringFixed(2), b.DayName(), b.TimeOfDay())
	}

	fmt.Fprintln(bw, "\nTop 3 highs:")
	for _, b := range r.Highs {
		fmt.Fprintf(bw, "  $%s on %s at %s\n", b.High.StringFixed(2), b.DayName(), b.TimeOfDay())
	}

	fmt.Fprintf(bw, "\n%d-week window (including target week):\n", r.WindowWeeks)
	for _, ws := range r.Window.Weeks {
		if !ws.HasData {
			fmt.Fprintf(bw, "  Week %s: no data available\n", ws.Label())
			continue
		}

		fmt.Fprintf(bw, "  Week %s: low $%s at %s, high $%s at %s\n",
			ws.Label(),
			ws.Low.Low.StringFixed(2), ws.Low.TimeOfDay(),
			ws.High.High.StringFixed(2), ws.High.TimeOfDay())
	}

	fmt.Fprintln(bw, "\nAverage time of weekly lows:", r.AvgLow)
	fmt.Fprintln(bw, "Average time of weekly highs:", r.AvgHigh)

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write text report: %w", err)
	}

	return nil
}
