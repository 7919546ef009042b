package report

import (
	"testing"
	"time"

	"github.com/gamma-omg/weekly-timing/internal/analysis"
	"github.com/gamma-omg/weekly-timing/internal/market"
	"github.com/shopspring/decimal"
)

func bar(ts time.Time, low, high float64) market.Bar {
	return market.Bar{Time: ts, Low: decimal.NewFromFloat(low), High: decimal.NewFromFloat(high)}
}

func testReport(t *testing.T) *analysis.Report {
	t.Helper()

	d := func(day, hour int) time.Time {
		return time.Date(2024, 1, day, hour, 0, 0, 0, time.UTC)
	}

	week1Low, week1High := bar(d(2, 10), 95.5, 97), bar(d(4, 15), 96, 99.125)
	week3Low, week3High := bar(d(15, 9), 10, 11), bar(d(18, 11), 21, 22)

	return &analysis.Report{
		Symbol:    "AAPL",
		WeekStart: d(15, 0),
		Lows: []market.Bar{
			week3Low,
			bar(d(16, 9), 10, 11),
			bar(d(17, 10), 12, 13),
		},
		Highs: []market.Bar{
			week3High,
			bar(d(15, 15), 19, 20),
			bar(d(16, 14), 17, 18),
		},
		WindowWeeks: 3,
		Window: analysis.Window{
			Weeks: []analysis.WeekSummary{
				{Start: d(1, 0), HasData: true, Low: week1Low, High: week1High},
				{Start: d(8, 0)},
				{Start: d(15, 0), HasData: true, Low: week3Low, High: week3High},
			},
			LowTimes:  []time.Time{week1Low.Time, week3Low.Time},
			HighTimes: []time.Time{week1High.Time, week3High.Time},
		},
		AvgLow:  analysis.Timing{Minutes: 570, Valid: true},
		AvgHigh: analysis.Timing{Minutes: 780, Valid: true},
	}
}
