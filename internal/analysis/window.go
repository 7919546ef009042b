package analysis

import (
	"errors"
	"fmt"
	"time"

	"github.com/gamma-omg/weekly-timing/internal/market"
)

type WeekSummary struct {
	Start   time.Time
	HasData bool
	Low     market.Bar
	High    market.Bar
}

func (s WeekSummary) Label() string {
	return DescribeWeek(s.Start)
}

// Window is the trailing window of weeks ending at the target week, oldest first.
type Window struct {
	Weeks     []WeekSummary
	LowTimes  []time.Time
	HighTimes []time.Time
}

func (w Window) MissingWeeks() int {
	n := 0
	for _, s := range w.Weeks {
		if !s.HasData {
			n++
		}
	}
	return n
}

func WindowStarts(target time.Time, weeks int) []time.Time {
	starts := make([]time.Time, 0, max(weeks, 0))
	for i := weeks - 1; i >= 0; i-- {
		starts = append(starts, target.AddDate(0, 0, -7*i))
	}
	return starts
}

// Aggregate computes the low/high extreme of every week in the window. Weeks
// without bars are kept as placeholders and excluded from the timing lists.
func Aggregate(bars []market.Bar, target time.Time, weeks int) (Window, error) {
	var w Window
	for _, start := range WindowStarts(target, weeks) {
		low, high, err := WeeklyHighLow(bars, start)

		var noData *NoDataError
		if errors.As(err, &noData) {
			w.Weeks = append(w.Weeks, WeekSummary{Start: start})
			continue
		}
		if err != nil {
			return Window{}, fmt.Errorf("failed to aggregate week %s: %w", start.Format(time.DateOnly), err)
		}

		w.Weeks = append(w.Weeks, WeekSummary{
			Start:   start,
			HasData: true,
			Low:     low,
			High:    high,
		})
		w.LowTimes = append(w.LowTimes, low.Time)
		w.HighTimes = append(w.HighTimes, high.Time)
	}

	return w, nil
}
