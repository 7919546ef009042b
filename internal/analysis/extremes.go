package analysis

import (
	"slices"
	"time"

	"github.com/gamma-omg/weekly-timing/internal/market"
)

func TopLows(bars []market.Bar, n int) ([]market.Bar, error) {
	return top(bars, n, func(a, b market.Bar) int {
		if c := a.Low.Cmp(b.Low); c != 0 {
			return c
		}
		return a.Time.Compare(b.Time)
	})
}

func TopHighs(bars []market.Bar, n int) ([]market.Bar, error) {
	return top(bars, n, func(a, b market.Bar) int {
		if c := b.High.Cmp(a.High); c != 0 {
			return c
		}
		return a.Time.Compare(b.Time)
	})
}

func top(bars []market.Bar, n int, cmp func(a, b market.Bar) int) ([]market.Bar, error) {
	if len(bars) == 0 {
		return nil, ErrEmptyInput
	}

	sorted := slices.Clone(bars)
	slices.SortStableFunc(sorted, cmp)

	n = max(0, min(n, len(sorted)))
	return sorted[:n], nil
}

// WeeklyExtremes returns the three lowest lows and three highest highs of the week.
func WeeklyExtremes(bars []market.Bar, weekStart time.Time) (lows, highs []market.Bar, err error) {
	week := SelectWeek(bars, weekStart)
	if len(week) == 0 {
		err = &NoDataError{WeekStart: weekStart}
		return
	}

	if lows, err = TopLows(week, 3); err != nil {
		return
	}

	highs, err = TopHighs(week, 3)
	return
}

// WeeklyHighLow returns the single lowest-low and highest-high bars of the week.
func WeeklyHighLow(bars []market.Bar, weekStart time.Time) (low, high market.Bar, err error) {
	week := SelectWeek(bars, weekStart)
	if len(week) == 0 {
		err = &NoDataError{WeekStart: weekStart}
		return
	}

	lows, err := TopLows(week, 1)
	if err != nil {
		return
	}

	highs, err := TopHighs(week, 1)
	if err != nil {
		return
	}

	return lows[0], highs[0], nil
}
