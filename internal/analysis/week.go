package analysis

import (
	"time"

	"github.com/gamma-omg/weekly-timing/internal/market"
)

// BeginningOfWeek returns Monday 00:00 of the week containing t, in t's location.
func BeginningOfWeek(t time.Time) time.Time {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d-daysSinceMonday, 0, 0, 0, 0, t.Location())
}

func weekEnd(weekStart time.Time) time.Time {
	return weekStart.AddDate(0, 0, 7)
}

// SelectWeek returns the bars in [weekStart, weekStart+7d), keeping their order.
func SelectWeek(bars []market.Bar, weekStart time.Time) []market.Bar {
	end := weekEnd(weekStart)

	var res []market.Bar
	for _, b := range bars {
		if !b.Time.Before(weekStart) && b.Time.Before(end) {
			res = append(res, b)
		}
	}

	return res
}

func DescribeWeek(weekStart time.Time) string {
	last := weekStart.AddDate(0, 0, 6)
	return weekStart.Format(time.DateOnly) + " to " + last.Format(time.DateOnly)
}
