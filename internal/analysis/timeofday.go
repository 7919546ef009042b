package analysis

import (
	"fmt"
	"math"
	"time"
)

// AverageMinutes returns the mean minute-of-day of ts, in the first timestamp's
// location, rounded half to even. The mean is arithmetic: times on both sides of
// midnight average towards noon.
func AverageMinutes(ts []time.Time) (int, bool) {
	if len(ts) == 0 {
		return 0, false
	}

	loc := ts[0].Location()
	sum := 0
	for _, t := range ts {
		t = t.In(loc)
		sum += t.Hour()*60 + t.Minute()
	}

	return int(math.RoundToEven(float64(sum) / float64(len(ts)))), true
}

func FormatMinutes(minutes int, ok bool) string {
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
