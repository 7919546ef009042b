package analysis

import (
	"testing"
	"time"

	"github.com/gamma-omg/weekly-timing/internal/market"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	_ "time/tzdata"
)

func at(t *testing.T, s string) time.Time {
	t.Helper()
	return atIn(t, s, time.UTC)
}

func atIn(t *testing.T, s string, loc *time.Location) time.Time {
	t.Helper()

	ts, err := time.ParseInLocation("2006-01-02 15:04", s, loc)
	require.NoError(t, err)
	return ts
}

func newYork(t *testing.T) *time.Location {
	t.Helper()

	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

func newBar(t *testing.T, ts string, low, high float64) market.Bar {
	t.Helper()

	return market.Bar{
		Time: at(t, ts),
		Low:  decimal.NewFromFloat(low),
		High: decimal.NewFromFloat(high),
	}
}

func times(bars []market.Bar) []string {
	res := make([]string, len(bars))
	for i, b := range bars {
		res[i] = b.Time.Format("2006-01-02 15:04")
	}
	return res
}
