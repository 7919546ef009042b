package market

import (
	"time"

	"github.com/shopspring/decimal"
)

type Bar struct {
	Time time.Time
	Low  decimal.Decimal
	High decimal.Decimal
}

func (b Bar) DayName() string {
	return b.Time.Weekday().String()
}

func (b Bar) TimeOfDay() string {
	return b.Time.Format("15:04")
}
