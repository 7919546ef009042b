package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gamma-omg/weekly-timing/internal/analysis"
	"github.com/gamma-omg/weekly-timing/internal/market"
	"github.com/shopspring/decimal"
)

type JsonReport struct {
	Symbol       string     `json:"symbol,omitempty"`
	Week         string     `json:"week"`
	WeekStart    time.Time  `json:"week_start"`
	TopLows      []JsonBar  `json:"top_lows"`
	TopHighs     []JsonBar  `json:"top_highs"`
	WindowWeeks  int        `json:"window_weeks"`
	Window       []JsonWeek `json:"window"`
	AvgLowTime   string     `json:"avg_low_time"`
	AvgHighTime  string     `json:"avg_high_time"`
	MissingWeeks int        `json:"missing_weeks,omitempty"`
}

type JsonBar struct {
	Time      time.Time `json:"time"`
	Day       string    `json:"day"`
	TimeOfDay string    `json:"time_of_day"`
	Price     string    `json:"price"`
}

type JsonWeek struct {
	Week  string   `json:"week"`
	Start string   `json:"start"`
	Low   *JsonBar `json:"low,omitempty"`
	High  *JsonBar `json:"high,omitempty"`
}

func newJsonBar(b market.Bar, price decimal.Decimal) JsonBar {
	return JsonBar{
		Time:      b.Time,
		Day:       b.DayName(),
		TimeOfDay: b.TimeOfDay(),
		Price:     price.String(),
	}
}

func NewJsonReport(r *analysis.Report) JsonReport {
	res := JsonReport{
		Symbol:       r.Symbol,
		Week:         analysis.DescribeWeek(r.WeekStart),
		WeekStart:    r.WeekStart,
		TopLows:      make([]JsonBar, len(r.Lows)),
		TopHighs:     make([]JsonBar, len(r.Highs)),
		WindowWeeks:  r.WindowWeeks,
		Window:       make([]JsonWeek, len(r.Window.Weeks)),
		AvgLowTime:   r.AvgLow.String(),
		AvgHighTime:  r.AvgHigh.String(),
		MissingWeeks: r.Window.MissingWeeks(),
	}

	for i, b := range r.Lows {
		res.TopLows[i] = newJsonBar(b, b.Low)
	}
	for i, b := range r.Highs {
		res.TopHighs[i] = newJsonBar(b, b.High)
	}

	for i, ws := range r.Window.Weeks {
		week := JsonWeek{
			Week:  ws.Label(),
			Start: ws.Start.Format(time.DateOnly),
		}
		if ws.HasData {
			low := newJsonBar(ws.Low, ws.Low.Low)
			high := newJsonBar(ws.High, ws.High.High)
			week.Low = &low
			week.High = &high
		}
		res.Window[i] = week
	}

	return res
}

func WriteJson(w io.Writer, r *analysis.Report) error {
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	if err := e.Encode(NewJsonReport(r)); err != nil {
		return fmt.Errorf("failed to write json report: %w", err)
	}

	return nil
}

func WriteJsonFile(path string, r *analysis.Report) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create json report: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close json report: %w", cerr)
		}
	}()

	return WriteJson(f, r)
}
