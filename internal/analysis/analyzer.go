package analysis

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gamma-omg/weekly-timing/internal/config"
	"github.com/gamma-omg/weekly-timing/internal/market"
)

type Timing struct {
	Minutes int
	Valid   bool
}

func NewTiming(ts []time.Time) Timing {
	m, ok := AverageMinutes(ts)
	return Timing{Minutes: m, Valid: ok}
}

func (t Timing) String() string {
	return FormatMinutes(t.Minutes, t.Valid)
}

type Report struct {
	Symbol      string
	WeekStart   time.Time
	Lows        []market.Bar
	Highs       []market.Bar
	WindowWeeks int
	Window      Window
	AvgLow      Timing
	AvgHigh     Timing
}

type Analyzer struct {
	log *slog.Logger
	cfg config.Analysis
}

func NewAnalyzer(log *slog.Logger, cfg config.Analysis) *Analyzer {
	return &Analyzer{
		log: log,
		cfg: cfg,
	}
}

// ParseWeek parses a target week given either as a date, interpreted in loc,
// or as a full timestamp.
func ParseWeek(s string, loc *time.Location) (time.Time, error) {
	layouts := []string{time.DateOnly, "2006-01-02T15:04:05", "2006-01-02 15:04:05"}
	for _, l := range layouts {
		if t, err := time.ParseInLocation(l, s, loc); err == nil {
			return t, nil
		}
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid week %q: expected YYYY-MM-DD", s)
	}

	return t, nil
}

func (a *Analyzer) targetWeek(s *market.Series) (time.Time, error) {
	last := s.Last().Time
	if a.cfg.Week == "" {
		return BeginningOfWeek(last), nil
	}

	t, err := ParseWeek(a.cfg.Week, last.Location())
	if err != nil {
		return time.Time{}, err
	}

	return BeginningOfWeek(t), nil
}

func (a *Analyzer) Run(s *market.Series) (*Report, error) {
	weekStart, err := a.targetWeek(s)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve target week: %w", err)
	}

	bars := s.Bars()
	lows, highs, err := WeeklyExtremes(bars, weekStart)
	if err != nil {
		return nil, fmt.Errorf("failed to compute weekly extremes: %w", err)
	}

	weeks := a.cfg.Window
	if weeks <= 0 {
		weeks = config.DefaultWindow
	}

	w, err := Aggregate(bars, weekStart, weeks)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate %d-week window: %w", weeks, err)
	}

	for _, ws := range w.Weeks {
		if !ws.HasData {
			a.log.Warn("no data for week", slog.String("week", ws.Label()))
		}
	}

	r := &Report{
		Symbol:      s.Symbol,
		WeekStart:   weekStart,
		Lows:        lows,
		Highs:       highs,
		WindowWeeks: weeks,
		Window:      w,
		AvgLow:      NewTiming(w.LowTimes),
		AvgHigh:     NewTiming(w.HighTimes),
	}

	a.log.Info("analysis complete",
		slog.String("symbol", r.Symbol),
		slog.String("week", DescribeWeek(weekStart)),
		slog.Int("window", weeks),
		slog.Int("missing_weeks", w.MissingWeeks()),
		slog.String("avg_low", r.AvgLow.String()),
		slog.String("avg_high", r.AvgHigh.String()))

	return r, nil
}
