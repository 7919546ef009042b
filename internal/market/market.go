package market

import (
	"errors"
	"slices"
)

var ErrEmptySeries = errors.New("no price bars loaded")

// Series is a read-only, time-ordered collection of hourly bars for one symbol.
type Series struct {
	Symbol string
	bars   []Bar
}

func NewSeries(symbol string, bars []Bar) (*Series, error) {
	if len(bars) == 0 {
		return nil, ErrEmptySeries
	}

	sorted := slices.Clone(bars)
	slices.SortStableFunc(sorted, func(a, b Bar) int {
		return a.Time.Compare(b.Time)
	})

	return &Series{
		Symbol: symbol,
		bars:   sorted,
	}, nil
}

// Bars returns a copy so callers cannot reorder the series.
func (s *Series) Bars() []Bar {
	return slices.Clone(s.bars)
}

func (s *Series) Len() int {
	return len(s.bars)
}

func (s *Series) First() Bar {
	return s.bars[0]
}

func (s *Series) Last() Bar {
	return s.bars[len(s.bars)-1]
}
