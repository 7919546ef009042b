package source

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/gamma-omg/weekly-timing/internal/market"
)

// Loader yields the raw hourly bars of a single symbol.
type Loader interface {
	Load(ctx context.Context) ([]market.Bar, error)
}

// RetrievalError is returned when a data source cannot be reached or refuses the request.
type RetrievalError struct {
	Source string
	Err    error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("%s retrieval failed: %v", e.Source, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// ValidationError is returned when retrieved data is empty or incomplete.
type ValidationError struct {
	Source string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s data: %s", e.Source, e.Reason)
}

// Load runs l and returns its bars as a sorted series.
func Load(ctx context.Context, symbol string, l Loader) (*market.Series, error) {
	bars, err := l.Load(ctx)
	if err != nil {
		return nil, err
	}

	if len(bars) == 0 {
		return nil, &ValidationError{Source: symbol, Reason: "no price points loaded"}
	}

	return market.NewSeries(symbol, bars)
}

func loadLocation(name string, fallback *time.Location) (*time.Location, error) {
	if name == "" {
		return fallback, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}

	return loc, nil
}
