package source

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/gamma-omg/weekly-timing/internal/config"
	"github.com/gamma-omg/weekly-timing/internal/market"
	"github.com/shopspring/decimal"
)

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	time.DateOnly,
}

type CSVLoader struct {
	path string
	loc  *time.Location
}

func NewCSVLoader(cfg config.CSV) (*CSVLoader, error) {
	loc, err := loadLocation(cfg.Timezone, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("unable to create csv loader: %w", err)
	}

	return &CSVLoader{
		path: cfg.Path,
		loc:  loc,
	}, nil
}

func (l *CSVLoader) Load(ctx context.Context) ([]market.Bar, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, &RetrievalError{Source: "csv", Err: err}
	}
	defer f.Close()

	return readBars(ctx, bufio.NewReader(f), l.loc)
}

// readBars reads rows with timestamp, low and high columns; other columns are ignored.
// Timestamps without an offset are interpreted in loc.
func readBars(ctx context.Context, r io.Reader, loc *time.Location) ([]market.Bar, error) {
	rdr := csv.NewReader(r)
	rdr.FieldsPerRecord = -1

	header, err := rdr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ValidationError{Source: "csv", Reason: "no price points loaded"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, name := range []string{"timestamp", "low", "high"} {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return nil, &ValidationError{Source: "csv", Reason: "missing required columns: " + strings.Join(missing, ", ")}
	}

	var bars []market.Bar
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := rdr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read bar data: %w", err)
		}

		bar, err := parseRow(data, cols, loc)
		if err != nil {
			return nil, &ValidationError{Source: "csv", Reason: fmt.Sprintf("line %d: %v", line, err)}
		}

		bars = append(bars, bar)
	}

	if len(bars) == 0 {
		return nil, &ValidationError{Source: "csv", Reason: "no price points loaded"}
	}

	return bars, nil
}

func parseRow(data []string, cols map[string]int, loc *time.Location) (b market.Bar, err error) {
	field := func(name string) (string, error) {
		i := cols[name]
		if i >= len(data) {
			return "", fmt.Errorf("missing %s value", name)
		}
		return strings.TrimSpace(data[i]), nil
	}

	ts, err := field("timestamp")
	if err != nil {
		return
	}
	if b.Time, err = parseTimestamp(ts, loc); err != nil {
		return
	}

	low, err := field("low")
	if err != nil {
		return
	}
	if b.Low, err = decimal.NewFromString(low); err != nil {
		err = fmt.Errorf("failed to read low price: %w", err)
		return
	}

	high, err := field("high")
	if err != nil {
		return
	}
	if b.High, err = decimal.NewFromString(high); err != nil {
		err = fmt.Errorf("failed to read high price: %w", err)
		return
	}

	return
}

func parseTimestamp(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("failed to parse bar time %q", s)
}
