package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gamma-omg/weekly-timing/internal/analysis"
	"github.com/gamma-omg/weekly-timing/internal/config"
	"github.com/gamma-omg/weekly-timing/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCsv = `timestamp,low,high
2024-01-02 09:00:00,100,101
2024-01-02 15:00:00,102,105
2024-01-16 10:00:00,98,99
2024-01-18 14:00:00,99,104
2024-01-22 09:00:00,10,11
2024-01-22 15:00:00,19,20
2024-01-23 09:00:00,10,11
2024-01-23 14:00:00,17,18
2024-01-24 10:00:00,12,13
2024-01-25 11:00:00,21,22
`

func writeFile(t *testing.T, name, src string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestParseArgs(t *testing.T) {
	o, cfgPath, err := parseArgs([]string{
		"--days", "30", "AAPL", "--week", "2024-01-01", "--window", "4", "--no-auto-adjust",
		"--data", "bars.csv", "--json", "r.json", "--chart", "r.png", "--config", "c.yaml",
	}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "c.yaml", cfgPath)
	assert.Equal(t, config.Overrides{
		Symbol:       "AAPL",
		Days:         30,
		Week:         "2024-01-01",
		Window:       4,
		NoAutoAdjust: true,
		Data:         "bars.csv",
		Json:         "r.json",
		Chart:        "r.png",
	}, o)
}

func TestParseArgs_errors(t *testing.T) {
	_, _, err := parseArgs([]string{"AAPL", "MSFT"}, io.Discard)
	assert.Error(t, err)

	_, _, err = parseArgs([]string{"--window", "many"}, io.Discard)
	assert.Error(t, err)

	_, _, err = parseArgs([]string{"-h"}, io.Discard)
	assert.True(t, errors.Is(err, flag.ErrHelp))
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "config.yaml", `
symbol: MSFT
analysis:
    window: 6
source:
    csv:
        path: /var/data/msft.csv
`)

	cfg, err := loadConfig(path, config.Overrides{Window: 3})
	require.NoError(t, err)

	assert.Equal(t, "MSFT", cfg.Symbol)
	assert.Equal(t, 3, cfg.Analysis.Window)
	csv, ok := cfg.SourceRef.Source.(config.CSV)
	require.True(t, ok)
	assert.Equal(t, "/var/data/msft.csv", csv.Path)

	_, err = loadConfig("", config.Overrides{})
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Defaults().Apply(config.Overrides{
		Symbol: "TEST",
		Window: 4,
		Data:   writeFile(t, "bars.csv", testCsv),
		Json:   filepath.Join(dir, "report.json"),
		Chart:  filepath.Join(dir, "chart.png"),
	})
	require.NoError(t, cfg.Validate())

	var out bytes.Buffer
	err := run(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)), cfg, &out)
	require.NoError(t, err)

	assert.Equal(t, `Weekly highs/lows for 2024-01-22 to 2024-01-28

Top 3 lows:
  $10.00 on Monday at 09:00
  $10.00 on Tuesday at 09:00
  $12.00 on Wednesday at 10:00

Top 3 highs:
  $22.00 on Thursday at 11:00
  $20.00 on Monday at 15:00
  $18.00 on Tuesday at 14:00

4-week window (including target week):
  Week 2024-01-01 to 2024-01-07: low $100.00 at 09:00, high $105.00 at 15:00
  Week 2024-01-08 to 2024-01-14: no data available
  Week 2024-01-15 to 2024-01-21: low $98.00 at 10:00, high $104.00 at 14:00
  Week 2024-01-22 to 2024-01-28: low $10.00 at 09:00, high $22.00 at 11:00

Average time of weekly lows: 09:20
Average time of weekly highs: 13:20
`, out.String())

	assert.FileExists(t, filepath.Join(dir, "report.json"))
	assert.FileExists(t, filepath.Join(dir, "chart.png"))
}

func TestRun_missingTargetWeek(t *testing.T) {
	cfg := config.Defaults().Apply(config.Overrides{
		Week: "2024-01-08",
		Data: writeFile(t, "bars.csv", testCsv),
	})

	err := run(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)), cfg, io.Discard)

	var noData *analysis.NoDataError
	assert.True(t, errors.As(err, &noData))
}

func TestRun_invalidData(t *testing.T) {
	cfg := config.Defaults().Apply(config.Overrides{
		Data: writeFile(t, "bars.csv", "timestamp,close\n2024-01-01,1\n"),
	})

	err := run(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)), cfg, io.Discard)

	var verr *source.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestWriteOutputs(t *testing.T) {
	start := time.Date(2024, 1, 22, 0, 0, 0, 0, time.UTC)
	r := &analysis.Report{
		Symbol:      "TEST",
		WeekStart:   start,
		WindowWeeks: 2,
		Window: analysis.Window{Weeks: []analysis.WeekSummary{
			{Start: start.AddDate(0, 0, -7)},
			{Start: start},
		}},
	}

	dir := t.TempDir()
	tbl := []struct {
		out config.Output
		err bool
	}{
		{out: config.Output{Json: filepath.Join(dir, "report.json"), Chart: filepath.Join(dir, "chart.png")}},
		{out: config.Output{Json: filepath.Join(dir, "missing", "report.json")}, err: true},
		{out: config.Output{}},
	}

	for i, c := range tbl {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			err := writeOutputs(slog.New(slog.NewTextHandler(io.Discard, nil)), c.out, r)
			if c.err {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			if c.out.Json != "" {
				assert.FileExists(t, c.out.Json)
			}
			if c.out.Chart != "" {
				assert.FileExists(t, c.out.Chart)
			}
		})
	}
}
