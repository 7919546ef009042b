package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gamma-omg/weekly-timing/internal/analysis"
	"github.com/gamma-omg/weekly-timing/internal/config"
	"github.com/gamma-omg/weekly-timing/internal/report"
	"github.com/gamma-omg/weekly-timing/internal/source"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatal(err)
	}

	o, cfgPath, err := parseArgs(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal(err)
	}

	cfg, err := loadConfig(cfgPath, o)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := run(ctx, logger, cfg, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func parseArgs(args []string, output io.Writer) (o config.Overrides, cfgPath string, err error) {
	flags := flag.NewFlagSet("weekly-timing", flag.ContinueOnError)
	flags.SetOutput(output)
	flags.Usage = func() {
		fmt.Fprintln(output, "Analyze weekly highs/lows and timing from hourly stock data.")
		fmt.Fprintln(output, "\nUsage: weekly-timing [flags] SYMBOL")
		flags.PrintDefaults()
	}

	flags.StringVar(&cfgPath, "config", os.Getenv("CONFIG"), "YAML config file")
	flags.IntVar(&o.Days, "days", 0, fmt.Sprintf("number of calendar days of hourly data to download (default %d)", config.DefaultDays))
	flags.StringVar(&o.Week, "week", "", "target week start date (YYYY-MM-DD), defaults to the last week present in the data")
	flags.IntVar(&o.Window, "window", 0, fmt.Sprintf("number of weeks, including the target week, to average for timing analysis (default %d)", config.DefaultWindow))
	flags.BoolVar(&o.NoAutoAdjust, "no-auto-adjust", false, "disable auto-adjustment for splits/dividends when fetching data")
	flags.StringVar(&o.Data, "data", "", "CSV file with columns timestamp,low,high; skips the download when provided")
	flags.StringVar(&o.Json, "json", "", "write the report as JSON to this file")
	flags.StringVar(&o.Chart, "chart", "", "write a PNG chart of the window to this file")

	// flags may follow the symbol
	var positional []string
	for {
		if err = flags.Parse(args); err != nil {
			return
		}

		args = flags.Args()
		if len(args) == 0 {
			break
		}

		positional = append(positional, args[0])
		args = args[1:]
	}

	if len(positional) > 1 {
		err = fmt.Errorf("expected a single symbol, got %d arguments", len(positional))
		return
	}
	if len(positional) == 1 {
		o.Symbol = positional[0]
	}

	return
}

func loadConfig(path string, o config.Overrides) (config.Config, error) {
	cfg := config.Defaults()
	if path != "" {
		c, err := config.ReadFromFile(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = *c
	}

	cfg = cfg.Apply(o)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func run(ctx context.Context, logger *slog.Logger, cfg config.Config, out io.Writer) error {
	l, err := source.New(logger, cfg)
	if err != nil {
		return fmt.Errorf("failed to create data source: %w", err)
	}

	series, err := source.Load(ctx, cfg.Symbol, l)
	if err != nil {
		return fmt.Errorf("failed to load price data: %w", err)
	}

	logger.Info("price data loaded",
		slog.String("symbol", cfg.Symbol),
		slog.Int("bars", series.Len()),
		slog.Time("first", series.First().Time),
		slog.Time("last", series.Last().Time))

	r, err := analysis.NewAnalyzer(logger, cfg.Analysis).Run(series)
	if err != nil {
		return err
	}

	if err := report.WriteText(out, r); err != nil {
		return err
	}

	return writeOutputs(logger, cfg.Output, r)
}

func writeOutputs(logger *slog.Logger, cfg config.Output, r *analysis.Report) error {
	var g errgroup.Group

	if cfg.Json != "" {
		g.Go(func() error {
			if err := report.WriteJsonFile(cfg.Json, r); err != nil {
				return err
			}
			logger.Info("json report written", slog.String("path", cfg.Json))
			return nil
		})
	}

	if cfg.Chart != "" {
		g.Go(func() error {
			if err := report.WriteChart(cfg.Chart, r); err != nil {
				return err
			}
			logger.Info("chart written", slog.String("path", cfg.Chart))
			return nil
		})
	}

	return g.Wait()
}
