package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultWindow   = 12
	DefaultDays     = 60
	DefaultTimezone = "America/New_York"
	DefaultYahooUrl = "https://query1.finance.yahoo.com"
)

type Config struct {
	Symbol    string          `yaml:"symbol"`
	Analysis  Analysis        `yaml:"analysis"`
	SourceRef SourceReference `yaml:"source"`
	Output    Output          `yaml:"output"`
}

type Analysis struct {
	Week   string `yaml:"week"`
	Window int    `yaml:"window"`
}

type Output struct {
	Json  string `yaml:"json"`
	Chart string `yaml:"chart"`
}

func Defaults() Config {
	return Config{
		Analysis:  Analysis{Window: DefaultWindow},
		SourceRef: SourceReference{Source: defaultYahoo()},
	}
}

func Read(r io.Reader) (*Config, error) {
	cfg := Defaults()
	d := yaml.NewDecoder(r)
	err := d.Decode(&cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unable to parse config file: %w", err)
	}

	return &cfg, nil
}

func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Overrides are the command line values; zero values leave the config untouched.
type Overrides struct {
	Symbol       string
	Days         int
	Week         string
	Window       int
	NoAutoAdjust bool
	Data         string
	Json         string
	Chart        string
}

func (c Config) Apply(o Overrides) Config {
	if o.Symbol != "" {
		c.Symbol = o.Symbol
	}
	if o.Week != "" {
		c.Analysis.Week = o.Week
	}
	if o.Window != 0 {
		c.Analysis.Window = o.Window
	}
	if o.Json != "" {
		c.Output.Json = o.Json
	}
	if o.Chart != "" {
		c.Output.Chart = o.Chart
	}

	if o.Data != "" {
		csv := CSV{Path: o.Data}
		if cur, ok := c.SourceRef.Source.(CSV); ok {
			csv.Timezone = cur.Timezone
		}
		c.SourceRef.Source = csv
		return c
	}

	switch src := c.SourceRef.Source.(type) {
	case Yahoo:
		if o.Days != 0 {
			src.Days = o.Days
		}
		if o.NoAutoAdjust {
			src.AutoAdjust = false
		}
		c.SourceRef.Source = src
	case Alpaca:
		if o.Days != 0 {
			src.Days = o.Days
		}
		if o.NoAutoAdjust {
			src.AutoAdjust = false
		}
		c.SourceRef.Source = src
	}

	return c
}

func (c Config) Validate() error {
	if c.Analysis.Window < 1 {
		return fmt.Errorf("invalid window: %d, at least one week is required", c.Analysis.Window)
	}

	switch src := c.SourceRef.Source.(type) {
	case CSV:
		if src.Path == "" {
			return errors.New("csv source requires a data path")
		}
	case Yahoo:
		return validateRemote(c.Symbol, src.Days)
	case Alpaca:
		return validateRemote(c.Symbol, src.Days)
	default:
		return errors.New("no data source configured")
	}

	return nil
}

func validateRemote(symbol string, days int) error {
	if symbol == "" {
		return errors.New("symbol is required to fetch remote data")
	}
	if days < 1 {
		return fmt.Errorf("invalid days: %d", days)
	}
	return nil
}

type SourceReference struct {
	Source Source
}

type Source interface{}

// source configs

type CSV struct {
	Path     string `yaml:"path"`
	Timezone string `yaml:"timezone"`
}

type Yahoo struct {
	BaseUrl    string        `yaml:"base_url"`
	Days       int           `yaml:"days"`
	AutoAdjust bool          `yaml:"auto_adjust"`
	Timeout    time.Duration `yaml:"timeout"`
	Proxy      string        `yaml:"proxy"`
}

func defaultYahoo() Yahoo {
	return Yahoo{
		BaseUrl:    DefaultYahooUrl,
		Days:       DefaultDays,
		AutoAdjust: true,
		Timeout:    30 * time.Second,
	}
}

type Alpaca struct {
	BaseUrl    string `yaml:"base_url"`
	ApiKey     string `yaml:"api_key"`
	Secret     string `yaml:"secret"`
	Feed       string `yaml:"feed"`
	Days       int    `yaml:"days"`
	AutoAdjust bool   `yaml:"auto_adjust"`
	Timezone   string `yaml:"timezone"`
}

func defaultAlpaca() Alpaca {
	return Alpaca{
		Days:       DefaultDays,
		AutoAdjust: true,
		Timezone:   DefaultTimezone,
	}
}

func (w *SourceReference) UnmarshalYAML(value *yaml.Node) error {
	if len(value.Content) == 0 {
		return nil
	}

	if value.Kind != yaml.MappingNode || len(value.Content) != 2 {
		return errors.New("invalid source yaml format")
	}

	key := value.Content[0].Value
	switch key {
	case "csv":
		var csv CSV
		if err := value.Content[1].Decode(&csv); err != nil {
			return fmt.Errorf("failed parsing csv source config: %w", err)
		}
		w.Source = csv
	case "yahoo":
		yahoo := defaultYahoo()
		if err := value.Content[1].Decode(&yahoo); err != nil {
			return fmt.Errorf("failed parsing yahoo source config: %w", err)
		}
		w.Source = yahoo
	case "alpaca":
		alpaca := defaultAlpaca()
		if err := value.Content[1].Decode(&alpaca); err != nil {
			return fmt.Errorf("failed parsing Alpaca source config: %w", err)
		}
		w.Source = alpaca
	default:
		return fmt.Errorf("unknown source type: %s", key)
	}

	return nil
}
