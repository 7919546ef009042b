package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gamma-omg/weekly-timing/internal/config"
	"github.com/gamma-omg/weekly-timing/internal/market"
	"github.com/shopspring/decimal"
)

// YahooLoader downloads hourly bars from the Yahoo Finance chart API.
type YahooLoader struct {
	log    *slog.Logger
	cfg    config.Yahoo
	symbol string
	client *http.Client
	now    func() time.Time
}

func NewYahooLoader(log *slog.Logger, cfg config.Yahoo, symbol string) *YahooLoader {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.Proxy != "" {
		if u, err := url.Parse(cfg.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(u)
		} else {
			log.Warn("ignoring invalid proxy url", slog.String("proxy", cfg.Proxy), slog.Any("error", err))
		}
	}

	return &YahooLoader{
		log:    log,
		cfg:    cfg,
		symbol: symbol,
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		now: time.Now,
	}
}

type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				ExchangeTimezoneName string `json:"exchangeTimezoneName"`
				GmtOffset            int    `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Low   []*float64 `json:"low"`
					High  []*float64 `json:"high"`
					Close []*float64 `json:"close"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (l *YahooLoader) chartUrl(start, end time.Time) string {
	q := url.Values{}
	q.Set("interval", "1h")
	q.Set("period1", fmt.Sprint(start.Unix()))
	q.Set("period2", fmt.Sprint(end.Unix()))
	q.Set("includePrePost", "false")

	return fmt.Sprintf("%s/v8/finance/chart/%s?%s",
		strings.TrimRight(l.cfg.BaseUrl, "/"), url.PathEscape(l.symbol), q.Encode())
}

func (l *YahooLoader) Load(ctx context.Context) ([]market.Bar, error) {
	end := l.now().UTC()
	start := end.AddDate(0, 0, -l.cfg.Days)

	chart, err := l.fetch(ctx, l.chartUrl(start, end))
	if err != nil {
		return nil, &RetrievalError{Source: "yahoo", Err: err}
	}

	bars, err := l.parse(chart)
	if err != nil {
		return nil, err
	}

	l.log.Info("downloaded hourly bars",
		slog.String("symbol", l.symbol),
		slog.Int("bars", len(bars)),
		slog.Time("start", start),
		slog.Time("end", end))

	return bars, nil
}

func (l *YahooLoader) fetch(ctx context.Context, u string) (*yahooChart, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var chart yahooChart
	decodeErr := json.Unmarshal(body, &chart)
	if decodeErr == nil && chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("failed to decode response: %w", decodeErr)
	}

	return &chart, nil
}

func (l *YahooLoader) parse(chart *yahooChart) ([]market.Bar, error) {
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, &ValidationError{Source: "yahoo", Reason: "no price data returned; the symbol may be invalid or data is unavailable"}
	}

	res := chart.Chart.Result[0]
	if len(res.Indicators.Quote) == 0 {
		return nil, &ValidationError{Source: "yahoo", Reason: "missing expected columns: High, Low"}
	}

	quote := res.Indicators.Quote[0]
	var missing []string
	if quote.High == nil {
		missing = append(missing, "High")
	}
	if quote.Low == nil {
		missing = append(missing, "Low")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Source: "yahoo", Reason: "missing expected columns: " + strings.Join(missing, ", ")}
	}

	loc, err := exchangeLocation(res.Meta.ExchangeTimezoneName, res.Meta.GmtOffset)
	if err != nil {
		l.log.Warn("falling back to exchange gmt offset", slog.Any("error", err))
	}

	var adj []*float64
	if l.cfg.AutoAdjust && len(res.Indicators.AdjClose) > 0 {
		adj = res.Indicators.AdjClose[0].AdjClose
	}

	bars := make([]market.Bar, 0, len(res.Timestamp))
	skipped := 0
	for i, ts := range res.Timestamp {
		low, high := at(quote.Low, i), at(quote.High, i)
		if low == nil || high == nil {
			skipped++
			continue
		}

		b := market.Bar{
			Time: time.Unix(ts, 0).In(loc),
			Low:  decimal.NewFromFloat(*low),
			High: decimal.NewFromFloat(*high),
		}

		if ratio, ok := adjustRatio(at(quote.Close, i), at(adj, i)); ok {
			b.Low = b.Low.Mul(ratio)
			b.High = b.High.Mul(ratio)
		}

		bars = append(bars, b)
	}

	if skipped > 0 {
		l.log.Debug("skipped bars without prices", slog.Int("count", skipped))
	}

	if len(bars) == 0 {
		return nil, &ValidationError{Source: "yahoo", Reason: "no hourly bars parsed from response"}
	}

	return bars, nil
}

func at(values []*float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	return values[i]
}

func adjustRatio(close, adjClose *float64) (decimal.Decimal, bool) {
	if close == nil || adjClose == nil || *close == 0 {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(*adjClose).Div(decimal.NewFromFloat(*close)), true
}

func exchangeLocation(name string, gmtOffset int) (*time.Location, error) {
	fixed := time.FixedZone("", gmtOffset)
	if name == "" {
		return fixed, errors.New("response has no exchange timezone")
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return fixed, err
	}

	return loc, nil
}
