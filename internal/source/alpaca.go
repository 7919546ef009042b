package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/gamma-omg/weekly-timing/internal/config"
	"github.com/gamma-omg/weekly-timing/internal/market"
	"github.com/shopspring/decimal"
)

// AlpacaLoader downloads hourly stock bars from the Alpaca market data API.
type AlpacaLoader struct {
	log    *slog.Logger
	cfg    config.Alpaca
	symbol string
	api    alpacaApi
	loc    *time.Location
	now    func() time.Time
}

func NewAlpacaLoader(log *slog.Logger, cfg config.Alpaca, symbol string) (*AlpacaLoader, error) {
	if cfg.ApiKey == "" {
		cfg.ApiKey = os.Getenv("APCA_API_KEY_ID")
	}
	if cfg.Secret == "" {
		cfg.Secret = os.Getenv("APCA_API_SECRET_KEY")
	}

	return newAlpacaLoader(log, cfg, symbol, newAlpacaMarketData(cfg.ApiKey, cfg.Secret, cfg.BaseUrl))
}

func newAlpacaLoader(log *slog.Logger, cfg config.Alpaca, symbol string, api alpacaApi) (*AlpacaLoader, error) {
	loc, err := loadLocation(cfg.Timezone, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("unable to create alpaca loader: %w", err)
	}

	return &AlpacaLoader{
		log:    log,
		cfg:    cfg,
		symbol: symbol,
		api:    api,
		loc:    loc,
		now:    time.Now,
	}, nil
}

func (l *AlpacaLoader) request() marketdata.GetBarsRequest {
	end := l.now().UTC()

	adj := marketdata.Raw
	if l.cfg.AutoAdjust {
		adj = marketdata.All
	}

	return marketdata.GetBarsRequest{
		TimeFrame:  marketdata.OneHour,
		Adjustment: adj,
		Start:      end.AddDate(0, 0, -l.cfg.Days),
		End:        end,
		Feed:       marketdata.Feed(l.cfg.Feed),
	}
}

func (l *AlpacaLoader) Load(ctx context.Context) ([]market.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := l.request()
	data, err := l.api.GetBars(l.symbol, req)
	if err != nil {
		return nil, &RetrievalError{Source: "alpaca", Err: err}
	}

	if len(data) == 0 {
		return nil, &ValidationError{Source: "alpaca", Reason: "no price data returned; the symbol may be invalid or data is unavailable"}
	}

	bars := make([]market.Bar, len(data))
	for i, b := range data {
		bars[i] = market.Bar{
			Time: b.Timestamp.In(l.loc),
			Low:  decimal.NewFromFloat(b.Low),
			High: decimal.NewFromFloat(b.High),
		}
	}

	l.log.Info("downloaded hourly bars",
		slog.String("symbol", l.symbol),
		slog.Int("bars", len(bars)),
		slog.Time("start", req.Start),
		slog.Time("end", req.End))

	return bars, nil
}
