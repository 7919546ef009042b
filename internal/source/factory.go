package source

import (
	"errors"
	"log/slog"

	"github.com/gamma-omg/weekly-timing/internal/config"
)

func New(log *slog.Logger, cfg config.Config) (Loader, error) {
	csvCfg, ok := cfg.SourceRef.Source.(config.CSV)
	if ok {
		return NewCSVLoader(csvCfg)
	}

	yahooCfg, ok := cfg.SourceRef.Source.(config.Yahoo)
	if ok {
		return NewYahooLoader(log, yahooCfg, cfg.Symbol), nil
	}

	alpacaCfg, ok := cfg.SourceRef.Source.(config.Alpaca)
	if ok {
		return NewAlpacaLoader(log, alpacaCfg, cfg.Symbol)
	}

	return nil, errors.New("unknown data source")
}
