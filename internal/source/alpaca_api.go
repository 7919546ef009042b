package source

import (
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

type alpacaApi interface {
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
}

type alpacaMarketData struct {
	client *marketdata.Client
}

func newAlpacaMarketData(apiKey string, secret string, baseUrl string) *alpacaMarketData {
	return &alpacaMarketData{
		client: marketdata.NewClient(marketdata.ClientOpts{
			BaseURL:   baseUrl,
			APIKey:    apiKey,
			APISecret: secret,
		}),
	}
}

func (a *alpacaMarketData) GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error) {
	return a.client.GetBars(symbol, req)
}
