package market

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"tc.com/price-relay/pkg/sources"
)

const coingeckoAPIURL = "https://www.coingecko.com/price_charts/14748/usd/24_hours.json"

// CoinGeckoSource reads the static 24h chart CoinGecko serves for its website.
type CoinGeckoSource struct {
	*sources.BaseSource
}

// CoinGeckoChart holds [timestamp, price] pairs in chronological order.
type CoinGeckoChart struct {
	Stats        [][]json.Number `json:"stats"`
	TotalVolumes [][]json.Number `json:"total_volumes"`
}

// NewCoinGeckoSource creates a new CoinGecko chart source.
func NewCoinGeckoSource(config map[string]interface{}) (sources.Source, error) {
	return &CoinGeckoSource{
		BaseSource: sources.NewBaseSource(sources.NameCoinGecko, sources.SourceTypeMarket, coingeckoAPIURL, config),
	}, nil
}

// FetchPrice returns the price of the last stats pair.
func (s *CoinGeckoSource) FetchPrice(ctx context.Context) (decimal.Decimal, error) {
	s.Logger().Info("Using coingecko price")

	var chart CoinGeckoChart
	if err := s.GetJSON(ctx, s.APIURL(), nil, &chart); err != nil {
		return decimal.Zero, err
	}
	if len(chart.Stats) == 0 {
		return decimal.Zero, fmt.Errorf("%w: coingecko: no stats", sources.ErrParse)
	}
	return numberAt(sources.NameCoinGecko, chart.Stats[len(chart.Stats)-1], 1)
}
