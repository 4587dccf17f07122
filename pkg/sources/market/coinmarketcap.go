package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
	"tc.com/price-relay/pkg/sources"
)

const (
	coinmarketcapAPIURL  = "https://api.coinmarketcap.com/data-api/v3/cryptocurrency/detail/chart"
	coinmarketcapAssetID = "8894"
	coinmarketcapRange   = "1D"
)

// CoinMarketCapSource reads the newest point of CoinMarketCap's public chart data.
type CoinMarketCapSource struct {
	*sources.BaseSource

	assetID   string
	dataRange string
}

// CoinMarketCapPoint is one chart point; V[0] is the USD price.
type CoinMarketCapPoint struct {
	V []json.Number `json:"v"`
}

// CoinMarketCapChart is the chart detail response. Points are keyed by unix
// timestamp rendered as a string.
type CoinMarketCapChart struct {
	Data *struct {
		Points map[string]CoinMarketCapPoint `json:"points"`
	} `json:"data"`
}

// NewCoinMarketCapSource creates a new CoinMarketCap chart source.
func NewCoinMarketCapSource(config map[string]interface{}) (sources.Source, error) {
	if _, ok := config["user_agent"]; !ok {
		config = withDefault(config, "user_agent", browserUserAgent)
	}
	return &CoinMarketCapSource{
		BaseSource: sources.NewBaseSource(sources.NameCoinMarketCap, sources.SourceTypeMarket, coinmarketcapAPIURL, config),
		assetID:    sources.GetString(config, "asset_id", coinmarketcapAssetID),
		dataRange:  sources.GetString(config, "range", coinmarketcapRange),
	}, nil
}

// FetchPrice returns the first value of the point with the greatest timestamp.
func (s *CoinMarketCapSource) FetchPrice(ctx context.Context) (decimal.Decimal, error) {
	s.Logger().Info("Using coinmarketcap price")

	params := url.Values{}
	params.Set("id", s.assetID)
	params.Set("range", s.dataRange)

	var chart CoinMarketCapChart
	if err := s.GetJSON(ctx, s.APIURL()+"?"+params.Encode(), nil, &chart); err != nil {
		return decimal.Zero, err
	}
	return parseCoinMarketCap(chart)
}

func parseCoinMarketCap(chart CoinMarketCapChart) (decimal.Decimal, error) {
	if chart.Data == nil || len(chart.Data.Points) == 0 {
		return decimal.Zero, fmt.Errorf("%w: coinmarketcap: no chart points", sources.ErrParse)
	}

	var (
		latest    uint64
		latestKey string
	)
	for key := range chart.Data.Points {
		ts, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: coinmarketcap: point key %q: %w", sources.ErrParse, key, err)
		}
		if latestKey == "" || ts > latest {
			latest, latestKey = ts, key
		}
	}

	return numberAt(sources.NameCoinMarketCap, chart.Data.Points[latestKey].V, 0)
}
