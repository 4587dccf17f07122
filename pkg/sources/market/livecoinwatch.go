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
	livecoinwatchAPIURL   = "https://http-api.livecoinwatch.com/coins/history/range"
	livecoinwatchCoin     = "DPR"
	livecoinwatchCurrency = "USD"
	livecoinwatchWindow   = 24 * 60 * 60 * 1000 // milliseconds
)

// LiveCoinWatchSource reads the most recent entry of LiveCoinWatch's history range.
type LiveCoinWatchSource struct {
	*sources.BaseSource

	coin     string
	currency string
}

// LiveCoinWatchPoint is one history entry.
type LiveCoinWatchPoint struct {
	Date   int64        `json:"date"`
	Rate   *json.Number `json:"rate"`
	Volume json.Number  `json:"volume"`
	Cap    json.Number  `json:"cap"`
}

// LiveCoinWatchHistory is the range response; Data is chronological.
type LiveCoinWatchHistory struct {
	Success bool                 `json:"success"`
	Coin    string               `json:"coin"`
	Data    []LiveCoinWatchPoint `json:"data"`
}

// NewLiveCoinWatchSource creates a new LiveCoinWatch source.
func NewLiveCoinWatchSource(config map[string]interface{}) (sources.Source, error) {
	return &LiveCoinWatchSource{
		BaseSource: sources.NewBaseSource(sources.NameLiveCoinWatch, sources.SourceTypeMarket, livecoinwatchAPIURL, config),
		coin:       sources.GetString(config, "coin", livecoinwatchCoin),
		currency:   sources.GetString(config, "currency", livecoinwatchCurrency),
	}, nil
}

// FetchPrice returns the rate of the last history entry.
func (s *LiveCoinWatchSource) FetchPrice(ctx context.Context) (decimal.Decimal, error) {
	s.Logger().Info("Using coinwatch price")

	now := s.Clock().NowMillis()
	params := url.Values{}
	params.Set("coin", s.coin)
	params.Set("start", strconv.FormatInt(now-livecoinwatchWindow, 10))
	params.Set("end", strconv.FormatInt(now, 10))
	params.Set("currency", s.currency)

	var history LiveCoinWatchHistory
	if err := s.GetJSON(ctx, s.APIURL()+"?"+params.Encode(), nil, &history); err != nil {
		return decimal.Zero, err
	}
	if len(history.Data) == 0 {
		return decimal.Zero, fmt.Errorf("%w: livecoinwatch: empty history", sources.ErrParse)
	}

	last := history.Data[len(history.Data)-1]
	if last.Rate == nil {
		return decimal.Zero, fmt.Errorf("%w: livecoinwatch: missing rate", sources.ErrParse)
	}
	return sources.ParseDecimal(last.Rate.String())
}
