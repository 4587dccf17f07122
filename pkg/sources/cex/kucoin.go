package cex

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"
	"tc.com/price-relay/pkg/sources"
)

const (
	kucoinAPIURL      = "https://api.kucoin.com/api/v1/market/orderbook/level1"
	kucoinSymbol      = "DPR-USDT"
	kucoinSuccessCode = "200000"
)

// KucoinSource reads the last trade price from Kucoin's level-1 order book.
type KucoinSource struct {
	*sources.BaseSource

	symbol string
}

// KucoinLevel1 is the level-1 snapshot. Numeric fields are strings on the wire.
type KucoinLevel1 struct {
	Time        int64   `json:"time"`
	Sequence    string  `json:"sequence"`
	Price       *string `json:"price"`
	Size        string  `json:"size"`
	BestBid     string  `json:"bestBid"`
	BestBidSize string  `json:"bestBidSize"`
	BestAsk     string  `json:"bestAsk"`
	BestAskSize string  `json:"bestAskSize"`
}

// KucoinResponse represents the API response.
type KucoinResponse struct {
	Code string        `json:"code"`
	Msg  string        `json:"msg"`
	Data *KucoinLevel1 `json:"data"`
}

// NewKucoinSource creates a new Kucoin level-1 source.
func NewKucoinSource(config map[string]interface{}) (sources.Source, error) {
	return &KucoinSource{
		BaseSource: sources.NewBaseSource(sources.NameKucoin, sources.SourceTypeCEX, kucoinAPIURL, config),
		symbol:     sources.GetString(config, "symbol", kucoinSymbol),
	}, nil
}

// FetchPrice returns data.price.
func (s *KucoinSource) FetchPrice(ctx context.Context) (decimal.Decimal, error) {
	s.Logger().Info("Using kucoin price")

	var response KucoinResponse
	if err := s.GetJSON(ctx, s.APIURL()+"?symbol="+url.QueryEscape(s.symbol), nil, &response); err != nil {
		return decimal.Zero, err
	}
	return parseKucoin(response)
}

func parseKucoin(response KucoinResponse) (decimal.Decimal, error) {
	if response.Code != "" && response.Code != kucoinSuccessCode {
		return decimal.Zero, fmt.Errorf("%w: %w: kucoin code %s: %s", sources.ErrFetch, sources.ErrAPIError, response.Code, response.Msg)
	}
	if response.Data == nil || response.Data.Price == nil {
		return decimal.Zero, fmt.Errorf("%w: kucoin: missing data.price", sources.ErrParse)
	}
	return sources.ParseDecimal(*response.Data.Price)
}
