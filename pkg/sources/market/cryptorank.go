package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"
	"tc.com/price-relay/pkg/sources"
)

const (
	cryptorankAPIURL = "https://api.cryptorank.io/v0/coins/"
	cryptorankSlug   = "deeper-network"
)

// CryptorankSource reads a coin document from Cryptorank.
type CryptorankSource struct {
	*sources.BaseSource

	slug string
}

// CryptorankCoin is the subset of the coin document we need.
type CryptorankCoin struct {
	Data *struct {
		Price *struct {
			BTC *json.Number `json:"BTC"`
			ETH *json.Number `json:"ETH"`
			USD *json.Number `json:"USD"`
		} `json:"price"`
	} `json:"data"`
}

// NewCryptorankSource creates a new Cryptorank source.
func NewCryptorankSource(config map[string]interface{}) (sources.Source, error) {
	return &CryptorankSource{
		BaseSource: sources.NewBaseSource(sources.NameCryptorank, sources.SourceTypeMarket, cryptorankAPIURL, config),
		slug:       sources.GetString(config, "slug", cryptorankSlug),
	}, nil
}

// FetchPrice returns data.price.USD.
func (s *CryptorankSource) FetchPrice(ctx context.Context) (decimal.Decimal, error) {
	s.Logger().Info("Using cryptorank price")

	var coin CryptorankCoin
	if err := s.GetJSON(ctx, s.APIURL()+url.PathEscape(s.slug)+"?locale=en", nil, &coin); err != nil {
		return decimal.Zero, err
	}
	if coin.Data == nil || coin.Data.Price == nil || coin.Data.Price.USD == nil {
		return decimal.Zero, fmt.Errorf("%w: cryptorank: missing data.price.USD", sources.ErrParse)
	}
	return sources.ParseDecimal(coin.Data.Price.USD.String())
}
