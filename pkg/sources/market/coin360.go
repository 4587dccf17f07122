package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
	"tc.com/price-relay/pkg/clock"
	"tc.com/price-relay/pkg/sources"
)

const (
	coin360APIURL = "https://coin360.com/site-api/coins/"
	coin360Slug   = "deeper-network-dpr"
	coin360Window = 60 * 60 // seconds
)

// Coin360Source reads the heatmap graph series from Coin360.
type Coin360Source struct {
	*sources.BaseSource

	slug string
}

// NewCoin360Source creates a new Coin360 source.
func NewCoin360Source(config map[string]interface{}) (sources.Source, error) {
	return &Coin360Source{
		BaseSource: sources.NewBaseSource(sources.NameCoin360, sources.SourceTypeMarket, coin360APIURL, config),
		slug:       sources.GetString(config, "slug", coin360Slug),
	}, nil
}

// FetchPrice returns the first value of the first graph row.
func (s *Coin360Source) FetchPrice(ctx context.Context) (decimal.Decimal, error) {
	s.Logger().Info("Using coin360 price")

	now := clock.NowSeconds(s.Clock())
	params := url.Values{}
	params.Set("start", strconv.FormatInt(now-coin360Window, 10))
	params.Set("end", strconv.FormatInt(now, 10))

	var graph [][]json.Number
	if err := s.GetJSON(ctx, s.APIURL()+url.PathEscape(s.slug)+"/graph?"+params.Encode(), nil, &graph); err != nil {
		return decimal.Zero, err
	}
	if len(graph) == 0 {
		return decimal.Zero, fmt.Errorf("%w: coin360: empty graph", sources.ErrParse)
	}
	return numberAt(sources.NameCoin360, graph[0], 0)
}
