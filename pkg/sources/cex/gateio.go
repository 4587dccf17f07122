package cex

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"tc.com/price-relay/pkg/clock"
	"tc.com/price-relay/pkg/sources"
)

const (
	gateioAPIURL   = "https://www.gate.io/json_svr/query/"
	gateioSymbol   = "dpr_usdt"
	gateioInterval = 1800      // candle width in seconds
	gateioWindow   = 24 * 3600 // look-back in seconds
	gateioClose    = 4         // column index of the close price
)

// GateioSource reads the latest closed candle from Gate.io's kline endpoint.
// The body is plain text: one comma-separated candle per line, ending with a newline.
type GateioSource struct {
	*sources.BaseSource

	symbol   string
	interval int
	window   int64
}

// NewGateioSource creates a new Gate.io candle source.
func NewGateioSource(config map[string]interface{}) (sources.Source, error) {
	interval := sources.GetInt(config, "interval", gateioInterval)
	if interval <= 0 {
		return nil, fmt.Errorf("%w: interval must be positive", sources.ErrInvalidConfig)
	}

	return &GateioSource{
		BaseSource: sources.NewBaseSource(sources.NameGateio, sources.SourceTypeCEX, gateioAPIURL, config),
		symbol:     sources.GetString(config, "symbol", gateioSymbol),
		interval:   interval,
		window:     int64(sources.GetInt(config, "window", gateioWindow)),
	}, nil
}

// FetchPrice returns the close of the second-to-last row.
func (s *GateioSource) FetchPrice(ctx context.Context) (decimal.Decimal, error) {
	s.Logger().Info("Using gateio price")

	body, err := s.Get(ctx, s.requestURL(), nil)
	if err != nil {
		return decimal.Zero, err
	}
	return parseGateioCandles(string(body))
}

func (s *GateioSource) requestURL() string {
	now := clock.NowSeconds(s.Clock())

	params := url.Values{}
	params.Set("u", "10")
	params.Set("c", "9349111")
	params.Set("type", "tvkline")
	params.Set("symbol", s.symbol)
	params.Set("from", strconv.FormatInt(now-s.window, 10))
	params.Set("to", strconv.FormatInt(now, 10))
	params.Set("interval", strconv.Itoa(s.interval))

	return s.APIURL() + "?" + params.Encode()
}

func parseGateioCandles(body string) (decimal.Decimal, error) {
	rows := strings.Split(body, "\n")
	if len(rows) < 2 {
		return decimal.Zero, fmt.Errorf("%w: gateio: expected at least 2 rows, got %d", sources.ErrParse, len(rows))
	}

	cols := strings.Split(rows[len(rows)-2], ",")
	if len(cols) <= gateioClose {
		return decimal.Zero, fmt.Errorf("%w: gateio: row has %d columns, need %d", sources.ErrParse, len(cols), gateioClose+1)
	}

	return sources.ParseDecimal(cols[gateioClose])
}
