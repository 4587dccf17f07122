package sources

import (
	"context"

	"github.com/shopspring/decimal"
)

// SourceType represents the type of price source
type SourceType string

const (
	// SourceTypeCEX is an exchange endpoint (candles, order book).
	SourceTypeCEX SourceType = "cex"
	// SourceTypeMarket is a market-data aggregator or ranking site.
	SourceTypeMarket SourceType = "market"
)

// Source fetches a single USD price for the relayed token.
type Source interface {
	// Name returns the unique name of this source
	Name() string

	// Type returns the type of this source
	Type() SourceType

	// FetchPrice performs one request and extracts the USD price.
	// Errors wrap ErrFetch, ErrParse or ErrNumeric.
	FetchPrice(ctx context.Context) (decimal.Decimal, error)
}

// SourceFactory is a function that creates a new Source instance
type SourceFactory func(config map[string]interface{}) (Source, error)
