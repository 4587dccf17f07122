// Package market provides price sources backed by market-data aggregators and
// ranking sites.
package market

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"tc.com/price-relay/pkg/sources"
)

func init() {
	sources.Register("market."+sources.NameCoinMarketCap, NewCoinMarketCapSource)
	sources.Register("market."+sources.NameCoinGecko, NewCoinGeckoSource)
	sources.Register("market."+sources.NameCryptorank, NewCryptorankSource)
	sources.Register("market."+sources.NameLiveCoinWatch, NewLiveCoinWatchSource)
	sources.Register("market."+sources.NameCoin360, NewCoin360Source)
}

// browserUserAgent is sent to sites that reject non-browser clients.
const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/103.0.0.0 Safari/537.36"

// numberAt parses row[idx], reporting a short row as a parse error.
func numberAt(source string, row []json.Number, idx int) (decimal.Decimal, error) {
	if len(row) <= idx {
		return decimal.Zero, fmt.Errorf("%w: %s: row has %d values, need %d", sources.ErrParse, source, len(row), idx+1)
	}
	return sources.ParseDecimal(row[idx].String())
}
