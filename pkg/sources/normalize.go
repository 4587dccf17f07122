package sources

import (
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// PriceDecimals is the number of fractional digits carried by a normalized price.
const PriceDecimals = 18

var maxUint64 = decimal.NewFromBigInt(new(big.Int).SetUint64(math.MaxUint64), 0)

// Normalize converts a USD price into the on-chain fixed-point representation:
// round(price * 10^18), ties away from zero.
func Normalize(price decimal.Decimal) (uint64, error) {
	if price.IsNegative() {
		return 0, fmt.Errorf("%w: %s", ErrNegativePrice, price.String())
	}

	scaled := price.Shift(PriceDecimals).Round(0)
	if scaled.GreaterThan(maxUint64) {
		return 0, fmt.Errorf("%w: %s", ErrPriceOverflow, price.String())
	}

	return scaled.BigInt().Uint64(), nil
}

// NormalizeFloat is Normalize for a float64 price. The float is converted using
// its shortest decimal representation, so 3.14159 scales to exactly 3141590000000000000.
func NormalizeFloat(price float64) (uint64, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("%w: %v", ErrNumeric, price)
	}
	return Normalize(decimal.NewFromFloat(price))
}
