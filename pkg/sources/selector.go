package sources

import (
	"fmt"
	"sort"
)

// Source names used by the default rotation.
const (
	NameGateio        = "gateio"
	NameKucoin        = "kucoin"
	NameCoinMarketCap = "coinmarketcap"
	NameCoinGecko     = "coingecko"
	NameCryptorank    = "cryptorank"
	NameLiveCoinWatch = "livecoinwatch"
	NameCoin360       = "coin360"
)

// DefaultModulus is the number of residues in the default rotation.
const DefaultModulus = 7

// DefaultTable maps now_millis mod 7 to a source name. Residue 2 (coingecko) is
// left out on purpose and falls through to DefaultFallback.
func DefaultTable() map[int]string {
	return map[int]string{
		0: NameLiveCoinWatch,
		1: NameKucoin,
		3: NameCryptorank,
		4: NameCoinMarketCap,
		5: NameGateio,
		6: NameCoin360,
	}
}

// DefaultFallback is used for any residue missing from the table.
const DefaultFallback = NameGateio

// Selector picks one source per run from the clock reading. It has no state and
// no knowledge of source health.
type Selector struct {
	modulus  int64
	table    map[int64]string
	fallback string
}

// NewSelector validates and builds a selector.
func NewSelector(modulus int, table map[int]string, fallback string) (*Selector, error) {
	if modulus <= 0 {
		return nil, fmt.Errorf("%w: modulus must be positive, got %d", ErrInvalidSelector, modulus)
	}
	if fallback == "" {
		return nil, fmt.Errorf("%w: fallback source is required", ErrInvalidSelector)
	}

	t := make(map[int64]string, len(table))
	for residue, name := range table {
		if residue < 0 || residue >= modulus {
			return nil, fmt.Errorf("%w: residue %d outside [0, %d)", ErrInvalidSelector, residue, modulus)
		}
		if name == "" {
			return nil, fmt.Errorf("%w: residue %d maps to an empty name", ErrInvalidSelector, residue)
		}
		t[int64(residue)] = name
	}

	return &Selector{
		modulus:  int64(modulus),
		table:    t,
		fallback: fallback,
	}, nil
}

// NewDefaultSelector returns the production rotation.
func NewDefaultSelector() *Selector {
	s, err := NewSelector(DefaultModulus, DefaultTable(), DefaultFallback)
	if err != nil {
		panic(err)
	}
	return s
}

// Select returns the source name for the given epoch milliseconds. The result
// depends only on nowMillis mod the modulus.
func (s *Selector) Select(nowMillis int64) string {
	residue := nowMillis % s.modulus
	if residue < 0 {
		residue += s.modulus
	}
	if name, ok := s.table[residue]; ok {
		return name
	}
	return s.fallback
}

// Names returns every source name the selector can return, sorted.
func (s *Selector) Names() []string {
	seen := map[string]struct{}{s.fallback: {}}
	for _, name := range s.table {
		seen[name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
