// Package cex provides exchange-backed price sources.
package cex

import (
	"tc.com/price-relay/pkg/sources"
)

func init() {
	sources.Register("cex."+sources.NameGateio, NewGateioSource)
	sources.Register("cex."+sources.NameKucoin, NewKucoinSource)
}
