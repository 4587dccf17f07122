package client

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Backend is the subset of an Ethereum client the relay needs to sign, send
// and track a contract call.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend

	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
	Close()
}

var _ Backend = (*ethclient.Client)(nil)

// Dial connects to an HTTP or WebSocket JSON-RPC endpoint and probes it with
// eth_chainId so an unreachable node fails here rather than mid-submission.
func Dial(ctx context.Context, url string) (*ethclient.Client, error) {
	if url == "" {
		return nil, ErrNoEndpoint
	}

	c, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to dial %s: %w", ErrTransport, url, err)
	}

	if _, err := c.ChainID(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("%w: chain id query to %s failed: %w", ErrTransport, url, err)
	}

	return c, nil
}

// Dialer returns a function that dials url on each call, suitable for
// tx.SubmitterConfig.Dial.
func Dialer(url string) func(context.Context) (Backend, error) {
	return func(ctx context.Context) (Backend, error) {
		c, err := Dial(ctx, url)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}
