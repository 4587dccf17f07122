// Package client provides the JSON-RPC connection to the EVM chain.
package client

import "errors"

var (
	// ErrTransport indicates the RPC endpoint could not be reached or answered with an error.
	ErrTransport = errors.New("transport error")
	// ErrNoEndpoint indicates that no RPC URL was configured.
	ErrNoEndpoint = errors.New("an RPC endpoint is required")
)
