// Package sources provides the price source interface, shared HTTP plumbing,
// price normalization and provider selection.
package sources

import "errors"

var (
	// ErrFetch indicates a network failure or a non-success HTTP status.
	ErrFetch = errors.New("fetch failed")
	// ErrParse indicates that the response did not have the expected shape.
	ErrParse = errors.New("unexpected response shape")
	// ErrNumeric indicates that a numeric field could not be parsed.
	ErrNumeric = errors.New("invalid numeric value")
	// ErrUnexpectedStatus indicates an unexpected HTTP status code.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status code")
	// ErrAPIError indicates the provider reported an error in its payload.
	ErrAPIError = errors.New("API error")
	// ErrNegativePrice indicates a price below zero was passed to Normalize.
	ErrNegativePrice = errors.New("price must not be negative")
	// ErrPriceOverflow indicates the scaled price does not fit in 64 bits.
	ErrPriceOverflow = errors.New("scaled price overflows uint64")
	// ErrUnknownSource indicates no factory is registered for a source key.
	ErrUnknownSource = errors.New("unknown source")
	// ErrInvalidConfig indicates that the source configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrSourceNotConfigured indicates the selector picked a source that was not built.
	ErrSourceNotConfigured = errors.New("selected source is not configured")
	// ErrInvalidSelector indicates a selector table that cannot be used.
	ErrInvalidSelector = errors.New("invalid selector")
)
