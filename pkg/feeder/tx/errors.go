// Package tx signs, sends and tracks the setTokenPrice transaction.
package tx

import "errors"

var (
	// ErrSubmission indicates the transaction could not be sent, mined or confirmed.
	ErrSubmission = errors.New("submission error")
	// ErrTransactionRejected indicates that the transaction was mined but reverted.
	ErrTransactionRejected = errors.New("transaction rejected")
	// ErrInvalidParameter indicates that an invalid parameter was provided.
	ErrInvalidParameter = errors.New("invalid parameter")
)
