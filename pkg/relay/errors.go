// Package relay runs one fetch-normalize-submit cycle.
package relay

import "errors"

// ErrInvalidConfig indicates a required collaborator is missing.
var ErrInvalidConfig = errors.New("invalid relay configuration")
