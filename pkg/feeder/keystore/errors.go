// Package keystore loads the relay's signing key from an encrypted keystore file.
package keystore

import "errors"

var (
	// ErrKeystore indicates the keystore file could not be read or decrypted.
	ErrKeystore = errors.New("keystore error")
	// ErrPasswordRequired indicates neither a password nor a password env var was provided.
	ErrPasswordRequired = errors.New("either keystore_password or keystore_password_env must be specified")
	// ErrPasswordEnvNotSet indicates the configured password environment variable is empty.
	ErrPasswordEnvNotSet = errors.New("keystore password environment variable not set")
)
