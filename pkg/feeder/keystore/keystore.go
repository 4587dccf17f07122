package keystore

import (
	"crypto/ecdsa"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
)

// DefaultPath is where the relay expects its keystore inside the container.
const DefaultPath = "/eth.keystore"

// Load decrypts a Web3 Secret Storage file and returns the secp256k1 key and
// its address. A missing file or wrong password wraps ErrKeystore.
func Load(path, password string) (*ecdsa.PrivateKey, common.Address, error) {
	data, err := os.ReadFile(filepath.Clean(path)) // #nosec G304 -- operator supplied keystore path
	if err != nil {
		return nil, common.Address{}, fmt.Errorf("%w: failed to read %s: %w", ErrKeystore, path, err)
	}

	key, err := keystore.DecryptKey(data, password)
	if err != nil {
		return nil, common.Address{}, fmt.Errorf("%w: failed to decrypt %s: %w", ErrKeystore, path, err)
	}

	return key.PrivateKey, key.Address, nil
}

// ResolvePassword returns the keystore password, preferring the environment
// variable when envName is set.
func ResolvePassword(password, envName string) (string, error) {
	if envName != "" {
		if v := os.Getenv(envName); v != "" {
			return v, nil
		}
		if password == "" {
			return "", fmt.Errorf("%w: %s", ErrPasswordEnvNotSet, envName)
		}
	}
	if password == "" {
		return "", ErrPasswordRequired
	}
	return password, nil
}
