package keystore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "correct horse battery staple"

// writeKeystore encrypts a fresh key with light scrypt parameters and returns
// the file path and the key's address.
func writeKeystore(t *testing.T, password string) (string, string) {
	t.Helper()

	priv, err := crypto.GenerateKey()
	require.NoError(t, err)

	ks := keystore.NewKeyStore(t.TempDir(), keystore.LightScryptN, keystore.LightScryptP)
	account, err := ks.ImportECDSA(priv, password)
	require.NoError(t, err)

	return account.URL.Path, account.Address.Hex()
}

func TestLoad_Valid(t *testing.T) {
	path, addr := writeKeystore(t, testPassword)

	key, gotAddr, err := Load(path, testPassword)
	require.NoError(t, err)
	require.NotNil(t, key)

	assert.Equal(t, addr, gotAddr.Hex())
	assert.Equal(t, gotAddr, crypto.PubkeyToAddress(key.PublicKey))
	assert.Len(t, crypto.FromECDSA(key), 32)
}

func TestLoad_WrongPassword(t *testing.T) {
	path, _ := writeKeystore(t, testPassword)

	_, _, err := Load(path, "wrong")
	assert.ErrorIs(t, err, ErrKeystore)
	assert.ErrorIs(t, err, keystore.ErrDecrypt)
}

func TestLoad_MissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.keystore"), testPassword)
	assert.ErrorIs(t, err, ErrKeystore)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_Garbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eth.keystore")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))

	_, _, err := Load(path, testPassword)
	assert.ErrorIs(t, err, ErrKeystore)
}

func TestResolvePassword(t *testing.T) {
	t.Setenv("RELAY_TEST_PASSWORD", "from-env")

	got, err := ResolvePassword("inline", "RELAY_TEST_PASSWORD")
	require.NoError(t, err)
	assert.Equal(t, "from-env", got)

	got, err = ResolvePassword("inline", "")
	require.NoError(t, err)
	assert.Equal(t, "inline", got)

	got, err = ResolvePassword("inline", "RELAY_TEST_PASSWORD_UNSET")
	require.NoError(t, err)
	assert.Equal(t, "inline", got)

	_, err = ResolvePassword("", "RELAY_TEST_PASSWORD_UNSET")
	assert.ErrorIs(t, err, ErrPasswordEnvNotSet)

	_, err = ResolvePassword("", "")
	assert.ErrorIs(t, err, ErrPasswordRequired)
}
