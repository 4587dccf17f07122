package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tc.com/price-relay/pkg/feeder/keystore"
	"tc.com/price-relay/pkg/feeder/task"
	"tc.com/price-relay/pkg/feeder/tx"
	"tc.com/price-relay/pkg/metrics"
	"tc.com/price-relay/pkg/sources"
	"tc.com/price-relay/pkg/tracing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaults_MatchConsumingPackages(t *testing.T) {
	assert.Equal(t, keystore.DefaultPath, DefaultKeystorePath)
	assert.Equal(t, tx.DefaultGasLimit, DefaultGasLimit)
	assert.Equal(t, tx.DefaultConfirmations, DefaultConfirmations)
	assert.Equal(t, tx.DefaultPollInterval, DefaultPollInterval)
	assert.Equal(t, task.DefaultBaseURL, DefaultTaskBaseURL)
	assert.Equal(t, metrics.DefaultJob, DefaultMetricsJob)
	assert.Equal(t, tracing.DefaultEndpoint, DefaultTracingEndpoint)
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultRPCURL, cfg.Feeder.RPCURL)
	assert.Equal(t, DefaultContractAddress, cfg.Feeder.ContractAddress)
	assert.Equal(t, "/eth.keystore", cfg.Feeder.KeystorePath)
	assert.Equal(t, DefaultPasswordEnv, cfg.Feeder.KeystorePasswordEnv)
	assert.Equal(t, uint64(140850), cfg.Feeder.GasLimit)
	assert.Equal(t, uint64(1), cfg.Feeder.Confirmations)
	assert.Equal(t, 7, cfg.Selector.Modulus)
	assert.Equal(t, sources.DefaultTable(), cfg.Selector.Table)
	assert.Equal(t, sources.NameGateio, cfg.Selector.Fallback)
	assert.Len(t, cfg.EnabledSources(), 7)
	assert.False(t, cfg.Task.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)

	require.NoError(t, Validate(cfg))
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileWithEnvExpansion(t *testing.T) {
	t.Setenv("RELAY_TEST_RPC", "http://localhost:8545")

	path := writeConfig(t, `
feeder:
  rpc_url: ${RELAY_TEST_RPC}
  keystore_path: /tmp/key.json
  keystore_password: secret
  gas_limit: 200000
  timeout: 90s
selector:
  modulus: 2
  table:
    0: kucoin
  fallback: coingecko
sources:
  - type: cex
    name: kucoin
    enabled: true
  - type: market
    name: coingecko
    enabled: true
    config:
      api_url: http://localhost:9000/chart.json
task:
  enabled: true
  base_url: http://coordinator:8000
logging:
  level: debug
  format: text
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8545", cfg.Feeder.RPCURL)
	assert.Equal(t, DefaultContractAddress, cfg.Feeder.ContractAddress)
	assert.Equal(t, "secret", cfg.Feeder.KeystorePassword)
	assert.Empty(t, cfg.Feeder.KeystorePasswordEnv)
	assert.Equal(t, uint64(200000), cfg.Feeder.GasLimit)
	assert.Equal(t, 90*time.Second, cfg.Feeder.Timeout.ToDuration())
	assert.Equal(t, map[int]string{0: "kucoin"}, cfg.Selector.Table)
	require.Len(t, cfg.Sources, 2)
	assert.Equal(t, "market.coingecko", cfg.Sources[1].Key())
	assert.Equal(t, "http://localhost:9000/chart.json", cfg.Sources[1].Config["api_url"])
	assert.True(t, cfg.Task.Enabled)

	require.NoError(t, Validate(cfg))

	selector, err := cfg.NewSelector()
	require.NoError(t, err)
	assert.Equal(t, "kucoin", selector.Select(10))
	assert.Equal(t, "coingecko", selector.Select(11))
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "feeder: [unclosed"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "feeder:\n  timeout: soon\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"bad contract", func(c *Config) { c.Feeder.ContractAddress = "0x1234" }, ErrInvalidContractAddress},
		{"no password source", func(c *Config) { c.Feeder.KeystorePasswordEnv = "" }, ErrPasswordSourceRequired},
		{"unknown type", func(c *Config) { c.Sources[0].Type = "evm" }, ErrUnknownSourceType},
		{"no name", func(c *Config) { c.Sources[0].Name = "" }, ErrSourceNameRequired},
		{"duplicate", func(c *Config) { c.Sources[1].Name = c.Sources[0].Name }, ErrDuplicateSource},
		{"none enabled", func(c *Config) {
			for i := range c.Sources {
				c.Sources[i].Enabled = false
			}
		}, ErrNoSourcesEnabled},
		{"selector references disabled source", func(c *Config) { c.Sources[0].Enabled = false }, ErrSelectorSourceMissing},
		{"bad residue", func(c *Config) { c.Selector.Table[9] = "kucoin" }, sources.ErrInvalidSelector},
		{"task without url", func(c *Config) {
			c.Task.Enabled = true
			c.Task.BaseURL = ""
		}, ErrTaskBaseURLRequired},
		{"log level", func(c *Config) { c.Logging.Level = "trace" }, ErrInvalidLogLevel},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, ErrInvalidLogFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, Validate(cfg), tt.want)
		})
	}
}

func TestValidate_RPCURLRequired(t *testing.T) {
	cfg := Default()
	cfg.Feeder.RPCURL = ""
	assert.ErrorIs(t, Validate(cfg), ErrRPCURLRequired)

	cfg = Default()
	cfg.Feeder.KeystorePath = ""
	assert.ErrorIs(t, Validate(cfg), ErrKeystorePathRequired)
}

func TestLoad_ExampleFile(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config", "config.example.yaml"))
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))

	assert.Equal(t, Default().Selector.Table, cfg.Selector.Table)
	assert.Len(t, cfg.EnabledSources(), 7)
	assert.Equal(t, "8894", cfg.Sources[2].Config["asset_id"])
}
