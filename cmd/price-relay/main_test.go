package main

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"tc.com/price-relay/pkg/clock"
	"tc.com/price-relay/pkg/config"
	"tc.com/price-relay/pkg/feeder/keystore"
	"tc.com/price-relay/pkg/logging"
	"tc.com/price-relay/pkg/sources"
)

func TestBuildSources_Default(t *testing.T) {
	cfg := config.Default()

	srcs, err := buildSources(cfg, logging.NewNoopLogger(), http.DefaultClient, clock.Fixed(0))
	require.NoError(t, err)

	var names []string
	for _, s := range srcs {
		names = append(names, s.Name())
	}
	assert.ElementsMatch(t, []string{
		sources.NameGateio,
		sources.NameKucoin,
		sources.NameCoinMarketCap,
		sources.NameCoinGecko,
		sources.NameCryptorank,
		sources.NameLiveCoinWatch,
		sources.NameCoin360,
	}, names)
}

func TestBuildSources_UnknownSource(t *testing.T) {
	cfg := config.Default()
	cfg.Sources = append(cfg.Sources, config.SourceConfig{Type: "cex", Name: "binance", Enabled: true})

	_, err := buildSources(cfg, logging.NewNoopLogger(), http.DefaultClient, clock.Fixed(0))
	assert.ErrorIs(t, err, sources.ErrUnknownSource)
}

func TestBuildSources_DoesNotMutateConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Sources[0].Config = map[string]interface{}{"api_url": "http://localhost/"}

	_, err := buildSources(cfg, logging.NewNoopLogger(), http.DefaultClient, clock.Fixed(0))
	require.NoError(t, err)
	assert.Len(t, cfg.Sources[0].Config, 1)
}

func TestNewRelay_DryRun(t *testing.T) {
	orig := *dryRun
	*dryRun = true
	defer func() { *dryRun = orig }()

	r, err := newRelay(config.Default(), logging.NewNoopLogger(), http.DefaultClient, noop.NewTracerProvider().Tracer("test"))
	require.NoError(t, err)
	assert.NotNil(t, r)
}

func TestNewRelay_WithSubmitterAndCoordinator(t *testing.T) {
	cfg := config.Default()
	cfg.Task.Enabled = true

	r, err := newRelay(cfg, logging.NewNoopLogger(), http.DefaultClient, noop.NewTracerProvider().Tracer("test"))
	require.NoError(t, err)
	assert.NotNil(t, r)
}

func TestKeyLoader_MissingPassword(t *testing.T) {
	cfg := config.Default().Feeder
	cfg.KeystorePasswordEnv = "PRICE_RELAY_TEST_UNSET_PASSWORD"

	_, _, err := keyLoader(cfg)()
	assert.ErrorIs(t, err, keystore.ErrKeystore)
	assert.ErrorIs(t, err, keystore.ErrPasswordEnvNotSet)
}

func TestKeyLoader_MissingFile(t *testing.T) {
	cfg := config.Default().Feeder
	cfg.KeystorePath = t.TempDir() + "/missing.keystore"
	cfg.KeystorePassword = "pw"
	cfg.KeystorePasswordEnv = ""

	_, _, err := keyLoader(cfg)()
	assert.ErrorIs(t, err, keystore.ErrKeystore)
}
