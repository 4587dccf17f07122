package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"tc.com/price-relay/pkg/sources"
)

// Production endpoints of the relay.
const (
	DefaultRPCURL          = "https://mainnet-dev.deeper.network/rpc"
	DefaultContractAddress = "0x862AF0CF4397C06B4B76288c97aBefdF3eD5F121"
	DefaultPasswordEnv     = "RELAY_KEYSTORE_PASSWORD"
	DefaultHTTPTimeout     = 30 * time.Second
)

// Defaults for the feeder, task, metrics and tracing sections. They mirror
// the zero-value defaults of the packages consuming them.
const (
	DefaultKeystorePath    = "/eth.keystore"
	DefaultGasLimit        = uint64(140850)
	DefaultConfirmations   = uint64(1)
	DefaultPollInterval    = time.Second
	DefaultTaskBaseURL     = "http://host.docker.internal:8000"
	DefaultMetricsJob      = "price-relay"
	DefaultTracingEndpoint = "localhost:4317"
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load loads configuration from YAML file and environment variables.
// An empty path yields Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	// Validate and sanitize path
	cleanPath := filepath.Clean(path)
	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("invalid config path: %w", err)
	}

	data, err := os.ReadFile(absPath) // #nosec G304 -- Path sanitized with filepath.Clean and filepath.Abs
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in YAML
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// defaultSources lists every adapter, all enabled.
func defaultSources() []SourceConfig {
	return []SourceConfig{
		{Type: string(sources.SourceTypeCEX), Name: sources.NameGateio, Enabled: true},
		{Type: string(sources.SourceTypeCEX), Name: sources.NameKucoin, Enabled: true},
		{Type: string(sources.SourceTypeMarket), Name: sources.NameCoinMarketCap, Enabled: true},
		{Type: string(sources.SourceTypeMarket), Name: sources.NameCoinGecko, Enabled: true},
		{Type: string(sources.SourceTypeMarket), Name: sources.NameCryptorank, Enabled: true},
		{Type: string(sources.SourceTypeMarket), Name: sources.NameLiveCoinWatch, Enabled: true},
		{Type: string(sources.SourceTypeMarket), Name: sources.NameCoin360, Enabled: true},
	}
}

// applyDefaults sets default values for optional fields.
func applyDefaults(cfg *Config) {
	// Feeder defaults
	if cfg.Feeder.RPCURL == "" {
		cfg.Feeder.RPCURL = DefaultRPCURL
	}
	if cfg.Feeder.ContractAddress == "" {
		cfg.Feeder.ContractAddress = DefaultContractAddress
	}
	if cfg.Feeder.KeystorePath == "" {
		cfg.Feeder.KeystorePath = DefaultKeystorePath
	}
	if cfg.Feeder.KeystorePassword == "" && cfg.Feeder.KeystorePasswordEnv == "" {
		cfg.Feeder.KeystorePasswordEnv = DefaultPasswordEnv
	}
	if cfg.Feeder.GasLimit == 0 {
		cfg.Feeder.GasLimit = DefaultGasLimit
	}
	if cfg.Feeder.Confirmations == 0 {
		cfg.Feeder.Confirmations = DefaultConfirmations
	}
	if cfg.Feeder.PollInterval.ToDuration() == 0 {
		cfg.Feeder.PollInterval = Duration(DefaultPollInterval)
	}

	// Selector defaults
	if cfg.Selector.Modulus == 0 {
		cfg.Selector.Modulus = sources.DefaultModulus
	}
	if len(cfg.Selector.Table) == 0 {
		cfg.Selector.Table = sources.DefaultTable()
	}
	if cfg.Selector.Fallback == "" {
		cfg.Selector.Fallback = sources.DefaultFallback
	}

	if len(cfg.Sources) == 0 {
		cfg.Sources = defaultSources()
	}

	if cfg.HTTP.Timeout.ToDuration() == 0 {
		cfg.HTTP.Timeout = Duration(DefaultHTTPTimeout)
	}

	if cfg.Task.BaseURL == "" {
		cfg.Task.BaseURL = DefaultTaskBaseURL
	}

	if cfg.Metrics.Job == "" {
		cfg.Metrics.Job = DefaultMetricsJob
	}

	if cfg.Tracing.Endpoint == "" {
		cfg.Tracing.Endpoint = DefaultTracingEndpoint
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// EnabledSources returns the enabled source entries in file order.
func (c *Config) EnabledSources() []SourceConfig {
	out := make([]SourceConfig, 0, len(c.Sources))
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

// NewSelector builds the source selector from the selector section.
func (c *Config) NewSelector() (*sources.Selector, error) {
	return sources.NewSelector(c.Selector.Modulus, c.Selector.Table, c.Selector.Fallback)
}

// Key returns the registry key "<type>.<name>".
func (sc *SourceConfig) Key() string {
	return strings.ToLower(sc.Type) + "." + sc.Name
}
