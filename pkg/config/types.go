package config

import "time"

// Config is the root configuration structure
type Config struct {
	Feeder   FeederConfig     `yaml:"feeder"`
	Selector SelectorConfig   `yaml:"selector"`
	Sources  []SourceConfig   `yaml:"sources"`
	HTTP     HTTPClientConfig `yaml:"http"`
	Task     TaskConfig       `yaml:"task"`
	Metrics  MetricsConfig    `yaml:"metrics"`
	Tracing  TracingConfig    `yaml:"tracing"`
	Logging  LoggingConfig    `yaml:"logging"`
}

// FeederConfig configures signing and submission
type FeederConfig struct {
	RPCURL              string   `yaml:"rpc_url"`               // JSON-RPC endpoint of the EVM chain
	ContractAddress     string   `yaml:"contract_address"`      // Price contract exposing setTokenPrice(uint256)
	KeystorePath        string   `yaml:"keystore_path"`         // Web3 Secret Storage file
	KeystorePassword    string   `yaml:"keystore_password"`     // Keystore password (or use KeystorePasswordEnv)
	KeystorePasswordEnv string   `yaml:"keystore_password_env"` // Environment variable holding the password
	GasLimit            uint64   `yaml:"gas_limit"`             // Fixed gas limit, never estimated
	Confirmations       uint64   `yaml:"confirmations"`         // Blocks the receipt must be buried under
	PollInterval        Duration `yaml:"poll_interval"`         // Head polling interval while confirming
	Timeout             Duration `yaml:"timeout"`               // Upper bound for send + confirm, 0 = none
}

// SelectorConfig configures the clock-driven source rotation
type SelectorConfig struct {
	Modulus  int            `yaml:"modulus"`
	Table    map[int]string `yaml:"table"`
	Fallback string         `yaml:"fallback"`
}

// SourceConfig configures a price source
type SourceConfig struct {
	Type    string                 `yaml:"type"`
	Name    string                 `yaml:"name"`
	Enabled bool                   `yaml:"enabled"`
	Config  map[string]interface{} `yaml:"config"`
}

// HTTPClientConfig configures outbound HTTP used by sources and the task coordinator
type HTTPClientConfig struct {
	Timeout Duration `yaml:"timeout"`
}

// TaskConfig configures the optional task coordinator
type TaskConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
}

// MetricsConfig configures Prometheus Pushgateway export
type MetricsConfig struct {
	PushURL string `yaml:"push_url"`
	Job     string `yaml:"job"`
}

// TracingConfig configures OpenTelemetry export
type TracingConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
	Insecure bool   `yaml:"insecure"`
}

// LoggingConfig configures logging
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Duration is a wrapper around time.Duration for YAML parsing
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	td, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(td)
	return nil
}

// ToDuration converts Duration to time.Duration
func (d Duration) ToDuration() time.Duration {
	return time.Duration(d)
}
