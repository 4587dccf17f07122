package config

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"tc.com/price-relay/pkg/sources"
)

// Validate checks configuration for errors
func Validate(cfg *Config) error {
	if err := validateFeederConfig(&cfg.Feeder); err != nil {
		return fmt.Errorf("feeder config: %w", err)
	}

	enabled := make(map[string]bool)
	for i, source := range cfg.Sources {
		if err := validateSourceConfig(&source); err != nil {
			return fmt.Errorf("source %d (%s.%s): %w", i, source.Type, source.Name, err)
		}
		if !source.Enabled {
			continue
		}
		if enabled[source.Name] {
			return fmt.Errorf("source %d: %w: %s", i, ErrDuplicateSource, source.Name)
		}
		enabled[source.Name] = true
	}
	if len(enabled) == 0 {
		return ErrNoSourcesEnabled
	}

	selector, err := cfg.NewSelector()
	if err != nil {
		return fmt.Errorf("selector config: %w", err)
	}
	for _, name := range selector.Names() {
		if !enabled[name] {
			return fmt.Errorf("selector config: %w: %s", ErrSelectorSourceMissing, name)
		}
	}

	if cfg.Task.Enabled && cfg.Task.BaseURL == "" {
		return ErrTaskBaseURLRequired
	}

	if err := validateLoggingConfig(&cfg.Logging); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

func validateFeederConfig(cfg *FeederConfig) error {
	if cfg.RPCURL == "" {
		return ErrRPCURLRequired
	}

	if !common.IsHexAddress(cfg.ContractAddress) {
		return fmt.Errorf("%w: %q", ErrInvalidContractAddress, cfg.ContractAddress)
	}

	if cfg.KeystorePath == "" {
		return ErrKeystorePathRequired
	}

	// The password itself is resolved only when a transaction is sent, so dry
	// runs work without it.
	if cfg.KeystorePassword == "" && cfg.KeystorePasswordEnv == "" {
		return ErrPasswordSourceRequired
	}

	return nil
}

func validateSourceConfig(cfg *SourceConfig) error {
	if cfg.Type == "" {
		return ErrSourceTypeRequired
	}
	t := sources.SourceType(strings.ToLower(cfg.Type))
	if t != sources.SourceTypeCEX && t != sources.SourceTypeMarket {
		return fmt.Errorf("%w: %s (must be 'cex' or 'market')", ErrUnknownSourceType, cfg.Type)
	}

	if cfg.Name == "" {
		return ErrSourceNameRequired
	}

	return nil
}

func validateLoggingConfig(cfg *LoggingConfig) error {
	// Validate level
	validLevels := []string{"debug", "info", "warn", "error"}
	levelValid := false
	for _, l := range validLevels {
		if strings.ToLower(cfg.Level) == l {
			levelValid = true
			break
		}
	}
	if !levelValid {
		return fmt.Errorf("%w: %s (must be one of: %s)", ErrInvalidLogLevel, cfg.Level, strings.Join(validLevels, ", "))
	}

	// Validate format
	formatValid := strings.ToLower(cfg.Format) == "json" || strings.ToLower(cfg.Format) == "text"
	if !formatValid {
		return fmt.Errorf("%w: %s (must be 'json' or 'text')", ErrInvalidLogFormat, cfg.Format)
	}

	return nil
}
