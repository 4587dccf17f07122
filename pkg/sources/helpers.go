package sources

import (
	"net/http"

	"tc.com/price-relay/pkg/clock"
	"tc.com/price-relay/pkg/logging"
)

// Keys under which the runtime injects shared values into a source config map.
const (
	ConfigKeyLogger     = "logger"
	ConfigKeyClock      = "clock"
	ConfigKeyHTTPClient = "http_client"
)

// GetLoggerFromConfig extracts logger from config map or returns a noop logger.
func GetLoggerFromConfig(config map[string]interface{}) *logging.Logger {
	if logger, ok := config[ConfigKeyLogger].(*logging.Logger); ok && logger != nil {
		return logger
	}
	return logging.NewNoopLogger()
}

// GetClockFromConfig extracts the clock from config or falls back to the wall clock.
func GetClockFromConfig(config map[string]interface{}) clock.Clock {
	if c, ok := config[ConfigKeyClock].(clock.Clock); ok && c != nil {
		return c
	}
	return clock.System{}
}

// GetHTTPClientFromConfig extracts the HTTP client from config or returns http.DefaultClient.
func GetHTTPClientFromConfig(config map[string]interface{}) *http.Client {
	if c, ok := config[ConfigKeyHTTPClient].(*http.Client); ok && c != nil {
		return c
	}
	return http.DefaultClient
}

// GetString retrieves a non-empty string value from config.
func GetString(config map[string]interface{}, key, defaultValue string) string {
	if v, ok := config[key].(string); ok && v != "" {
		return v
	}
	return defaultValue
}

// GetInt retrieves an integer from config. YAML decodes numbers as int, JSON as float64.
func GetInt(config map[string]interface{}, key string, defaultValue int) int {
	switch v := config[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return defaultValue
	}
}
