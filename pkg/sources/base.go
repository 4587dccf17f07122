package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"tc.com/price-relay/pkg/clock"
	"tc.com/price-relay/pkg/logging"
	"tc.com/price-relay/pkg/version"
)

// BaseSource provides common functionality for all price sources
type BaseSource struct {
	name       string
	sourcetype SourceType
	apiURL     string
	userAgent  string
	client     *http.Client
	clock      clock.Clock
	logger     *logging.Logger
}

// NewBaseSource creates a base source from the runtime values injected into a
// source config map. apiURL falls back to defaultURL when "api_url" is unset,
// and the User-Agent to version.AgentString() when "user_agent" is unset.
func NewBaseSource(name string, sourcetype SourceType, defaultURL string, config map[string]interface{}) *BaseSource {
	return &BaseSource{
		name:       name,
		sourcetype: sourcetype,
		apiURL:     GetString(config, "api_url", defaultURL),
		userAgent:  GetString(config, "user_agent", version.AgentString()),
		client:     GetHTTPClientFromConfig(config),
		clock:      GetClockFromConfig(config),
		logger:     GetLoggerFromConfig(config),
	}
}

// Name returns the source name
func (b *BaseSource) Name() string {
	return b.name
}

// Type returns the source type
func (b *BaseSource) Type() SourceType {
	return b.sourcetype
}

// APIURL returns the endpoint the source queries.
func (b *BaseSource) APIURL() string {
	return b.apiURL
}

// Clock returns the time source.
func (b *BaseSource) Clock() clock.Clock {
	return b.clock
}

// Logger returns the logger
func (b *BaseSource) Logger() *logging.Logger {
	return b.logger
}

// Get performs a GET request and returns the full body. Transport failures and
// non-2xx statuses wrap ErrFetch.
func (b *BaseSource) Get(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", ErrFetch, err)
	}
	if b.userAgent != "" {
		req.Header.Set("User-Agent", b.userAgent)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	b.logger.Debug("Requesting price", "source", b.name, "url", url)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, b.name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %w: %d", ErrFetch, ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", ErrFetch, err)
	}
	return body, nil
}

// GetJSON performs Get and unmarshals the body into v.
func (b *BaseSource) GetJSON(ctx context.Context, url string, headers map[string]string, v interface{}) error {
	body, err := b.Get(ctx, url, headers)
	if err != nil {
		return err
	}
	return DecodeJSON(body, v)
}

// DecodeJSON unmarshals body into v, wrapping failures in ErrParse.
func DecodeJSON(body []byte, v interface{}) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: failed to unmarshal response: %w", ErrParse, err)
	}
	return nil
}

// ParseDecimal parses a numeric string, wrapping failures in ErrNumeric.
func ParseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q: %w", ErrNumeric, s, err)
	}
	return d, nil
}
