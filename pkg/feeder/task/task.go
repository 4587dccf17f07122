package task

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"tc.com/price-relay/pkg/logging"
)

// DefaultBaseURL is the coordinator address as seen from inside the relay container.
const DefaultBaseURL = "http://host.docker.internal:8000"

// Result is the coordinator's answer to a claim or completion notice.
type Result struct {
	Accepted bool
	Reason   string
}

// Coordinator arbitrates which relay instance performs a task.
type Coordinator interface {
	// Claim asks for exclusive ownership of the task. A declined claim is not
	// an error.
	Claim(ctx context.Context, taskID uint64) (Result, error)
	// NotifyComplete reports that the task finished successfully.
	NotifyComplete(ctx context.Context, taskID uint64) (Result, error)
}

// Noop accepts every claim. It is used when coordination is disabled.
type Noop struct{}

func (Noop) Claim(context.Context, uint64) (Result, error) {
	return Result{Accepted: true}, nil
}

func (Noop) NotifyComplete(context.Context, uint64) (Result, error) {
	return Result{Accepted: true}, nil
}

// reply is the coordinator's JSON body for both endpoints.
type reply struct {
	Success bool    `json:"success"`
	Error   *string `json:"error"`
}

// HTTPCoordinator calls GET <base>/race and GET <base>/complete.
type HTTPCoordinator struct {
	baseURL string
	client  *http.Client
	logger  *logging.Logger
}

// NewHTTPCoordinator creates a coordinator client. A nil client selects
// http.DefaultClient and a nil logger discards output.
func NewHTTPCoordinator(baseURL string, client *http.Client, logger *logging.Logger) (*HTTPCoordinator, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		return nil, ErrNoBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("%w: invalid base URL %q: %w", ErrCoordinator, baseURL, err)
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = logging.NewNoopLogger()
	}
	return &HTTPCoordinator{baseURL: baseURL, client: client, logger: logger}, nil
}

// Claim calls <base>/race?task_id=<id>.
func (c *HTTPCoordinator) Claim(ctx context.Context, taskID uint64) (Result, error) {
	return c.call(ctx, "race", taskID)
}

// NotifyComplete calls <base>/complete?task_id=<id>.
func (c *HTTPCoordinator) NotifyComplete(ctx context.Context, taskID uint64) (Result, error) {
	return c.call(ctx, "complete", taskID)
}

func (c *HTTPCoordinator) call(ctx context.Context, endpoint string, taskID uint64) (Result, error) {
	u := c.baseURL + "/" + endpoint + "?" + url.Values{"task_id": {strconv.FormatUint(taskID, 10)}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Result{}, fmt.Errorf("%w: failed to build request: %w", ErrCoordinator, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s request failed: %w", ErrCoordinator, endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("%w: failed to read %s response: %w", ErrCoordinator, endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, fmt.Errorf("%w: %s returned status %d: %s", ErrCoordinator, endpoint, resp.StatusCode, string(body))
	}

	var r reply
	if err := json.Unmarshal(body, &r); err != nil {
		return Result{}, fmt.Errorf("%w: failed to decode %s response: %w", ErrCoordinator, endpoint, err)
	}

	result := Result{Accepted: r.Success}
	if r.Error != nil {
		result.Reason = *r.Error
	}

	c.logger.Debug("Coordinator replied",
		"endpoint", endpoint,
		"task_id", taskID,
		"accepted", result.Accepted,
		"reason", result.Reason)

	return result, nil
}
