package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Default limits for RPA service calls.
const (
	// defaultTimeout bounds a whole automation call when no timeout is
	// configured. Automation runs open a browser and load pages, so this
	// is generous.
	defaultTimeout = 30 * time.Second

	// defaultHealthTimeout bounds the status probe.
	defaultHealthTimeout = 5 * time.Second

	// maxErrorBodySize caps how much of an error response body is read
	// into error messages.
	maxErrorBodySize = 4 << 10 // 4KB
)

// automationPath is the RPA service endpoint that executes a step list
// against one profile.
const automationPath = "/api/v1/automation/run"

// Config contains connection settings for the RPA automation service.
type Config struct {
	// BaseURL is the root of the local RPA API, e.g. "http://127.0.0.1:50325".
	BaseURL string

	// APIKey is sent as a bearer token when non-empty.
	APIKey string

	// Timeout bounds each automation call end to end.
	Timeout time.Duration
}

// Client submits automation jobs to the RPA service over HTTP.
//
// The underlying HTTP session is created lazily on first use and shared by
// all concurrent calls; creation is guarded by a mutex so racing first
// calls cannot create duplicate sessions. Close releases the session's
// sockets; a call after Close transparently creates a fresh session.
//
// The client never retries: a transient failure surfaces as a single
// ErrTransport-wrapped error for the caller to record.
//
// Thread Safety: all methods are safe for concurrent use from multiple
// goroutines.
type Client struct {
	baseURL string
	apiKey  string
	timeout time.Duration

	mu      sync.Mutex
	session *http.Client
}

// New creates a Client. No connection is made until the first call.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		timeout: timeout,
	}
}

// getSession returns the shared HTTP session, creating it on first use.
func (c *Client) getSession() *http.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		c.session = &http.Client{
			Timeout: c.timeout,
		}
	}
	return c.session
}

// Close releases the underlying HTTP session's idle connections.
//
// Close is idempotent and safe to call while requests are in flight (they
// keep their connections until they finish). After Close, the next call
// creates a new session rather than failing.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		c.session.CloseIdleConnections()
		c.session = nil
	}
	return nil
}

// automationRequest is the wire envelope around caller-supplied steps.
type automationRequest struct {
	ProfileID string            `json:"profile_id"`
	Steps     []map[string]any  `json:"steps"`
	Options   automationOptions `json:"options"`
}

// automationOptions is the static options block forwarded with every job.
// The orchestrator treats it as opaque; the RPA service interprets it.
type automationOptions struct {
	FailOnSelectorTimeout bool `json:"fail_on_selector_timeout"`
	CaptureConsole        bool `json:"capture_console"`
}

// RunAutomation executes an automation step list against one profile and
// returns the service's raw structured response.
//
// Every failure mode (connection refused, timeout, non-2xx status,
// unparseable body) is returned wrapped in ErrTransport. Callers treat
// such errors as a failure of this one job, never as process-fatal.
func (c *Client) RunAutomation(ctx context.Context, profileID string, steps []map[string]any) (map[string]any, error) {
	payload := automationRequest{
		ProfileID: profileID,
		Steps:     steps,
		Options: automationOptions{
			FailOnSelectorTimeout: true,
			CaptureConsole:        true,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding request: %w", ErrTransport, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+automationPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %w", ErrTransport, err)
	}
	c.setHeaders(req)

	resp, err := c.getSession().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return nil, fmt.Errorf("%w: unexpected status %d: %s", ErrTransport, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var data map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %w", ErrTransport, err)
	}

	return data, nil
}

// HealthCheck verifies the RPA service is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	checkCtx, cancel := context.WithTimeout(ctx, defaultHealthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, c.baseURL+"/status", nil)
	if err != nil {
		return fmt.Errorf("%w: building request: %w", ErrTransport, err)
	}
	c.setHeaders(req)

	resp, err := c.getSession().Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodySize))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status endpoint returned %d", ErrTransport, resp.StatusCode)
	}
	return nil
}

// setHeaders applies the fixed request headers.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}
