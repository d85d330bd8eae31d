package relayclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
)

// Relay routes.
const (
	PathHealth    = "/health"
	PathAPIKey    = "/api-key"
	PathSolveTask = "/solve-task"
)

// ErrMalformedResponse is returned when a 2xx reply lacks the expected field.
var ErrMalformedResponse = errors.New("relayclient: malformed response")

// StatusError is returned for any non-2xx reply. Message carries the relay's
// "error" field when present, otherwise the raw body.
type StatusError struct {
	Status     int
	Message    string
	Code       string        // Optional machine-readable "code" field.
	RetryAfter time.Duration // Set on 429 when the relay sent Retry-After.
}

func (e *StatusError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("relay status %d (retry after %s): %s", e.Status, e.RetryAfter, e.Message)
	}
	return fmt.Sprintf("relay status %d: %s", e.Status, e.Message)
}

// ParseRetryAfter parses a Retry-After value given either in seconds or as an
// HTTP date. Unparseable values and dates in the past yield zero.
func ParseRetryAfter(val string) time.Duration {
	if val == "" {
		return 0
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(val); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// Auth is the bearer token presented to the relay, if it requires one.
type Auth struct {
	Key    string // Token value.
	Header string // Header name (default: "Authorization").
	Scheme string // Scheme prefix (default: "Bearer" when Header is "Authorization").
}

// Client talks to the relay endpoints.
type Client struct {
	BaseURL string            // Relay base URL (no trailing slash).
	Auth    Auth              // Optional relay auth.
	Client  *http.Client      // HTTP client; falls back to a default with a timeout.
	Headers map[string]string // Extra headers applied to every request.

	clientOnce    sync.Once
	defaultClient *http.Client
}

// New creates a Client. A nil client falls back to a default one at call
// time.
func New(baseURL string, auth Auth, client *http.Client) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Auth:    auth,
		Client:  client,
	}
}

// httpClient returns the configured client or a cached default with a
// 5-minute timeout; vision completions can be slow.
func (c *Client) httpClient() *http.Client {
	if c.Client != nil {
		return c.Client
	}

	c.clientOnce.Do(func() {
		c.defaultClient = &http.Client{Timeout: 5 * time.Minute}
	})

	return c.defaultClient
}

// NewRequest builds an *http.Request with the base URL, auth and custom
// headers applied.
func (c *Client) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}

	if c.Auth.Key != "" {
		header := c.Auth.Header
		if header == "" {
			header = "Authorization"
		}

		value := c.Auth.Key
		if header == "Authorization" {
			scheme := c.Auth.Scheme
			if scheme == "" {
				scheme = "Bearer"
			}
			value = scheme + " " + value
		} else if c.Auth.Scheme != "" {
			value = c.Auth.Scheme + " " + value
		}

		req.Header.Set(header, value)
	}

	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

// Do sends req and returns the body of a 2xx reply. Any other status is
// reported as a *StatusError.
func (c *Client) Do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient().Do(req) //nolint:gosec // URL is built from the configured relay base.
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		se := &StatusError{Status: resp.StatusCode, Message: strings.TrimSpace(string(body))}
		if msg := gjson.GetBytes(body, "error"); msg.Type == gjson.String {
			se.Message = msg.String()
		}
		se.Code = gjson.GetBytes(body, "code").String()
		if resp.StatusCode == http.StatusTooManyRequests {
			se.RetryAfter = ParseRetryAfter(resp.Header.Get("Retry-After"))
		}
		return nil, se
	}

	return body, nil
}

// PostJSON marshals payload, POSTs it to path and returns the 2xx body.
func (c *Client) PostJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := c.NewRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.Do(req)
}

// GetJSON GETs path and returns the 2xx body.
func (c *Client) GetJSON(ctx context.Context, path string) ([]byte, error) {
	req, err := c.NewRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	return c.Do(req)
}

// SolveTask posts a solve request and returns the "solution" text.
func (c *Client) SolveTask(ctx context.Context, payload any) (string, error) {
	body, err := c.PostJSON(ctx, PathSolveTask, payload)
	if err != nil {
		return "", err
	}

	solution := gjson.GetBytes(body, "solution")
	if solution.Type != gjson.String {
		return "", fmt.Errorf("%w: missing solution", ErrMalformedResponse)
	}
	return solution.String(), nil
}

// SaveAPIKey stores the upstream API key on the relay.
func (c *Client) SaveAPIKey(ctx context.Context, apiKey string) error {
	body, err := c.PostJSON(ctx, PathAPIKey, map[string]string{"apiKey": apiKey})
	if err != nil {
		return err
	}
	if !gjson.GetBytes(body, "success").Bool() {
		return fmt.Errorf("%w: save not acknowledged", ErrMalformedResponse)
	}
	return nil
}

// DeleteAPIKey removes the stored upstream key from the relay.
func (c *Client) DeleteAPIKey(ctx context.Context) error {
	req, err := c.NewRequest(ctx, http.MethodDelete, PathAPIKey, nil)
	if err != nil {
		return err
	}
	body, err := c.Do(req)
	if err != nil {
		return err
	}
	if !gjson.GetBytes(body, "success").Bool() {
		return fmt.Errorf("%w: delete not acknowledged", ErrMalformedResponse)
	}
	return nil
}

// HasAPIKey reports whether the relay has an upstream key configured.
func (c *Client) HasAPIKey(ctx context.Context, userID string) (bool, error) {
	body, err := c.GetJSON(ctx, PathAPIKey+"/"+url.PathEscape(userID))
	if err != nil {
		return false, err
	}

	has := gjson.GetBytes(body, "hasApiKey")
	if !has.IsBool() {
		return false, fmt.Errorf("%w: missing hasApiKey", ErrMalformedResponse)
	}
	return has.Bool(), nil
}

// Health checks that the relay is up.
func (c *Client) Health(ctx context.Context) error {
	body, err := c.GetJSON(ctx, PathHealth)
	if err != nil {
		return err
	}
	if gjson.GetBytes(body, "status").String() != "ok" {
		return fmt.Errorf("%w: unexpected health reply", ErrMalformedResponse)
	}
	return nil
}
