package dewarmte

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/ronald-willems/godewarmte/internal/logging"
)

// Client is the single funnel through which every DeWarmte cloud call goes.
//
// It owns the retry/re-auth protocol: each request first makes sure a token
// is held (no network traffic when the token is fresh), performs the call
// with the bearer header, and on a 401 forces exactly one re-authentication
// followed by exactly one retry. A second consecutive 401 fails the request
// rather than looping against a misbehaving credential.
type Client struct {
	// BaseURL is the API base URL (e.g. "https://api.mydewarmte.com/v1")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	auth *Auth

	// deviceMu guards deviceLocks; each device gets its own mutex so that
	// read-modify-write settings updates to one device are serialized while
	// updates to different devices proceed in parallel.
	deviceMu    sync.Mutex
	deviceLocks map[string]*sync.Mutex
}

// NewClient creates a client for the production DeWarmte cloud API.
func NewClient(email, password string) *Client {
	return NewClientWithBaseURL(email, password, DefaultBaseURL)
}

// NewClientWithBaseURL creates a client with a custom base URL.
// Used by tests to point at a mock server.
func NewClientWithBaseURL(email, password, baseURL string) *Client {
	httpClient := &http.Client{Timeout: DefaultTimeout}
	return &Client{
		BaseURL:     baseURL,
		HTTPClient:  httpClient,
		auth:        NewAuth(email, password, baseURL, httpClient),
		deviceLocks: make(map[string]*sync.Mutex),
	}
}

// Auth exposes the token manager, mainly for callers that want to
// pre-authenticate or inspect token freshness.
func (c *Client) Auth() *Auth {
	return c.auth
}

// Login performs an immediate credential exchange. Callers may skip this
// and rely on the lazy login performed by the first request.
func (c *Client) Login() bool {
	return c.auth.EnsureToken(true)
}

// do executes one authenticated API call and returns the raw response body.
//
// Protocol:
//  1. Ensure a token (no-op when fresh); failure means "not authenticated,
//     try again later".
//  2. Issue the call with the current bearer header.
//  3. On 401: mark the token expired, force one re-authentication, and
//     retry the call exactly once.
//  4. Any remaining non-200 (including a second 401) fails the request.
func (c *Client) do(method, path string, body any) ([]byte, error) {
	if !c.auth.EnsureToken(false) {
		return nil, NewAuthError("not authenticated")
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, NewParseError("failed to marshal request body", err)
		}
	}

	resp, err := c.send(method, path, payload)
	if err != nil {
		return nil, NewNetworkError(method+" request failed", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		_ = resp.Body.Close()
		logging.Debug("received 401, re-authenticating", zap.String("path", path))

		c.auth.MarkExpired()
		if !c.auth.EnsureToken(true) {
			return nil, NewAuthError("re-authentication after 401 failed")
		}

		resp, err = c.send(method, path, payload)
		if err != nil {
			return nil, NewNetworkError(method+" retry failed", err)
		}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewNetworkError("failed to read response body", err)
	}

	if resp.StatusCode != http.StatusOK {
		logging.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode),
			zap.ByteString("response", data),
		)
		return nil, NewHTTPError(resp.StatusCode, method+" "+path)
	}

	return data, nil
}

// send issues a single HTTP call with the current bearer header.
func (c *Client) send(method, path string, payload []byte) (*http.Response, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authHeader(c.auth.Token()))

	return c.HTTPClient.Do(req)
}

// getJSON performs a GET request and decodes the response into out.
func (c *Client) getJSON(path string, out any) error {
	data, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return NewParseError("failed to parse response from "+path, err)
	}
	return nil
}

// lockDevice serializes settings updates per device. Returns the unlock func.
func (c *Client) lockDevice(deviceID string) func() {
	c.deviceMu.Lock()
	mu, ok := c.deviceLocks[deviceID]
	if !ok {
		mu = &sync.Mutex{}
		c.deviceLocks[deviceID] = mu
	}
	c.deviceMu.Unlock()

	mu.Lock()
	return mu.Unlock
}
