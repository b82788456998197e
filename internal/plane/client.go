// Package plane is a thin client for the Plane REST API (v1).
//
// Every call is scoped to one workspace and authenticated with an API key
// sent in the X-API-Key header. Non-2xx responses come back as *Error,
// classified by HTTP status; see Classify.
package plane

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a single request when Config.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Config holds everything needed to reach a Plane workspace.
type Config struct {
	BaseURL   string // e.g. https://plane.example.com/api/v1
	Workspace string // workspace slug
	APIKey    string
	Timeout   time.Duration

	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
	UserAgent  string
}

// Client performs JSON requests against one Plane workspace.
// It is safe for concurrent use.
type Client struct {
	base      string
	apiKey    string
	userAgent string
	http      *http.Client
}

// NewClient creates a Client. A missing API key is not an error here;
// it is reported by the first call instead.
func NewClient(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = "plane-mcp"
	}
	return &Client{
		base:      strings.TrimRight(cfg.BaseURL, "/") + "/workspaces/" + cfg.Workspace,
		apiKey:    cfg.APIKey,
		userAgent: ua,
		http:      hc,
	}
}

// Do sends a request to endpoint (relative to the workspace, starting with
// "/") and decodes the response into out when out is non-nil. A 204
// response leaves out untouched.
func (c *Client) Do(ctx context.Context, method, endpoint string, body, out any) error {
	if c.apiKey == "" {
		return Unauthenticated("PLANE_API_KEY environment variable is not set")
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+endpoint, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var parsed any
		if err := json.Unmarshal(raw, &parsed); err != nil {
			parsed = nil
		}
		return Classify(resp.StatusCode, parsed)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, endpoint, err)
	}
	return nil
}
