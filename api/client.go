package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sdklog "github.com/Andamio-Platform/andamio-sdk-go/pkg/log"
)

// Endpoint names a platform API operation.
type Endpoint struct {
	Method string
	Path   string
}

// TokenSource supplies the caller's identity token for authenticated calls.
// The SDK only reads tokens; ownership and refresh stay with the caller.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource returning a fixed token.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

// Config for the platform API client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Tokens  TokenSource
	Logger  sdklog.Logger
}

// Client issues authenticated JSON requests against the platform API.
type Client struct {
	baseURL string
	httpc   *http.Client
	tokens  TokenSource
	logger  sdklog.Logger
}

// New creates a platform API client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = sdklog.NoopLogger{}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpc:   &http.Client{Timeout: cfg.Timeout},
		tokens:  cfg.Tokens,
		logger:  logger,
	}, nil
}

// Close releases idle transport connections.
func (c *Client) Close() {
	c.httpc.CloseIdleConnections()
}

// Error is a non-2xx platform API response. Error() yields the structured
// message when the backend provided one, so callers can surface it verbatim.
type Error struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Body != "" {
		return e.Body
	}
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

// Do issues one request. GET serializes params into the query string; every
// other method sends them as a JSON body. The raw response payload is
// returned for the caller to shape.
func (c *Client) Do(ctx context.Context, ep Endpoint, params map[string]any) (json.RawMessage, error) {
	method := strings.ToUpper(ep.Method)
	if method == "" {
		method = http.MethodGet
	}

	target := c.baseURL + "/" + strings.TrimLeft(ep.Path, "/")

	var body io.Reader
	if method == http.MethodGet {
		if len(params) > 0 {
			q := url.Values{}
			for k, v := range params {
				q.Set(k, fmt.Sprint(v))
			}
			target += "?" + q.Encode()
		}
	} else if params != nil {
		encoded, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolve token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	c.logger.Printf("api request %s %s", method, ep.Path)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, ep.Path, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseError(resp.StatusCode, payload)
	}

	return json.RawMessage(payload), nil
}

// parseError extracts a structured backend error message, falling back to the
// raw response body.
func parseError(status int, payload []byte) *Error {
	apiErr := &Error{StatusCode: status, Body: strings.TrimSpace(string(payload))}
	var shaped struct {
		Message string `json:"message"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(payload, &shaped); err == nil {
		switch {
		case shaped.Message != "":
			apiErr.Message = shaped.Message
		case shaped.Details != "":
			apiErr.Message = shaped.Details
		}
	}
	return apiErr
}
