package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// TokenSource supplies the bearer token attached to outgoing requests and is
// cleared when the backend reports the session invalid. session.Store
// implements it.
type TokenSource interface {
	// Token returns the current session token, or "" when absent.
	// An absent token is not an error; the request goes out unauthenticated.
	Token() string
	// Clear removes the persisted session. Must be idempotent.
	Clear() error
}

// AuthErrorHandler is invoked after a 401 response has cleared the token
// store, before the error reaches the calling code. It is the injection
// point for "go back to login" so this package stays navigation-agnostic.
type AuthErrorHandler func()

// Client is the avanto API client.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	debug      io.Writer // request logging in development mode, nil otherwise

	mu          sync.Mutex
	onAuthError AuthErrorHandler
}

// New creates a new API client. tokens may be nil, in which case every
// request goes out unauthenticated.
func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetAuthErrorHandler registers the callback invoked on authorization
// failures. Passing nil removes the handler.
func (c *Client) SetAuthErrorHandler(fn AuthErrorHandler) {
	c.mu.Lock()
	c.onAuthError = fn
	c.mu.Unlock()
}

// SetDebugWriter enables request/response logging to w. Intended for
// development configurations only.
func (c *Client) SetDebugWriter(w io.Writer) {
	c.debug = w
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPut, path, body, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	if c.debug != nil {
		fmt.Fprintf(c.debug, "-> %s %s\n", method, path) //nolint:errcheck
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// No response at all: connectivity, DNS, timeout.
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if c.debug != nil {
		fmt.Fprintf(c.debug, "<- %d %s %s\n", resp.StatusCode, method, path) //nolint:errcheck
	}

	if resp.StatusCode >= 400 {
		return c.handleErrorResponse(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// handleErrorResponse maps a non-2xx response to an APIError. A 401 clears
// the token store and fires the auth-error handler exactly once, before the
// error reaches the caller, so views never need to re-check for expired
// sessions. The failed request is never retried.
func (c *Client) handleErrorResponse(resp *http.Response) error {
	msg := decodeErrorMessage(resp.Body)

	if resp.StatusCode == http.StatusUnauthorized {
		if c.tokens != nil {
			c.tokens.Clear() //nolint:errcheck // session is over either way
		}
		c.mu.Lock()
		fn := c.onAuthError
		c.mu.Unlock()
		if fn != nil {
			fn()
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    msg,
		kind:       kindForStatus(resp.StatusCode),
	}
}

func kindForStatus(status int) error {
	switch status {
	case http.StatusUnauthorized:
		return ErrSessionExpired
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return ErrValidation
	default:
		return nil
	}
}

// decodeErrorMessage pulls a human-readable message out of an error body.
// The backend has used both {"error": ...} and {"message": ...} envelopes
// over time, so both are accepted.
func decodeErrorMessage(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, 1<<20)) // 1 MB max error body
	if err != nil {
		return fmt.Sprintf("failed to read body: %v", err)
	}
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &envelope) == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	return string(body)
}
