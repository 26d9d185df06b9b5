package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/doshub/portal-backend/internal/pkg/response"
)

// DefaultTimeout bounds every request when no http.Client is supplied.
const DefaultTimeout = 10 * time.Second

// statusError is a non-2xx reply from the server.
type statusError struct {
	Status int
	Body   response.ErrorResponse
}

func (e *statusError) Error() string {
	if e.Body.Error != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Body.Error)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

// Client talks to the portal backend over HTTP. It implements
// content.Repository against the admin API and session.Authenticator
// against the auth API.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	token          func() string
	onUnauthorized func()
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithToken supplies the bearer token for admin requests.
func WithToken(token func() string) Option {
	return func(c *Client) { c.token = token }
}

// WithUnauthorizedHandler registers fn to run when the server rejects the
// bearer token of an admin request.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// New creates a client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		token:      func() string { return "" },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do sends a JSON request and decodes a JSON reply into out when out is not nil.
func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	url := c.baseURL + path

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log.Debug().Str("method", method).Str("url", url).Msg("sending request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		se := &statusError{Status: resp.StatusCode}
		_ = json.Unmarshal(raw, &se.Body)
		log.Debug().Int("status", resp.StatusCode).Str("url", url).Msg("request rejected")
		return se
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

func statusOf(err error) int {
	var se *statusError
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}
