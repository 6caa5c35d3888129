// Package backend is the typed client for the job-board REST API. Every
// piece of business data - accounts, jobs, applications, companies,
// messages - lives behind this API; the front-end holds nothing but the
// bearer token it was issued at login.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const defaultTimeout = 10 * time.Second

// Client talks to the job-board backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption defines a function type to modify the Client instance.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client (primarily for testing).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates a Client for the backend at baseURL.
func NewClient(baseURL string, options ...ClientOption) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("[NewClient] baseURL is required")
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// apiError is the backend's error envelope.
type apiError struct {
	Message string `json:"message"`
}

// do performs one request against the backend. A non-empty token is sent as
// a bearer credential. 401 maps to ErrUnauthorized and 404 to ErrNotFound so
// callers can branch on them; every other non-2xx status becomes a wrapped
// error carrying the backend's message when one was returned.
func (c *Client) do(ctx context.Context, method, path, token string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "[backend.do] encoding %s %s body", method, path)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return errors.Wrapf(err, "[backend.do] building %s %s", method, path)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "[backend.do] %s %s", method, path)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400:
		var apiErr apiError
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Message != "" {
			return errors.Errorf("[backend.do] %s %s: %s (status %d)", method, path, apiErr.Message, resp.StatusCode)
		}
		return errors.Errorf("[backend.do] %s %s: status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Err(err).Str("method", method).Str("path", path).Msg("Failed to decode backend response")
		return errors.Wrapf(err, "[backend.do] decoding %s %s response", method, path)
	}
	return nil
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}
