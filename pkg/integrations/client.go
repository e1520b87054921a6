package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/molpic/molpic/pkg/buildinfo"
	"github.com/molpic/molpic/pkg/httputil"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a compound doesn't exist in the service.
	ErrNotFound = errors.New("compound not found")

	// ErrBadRequest is returned when the service rejects the request input
	// (for example a SMILES string it cannot parse).
	ErrBadRequest = errors.New("rejected by service")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors,
	// 5xx responses).
	ErrNetwork = errors.New("network error")
)

// Client provides shared HTTP functionality for the chemical database
// clients. It handles retry of transient faults and common request headers.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	http    *http.Client
	headers map[string]string
}

// NewClient creates a Client with default headers applied to all requests.
// Pass nil for headers if no extra headers are needed; a User-Agent
// identifying molpic is always set.
func NewClient(headers map[string]string) *Client {
	merged := map[string]string{
		"User-Agent": fmt.Sprintf("molpic/%s (+https://github.com/molpic/molpic)", buildinfo.Version),
	}
	for k, v := range headers {
		merged[k] = v
	}
	return &Client{
		http:    NewHTTPClient(),
		headers: merged,
	}
}

// NewHTTPClient creates an HTTP client with a standard timeout for
// chemical database requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// GetJSON performs an HTTP GET request and JSON-decodes the response into v.
// Transient faults (network errors, 5xx) are retried with backoff; 404 and
// 400 responses are returned immediately as [ErrNotFound] and
// [ErrBadRequest].
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	return httputil.RetryWithBackoff(ctx, func() error {
		body, err := c.doRequest(ctx, url)
		if err != nil {
			return err
		}
		defer body.Close()
		return json.NewDecoder(body).Decode(v)
	})
}

// GetText performs an HTTP GET request and returns the response body as a
// string. Useful for plain-text endpoints like the CACTUS resolver or SDF
// records. Retry behavior matches [Client.GetJSON].
func (c *Client) GetText(ctx context.Context, url string) (string, error) {
	var text string
	err := httputil.RetryWithBackoff(ctx, func() error {
		body, err := c.doRequest(ctx, url)
		if err != nil {
			return err
		}
		defer body.Close()
		data, err := io.ReadAll(body)
		if err != nil {
			return &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
		}
		text = string(data)
		return nil
	})
	return text, err
}

func (c *Client) doRequest(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusBadRequest:
		return ErrBadRequest
	case code >= 500 || code == http.StatusTooManyRequests:
		return &httputil.RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

// NormalizeName converts a compound name to the form sent to lookup
// services: trimmed, with inner whitespace collapsed to single spaces.
// Chemical names are matched case-insensitively by both PubChem and
// CACTUS, so case is preserved for display purposes.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// URLEncode percent-encodes a string for use in URL query values.
// This is a convenience wrapper around [url.QueryEscape].
func URLEncode(s string) string { return url.QueryEscape(s) }

// PathEncode percent-encodes a string for use as a URL path segment,
// which keeps characters like '+' intact that query encoding would mangle.
func PathEncode(s string) string { return url.PathEscape(s) }
