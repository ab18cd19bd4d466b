// Package restclient provides a reusable JSON-over-HTTP client with connection
// reuse, timeouts and bounded retries with exponential backoff.
package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gear6io/lakecat/pkg/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
)

// Package-specific error codes for the REST client
var (
	RequestFailed   = errors.MustNewCode("restclient.request_failed")
	Unavailable     = errors.MustNewCode("restclient.unavailable")
	DecodeFailed    = errors.MustNewCode("restclient.decode_failed")
	EncodeFailed    = errors.MustNewCode("restclient.encode_failed")
	InvalidEndpoint = errors.MustNewCode("restclient.invalid_endpoint")
)

const (
	defaultConnectTimeout = 10 * time.Second
	defaultReadTimeout    = 30 * time.Second
	defaultMaxRetries     = 3
	defaultRetryDelay     = 1 * time.Second

	requestIDHeader = "X-Request-Id"
)

// Config configures a Client. Zero timeouts and delays fall back to defaults.
// MaxRetries is different: a negative value selects the default budget and an
// explicit zero disables retries.
type Config struct {
	BaseURL        string
	AuthToken      string
	DefaultHeaders map[string]string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	// MaxIdleConnsPerHost tunes transport connection reuse; 0 keeps the
	// package default of 10
	MaxIdleConnsPerHost int
}

// Client issues JSON request/response exchanges against a REST backend.
//
// Transport failures and 5xx responses are retried up to MaxRetries with
// exponential backoff (attempt k waits RetryDelay * 2^(k-1)); 4xx responses
// surface immediately since repetition will not fix a caller error. The
// underlying transport reuses connections across concurrent requests and
// needs no caller-visible locking.
type Client struct {
	baseURL    string
	headers    map[string]string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
	logger     zerolog.Logger
}

// StatusError is the native failure signal of a REST backend: a non-2xx
// response with its body preserved for backend-specific mapping.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, string(e.Body))
}

// StatusCode extracts the HTTP status from err if it carries a StatusError,
// unwrapping as needed; 0 otherwise.
func StatusCode(err error) int {
	for err != nil {
		if se, ok := err.(*StatusError); ok {
			return se.StatusCode
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return 0
		}
		err = u.Unwrap()
	}
	return 0
}

// New creates a Client for the given base endpoint
func New(cfg Config, logger zerolog.Logger) (*Client, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		return nil, errors.Newf(InvalidEndpoint, "endpoint is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, errors.Wrap(InvalidEndpoint, err, "invalid endpoint URL").AddContext("endpoint", cfg.BaseURL)
	}

	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = defaultConnectTimeout
	}
	readTimeout := cfg.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = defaultReadTimeout
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}
	maxIdlePerHost := cfg.MaxIdleConnsPerHost
	if maxIdlePerHost <= 0 {
		maxIdlePerHost = 10
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   maxIdlePerHost,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   connectTimeout,
		ResponseHeaderTimeout: readTimeout,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if err := http2.ConfigureTransport(transport); err != nil {
		logger.Warn().Err(err).Msg("Failed to configure HTTP/2, continuing with HTTP/1.1")
	}

	headers := make(map[string]string, len(cfg.DefaultHeaders)+2)
	for k, v := range cfg.DefaultHeaders {
		headers[k] = v
	}
	if cfg.AuthToken != "" {
		headers["Authorization"] = "Bearer " + cfg.AuthToken
	}

	return &Client{
		baseURL: base,
		headers: headers,
		httpClient: &http.Client{
			Transport: transport,
		},
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		logger:     logger.With().Str("component", "rest-client").Logger(),
	}, nil
}

// BaseURL returns the normalized base endpoint
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues a GET request; out may be nil when no body is expected
func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.execute(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST request with a JSON body
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.execute(ctx, http.MethodPost, path, nil, body, out)
}

// Put issues a PUT request with a JSON body
func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.execute(ctx, http.MethodPut, path, nil, body, out)
}

// Patch issues a PATCH request with a JSON body
func (c *Client) Patch(ctx context.Context, path string, body, out interface{}) error {
	return c.execute(ctx, http.MethodPatch, path, nil, body, out)
}

// Delete issues a DELETE request; out may be nil
func (c *Client) Delete(ctx context.Context, path string, out interface{}) error {
	return c.execute(ctx, http.MethodDelete, path, nil, nil, out)
}

// Close releases idle transport connections
func (c *Client) Close() {
	if t, ok := c.httpClient.Transport.(*http.Transport); ok {
		t.CloseIdleConnections()
	}
}

func (c *Client) buildURL(path string, query url.Values) string {
	full := c.baseURL
	if !strings.HasPrefix(path, "/") {
		full += "/"
	}
	full += path
	if len(query) > 0 {
		full += "?" + query.Encode()
	}
	return full
}

func (c *Client) execute(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return errors.Wrap(EncodeFailed, err, "failed to serialize request body")
		}
	}

	fullURL := c.buildURL(path, query)
	requestID := uuid.NewString()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Attempt k waits retryDelay * 2^(k-1)
			delay := c.retryDelay << (attempt - 1)
			c.logger.Warn().
				Str("method", method).
				Str("url", fullURL).
				Str("request_id", requestID).
				Dur("delay", delay).
				Int("attempt", attempt).
				Int("max_retries", c.maxRetries).
				Msg("Request failed, retrying")
			select {
			case <-ctx.Done():
				return errors.Wrap(errors.CommonCanceled, ctx.Err(), "canceled during retry backoff")
			case <-time.After(delay):
			}
		}

		err := c.attempt(ctx, method, fullURL, requestID, payload, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable(err) {
			return err
		}
		if ctx.Err() != nil {
			return errors.Wrap(errors.CommonCanceled, ctx.Err(), "request canceled")
		}
	}

	return errors.Wrap(Unavailable, lastErr, "request failed after retries").
		AddContext("url", fullURL).
		AddContext("attempts", fmt.Sprintf("%d", c.maxRetries+1))
}

func (c *Client) attempt(ctx context.Context, method, fullURL, requestID string, payload []byte, out interface{}) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return errors.Wrap(RequestFailed, err, "failed to build request")
	}

	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	req.Header.Set(requestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(RequestFailed, err, "transport failure")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(RequestFailed, err, "failed to read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Body: respBody}
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		// The backend did respond; a malformed body is an internal
		// condition, not an availability one, and is never retried.
		return errors.Wrap(DecodeFailed, err, "failed to deserialize response").
			AddContext("status", fmt.Sprintf("%d", resp.StatusCode))
	}
	return nil
}

// retryable reports whether a failure is worth repeating: transport-level
// failures and 5xx responses are; 4xx responses and decode failures are not.
func retryable(err error) bool {
	if se, ok := err.(*StatusError); ok {
		return se.StatusCode >= 500
	}
	return errors.Is(err, RequestFailed)
}
