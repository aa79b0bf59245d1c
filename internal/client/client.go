// Package client is the console's side of the gateway: a request wrapper
// with typed errors, session storage and the resource calls the console
// issues.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// ErrorKind classifies an APIError.
type ErrorKind string

const (
	// KindResponse means the server answered with a non-2xx status.
	KindResponse ErrorKind = "response"
	// KindUnreachable means no HTTP answer was received. StatusCode is 0.
	KindUnreachable ErrorKind = "unreachable"
	// KindMalformedResponse means a 2xx answer could not be decoded.
	KindMalformedResponse ErrorKind = "malformed_response"
)

const (
	fallbackMessage    = "something went wrong"
	unreachableMessage = "cannot reach server, make sure the backend is running"
	malformedMessage   = "malformed response from server"
)

// APIError is every failure returned by Client.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	cause      error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}
	return e.Message
}

func (e *APIError) Unwrap() error { return e.cause }

// AsAPIError returns err as an *APIError when it is one.
func AsAPIError(err error) (*APIError, bool) {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// RequestOptions tunes a single call.
type RequestOptions struct {
	// Body is encoded as JSON when non-nil.
	Body any
	// Token is sent as "Authorization: Bearer <token>" when non-empty.
	Token string
	// Headers are merged over the default Content-Type.
	Headers map[string]string
}

// Client issues JSON requests against a base URL.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// New returns a Client rooted at baseURL. A nil httpClient uses http.DefaultClient.
func New(baseURL string, httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		log:     log,
	}
}

func (c *Client) url(endpoint string) string {
	if endpoint == "" {
		return c.baseURL
	}
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return c.baseURL + endpoint
}

// Do sends one request to endpoint (relative to the base URL) and decodes a
// successful body into out. out may be nil; the body must still be JSON.
func (c *Client) Do(ctx context.Context, method, endpoint string, opts RequestOptions, out any) error {
	var body io.Reader
	if opts.Body != nil {
		payload, err := json.Marshal(opts.Body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(endpoint), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	if opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.Token)
	}

	c.log.Debug().Str("method", method).Str("endpoint", endpoint).Msg("request")

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Kind: KindUnreachable, Message: unreachableMessage, cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Kind: KindUnreachable, Message: unreachableMessage, cause: err}
	}

	c.log.Debug().Str("endpoint", endpoint).Int("status", resp.StatusCode).Msg("response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Kind: KindResponse, StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		raw = []byte("{}")
	}
	if out == nil {
		var discard any
		out = &discard
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &APIError{Kind: KindMalformedResponse, StatusCode: resp.StatusCode, Message: malformedMessage, cause: err}
	}
	return nil
}

// errorMessage prefers the body's message, then its error, then a fallback.
func errorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   any    `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return fallbackMessage
	}
	if body.Message != "" {
		return body.Message
	}
	if s, ok := body.Error.(string); ok && s != "" {
		return s
	}
	return fallbackMessage
}

func (c *Client) Get(ctx context.Context, endpoint, token string, out any) error {
	return c.Do(ctx, http.MethodGet, endpoint, RequestOptions{Token: token}, out)
}

func (c *Client) Post(ctx context.Context, endpoint string, body any, token string, out any) error {
	return c.Do(ctx, http.MethodPost, endpoint, RequestOptions{Body: body, Token: token}, out)
}

func (c *Client) Put(ctx context.Context, endpoint string, body any, token string, out any) error {
	return c.Do(ctx, http.MethodPut, endpoint, RequestOptions{Body: body, Token: token}, out)
}

func (c *Client) Delete(ctx context.Context, endpoint, token string, out any) error {
	return c.Do(ctx, http.MethodDelete, endpoint, RequestOptions{Token: token}, out)
}
