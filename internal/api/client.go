// Package api implements the HTTP client for the taskdeck backend. Every
// response body uses the {success, message, data} envelope; this package
// decodes it and converts non-success responses into typed errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrorKind classifies a failed API call.
type ErrorKind int

const (
	// KindTransport means the request never completed (connection refused,
	// timeout, cancelled context).
	KindTransport ErrorKind = iota
	// KindHTTP means the server answered with a non-2xx status.
	KindHTTP
	// KindApplication means a 2xx response carried success:false.
	KindApplication
)

// Error is the failure type for every API call. Message always carries a
// human-readable description, preferring the server-provided envelope
// message when one exists.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// TokenSource supplies the bearer token for authenticated requests. It is
// consulted on every call, so a logout between calls is honored immediately.
type TokenSource interface {
	Token() (string, error)
}

// envelope is the wire format of every backend response.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client issues requests against the taskdeck backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// NewClient creates a Client for the given base URL. tokens may be nil for
// an unauthenticated client; httpClient may be nil to use http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client, tokens TokenSource) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		tokens:     tokens,
	}
}

// do performs one request/response cycle. body is JSON-encoded when non-nil;
// on success the envelope's data field is decoded into out when out is
// non-nil. All failures are returned as *Error.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	// The token is read from durable storage at call time, not cached.
	if c.tokens != nil {
		if token, err := c.tokens.Token(); err == nil && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Kind: KindTransport, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindTransport, Message: fmt.Sprintf("reading response body: %s", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Unparseable bodies are tolerated on the error path.
		var env envelope
		_ = json.Unmarshal(raw, &env)
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		return &Error{Kind: KindHTTP, Status: resp.StatusCode, Message: msg}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &Error{
			Kind:    KindApplication,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("decoding response envelope: %s", err),
		}
	}

	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "server reported failure"
		}
		return &Error{Kind: KindApplication, Status: resp.StatusCode, Message: msg}
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &Error{
				Kind:    KindApplication,
				Status:  resp.StatusCode,
				Message: fmt.Sprintf("decoding response data: %s", err),
			}
		}
	}

	return nil
}
