// Package rest talks to the hosted backend's HTTP APIs (identity and table endpoints).
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Error is a rejection reported by the hosted backend. Message is the backend's own text.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Client sends JSON requests carrying the project's API key.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

// NewClient returns a client without a request timeout; callers bound calls with ctx.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		HTTP:    &http.Client{},
	}
}

// Request describes one call. Bearer defaults to the API key.
type Request struct {
	Method  string
	Path    string
	Body    interface{}
	Bearer  string
	Headers map[string]string
}

// Do performs req and decodes a 2xx JSON body into out (when non-nil).
// Non-2xx responses come back as *Error.
func (c *Client) Do(ctx context.Context, req Request, out interface{}) error {
	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	r, err := http.NewRequestWithContext(ctx, req.Method, c.BaseURL+req.Path, body)
	if err != nil {
		return err
	}

	bearer := req.Bearer
	if bearer == "" {
		bearer = c.APIKey
	}
	r.Header.Set("apikey", c.APIKey)
	r.Header.Set("Authorization", "Bearer "+bearer)
	r.Header.Set("Accept", "application/json")
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.Headers {
		r.Header.Set(k, v)
	}

	resp, err := c.HTTP.Do(r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, raw)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorBody covers the shapes both the identity and the table APIs use.
type errorBody struct {
	Msg              string          `json:"msg"`
	Message          string          `json:"message"`
	ErrorDescription string          `json:"error_description"`
	Error            string          `json:"error"`
	Code             json.RawMessage `json:"code"`
	ErrorCode        string          `json:"error_code"`
}

func decodeError(status int, raw []byte) *Error {
	e := &Error{Status: status}

	var b errorBody
	if err := json.Unmarshal(raw, &b); err == nil {
		for _, m := range []string{b.Msg, b.Message, b.ErrorDescription, b.Error} {
			if m != "" {
				e.Message = m
				break
			}
		}
		e.Code = b.ErrorCode
		if e.Code == "" && len(b.Code) > 0 {
			e.Code = strings.Trim(string(b.Code), `"`)
		}
	}

	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}
