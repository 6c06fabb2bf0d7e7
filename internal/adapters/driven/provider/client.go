// Package provider holds the HTTP plumbing shared by the embedding,
// generation and translation adapters. Every failure it returns is either
// a context error or a *domain.ProviderError, so callers can classify it
// and the retry layer can decide whether to try again.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/polyglot/internal/core/domain"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 32 << 20

// maxMessageLen bounds the provider message kept on an error.
const maxMessageLen = 300

// Client sends JSON requests to one provider API.
type Client struct {
	name    string
	baseURL string
	header  http.Header
	http    *http.Client
}

// NewClient creates a client for the named provider. header is sent with
// every request, typically for authentication.
func NewClient(name, baseURL string, timeout time.Duration, header http.Header) *Client {
	if header == nil {
		header = http.Header{}
	}
	return &Client{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		header:  header,
		http:    &http.Client{Timeout: timeout},
	}
}

// Name returns the provider name used in errors.
func (c *Client) Name() string {
	return c.name
}

// BaseURL returns the API base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// PostJSON sends in as JSON to path and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, op, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s %s: marshal request: %w", c.name, op, err)
	}
	return c.do(ctx, op, http.MethodPost, path, bytes.NewReader(body), out)
}

// Get fetches path and decodes the response into out. out may be nil
// when only the status matters.
func (c *Client) Get(ctx context.Context, op, path string, out any) error {
	return c.do(ctx, op, http.MethodGet, path, http.NoBody, out)
}

func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s %s: create request: %w", c.name, op, err)
	}
	for key, values := range c.header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return domain.NewProviderError(c.name, op, 0, "", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return domain.NewProviderError(c.name, op, 0, "read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		perr := domain.NewProviderError(c.name, op, resp.StatusCode, errorMessage(data), nil)
		perr.RetryAfter = ParseRetryAfter(resp.Header.Get("Retry-After"), time.Now())
		return perr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return domain.NewInvalidResponseError(c.name, op, "decode response: "+err.Error())
	}
	return nil
}

// errorMessage pulls the human-readable message out of an error body.
// OpenAI and Anthropic nest it under error.message, Ollama sends a string.
func errorMessage(body []byte) string {
	var nested struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &nested) == nil && nested.Error.Message != "" {
		return nested.Error.Message
	}
	var flat struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &flat) == nil && flat.Error != "" {
		return flat.Error
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxMessageLen {
		msg = msg[:maxMessageLen] + "..."
	}
	return msg
}

// ParseRetryAfter reads a Retry-After header given either as seconds or
// as an HTTP date. Unparseable or past values yield zero.
func ParseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}

// IsStatus reports whether err is a provider error with the given status.
func IsStatus(err error, status int) bool {
	var perr *domain.ProviderError
	return errors.As(err, &perr) && perr.StatusCode == status
}
