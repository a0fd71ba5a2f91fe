// Package gateway is the HTTP client for the BibliotecaG REST backend.
package gateway

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

	"github.com/estaidesoriginal/biblioteca-G/internal/apperr"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// DefaultTimeout is generous: the hosted backend can take a long time to wake up.
const DefaultTimeout = 60 * time.Second

const maxBody = 8 << 20

type Client struct {
	baseURL string
	http    *http.Client
	token   func() string
	log     logrus.FieldLogger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTokenSource sets the bearer token provider, read on every request.
func WithTokenSource(fn func() string) Option {
	return func(c *Client) { c.token = fn }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) { c.log = l }
}

func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		token:   func() string { return "" },
		log:     logrus.StandardLogger(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// do sends one request. body and out may be nil. Transport and decode failures
// become ConnectionError, non-2xx answers become ServerError.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithFields(logrus.Fields{"op": op, "method": method, "path": path}).WithError(err).Warn("gateway request failed")
		return &apperr.ConnectionError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return &apperr.ConnectionError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	c.log.WithFields(logrus.Fields{
		"op":       op,
		"method":   method,
		"path":     path,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("gateway request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &apperr.ServerError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &apperr.ConnectionError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// errorMessage pulls {"error": ...} or {"message": ...} out of a response body,
// falling back to the trimmed text.
func errorMessage(raw []byte) string {
	if gjson.ValidBytes(raw) {
		for _, field := range []string{"error", "message", "detail"} {
			if r := gjson.GetBytes(raw, field); r.Exists() && r.String() != "" {
				return r.String()
			}
		}
	}
	msg := strings.TrimSpace(string(raw))
	if len(msg) > 256 {
		msg = msg[:256] + "...(truncated)"
	}
	return msg
}

func escape(id string) string {
	return url.PathEscape(id)
}
