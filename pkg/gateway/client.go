package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"netsight/pkg/config"
	"netsight/pkg/logging"
	"netsight/pkg/version"

	"github.com/google/uuid"
)

const (
	DefaultTimeout  = 30 * time.Second
	maxResponseSize = 4 << 20
	previewLimit    = 200
)

// ErrTransport marks failures to reach the gateway or to read/parse its reply.
var ErrTransport = errors.New("gateway transport failure")

// StatusError is returned when the gateway answers with a non-2xx status.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("gateway returned status %d: %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("gateway returned status %d", e.Code)
}

// Response is a raw gateway reply.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the body into out.
func (r *Response) Decode(out any) error {
	if err := json.Unmarshal(r.Body, out); err != nil {
		return fmt.Errorf("%w: failed to parse response: %v", ErrTransport, err)
	}
	return nil
}

// AuthSource supplies the Authorization header for the current session.
type AuthSource func() http.Header

// Client talks JSON (and form posts) to the portal gateway.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string

	auth AuthSource
}

// NewClient creates a gateway client from configuration.
func NewClient(cfg config.GatewayConfig) *Client {
	timeout := DefaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(cfg.BaseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		UserAgent: "netsight/" + version.Summary(),
	}
}

// SetAuthSource installs the header source used by authenticated calls.
func (c *Client) SetAuthSource(src AuthSource) {
	c.auth = src
}

// Request describes one gateway call.
type Request struct {
	Method string
	Path   string
	// JSON, when set, is marshalled as the request body.
	JSON any
	// Form, when set, is sent url-encoded instead of JSON.
	Form url.Values
	// Bearer overrides the session auth header for this call.
	Bearer string
	// Anonymous skips the session auth header.
	Anonymous bool
}

// Do sends the request and returns the reply whatever its status. Only
// transport problems produce an error, always wrapping ErrTransport.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	var body io.Reader
	contentType := ""
	switch {
	case req.Form != nil:
		body = strings.NewReader(req.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case req.JSON != nil:
		data, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		logTrace(ctx, "gateway_request_body", "path", req.Path, "json", string(data))
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.BaseURL+req.Path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.UserAgent)
	httpReq.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	switch {
	case req.Bearer != "":
		httpReq.Header.Set("Authorization", "Bearer "+req.Bearer)
	case !req.Anonymous && c.auth != nil:
		for k, vs := range c.auth() {
			for _, v := range vs {
				httpReq.Header.Add(k, v)
			}
		}
	}

	slog.Debug("gateway_request",
		"method", method,
		"path", req.Path,
		"request_id", requestID,
		"authenticated", httpReq.Header.Get("Authorization") != "",
	)

	start := time.Now()
	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		slog.Warn("gateway_request_error", "path", req.Path, "request_id", requestID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		slog.Warn("gateway_read_error", "path", req.Path, "request_id", requestID, "error", err)
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrTransport, err)
	}

	slog.Debug("gateway_response",
		"path", req.Path,
		"request_id", requestID,
		"status_code", resp.StatusCode,
		"response_size", len(data),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	logTrace(ctx, "gateway_response_body", "path", req.Path, "body", string(data))

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// Call sends the request, turns non-2xx replies into *StatusError, and
// decodes a 2xx body into out when out is non-nil.
func (c *Client) Call(ctx context.Context, req Request, out any) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	if !resp.OK() {
		detail := errorDetail(resp.Body)
		slog.Warn("gateway_status_error",
			"path", req.Path,
			"status_code", resp.StatusCode,
			"response_preview", preview(resp.Body),
		)
		return &StatusError{Code: resp.StatusCode, Detail: detail}
	}
	if out == nil {
		return nil
	}
	return resp.Decode(out)
}

// errorDetail pulls a human message out of FastAPI-style error bodies.
func errorDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if len(payload.Detail) > 0 {
		var s string
		if json.Unmarshal(payload.Detail, &s) == nil {
			return s
		}
		return string(payload.Detail)
	}
	return payload.Error
}

func preview(body []byte) string {
	s := string(body)
	if len(s) > previewLimit {
		return s[:previewLimit] + "..."
	}
	return s
}

func logTrace(ctx context.Context, msg string, args ...any) {
	logger := slog.Default()
	if logger.Enabled(ctx, logging.LevelTrace) {
		logger.Log(ctx, logging.LevelTrace, msg, args...)
	}
}
