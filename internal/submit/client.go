// Package submit sends the field configuration to the builder API.
package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"fieldbuilder/internal/adapter"
	"fieldbuilder/internal/model"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

const (
	contentType     = "application/json; charset=utf-8"
	RequestIDHeader = "X-Request-ID"

	// maxResponseBytes bounds how much of a response body is read.
	maxResponseBytes = 1 << 20
)

var ErrEmptyEndpoint = errors.New("submit: empty endpoint")

// HTTPError is a non-2xx answer from the API.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

var (
	messagePolicyOnce sync.Once
	messagePolicy     *bluemonday.Policy
)

// sanitizeMessage strips markup from server-provided text before it reaches a terminal.
func sanitizeMessage(raw string) string {
	messagePolicyOnce.Do(func() {
		messagePolicy = bluemonday.StrictPolicy()
	})
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(messagePolicy.Sanitize(trimmed)))
}

// Client posts payloads to one endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	log      *zap.Logger
	newID    func() string
}

type ClientOption func(*Client)

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets an overall request timeout. Zero keeps the transport default.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			hc := *c.http
			hc.Timeout = d
			c.http = &hc
		}
	}
}

func WithClientLogger(log *zap.Logger) ClientOption {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

func WithRequestID(fn func() string) ClientOption {
	return func(c *Client) {
		if fn != nil {
			c.newID = fn
		}
	}
}

func NewClient(endpoint string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint: strings.TrimSpace(endpoint),
		http:     &http.Client{},
		log:      zap.NewNop(),
		newID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type errorBody struct {
	Message *string `json:"message"`
}

// Post sends p and decodes the echoed payload. It makes exactly one attempt.
func (c *Client) Post(ctx context.Context, p model.Payload) (model.Payload, error) {
	if c.endpoint == "" {
		return model.Payload{}, ErrEmptyEndpoint
	}
	body, err := json.Marshal(p)
	if err != nil {
		return model.Payload{}, fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return model.Payload{}, fmt.Errorf("build request: %w", err)
	}
	reqID := c.newID()
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, reqID)

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("submit: request failed", zap.String("requestId", reqID), zap.Error(err))
		return model.Payload{}, fmt.Errorf("post %s: %w", c.endpoint, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return model.Payload{}, fmt.Errorf("read response: %w", err)
	}
	c.log.Debug("submit: response",
		zap.String("requestId", reqID),
		zap.Int("status", res.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var eb errorBody
		msg := ""
		if json.Unmarshal(raw, &eb) == nil && eb.Message != nil {
			msg = sanitizeMessage(*eb.Message)
		}
		if msg == "" {
			msg = http.StatusText(res.StatusCode)
		}
		return model.Payload{}, &HTTPError{Status: res.StatusCode, Message: msg}
	}

	out, err := adapter.DecodePayload(raw)
	if err != nil {
		return model.Payload{}, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}
