package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kpauljoseph/flashcards/pkg/logger"
	"github.com/kpauljoseph/flashcards/pkg/version"
)

const (
	DefaultBaseURL  = "http://127.0.0.1:8000/api"
	RequestIDHeader = "X-Request-ID"
)

// Client talks to the flashcards REST API. Every call is a single attempt:
// there are no retries, and no timeout unless one is configured.
type Client struct {
	baseURL       string
	http          *http.Client
	logger        *logger.Logger
	tagIDEncoding TagIDEncoding
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout bounds each request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d, Transport: c.http.Transport}
		}
	}
}

func WithTagIDEncoding(enc TagIDEncoding) Option {
	return func(c *Client) {
		c.tagIDEncoding = enc
	}
}

func NewClient(baseURL string, logger *logger.Logger, options ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		http:          &http.Client{},
		logger:        logger,
		tagIDEncoding: TagIDEncodingBoth,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchJSON issues a GET and decodes the JSON body into out.
func (c *Client) FetchJSON(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, "", out)
}

// PostForm issues a multipart POST built from form.
func (c *Client) PostForm(ctx context.Context, path string, form *Form, out interface{}) error {
	body, contentType, err := form.Encode()
	if err != nil {
		return &RequestError{Method: http.MethodPost, Path: path, Err: fmt.Errorf("failed to build form: %w", err)}
	}
	return c.do(ctx, http.MethodPost, path, body, contentType, out)
}

// PostJSON issues a POST with in marshalled as the JSON body.
func (c *Client) PostJSON(ctx context.Context, path string, in, out interface{}) error {
	data, err := json.Marshal(in)
	if err != nil {
		return &RequestError{Method: http.MethodPost, Path: path, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(data), "application/json", out)
}

// Del issues a DELETE. 204 and every other 2xx count as success.
func (c *Client) Del(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, "", nil)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	reqID := uuid.NewString()
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &RequestError{Method: method, Path: path, Err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set(RequestIDHeader, reqID)

	start := time.Now()
	c.logger.Debug("%s %s [%s]", method, path, reqID)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("%s %s [%s] failed: %v", method, path, reqID, err)
		return &RequestError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Method: method, Path: path, Status: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	c.logger.Debug("%s %s [%s] -> %d in %s", method, path, reqID, resp.StatusCode, time.Since(start))
	c.logger.Trace("response body: %s", data)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RequestError{Method: method, Path: path, Status: resp.StatusCode, Body: string(data)}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &RequestError{Method: method, Path: path, Status: resp.StatusCode, Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	return nil
}
