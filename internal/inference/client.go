// Package inference talks to a Hugging Face compatible inference endpoint.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"

	"github.com/spherical-ai/scitrans/internal/domain"
	"github.com/spherical-ai/scitrans/internal/observability"
)

const (
	defaultEndpoint         = "https://api-inference.huggingface.co/models/HuggingFaceH4/zephyr-7b-beta"
	defaultMaxAttempts      = 3
	defaultRetryDelay       = 1000 * time.Millisecond
	defaultTimeout          = 30 * time.Second
	defaultMaxResponseBytes = 4 << 20
)

// Config holds inference client configuration.
type Config struct {
	APIKey           string
	Endpoint         string // text generation model URL
	EntityEndpoint   string // optional token-classification model URL
	MaxAttempts      int
	RetryDelay       time.Duration // zero means 1s
	Timeout          time.Duration
	MaxResponseBytes int64
	MaxConcurrent    int64 // 0 means unlimited
}

// Sleeper waits for d or until ctx is done, whichever comes first.
type Sleeper func(ctx context.Context, d time.Duration) error

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithSleeper replaces the inter-attempt wait, mainly for tests.
func WithSleeper(s Sleeper) Option {
	return func(c *Client) { c.sleep = s }
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(l *observability.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// Client posts prompts to the inference endpoint with bounded retry.
type Client struct {
	cfg        Config
	httpClient *http.Client
	sleep      Sleeper
	sem        *semaphore.Weighted
	logger     *observability.Logger
}

// Response is the outcome of one logical call, after retries.
type Response struct {
	Body       string
	StatusCode int
	Status     string
	Attempts   int
	// Err is set when no HTTP response was obtained (transport failure, cancellation).
	Err error
}

// OK reports whether the upstream answered with a 2xx status.
func (r Response) OK() bool {
	return r.Err == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

type request struct {
	Inputs string `json:"inputs"`
}

// NewClient creates a new inference client. The API key is required.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, domain.ConfigError("inference API key is required", nil)
	}

	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}

	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}

	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	if cfg.MaxResponseBytes <= 0 {
		cfg.MaxResponseBytes = defaultMaxResponseBytes
	}

	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		sleep:      sleepContext,
		logger:     observability.Nop(),
	}
	if cfg.MaxConcurrent > 0 {
		c.sem = semaphore.NewWeighted(cfg.MaxConcurrent)
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Call sends prompt to the text generation endpoint. It never panics and never
// returns a Go error; failures are reported through the Response.
func (c *Client) Call(ctx context.Context, prompt string) Response {
	return c.post(ctx, c.cfg.Endpoint, prompt)
}

// CallEntities sends text to the entity extraction endpoint.
func (c *Client) CallEntities(ctx context.Context, text string) Response {
	if c.cfg.EntityEndpoint == "" {
		return Response{Err: domain.ConfigError("entity endpoint is not configured", nil)}
	}
	return c.post(ctx, c.cfg.EntityEndpoint, text)
}

// HasEntityEndpoint reports whether CallEntities can be used.
func (c *Client) HasEntityEndpoint() bool {
	return c.cfg.EntityEndpoint != ""
}

func (c *Client) post(ctx context.Context, url, input string) Response {
	body, err := json.Marshal(request{Inputs: input})
	if err != nil {
		return Response{Err: domain.APIError("failed to marshal request", err)}
	}

	if c.sem != nil {
		if err := c.sem.Acquire(ctx, 1); err != nil {
			return Response{Err: domain.APIError("waiting for upstream slot", err)}
		}
		defer c.sem.Release(1)
	}

	return c.retry(ctx, func() Response {
		return c.do(ctx, url, body)
	})
}

// do performs exactly one HTTP exchange.
func (c *Client) do(ctx context.Context, url string, body []byte) Response {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Response{Err: errors.Wrap(err, "build request")}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{Err: errors.Wrap(err, "send request")}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxResponseBytes))
	if err != nil {
		return Response{Err: errors.Wrapf(err, "read response (HTTP %d)", resp.StatusCode)}
	}

	return Response{
		Body:       string(data),
		StatusCode: resp.StatusCode,
		Status:     statusText(resp),
	}
}

func statusText(resp *http.Response) string {
	if resp.Status != "" {
		return resp.Status
	}
	return fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}
