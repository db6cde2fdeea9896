package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/khanglvm/suggest-engine/internal/activity"
	"github.com/khanglvm/suggest-engine/internal/logging"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// HTTPConfig configures an HTTPClient.
type HTTPConfig struct {
	Endpoint  string
	APIKey    string
	UserAgent string

	// RequestsPerMinute throttles outgoing calls. Zero means unlimited.
	RequestsPerMinute int

	// Client overrides the underlying http.Client.
	Client *http.Client
}

// HTTPClient calls a generation service over HTTP with a JSON body:
//
//	POST {endpoint}  {"prompt": ..., "schema": ...}
//	200              {"title": ..., "description": ..., ...}
type HTTPClient struct {
	endpoint  string
	apiKey    string
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
}

type generateRequest struct {
	Prompt Prompt `json:"prompt"`
	Schema Schema `json:"schema"`
}

// NewHTTPClient creates a client for cfg.Endpoint.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("generator endpoint is required")
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}

	return &HTTPClient{
		endpoint:  cfg.Endpoint,
		apiKey:    cfg.APIKey,
		userAgent: cfg.UserAgent,
		client:    client,
		limiter:   limiter,
	}, nil
}

// Generate sends one generation request. The caller's context bounds the
// whole attempt, including time spent waiting on the rate limiter.
func (c *HTTPClient) Generate(ctx context.Context, prompt Prompt, schema Schema) (activity.Suggestion, error) {
	var zero activity.Suggestion

	if err := c.limiter.Wait(ctx); err != nil {
		return zero, classifyTransport(ctx, err)
	}

	body, err := json.Marshal(generateRequest{Prompt: prompt, Schema: schema})
	if err != nil {
		return zero, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return zero, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return zero, classifyTransport(ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return zero, classifyTransport(ctx, err)
	}

	logging.Debug().
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("generator responded")

	switch {
	case resp.StatusCode == http.StatusRequestTimeout || resp.StatusCode == http.StatusGatewayTimeout:
		return zero, fmt.Errorf("%w: status %d", ErrTimeout, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return zero, fmt.Errorf("%w: status %d", ErrNetwork, resp.StatusCode)
	case resp.StatusCode >= 400:
		return zero, fmt.Errorf("generator rejected request: status %d", resp.StatusCode)
	}

	var s activity.Suggestion
	if err := json.Unmarshal(data, &s); err != nil {
		return zero, &ValidationError{Err: err}
	}

	return s, nil
}

// classifyTransport maps a transport-level failure onto ErrTimeout or ErrNetwork.
func classifyTransport(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	return fmt.Errorf("%w: %v", ErrNetwork, err)
}
