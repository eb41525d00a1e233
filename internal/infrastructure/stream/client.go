// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package stream implements the video and chat platform ports against the Stream REST APIs.
package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/logging"
)

const (
	// DefaultVideoBaseURL is the base URL of the video REST API
	DefaultVideoBaseURL = "https://video.stream-io-api.com/api/v2"
	// DefaultChatBaseURL is the base URL of the chat REST API
	DefaultChatBaseURL = "https://chat.stream-io-api.com"
	// DefaultRealtimeURL is the websocket endpoint that bridges a call to a realtime AI session
	DefaultRealtimeURL = "wss://video.stream-io-api.com/video/connect_agent"
	// DefaultClientTimeout is the default HTTP client timeout for platform requests
	DefaultClientTimeout = 30 * time.Second
	// Default retry configuration
	DefaultMaxRetries        = 3
	DefaultInitialBackoff    = 1 * time.Second
	DefaultMaxBackoff        = 30 * time.Second
	DefaultBackoffMultiplier = 2.0
)

// Config holds the configuration for the platform client
type Config struct {
	APIKey    string
	APISecret string
	// OpenAIAPIKey is handed to the realtime bridge when an agent joins a call.
	OpenAIAPIKey string
	// Optional: override base URLs for testing
	VideoBaseURL string
	ChatBaseURL  string
	RealtimeURL  string
	// Optional: override timeout for HTTP requests
	Timeout time.Duration
	// Optional: retry configuration
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// Client talks to the video and chat REST APIs and owns the realtime agent sessions.
type Client struct {
	httpClient *http.Client
	config     Config
	tokens     *TokenIssuer
	sessions   *SessionRegistry
	newID      func() string
}

var (
	_ domain.VideoPlatform = (*Client)(nil)
	_ domain.ChatPlatform  = (*Client)(nil)
)

// NewClient creates a new platform client
func NewClient(config Config) *Client {
	if config.VideoBaseURL == "" {
		config.VideoBaseURL = DefaultVideoBaseURL
	}
	if config.ChatBaseURL == "" {
		config.ChatBaseURL = DefaultChatBaseURL
	}
	if config.RealtimeURL == "" {
		config.RealtimeURL = DefaultRealtimeURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultClientTimeout
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = DefaultMaxRetries
	}
	if config.InitialBackoff == 0 {
		config.InitialBackoff = DefaultInitialBackoff
	}
	if config.MaxBackoff == 0 {
		config.MaxBackoff = DefaultMaxBackoff
	}
	if config.BackoffMultiplier == 0 {
		config.BackoffMultiplier = DefaultBackoffMultiplier
	}

	tokens := NewTokenIssuer(config.APISecret)

	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		config:   config,
		tokens:   tokens,
		sessions: NewSessionRegistry(config.RealtimeURL, config.OpenAIAPIKey, tokens),
		newID:    uuid.NewString,
	}
}

// Sessions returns the registry of realtime agent sessions opened by this client.
func (c *Client) Sessions() *SessionRegistry {
	return c.sessions
}

// IsReady reports whether the client has credentials to call the platform.
func (c *Client) IsReady() bool {
	return c.config.APIKey != "" && c.config.APISecret != ""
}

// APIError is a non-2xx response from the platform.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("stream API error (status %d, code %d): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("stream API error (status %d)", e.StatusCode)
}

// shouldRetry determines if an error or HTTP status code should be retried
func shouldRetry(statusCode int, err error) bool {
	if err != nil {
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	}

	// Retry on server errors (5xx)
	if statusCode >= 500 && statusCode < 600 {
		return true
	}

	// Retry on rate limiting (429)
	return statusCode == http.StatusTooManyRequests
}

// calculateBackoff calculates the backoff duration for a retry attempt with jitter
func (c *Client) calculateBackoff(attempt int) time.Duration {
	if attempt <= 0 {
		return c.config.InitialBackoff
	}

	backoff := float64(c.config.InitialBackoff) * math.Pow(c.config.BackoffMultiplier, float64(attempt))
	if time.Duration(backoff) > c.config.MaxBackoff {
		backoff = float64(c.config.MaxBackoff)
	}

	// ±25% jitter
	jitter := backoff * 0.25 * (rand.Float64()*2 - 1)
	backoffWithJitter := time.Duration(backoff + jitter)

	if backoffWithJitter < c.config.InitialBackoff {
		backoffWithJitter = c.config.InitialBackoff
	}

	return backoffWithJitter
}

// do performs an authenticated request with retry logic and decodes a JSON response into out.
func (c *Client) do(ctx context.Context, baseURL, method, path string, body, out any) error {
	return c.doWithRetries(ctx, c.config.MaxRetries, baseURL, method, path, body, out)
}

// doOnce performs a single attempt. Used for writes that must not be repeated.
func (c *Client) doOnce(ctx context.Context, baseURL, method, path string, body, out any) error {
	return c.doWithRetries(ctx, 0, baseURL, method, path, body, out)
}

func (c *Client) doWithRetries(ctx context.Context, maxRetries int, baseURL, method, path string, body, out any) error {
	jsonBody, err := marshalRequestBody(body)
	if err != nil {
		return err
	}

	token, err := c.tokens.ServerToken()
	if err != nil {
		return err
	}

	endpoint := baseURL + path + "?" + url.Values{"api_key": []string{c.config.APIKey}}.Encode()
	logger := slog.With("method", method, "path", path)

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.calculateBackoff(attempt - 1)
			logger.WarnContext(ctx, "stream API request failed, retrying",
				"attempt", attempt,
				"max_retries", maxRetries,
				"backoff", backoff.String(),
				logging.ErrKey, lastErr)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := c.createRequest(ctx, method, endpoint, token, jsonBody)
		if err != nil {
			return err
		}

		startTime := time.Now()
		resp, err := c.httpClient.Do(req)
		duration := time.Since(startTime)

		statusCode := 0
		if err == nil {
			statusCode = resp.StatusCode
			lastErr = decodeResponse(resp, out)
		} else {
			lastErr = err
		}

		if lastErr == nil {
			logger.DebugContext(ctx, "stream API request completed",
				"status", statusCode,
				"duration", duration.String(),
				"attempt", attempt+1)
			return nil
		}

		if !shouldRetry(statusCode, err) {
			logger.ErrorContext(ctx, "stream API request failed (not retryable)",
				"status", statusCode,
				"duration", duration.String(),
				"attempt", attempt+1,
				logging.ErrKey, lastErr)
			return lastErr
		}
	}

	logger.ErrorContext(ctx, "stream API request failed after all retries",
		"attempts", maxRetries+1,
		logging.ErrKey, lastErr,
		logging.PriorityCritical())
	return fmt.Errorf("request failed after %d attempts: %w", maxRetries+1, lastErr)
}

// marshalRequestBody marshals the request body to JSON
func marshalRequestBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return jsonBody, nil
}

// createRequest creates a new HTTP request carrying the server token
func (c *Client) createRequest(ctx context.Context, method, endpoint, token string, jsonBody []byte) (*http.Request, error) {
	var bodyReader io.Reader
	if jsonBody != nil {
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)
	req.Header.Set("Stream-Auth-Type", "jwt")
	return req, nil
}

// decodeResponse closes the body and either decodes it into out or returns an *APIError.
func decodeResponse(resp *http.Response, out any) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return parseErrorResponse(resp.StatusCode, body)
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// parseErrorResponse attempts to parse a platform error response
func parseErrorResponse(statusCode int, body []byte) error {
	var errResp struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	apiErr := &APIError{StatusCode: statusCode}
	if err := json.Unmarshal(body, &errResp); err == nil {
		apiErr.Code = errResp.Code
		apiErr.Message = errResp.Message
	}
	if apiErr.Message == "" {
		apiErr.Message = string(body)
	}
	return apiErr
}
