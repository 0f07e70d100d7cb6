// internal/adapters/rest/client.go
package rest

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
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/NavodaLakshika/erp-frontend/internal/core/domain"
	"github.com/NavodaLakshika/erp-frontend/internal/pkg/logger"
)

const maxBodyBytes = 8 << 20

// errBodyTooLarge marks a 2xx response cut off at the size limit.
var errBodyTooLarge = errors.New("response body exceeds size limit")

// APIError is a rejected request or a non-2xx response.
type APIError struct {
	Method     string
	Path       string
	StatusCode int // 0 when no response arrived
	Body       string
	RequestID  string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s failed: %v", e.Method, e.Path, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s %s returned %d: %v", e.Method, e.Path, e.StatusCode, e.Err)
	}
	msg := fmt.Sprintf("%s %s returned %d", e.Method, e.Path, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Unwrap exposes the error class and the transport error, if any.
func (e *APIError) Unwrap() []error {
	class := domain.ErrNetworkFailure
	if e.StatusCode == http.StatusUnauthorized {
		class = domain.ErrUnauthorized
	}
	if e.Err != nil {
		return []error{class, e.Err}
	}
	return []error{class}
}

// Options configures the backend client.
type Options struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	RateLimit  float64
	RateBurst  int
	UserAgent  string
	HTTPClient *http.Client
}

// Client talks JSON to the ERP backend. It attaches the bearer token and a
// fresh X-Request-ID to every call and throttles outbound requests.
// It never retries.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	maxBody    int64
	logger     *slog.Logger

	mu    sync.RWMutex
	token string
}

// NewClient creates a new backend client
func NewClient(opts Options, logger *slog.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 10
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = 20
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "erp-pos"
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		userAgent:  opts.UserAgent,
		limiter:    rate.NewLimiter(rate.Limit(opts.RateLimit), opts.RateBurst),
		maxBody:    maxBodyBytes,
		logger:     logger.With(slog.String("adapter", "rest")),
		token:      opts.Token,
	}
}

// SetToken replaces the session token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do sends one request and returns the raw 2xx body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	requestID := uuid.NewString()
	ctx = logger.WithRequestID(ctx, requestID)

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Superseded or closed callers cancel on purpose; that is not a
		// network failure.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.WarnContext(ctx, "request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil, &APIError{Method: method, Path: path, RequestID: requestID, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, RequestID: requestID,
			Err: fmt.Errorf("failed to read response body: %w", err)}
	}
	// A truncated list must not decode as an empty one.
	if int64(len(data)) > c.maxBody && resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		c.logger.ErrorContext(ctx, "response body too large",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int64("limit_bytes", c.maxBody))
		return nil, &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, RequestID: requestID,
			Err: fmt.Errorf("%w (%d bytes)", errBodyTooLarge, c.maxBody)}
	}

	c.logger.DebugContext(ctx, "request completed",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration_ms", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       errorMessage(data),
			RequestID:  requestID,
		}
		level := slog.LevelWarn
		if resp.StatusCode >= 500 {
			level = slog.LevelError
		}
		c.logger.Log(ctx, level, "request rejected",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode))
		return nil, apiErr
	}

	return data, nil
}

// errorMessage pulls {"message": ...} out of an error body, or truncates it.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}

	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}

// IsUnauthorized reports whether err means the session token was rejected.
func IsUnauthorized(err error) bool {
	return errors.Is(err, domain.ErrUnauthorized)
}
