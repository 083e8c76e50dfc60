// internal/adapters/api/client.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/solesync/solesync/internal/core/ports"
)

// HTTPError carries the status of a non-2xx response together with a
// best-effort message extracted from the body.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// errorBody is the JSON error envelope some endpoints return
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRateLimit throttles outgoing requests to rps requests per second
// with the given burst
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// WithPageCache enables a read-through cache for GET responses. Entries for a
// resource are invalidated on every successful mutation of that resource, so
// the store's re-fetch-after-write always observes fresh data.
func WithPageCache(cache ports.CacheRepository, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

// Client is the HTTP transport adapter for the remote inventory API
type Client struct {
	baseURL  string
	http     *http.Client
	limiter  *rate.Limiter
	cache    ports.CacheRepository
	cacheTTL time.Duration
	logger   *slog.Logger
}

// Statically assert that *Client implements the Gateway interface.
var _ ports.Gateway = (*Client)(nil)

// NewClient creates a transport adapter rooted at baseURL
func NewClient(baseURL string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logger.With(slog.String("component", "api_client")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// buildQuery encodes query parameters, omitting empty values entirely
func buildQuery(params map[string]string) string {
	values := url.Values{}
	for k, v := range params {
		if v == "" {
			continue
		}
		values.Set(k, v)
	}
	qs := values.Encode()
	if qs == "" {
		return ""
	}
	return "?" + qs
}

// GetJSON performs a GET request, serving from the page cache when enabled
func (c *Client) GetJSON(ctx context.Context, path string, query map[string]string) (json.RawMessage, error) {
	target := path + buildQuery(query)

	if c.cache != nil {
		key := pageCacheKey(target)
		var cached json.RawMessage
		if err := c.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}

		raw, err := c.do(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, err
		}
		if raw != nil {
			if err := c.cache.SetWithTTL(ctx, key, raw, c.cacheTTL); err != nil {
				c.logger.WarnContext(ctx, "failed to cache page response",
					slog.String("key", key),
					slog.String("error", err.Error()))
			}
		}
		return raw, nil
	}

	return c.do(ctx, http.MethodGet, target, nil)
}

// PostJSON performs a POST request with a JSON body
func (c *Client) PostJSON(ctx context.Context, path string, body any) (json.RawMessage, error) {
	raw, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}
	c.invalidateResource(ctx, path)
	return raw, nil
}

// PutJSON performs a PUT request with a JSON body
func (c *Client) PutJSON(ctx context.Context, path string, body any) (json.RawMessage, error) {
	raw, err := c.do(ctx, http.MethodPut, path, body)
	if err != nil {
		return nil, err
	}
	c.invalidateResource(ctx, path)
	return raw, nil
}

// DeleteJSON performs a DELETE request
func (c *Client) DeleteJSON(ctx context.Context, path string) (json.RawMessage, error) {
	raw, err := c.do(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return nil, err
	}
	c.invalidateResource(ctx, path)
	return raw, nil
}

func (c *Client) do(ctx context.Context, method, target string, body any) (json.RawMessage, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "api call",
		slog.String("method", method),
		slog.String("path", target),
		slog.String("request_id", requestID),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))

	return handleResponse(resp)
}

// handleResponse classifies the response: 204 resolves to nil, non-2xx to an
// *HTTPError with a message pulled from a JSON message/error field or the raw
// text body. A malformed JSON error body falls back to "HTTP <status>".
func handleResponse(resp *http.Response) (json.RawMessage, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := fmt.Sprintf("HTTP %d", resp.StatusCode)
		if isJSONContent(resp.Header.Get("Content-Type")) {
			var body errorBody
			if jsonErr := json.Unmarshal(data, &body); jsonErr == nil {
				if body.Message != "" {
					message += " - " + body.Message
				} else if body.Error != "" {
					message += " - " + body.Error
				}
			}
		} else if text := strings.TrimSpace(string(data)); text != "" {
			message += " - " + text
		}
		return nil, &HTTPError{Status: resp.StatusCode, Message: message}
	}

	if resp.StatusCode == http.StatusNoContent || len(data) == 0 {
		return nil, nil
	}
	return json.RawMessage(data), nil
}

func isJSONContent(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// invalidateResource drops cached GET responses for the resource addressed by
// path, keyed on its first segment.
func (c *Client) invalidateResource(ctx context.Context, path string) {
	if c.cache == nil {
		return
	}
	pattern := pageCacheKey(resourceRoot(path)) + "*"
	if err := c.cache.DeletePattern(ctx, pattern); err != nil {
		c.logger.WarnContext(ctx, "failed to invalidate page cache",
			slog.String("pattern", pattern),
			slog.String("error", err.Error()))
	}
}

// resourceRoot returns the first path segment, e.g. "/Shoes/3" -> "/Shoes"
func resourceRoot(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.Index(trimmed, "/"); i >= 0 {
		trimmed = trimmed[:i]
	}
	return "/" + trimmed
}

func pageCacheKey(target string) string {
	return "page:" + target
}

// IsHTTPError reports whether err is an *HTTPError with the given status
func IsHTTPError(err error, status int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status == status
	}
	return false
}
