// Package client provides the core OpenAlex HTTP client with daily quota
// gating, response caching, retries, and error handling.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/scholdata/openalex-client/pkg/cache"
	"github.com/scholdata/openalex-client/pkg/ratelimit"
)

// DefaultBaseURL is the OpenAlex API root.
const DefaultBaseURL = "https://api.openalex.org"

// Prometheus metrics for request operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "openalex_requests_total",
		Help: "Total OpenAlex requests by endpoint and status",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "openalex_request_duration_seconds",
		Help:    "OpenAlex request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "openalex_errors_total",
		Help: "Total OpenAlex errors by class",
	}, []string{"class"})
)

// Client is the core OpenAlex HTTP client. All resource-level operations
// funnel through it. Exhaustive fetches issue one request at a time.
type Client struct {
	httpClient *http.Client
	redis      *redis.Client
	quota      *ratelimit.Tracker
	cache      *cache.Manager
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// Redis client for response caching and daily quota state.
	// When nil, caching and quota gating are disabled.
	Redis *redis.Client

	// Mailto identifies the caller to the OpenAlex polite pool (REQUIRED).
	// It is merged into every request's query parameters.
	Mailto string

	// BaseURL overrides the API root (default DefaultBaseURL).
	BaseURL string

	// UserAgent sent with every request.
	UserAgent string

	// DailyQuota limits requests per UTC day. The polite pool allows
	// 100,000 calls per day.
	DailyQuota int

	// CacheTTL is how long successful responses stay cached.
	CacheTTL time.Duration

	// Retry
	MaxRetries     int
	InitialBackoff time.Duration

	// Timeout per request.
	Timeout time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(redisClient *redis.Client, mailto string) Config {
	return Config{
		Redis:          redisClient,
		Mailto:         mailto,
		BaseURL:        DefaultBaseURL,
		UserAgent:      "openalex-client/0.1.0",
		DailyQuota:     ratelimit.DefaultDailyQuota,
		CacheTTL:       15 * time.Minute,
		MaxRetries:     3,
		InitialBackoff: 1 * time.Second,
		Timeout:        30 * time.Second,
	}
}

// New creates a new OpenAlex client.
func New(cfg Config) (*Client, error) {
	if cfg.Mailto == "" {
		return nil, fmt.Errorf("mailto is required (polite pool identification)")
	}
	if !strings.Contains(cfg.Mailto, "@") {
		return nil, fmt.Errorf("mailto must be an email address (got %q)", cfg.Mailto)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.DailyQuota <= 0 {
		cfg.DailyQuota = ratelimit.DefaultDailyQuota
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	logger := log.With().Str("component", "openalex-client").Logger()

	c := &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		redis:  cfg.Redis,
		config: cfg,
		logger: logger,
	}

	if cfg.Redis != nil {
		c.quota = ratelimit.NewTracker(cfg.Redis, cfg.DailyQuota, logger)
		c.cache = cache.NewManager(cfg.Redis)
	} else {
		logger.Info().Msg("No Redis configured - caching and quota gating disabled")
	}

	return c, nil
}

// Get performs a GET request against an API path and returns the response
// body. Every request carries the mailto identification parameter and an
// Accept: application/json header. Any non-2xx response or network failure
// surfaces as *APIError.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	merged := url.Values{}
	for key, values := range query {
		merged[key] = values
	}
	merged.Set("mailto", c.config.Mailto)

	requestURL := c.config.BaseURL + path + "?" + merged.Encode()

	startTime := time.Now()
	defer func() {
		requestDuration.WithLabelValues(path).Observe(time.Since(startTime).Seconds())
	}()

	// Step 1: Check cache
	cacheKey := cache.Key{
		Endpoint:    path,
		QueryParams: merged,
	}
	if c.cache != nil {
		entry, err := c.cache.Get(ctx, cacheKey)
		if err == nil {
			c.logger.Debug().Str("endpoint", path).Msg("Cache hit")
			requestsTotal.WithLabelValues(path, "cached").Inc()
			return entry.Data, nil
		}
		if err != cache.ErrCacheMiss {
			c.logger.Warn().Err(err).Str("endpoint", path).Msg("Cache get error")
		}
	}

	// Step 2: Check daily quota
	if c.quota != nil {
		allowed, err := c.quota.Acquire(ctx)
		if err != nil {
			c.logger.Warn().Err(err).Msg("Quota check failed - allowing request")
		} else if !allowed {
			requestsTotal.WithLabelValues(path, "quota_blocked").Inc()
			return nil, ErrQuotaExceeded
		}
	}

	// Step 3: Execute with retry
	body, err := c.fetch(ctx, http.MethodGet, requestURL, path)
	if err != nil {
		return nil, err
	}

	// Step 4: Cache on success
	if c.cache != nil {
		entry := cache.NewEntry(body, c.config.CacheTTL)
		if err := c.cache.Set(ctx, cacheKey, entry); err != nil {
			c.logger.Warn().Err(err).Str("endpoint", path).Msg("Failed to cache response")
		} else {
			c.logger.Debug().
				Str("endpoint", path).
				Dur("ttl", c.config.CacheTTL).
				Msg("Cached response")
		}
	}

	return body, nil
}

// fetch executes one HTTP request, retrying retryable error classes.
func (c *Client) fetch(ctx context.Context, method, requestURL, endpoint string) ([]byte, error) {
	var body []byte

	attempt := func() error {
		req, err := http.NewRequestWithContext(ctx, method, requestURL, nil)
		if err != nil {
			return &APIError{Method: method, URL: requestURL, ErrorClass: ErrorClassNetwork, Err: err}
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.config.UserAgent)

		c.logger.Debug().
			Str("endpoint", endpoint).
			Str("method", method).
			Msg("Executing OpenAlex request")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			requestsTotal.WithLabelValues(endpoint, "network_error").Inc()
			return &APIError{Method: method, URL: requestURL, ErrorClass: ErrorClassNetwork, Err: err}
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			return &APIError{
				Method:     method,
				URL:        requestURL,
				StatusCode: resp.StatusCode,
				ErrorClass: ErrorClassNetwork,
				Err:        err,
			}
		}

		requestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

		if resp.StatusCode >= 400 {
			class := classifyStatus(resp.StatusCode)
			errorsTotal.WithLabelValues(string(class)).Inc()
			c.logger.Warn().
				Str("endpoint", endpoint).
				Int("status", resp.StatusCode).
				Str("error_class", string(class)).
				Msg("OpenAlex request error")
			return newAPIError(method, requestURL, resp.StatusCode, class, data)
		}

		body = data
		return nil
	}

	retryCfg := RetryConfig{
		MaxAttempts:       c.config.MaxRetries,
		InitialBackoff:    c.config.InitialBackoff,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}
	if retryCfg.MaxAttempts <= 0 || retryCfg.InitialBackoff <= 0 {
		retryCfg = DefaultRetryConfig()
	}

	if err := retryWithBackoff(ctx, retryCfg, attempt); err != nil {
		return nil, err
	}
	return body, nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}
