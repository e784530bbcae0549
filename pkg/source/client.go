// Package source provides the HTTP client for the paginated collection
// endpoint, with retry, caching, and error handling.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Yash3470/art-table/pkg/cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// maxResponseBody caps how much of a page response is read into memory.
const maxResponseBody = 1 << 20 // 1MB

// Prometheus metrics for page fetch operations.
var (
	pageRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arttable_source_requests_total",
		Help: "Total page requests by status",
	}, []string{"status"})

	pageRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arttable_source_request_duration_seconds",
		Help:    "Page request duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	})

	sourceErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arttable_source_errors_total",
		Help: "Total fetch errors by class",
	}, []string{"class"})
)

// Client fetches pages from the remote collection endpoint.
type Client struct {
	httpClient *http.Client
	cache      *cache.Manager
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the collection endpoint (e.g. "https://api.artic.edu/api/v1/artworks").
	BaseURL string

	// PageSize is the fixed page size requested via the limit parameter.
	PageSize int

	// Fields restricts the record fields the endpoint returns. Optional.
	Fields []string

	// UserAgent header sent with every request.
	UserAgent string

	// Timeout per HTTP request.
	Timeout time.Duration

	// Cache is the optional page response cache. Nil disables caching.
	Cache *cache.Manager

	// CacheTTL is how long cached pages stay fresh.
	CacheTTL time.Duration
}

// DefaultConfig returns a safe default configuration for the given endpoint.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:   baseURL,
		PageSize:  10,
		UserAgent: "art-table/0.1.0",
		Timeout:   15 * time.Second,
		CacheTTL:  5 * time.Minute,
	}
}

// New creates a new collection client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("page size must be positive (got %d)", cfg.PageSize)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	logger := log.With().Str("component", "source-client").Logger()

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cache:  cfg.Cache,
		config: cfg,
		logger: logger,
	}, nil
}

// PageSize returns the configured page size.
func (c *Client) PageSize() int {
	return c.config.PageSize
}

// FetchPage fetches a single 1-based page of the collection.
// Cached pages are served without a network round trip.
func (c *Client) FetchPage(ctx context.Context, page int) (*Page, error) {
	if page < 1 {
		return nil, fmt.Errorf("page number must be >= 1 (got %d)", page)
	}

	start := time.Now()
	defer func() {
		pageRequestDuration.Observe(time.Since(start).Seconds())
	}()

	key := cache.Key{
		Endpoint: c.config.BaseURL,
		Page:     page,
		Limit:    c.config.PageSize,
	}

	// Step 1: Check cache
	if c.cache != nil {
		entry, err := c.cache.Get(ctx, key)
		if err != nil && err != cache.ErrCacheMiss {
			c.logger.Warn().Err(err).Int("page", page).Msg("Cache get error")
		}
		if entry != nil {
			var p Page
			if uerr := json.Unmarshal(entry.Data, &p); uerr != nil {
				c.logger.Warn().Err(uerr).Int("page", page).Msg("Corrupt cache entry ignored")
			} else {
				c.logger.Debug().
					Int("page", page).
					Msg("Page served from cache")
				pageRequestsTotal.WithLabelValues("cache_hit").Inc()
				return &p, nil
			}
		}
	}

	// Step 2: Execute request with retry logic
	c.logger.Debug().
		Int("page", page).
		Msg("Fetching collection page")

	var result *Page
	retryErr := retryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pageURL(page), nil)
		if err != nil {
			return &SourceError{Class: ErrorClassClient, Message: "create request", Err: err}
		}
		req.Header.Set("User-Agent", c.config.UserAgent)
		req.Header.Set("Accept", "application/json")

		resp, reqErr := c.httpClient.Do(req)
		if reqErr != nil {
			c.logger.Error().Err(reqErr).Int("page", page).Msg("HTTP request failed")
			sourceErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			pageRequestsTotal.WithLabelValues("network_error").Inc()
			return &SourceError{Class: ErrorClassNetwork, Message: "request failed", Err: reqErr}
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			class := classifyStatus(resp.StatusCode)
			sourceErrorsTotal.WithLabelValues(string(class)).Inc()
			pageRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

			c.logger.Warn().
				Int("page", page).
				Int("status", resp.StatusCode).
				Str("error_class", string(class)).
				Msg("Page request error")

			return &SourceError{
				StatusCode: resp.StatusCode,
				Class:      class,
				Message:    resp.Status,
			}
		}

		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
		if readErr != nil {
			sourceErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			return &SourceError{Class: ErrorClassNetwork, Message: "read body", Err: readErr}
		}

		var p Page
		if err := json.Unmarshal(body, &p); err != nil {
			sourceErrorsTotal.WithLabelValues(string(ErrorClassClient)).Inc()
			return &SourceError{Class: ErrorClassClient, Message: "decode page", Err: err}
		}

		pageRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
		result = &p

		// Step 3: Update cache on success
		if c.cache != nil {
			entry := &cache.PageEntry{
				Data:     body,
				CachedAt: time.Now(),
				Expires:  time.Now().Add(c.config.CacheTTL),
			}
			if err := c.cache.Set(ctx, key, entry); err != nil {
				c.logger.Warn().Err(err).Int("page", page).Msg("Failed to cache page")
			} else {
				c.logger.Debug().
					Int("page", page).
					Dur("ttl", c.config.CacheTTL).
					Msg("Cached page")
			}
		}
		return nil
	})

	if retryErr != nil {
		return nil, retryErr
	}

	c.logger.Debug().
		Int("page", page).
		Int("records", len(result.Records)).
		Int("total_pages", result.Pagination.TotalPages).
		Dur("duration", time.Since(start)).
		Msg("Page fetched")

	return result, nil
}

// pageURL builds the request URL for a page.
func (c *Client) pageURL(page int) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(c.config.PageSize))
	if len(c.config.Fields) > 0 {
		q.Set("fields", strings.Join(c.config.Fields, ","))
	}
	sep := "?"
	if strings.Contains(c.config.BaseURL, "?") {
		sep = "&"
	}
	return c.config.BaseURL + sep + q.Encode()
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
