// Package source implements the HTTP client for the paged feed content
// API. It lists raw feed entries one page at a time with error
// classification, bounded retry, and optional shared rate-limit gating.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"newswire/pkg/feed"
	"newswire/pkg/ratelimit"
)

// Prometheus metrics for content API requests.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newswire_source_requests_total",
		Help: "Total content API requests by status",
	}, []string{"status"})

	requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "newswire_source_request_duration_seconds",
		Help:    "Content API request duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newswire_source_errors_total",
		Help: "Total content API errors by class",
	}, []string{"class"})
)

// Config holds the source client configuration.
type Config struct {
	// BaseURL of the content API, without trailing slash.
	BaseURL string

	// User-Agent header sent with every request (required).
	// Format: "AppName/Version (contact@example.com)"
	UserAgent string

	// Token is an optional bearer token for authenticated feeds.
	Token string

	// Timeout per HTTP request.
	Timeout time.Duration

	// Retry policy for transient failures.
	Retry RetryConfig

	// RateLimiter gates requests against the shared request budget.
	// Optional; nil disables gating.
	RateLimiter *ratelimit.Tracker
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(baseURL, userAgent string) Config {
	return Config{
		BaseURL:   baseURL,
		UserAgent: userAgent,
		Timeout:   30 * time.Second,
		Retry:     DefaultRetryConfig(),
	}
}

// Client is the content API client.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// New creates a new content API client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	if cfg.Retry.MaxAttempts < 1 {
		cfg.Retry = DefaultRetryConfig()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config: cfg,
		logger: log.With().Str("component", "source").Logger(),
	}, nil
}

// storiesEnvelope is the wire shape of one feed page.
type storiesEnvelope struct {
	Stories []storyJSON `json:"stories"`
}

// storyJSON is the wire shape of one feed entry.
type storyJSON struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	Author       string   `json:"author"`
	CreatedAt    string   `json:"created_at"`
	VoteCount    int      `json:"vote_count"`
	CommentCount int      `json:"comment_count"`
	URL          string   `json:"url"`
	CommentsURL  string   `json:"comments_url"`
	Tags         []string `json:"tags"`
}

// ListPage fetches the raw entries of one feed page. An empty slice
// means the feed is exhausted at this index. Transient failures are
// retried per the configured policy; 4xx responses and decode failures
// are not.
func (c *Client) ListPage(ctx context.Context, pageIndex int) ([]feed.RawEntry, error) {
	if pageIndex < 0 {
		return nil, fmt.Errorf("page index must not be negative (got %d)", pageIndex)
	}

	startTime := time.Now()
	defer func() {
		requestDuration.Observe(time.Since(startTime).Seconds())
	}()

	// Step 1: Check the shared rate-limit budget
	if c.config.RateLimiter != nil {
		allowed, err := c.config.RateLimiter.Allow(ctx)
		if err != nil {
			c.logger.Error().Err(err).Msg("Rate limit check failed")
			return nil, fmt.Errorf("rate limit check: %w", err)
		}
		if !allowed {
			c.logger.Warn().Int("page", pageIndex).Msg("Request blocked by rate limiter")
			requestsTotal.WithLabelValues("rate_limited").Inc()
			return nil, ErrRateLimited
		}
	}

	url := fmt.Sprintf("%s/stories?page=%d", c.config.BaseURL, pageIndex)

	c.logger.Debug().
		Int("page", pageIndex).
		Str("url", url).
		Msg("Listing feed page")

	// Step 2: Execute the request with retry for transient classes
	var entries []feed.RawEntry

	retryErr := retryWithBackoff(ctx, c.config.Retry, func() (ErrorClass, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return ErrorClassClient, fmt.Errorf("create request: %w", err)
		}

		req.Header.Set("User-Agent", c.config.UserAgent)
		req.Header.Set("Accept", "application/json")
		if c.config.Token != "" {
			req.Header.Set("Authorization", "Bearer "+c.config.Token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			requestsTotal.WithLabelValues("network_error").Inc()
			c.logger.Warn().Err(err).Int("page", pageIndex).Msg("HTTP request failed")
			return ErrorClassNetwork, err
		}
		defer resp.Body.Close()

		// Update the shared request budget from response headers
		if c.config.RateLimiter != nil {
			if err := c.config.RateLimiter.UpdateFromHeaders(ctx, resp.Header); err != nil {
				c.logger.Warn().Err(err).Msg("Failed to update rate limit from headers")
			}
		}

		if resp.StatusCode != http.StatusOK {
			errClass := classifyStatus(resp.StatusCode)
			errorsTotal.WithLabelValues(string(errClass)).Inc()
			requestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

			c.logger.Warn().
				Int("page", pageIndex).
				Int("status", resp.StatusCode).
				Str("error_class", string(errClass)).
				Msg("Content API request error")

			return errClass, &APIError{
				StatusCode: resp.StatusCode,
				ErrorClass: errClass,
				Message:    resp.Status,
			}
		}

		var envelope storiesEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			errorsTotal.WithLabelValues(string(ErrorClassClient)).Inc()
			// A malformed payload will not improve on retry.
			return ErrorClassClient, fmt.Errorf("decode stories page %d: %w", pageIndex, err)
		}

		requestsTotal.WithLabelValues("200").Inc()
		entries = c.toRawEntries(envelope.Stories)
		return "", nil
	})

	if retryErr != nil {
		return nil, retryErr
	}

	c.logger.Debug().
		Int("page", pageIndex).
		Int("entries", len(entries)).
		Dur("duration", time.Since(startTime)).
		Msg("Feed page listed")

	return entries, nil
}

// toRawEntries converts wire stories to domain entries, preserving order.
func (c *Client) toRawEntries(stories []storyJSON) []feed.RawEntry {
	entries := make([]feed.RawEntry, len(stories))
	for i, s := range stories {
		createdAt, err := time.Parse(time.RFC3339, s.CreatedAt)
		if err != nil && s.CreatedAt != "" {
			c.logger.Warn().
				Int64("entry_id", s.ID).
				Str("created_at", s.CreatedAt).
				Msg("Unparseable entry timestamp")
		}

		entries[i] = feed.RawEntry{
			ID:          s.ID,
			Title:       s.Title,
			Author:      s.Author,
			CreatedAt:   createdAt,
			Votes:       s.VoteCount,
			Comments:    s.CommentCount,
			URL:         s.URL,
			CommentsURL: s.CommentsURL,
			Tags:        s.Tags,
		}
	}
	return entries
}
