// Package resolver follows redirect-wrapped links to their final
// destination and reports the destination host.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"newswire/pkg/cache"
)

// Prometheus metrics for redirect resolution requests.
var resolverRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "newswire_resolver_requests_total",
	Help: "Total redirect resolution requests by result",
}, []string{"result"}) // "resolved", "cached", "failed"

// Errors returned by the resolver.
var (
	// ErrNoRedirect is returned when the link did not redirect anywhere.
	ErrNoRedirect = errors.New("response did not redirect")

	// ErrTooManyRedirects is returned when the redirect chain exceeds MaxHops.
	ErrTooManyRedirects = errors.New("too many redirects")
)

// Config holds resolver configuration.
type Config struct {
	// MaxHops is the maximum redirect chain length to follow.
	MaxHops int

	// Timeout per resolution request.
	Timeout time.Duration

	// UserAgent header sent with resolution requests. Optional.
	UserAgent string

	// Cache short-circuits repeated resolutions of the same URL.
	// Optional; nil disables caching.
	Cache *cache.Manager

	// CacheTTL is the lifetime of cached resolutions.
	CacheTTL time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		MaxHops:  10,
		Timeout:  10 * time.Second,
		CacheTTL: 24 * time.Hour,
	}
}

// Client resolves redirect URLs over HTTP.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// New creates a new redirect resolver.
func New(cfg Config) *Client {
	if cfg.MaxHops < 1 {
		cfg.MaxHops = 10
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 24 * time.Hour
	}

	maxHops := cfg.MaxHops
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxHops {
					return ErrTooManyRedirects
				}
				return nil
			},
		},
		config: cfg,
		logger: log.With().Str("component", "resolver").Logger(),
	}
}

// Resolve follows the redirect chain of rawURL and returns the host of
// the final destination. A link that never redirects is a resolution
// failure: the wrapper host is not the destination.
func (c *Client) Resolve(ctx context.Context, rawURL string) (string, error) {
	origin, err := url.Parse(rawURL)
	if err != nil {
		resolverRequestsTotal.WithLabelValues("failed").Inc()
		return "", fmt.Errorf("parse url: %w", err)
	}

	if c.config.Cache != nil {
		entry, err := c.config.Cache.Get(ctx, rawURL)
		if err == nil {
			c.logger.Debug().
				Str("url", rawURL).
				Str("host", entry.Host).
				Msg("Resolution served from cache")
			resolverRequestsTotal.WithLabelValues("cached").Inc()
			return entry.Host, nil
		}
		if err != cache.ErrCacheMiss {
			// Cache trouble degrades to a live resolution.
			c.logger.Warn().Err(err).Str("url", rawURL).Msg("Host cache get failed")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		resolverRequestsTotal.WithLabelValues("failed").Inc()
		return "", fmt.Errorf("create request: %w", err)
	}
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		resolverRequestsTotal.WithLabelValues("failed").Inc()
		return "", fmt.Errorf("follow redirect: %w", err)
	}
	resp.Body.Close()

	// resp.Request carries the URL of the last request in the chain.
	final := resp.Request.URL
	if final.Host == origin.Host && final.Path == origin.Path {
		resolverRequestsTotal.WithLabelValues("failed").Inc()
		return "", fmt.Errorf("%w: %s", ErrNoRedirect, rawURL)
	}

	host := final.Hostname()
	if host == "" {
		resolverRequestsTotal.WithLabelValues("failed").Inc()
		return "", fmt.Errorf("resolved url %q has no host", final.String())
	}

	c.logger.Debug().
		Str("url", rawURL).
		Str("host", host).
		Msg("Link resolved")
	resolverRequestsTotal.WithLabelValues("resolved").Inc()

	if c.config.Cache != nil {
		entry := cache.NewEntry(host, c.config.CacheTTL)
		if err := c.config.Cache.Set(ctx, rawURL, entry); err != nil {
			c.logger.Warn().Err(err).Str("url", rawURL).Msg("Host cache set failed")
		}
	}

	return host, nil
}
