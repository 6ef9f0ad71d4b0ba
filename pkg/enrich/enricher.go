// Package enrich resolves the redirect links of a feed page concurrently
// while preserving the input order of the page.
package enrich

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"newswire/pkg/feed"
)

// Prometheus metrics for enrichment operations.
var (
	resolutionsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "newswire_resolutions_in_flight",
		Help: "Number of link resolutions currently outstanding",
	})

	resolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newswire_resolutions_total",
		Help: "Total link resolutions by outcome",
	}, []string{"outcome"}) // "resolved", "unresolved"

	resolutionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "newswire_resolution_duration_seconds",
		Help:    "Duration of individual link resolutions",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	})
)

// Resolver resolves a redirect URL to its final destination host.
type Resolver interface {
	Resolve(ctx context.Context, rawURL string) (string, error)
}

// Config holds enricher configuration.
type Config struct {
	// Window is the maximum number of outstanding resolutions per
	// Enrich call. Must be >= 1.
	Window int

	// Timeout per link resolution.
	Timeout time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		Window:  8,
		Timeout: 10 * time.Second,
	}
}

// Enricher resolves entry links concurrently under a fixed window and
// emits results in input order.
type Enricher struct {
	resolver Resolver
	config   Config
	logger   zerolog.Logger
}

// New creates a new enricher.
func New(resolver Resolver, config Config) *Enricher {
	if config.Window < 1 {
		config.Window = 8
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}

	return &Enricher{
		resolver: resolver,
		config:   config,
		logger:   log.With().Str("component", "enricher").Logger(),
	}
}

// Enrich resolves the link of every entry and returns the enriched
// entries in the same order as the input. It never fails as a whole:
// individual resolution failures degrade that entry to an unresolved
// source host. The output slice always has the same length as the input.
func (e *Enricher) Enrich(ctx context.Context, entries []feed.RawEntry) []feed.EnrichedEntry {
	if len(entries) == 0 {
		return []feed.EnrichedEntry{}
	}

	start := time.Now()

	// One slot per input index, written at most once by the goroutine
	// that owns it. Completion order never reaches the output: slots are
	// read out in index order after all launched work has finished.
	hosts := make([]feed.ResolvedHost, len(entries))

	// Window-sized semaphore. Launching is eager: as soon as a slot
	// frees, the next not-yet-started entry begins resolving.
	slots := make(chan struct{}, e.config.Window)
	var wg sync.WaitGroup

launch:
	for i := range entries {
		select {
		case slots <- struct{}{}:
		case <-ctx.Done():
			// Entries never launched stay unresolved.
			e.logger.Warn().
				Err(ctx.Err()).
				Int("launched", i).
				Int("entries", len(entries)).
				Msg("Enrichment cancelled before all entries launched")
			break launch
		}

		wg.Add(1)
		go func(i int, entry feed.RawEntry) {
			defer wg.Done()
			defer func() { <-slots }()
			hosts[i] = e.resolveEntry(ctx, entry)
		}(i, entries[i])
	}

	// No resolution work outlives this call.
	wg.Wait()

	enriched := make([]feed.EnrichedEntry, len(entries))
	for i, entry := range entries {
		enriched[i] = feed.EnrichedEntry{Entry: entry, Source: hosts[i]}
	}

	e.logger.Debug().
		Int("entries", len(entries)).
		Dur("duration", time.Since(start)).
		Msg("Page enrichment complete")

	return enriched
}

// resolveEntry resolves a single entry link, degrading any failure
// (network error, timeout, non-redirecting response) to Unresolved.
func (e *Enricher) resolveEntry(ctx context.Context, entry feed.RawEntry) feed.ResolvedHost {
	resolutionsInFlight.Inc()
	defer resolutionsInFlight.Dec()

	resolveCtx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	start := time.Now()
	host, err := e.resolver.Resolve(resolveCtx, entry.URL)
	resolutionDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		resolutionsTotal.WithLabelValues("unresolved").Inc()
		e.logger.Warn().
			Err(err).
			Int64("entry_id", entry.ID).
			Str("url", entry.URL).
			Msg("Link resolution failed")
		return feed.Unresolved
	}

	resolutionsTotal.WithLabelValues("resolved").Inc()
	return feed.HostOf(host)
}
