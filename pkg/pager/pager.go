// Package pager assembles public feed pages: it fetches the raw entries
// for a cursor, runs link enrichment, and maps the result to feed items
// together with the next-page cursor.
package pager

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"newswire/pkg/enrich"
	"newswire/pkg/feed"
)

// Prometheus metrics for page assembly.
var (
	pagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newswire_pages_total",
		Help: "Total page fetches by result",
	}, []string{"result"}) // "ok", "end", "invalid_cursor", "source_error"

	pageDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "newswire_page_duration_seconds",
		Help:    "Duration of full page fetches including enrichment",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	})
)

// Source lists the raw entries of one feed page.
// An empty slice signals the end of the feed.
type Source interface {
	ListPage(ctx context.Context, pageIndex int) ([]feed.RawEntry, error)
}

// Assembler turns cursors into enriched feed pages.
type Assembler struct {
	source   Source
	enricher *enrich.Enricher
	logger   zerolog.Logger
}

// New creates a page assembler from its injected collaborators.
func New(source Source, enricher *enrich.Enricher) *Assembler {
	return &Assembler{
		source:   source,
		enricher: enricher,
		logger:   log.With().Str("component", "pager").Logger(),
	}
}

// FetchPage fetches and enriches the feed page addressed by cursor.
//
// The returned page carries the items in source order and the cursor for
// the following page. An exhausted feed yields Page{End: true}, which is
// a terminal signal and not an error. Per-entry resolution failures are
// contained by enrichment and never fail the page; only a malformed
// cursor or a failed source call do.
func (a *Assembler) FetchPage(ctx context.Context, cursor feed.Cursor) (feed.Page, error) {
	start := time.Now()
	defer func() {
		pageDuration.Observe(time.Since(start).Seconds())
	}()

	pageIndex, err := cursor.PageIndex()
	if err != nil {
		pagesTotal.WithLabelValues("invalid_cursor").Inc()
		return feed.Page{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	entries, err := a.source.ListPage(ctx, pageIndex)
	if err != nil {
		pagesTotal.WithLabelValues("source_error").Inc()
		a.logger.Error().
			Err(err).
			Int("page", pageIndex).
			Msg("Feed source call failed")
		return feed.Page{}, &SourceError{PageIndex: pageIndex, Err: err}
	}

	if len(entries) == 0 {
		pagesTotal.WithLabelValues("end").Inc()
		a.logger.Info().Int("page", pageIndex).Msg("End of feed reached")
		return feed.Page{End: true}, nil
	}

	enriched := a.enricher.Enrich(ctx, entries)

	items := make([]feed.FeedItem, len(enriched))
	for i, e := range enriched {
		items[i] = feed.NewFeedItem(e)
	}

	pagesTotal.WithLabelValues("ok").Inc()
	a.logger.Info().
		Int("page", pageIndex).
		Int("items", len(items)).
		Dur("duration", time.Since(start)).
		Msg("Feed page assembled")

	// The cursor only ever advances, by exactly one per non-empty page.
	return feed.Page{Items: items, Next: feed.CursorFor(pageIndex + 1)}, nil
}
