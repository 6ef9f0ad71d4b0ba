// Package feed defines the data model of the newswire pipeline: raw
// entries as delivered by the content API, enriched entries carrying the
// resolved destination host, and the public page/item types handed to
// callers.
package feed

import (
	"fmt"
	"time"
)

// RawEntry is one feed post as received from the content API.
// Entries are immutable once constructed and owned by the fetch call
// that received them.
type RawEntry struct {
	ID        int64
	Title     string
	Author    string
	CreatedAt time.Time
	Votes     int
	Comments  int

	// URL is the redirect-wrapped link that enrichment resolves.
	URL string

	// CommentsURL points at the discussion page for the entry.
	CommentsURL string

	Tags []string
}

// ResolvedHost is the outcome of resolving an entry's redirect URL.
// The zero value means "unresolved"; absence is explicit and never
// conflated with an error value.
type ResolvedHost struct {
	Host string
	OK   bool
}

// Unresolved marks an entry whose link could not be resolved.
var Unresolved = ResolvedHost{}

// HostOf wraps a successfully resolved destination host.
func HostOf(host string) ResolvedHost {
	return ResolvedHost{Host: host, OK: true}
}

// EnrichedEntry pairs a RawEntry with its resolved destination host.
// Its position in an enriched slice always equals the entry's position
// in the input slice.
type EnrichedEntry struct {
	Entry  RawEntry
	Source ResolvedHost
}

// FeedItem is the public representation of one enriched entry.
// Items are derived purely from a single EnrichedEntry and never
// mutated after creation.
type FeedItem struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Score     string    `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	Author    string    `json:"author"`
	Tag       string    `json:"tag,omitempty"`

	// Source is the destination host of the entry's link,
	// empty when resolution failed.
	Source string `json:"source,omitempty"`

	URL         string `json:"url"`
	CommentsURL string `json:"comments_url"`
}

// NewFeedItem maps one enriched entry to its public item.
func NewFeedItem(e EnrichedEntry) FeedItem {
	item := FeedItem{
		ID:          e.Entry.ID,
		Title:       e.Entry.Title,
		Score:       fmt.Sprintf("▲ %d", e.Entry.Votes),
		CreatedAt:   e.Entry.CreatedAt,
		Author:      e.Entry.Author,
		URL:         e.Entry.URL,
		CommentsURL: e.Entry.CommentsURL,
	}

	if len(e.Entry.Tags) > 0 {
		item.Tag = e.Entry.Tags[0]
	}

	if e.Source.OK {
		item.Source = e.Source.Host
	}

	return item
}
