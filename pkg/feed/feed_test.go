package feed

import (
	"testing"
	"time"
)

func TestNewFeedItem(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	entry := RawEntry{
		ID:          7,
		Title:       "A story",
		Author:      "carol",
		CreatedAt:   created,
		Votes:       128,
		Comments:    16,
		URL:         "http://short.test/7",
		CommentsURL: "http://news.test/s/7",
		Tags:        []string{"rust", "wasm"},
	}

	tests := []struct {
		name       string
		enriched   EnrichedEntry
		wantSource string
		wantTag    string
	}{
		{
			name:       "resolved host",
			enriched:   EnrichedEntry{Entry: entry, Source: HostOf("example.com")},
			wantSource: "example.com",
			wantTag:    "rust",
		},
		{
			name:       "unresolved host",
			enriched:   EnrichedEntry{Entry: entry, Source: Unresolved},
			wantSource: "",
			wantTag:    "rust",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := NewFeedItem(tt.enriched)

			if item.ID != 7 {
				t.Errorf("ID = %d, want 7", item.ID)
			}
			if item.Score != "▲ 128" {
				t.Errorf("Score = %q, want %q", item.Score, "▲ 128")
			}
			if item.Source != tt.wantSource {
				t.Errorf("Source = %q, want %q", item.Source, tt.wantSource)
			}
			if item.Tag != tt.wantTag {
				t.Errorf("Tag = %q, want %q", item.Tag, tt.wantTag)
			}
			if item.URL != entry.URL {
				t.Errorf("URL = %q, want %q", item.URL, entry.URL)
			}
			if item.CommentsURL != entry.CommentsURL {
				t.Errorf("CommentsURL = %q, want %q", item.CommentsURL, entry.CommentsURL)
			}
			if !item.CreatedAt.Equal(created) {
				t.Errorf("CreatedAt = %v, want %v", item.CreatedAt, created)
			}
		})
	}
}

func TestNewFeedItem_NoTags(t *testing.T) {
	item := NewFeedItem(EnrichedEntry{Entry: RawEntry{ID: 1, Votes: 0}})

	if item.Tag != "" {
		t.Errorf("Tag = %q, want empty for untagged entry", item.Tag)
	}
	if item.Score != "▲ 0" {
		t.Errorf("Score = %q, want %q", item.Score, "▲ 0")
	}
}

func TestResolvedHost_ZeroValueIsUnresolved(t *testing.T) {
	var host ResolvedHost
	if host.OK {
		t.Error("Zero value ResolvedHost should not be OK")
	}
	if host != Unresolved {
		t.Error("Zero value ResolvedHost should equal Unresolved")
	}
	if !HostOf("a.com").OK {
		t.Error("HostOf should mark the host as resolved")
	}
}

func TestCursor_PageIndex(t *testing.T) {
	tests := []struct {
		name      string
		cursor    Cursor
		want      int
		expectErr bool
	}{
		{"first page", First, 0, false},
		{"later page", "17", 17, false},
		{"negative", "-1", 0, true},
		{"not a number", "abc", 0, true},
		{"empty", "", 0, true},
		{"float", "1.5", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cursor.PageIndex()

			if tt.expectErr {
				if err == nil {
					t.Errorf("PageIndex(%q) expected error, got %d", tt.cursor, got)
				}
				return
			}

			if err != nil {
				t.Fatalf("PageIndex(%q) failed: %v", tt.cursor, err)
			}
			if got != tt.want {
				t.Errorf("PageIndex(%q) = %d, want %d", tt.cursor, got, tt.want)
			}
		})
	}
}

func TestCursorFor_RoundTrip(t *testing.T) {
	for _, index := range []int{0, 1, 99} {
		got, err := CursorFor(index).PageIndex()
		if err != nil {
			t.Fatalf("Round trip for %d failed: %v", index, err)
		}
		if got != index {
			t.Errorf("Round trip for %d = %d", index, got)
		}
	}
}
