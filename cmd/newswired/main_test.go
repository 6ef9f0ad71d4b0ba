package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"newswire/pkg/feed"
	"newswire/pkg/pager"
)

type fakeFetcher struct {
	page    feed.Page
	err     error
	cursors []feed.Cursor
}

func (f *fakeFetcher) FetchPage(ctx context.Context, cursor feed.Cursor) (feed.Page, error) {
	f.cursors = append(f.cursors, cursor)
	if f.err != nil {
		return feed.Page{}, f.err
	}
	return f.page, nil
}

func TestHealthHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	healthHandler(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Errorf("Expected body OK, got %q", w.Body.String())
	}
}

func TestReadyHandler_NoRedis(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	w := httptest.NewRecorder()

	readyHandler(nil)(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 without Redis configured, got %d", w.Code)
	}
}

func TestFeedHandler_Success(t *testing.T) {
	fetcher := &fakeFetcher{
		page: feed.Page{
			Items: []feed.FeedItem{
				{ID: 1, Title: "First story", Score: "▲ 42", Source: "a.com"},
			},
			Next: feed.Cursor("1"),
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/feed?cursor=0", nil)
	w := httptest.NewRecorder()

	feedHandler(fetcher)(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Expected JSON content type, got %q", ct)
	}

	var page feed.Page
	if err := json.NewDecoder(w.Body).Decode(&page); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].Title != "First story" {
		t.Errorf("Unexpected page items: %+v", page.Items)
	}
	if page.Next != feed.Cursor("1") {
		t.Errorf("Expected next cursor 1, got %q", page.Next)
	}

	if len(fetcher.cursors) != 1 || fetcher.cursors[0] != feed.Cursor("0") {
		t.Errorf("Expected fetcher called once with cursor 0, got %v", fetcher.cursors)
	}
}

func TestFeedHandler_DefaultCursor(t *testing.T) {
	fetcher := &fakeFetcher{page: feed.Page{End: true}}

	req := httptest.NewRequest(http.MethodGet, "/v1/feed", nil)
	w := httptest.NewRecorder()

	feedHandler(fetcher)(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if len(fetcher.cursors) != 1 || fetcher.cursors[0] != feed.First {
		t.Errorf("Expected fetcher called with first cursor, got %v", fetcher.cursors)
	}
}

func TestFeedHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "invalid cursor",
			err:        pager.ErrInvalidCursor,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "source unavailable",
			err:        &pager.SourceError{PageIndex: 2, Err: errors.New("boom")},
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "unexpected error",
			err:        errors.New("something else"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &fakeFetcher{err: tt.err}

			req := httptest.NewRequest(http.MethodGet, "/v1/feed?cursor=abc", nil)
			w := httptest.NewRecorder()

			feedHandler(fetcher)(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestGetEnv(t *testing.T) {
	os.Setenv("NEWSWIRED_TEST_VAR", "set")
	defer os.Unsetenv("NEWSWIRED_TEST_VAR")

	if got := getEnv("NEWSWIRED_TEST_VAR", "fallback"); got != "set" {
		t.Errorf("Expected set, got %q", got)
	}
	if got := getEnv("NEWSWIRED_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("Expected fallback, got %q", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	os.Setenv("NEWSWIRED_TEST_INT", "12")
	defer os.Unsetenv("NEWSWIRED_TEST_INT")

	if got := getEnvInt("NEWSWIRED_TEST_INT", 8); got != 12 {
		t.Errorf("Expected 12, got %d", got)
	}
	if got := getEnvInt("NEWSWIRED_TEST_INT_MISSING", 8); got != 8 {
		t.Errorf("Expected default 8, got %d", got)
	}
}
