// Package testutil provides testing utilities for the newswire client.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"
)

// MockFeedAPI is a configurable mock content API server for testing.
// It serves JSON story pages on /stories?page=N.
type MockFeedAPI struct {
	server   *httptest.Server
	mu       sync.RWMutex
	pages    map[int]string
	handlers map[string]func(w http.ResponseWriter, r *http.Request)
	headers  map[string]string

	// Tracking
	RequestCount      int
	PageRequests      []int
	LastRequestHeader http.Header
}

// NewMockFeedAPI creates a new mock content API server.
func NewMockFeedAPI() *MockFeedAPI {
	mock := &MockFeedAPI{
		pages:    make(map[int]string),
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
		headers:  make(map[string]string),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastRequestHeader = r.Header.Clone()
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		mock.storiesHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockFeedAPI) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockFeedAPI) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockFeedAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.PageRequests = nil
	m.LastRequestHeader = nil
}

// SetPage configures the JSON body served for a page index.
// The body must be a full stories envelope, e.g. {"stories": [...]}.
func (m *MockFeedAPI) SetPage(index int, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[index] = body
}

// SetHandler sets a custom handler for a specific path.
func (m *MockFeedAPI) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetHeader adds a header to every stories response, e.g. rate limit headers.
func (m *MockFeedAPI) SetHeader(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.headers[key] = value
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockFeedAPI) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetPageRequests returns the sequence of requested page indices.
func (m *MockFeedAPI) GetPageRequests() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]int(nil), m.PageRequests...)
}

// storiesHandler serves configured pages; unconfigured pages are empty,
// which signals the end of the feed.
func (m *MockFeedAPI) storiesHandler(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		http.Error(w, `{"error": "bad page parameter"}`, http.StatusBadRequest)
		return
	}

	m.mu.Lock()
	m.PageRequests = append(m.PageRequests, page)
	body, ok := m.pages[page]
	headers := make(map[string]string, len(m.headers))
	for k, v := range m.headers {
		headers[k] = v
	}
	m.mu.Unlock()

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	for k, v := range headers {
		w.Header().Set(k, v)
	}

	if !ok {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"stories": []}`))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}

// Story builds the JSON of one story for use with StoriesBody.
func Story(id int64, title, url string) string {
	return fmt.Sprintf(`{"id": %d, "title": %q, "author": "tester", "created_at": "2024-05-01T12:00:00Z", "vote_count": %d, "comment_count": 3, "url": %q, "comments_url": "https://news.example/s/%d", "tags": ["tech"]}`,
		id, title, 10+id, url, id)
}

// StoriesBody wraps story JSON fragments into a stories envelope.
func StoriesBody(stories ...string) string {
	body := `{"stories": [`
	for i, s := range stories {
		if i > 0 {
			body += ", "
		}
		body += s
	}
	return body + `]}`
}

// MockRedirector is a mock short-link service. Paths redirect to
// configured targets, optionally after a delay, and the server tracks
// how many resolutions it serves concurrently.
type MockRedirector struct {
	server *httptest.Server
	mu     sync.Mutex
	routes map[string]redirectRoute

	active        int
	maxConcurrent int
	requestCount  int
}

type redirectRoute struct {
	target string
	delay  time.Duration
}

// NewMockRedirector creates a new mock short-link server.
func NewMockRedirector() *MockRedirector {
	mock := &MockRedirector{
		routes: make(map[string]redirectRoute),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.requestCount++
		mock.active++
		if mock.active > mock.maxConcurrent {
			mock.maxConcurrent = mock.active
		}
		route, ok := mock.routes[r.URL.Path]
		mock.mu.Unlock()

		defer func() {
			mock.mu.Lock()
			mock.active--
			mock.mu.Unlock()
		}()

		if !ok {
			// Unknown short link: respond without redirecting.
			w.WriteHeader(http.StatusOK)
			return
		}

		if route.delay > 0 {
			time.Sleep(route.delay)
		}

		http.Redirect(w, r, route.target, http.StatusFound)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockRedirector) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockRedirector) Close() {
	m.server.Close()
}

// SetRedirect configures path to redirect to target after delay.
func (m *MockRedirector) SetRedirect(path, target string, delay time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[path] = redirectRoute{target: target, delay: delay}
}

// MaxConcurrent returns the highest number of simultaneously active requests seen.
func (m *MockRedirector) MaxConcurrent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxConcurrent
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockRedirector) GetRequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requestCount
}
