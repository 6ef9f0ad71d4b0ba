package resolver

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"newswire/internal/testutil"
)

func TestResolve_FollowsRedirect(t *testing.T) {
	mock := testutil.NewMockRedirector()
	defer mock.Close()

	// Final hop lands on an unconfigured path, which serves 200.
	mock.SetRedirect("/r/1", mock.URL()+"/articles/1", 0)

	client := New(DefaultConfig())

	host, err := client.Resolve(context.Background(), mock.URL()+"/r/1")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if host != "127.0.0.1" {
		t.Errorf("Host = %q, want %q", host, "127.0.0.1")
	}
}

func TestResolve_FollowsChain(t *testing.T) {
	mock := testutil.NewMockRedirector()
	defer mock.Close()

	mock.SetRedirect("/a", mock.URL()+"/b", 0)
	mock.SetRedirect("/b", mock.URL()+"/c", 0)
	mock.SetRedirect("/c", mock.URL()+"/final", 0)

	client := New(DefaultConfig())

	host, err := client.Resolve(context.Background(), mock.URL()+"/a")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if host != "127.0.0.1" {
		t.Errorf("Host = %q, want %q", host, "127.0.0.1")
	}
}

func TestResolve_NoRedirect(t *testing.T) {
	mock := testutil.NewMockRedirector()
	defer mock.Close()

	client := New(DefaultConfig())

	_, err := client.Resolve(context.Background(), mock.URL()+"/plain")
	if !errors.Is(err, ErrNoRedirect) {
		t.Errorf("Error = %v, want ErrNoRedirect", err)
	}
}

func TestResolve_TooManyRedirects(t *testing.T) {
	mock := testutil.NewMockRedirector()
	defer mock.Close()

	for i := 0; i < 6; i++ {
		mock.SetRedirect(fmt.Sprintf("/hop/%d", i), fmt.Sprintf("%s/hop/%d", mock.URL(), i+1), 0)
	}

	cfg := DefaultConfig()
	cfg.MaxHops = 3
	client := New(cfg)

	_, err := client.Resolve(context.Background(), mock.URL()+"/hop/0")
	if !errors.Is(err, ErrTooManyRedirects) {
		t.Errorf("Error = %v, want ErrTooManyRedirects", err)
	}
}

func TestResolve_InvalidURL(t *testing.T) {
	client := New(DefaultConfig())

	if _, err := client.Resolve(context.Background(), "://not-a-url"); err == nil {
		t.Error("Expected error for malformed URL")
	}
}

func TestResolve_UnreachableHost(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 500 * time.Millisecond
	client := New(cfg)

	// Reserved TEST-NET address, nothing listens there.
	if _, err := client.Resolve(context.Background(), "http://192.0.2.1/short"); err == nil {
		t.Error("Expected error for unreachable host")
	}
}

func TestResolve_CancelledContext(t *testing.T) {
	mock := testutil.NewMockRedirector()
	defer mock.Close()

	mock.SetRedirect("/slow", mock.URL()+"/final", 2*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := New(DefaultConfig())

	if _, err := client.Resolve(ctx, mock.URL()+"/slow"); err == nil {
		t.Error("Expected error for cancelled context")
	}
}

func TestResolve_SendsUserAgent(t *testing.T) {
	mock := testutil.NewMockFeedAPI()
	defer mock.Close()

	// Any stories path responds 200 without redirecting; enough to
	// capture request headers before the expected ErrNoRedirect.
	cfg := DefaultConfig()
	cfg.UserAgent = "newswire-test/1.0"
	client := New(cfg)

	_, err := client.Resolve(context.Background(), mock.URL()+"/stories?page=0")
	if !errors.Is(err, ErrNoRedirect) {
		t.Fatalf("Error = %v, want ErrNoRedirect", err)
	}

	if got := mock.LastRequestHeader.Get("User-Agent"); got != "newswire-test/1.0" {
		t.Errorf("User-Agent = %q, want %q", got, "newswire-test/1.0")
	}
}

func TestNew_Defaults(t *testing.T) {
	client := New(Config{})

	if client.config.MaxHops != 10 {
		t.Errorf("MaxHops = %d, want 10", client.config.MaxHops)
	}
	if client.config.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", client.config.Timeout)
	}
	if client.config.CacheTTL != 24*time.Hour {
		t.Errorf("CacheTTL = %v, want 24h", client.config.CacheTTL)
	}
}
