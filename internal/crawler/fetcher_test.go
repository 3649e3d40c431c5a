package crawler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// TestHTTPFetcher tests page fetching and fail-soft error reporting.
func TestHTTPFetcher(t *testing.T) {
	t.Parallel()

	t.Run("fetches html with descriptive user agent", func(t *testing.T) {
		t.Parallel()

		agents := make(chan string, 1)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			agents <- r.Header.Get("User-Agent")
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<p>Financing available</p>")) //nolint:errcheck
		}))
		defer server.Close()

		res := NewHTTPFetcher(server.Client()).Fetch(context.Background(), server.URL)
		if !res.OK() {
			t.Fatalf("unexpected error: %v", res.Err)
		}
		if res.StatusCode != http.StatusOK {
			t.Errorf("expected status 200, got %d", res.StatusCode)
		}
		if res.ContentType != "text/html" {
			t.Errorf("expected media type text/html, got %q", res.ContentType)
		}
		if !strings.Contains(res.Body, "Financing available") {
			t.Errorf("unexpected body %q", res.Body)
		}
		if ua := <-agents; ua != DefaultUserAgent {
			t.Errorf("expected User-Agent %q, got %q", DefaultUserAgent, ua)
		}
	})

	t.Run("custom user agent", func(t *testing.T) {
		t.Parallel()

		agents := make(chan string, 1)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			agents <- r.Header.Get("User-Agent")
			_, _ = w.Write([]byte("ok")) //nolint:errcheck
		}))
		defer server.Close()

		NewHTTPFetcher(server.Client(), WithUserAgent("AuditBot/2.0")).Fetch(context.Background(), server.URL)
		if ua := <-agents; ua != "AuditBot/2.0" {
			t.Errorf("expected custom User-Agent, got %q", ua)
		}
	})

	t.Run("non-2xx is recorded not returned", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("<p>financing</p>")) //nolint:errcheck
		}))
		defer server.Close()

		res := NewHTTPFetcher(server.Client()).Fetch(context.Background(), server.URL)
		if !errors.Is(res.Err, ErrUnexpectedStatus) {
			t.Fatalf("expected ErrUnexpectedStatus, got %v", res.Err)
		}
		if res.StatusCode != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", res.StatusCode)
		}
		if res.Body != "" {
			t.Errorf("expected empty body, got %q", res.Body)
		}
	})

	t.Run("binary content is rejected", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte{0x89, 'P', 'N', 'G'}) //nolint:errcheck
		}))
		defer server.Close()

		res := NewHTTPFetcher(server.Client()).Fetch(context.Background(), server.URL)
		if !errors.Is(res.Err, ErrUnsupportedContentType) {
			t.Fatalf("expected ErrUnsupportedContentType, got %v", res.Err)
		}
		if res.Body != "" {
			t.Errorf("expected empty body, got %q", res.Body)
		}
	})

	t.Run("body is truncated at max size", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte(strings.Repeat("x", 1024))) //nolint:errcheck
		}))
		defer server.Close()

		res := NewHTTPFetcher(server.Client(), WithMaxBodySize(16)).Fetch(context.Background(), server.URL)
		if !res.OK() {
			t.Fatalf("unexpected error: %v", res.Err)
		}
		if len(res.Body) != 16 {
			t.Errorf("expected 16 bytes, got %d", len(res.Body))
		}
	})

	t.Run("timeout yields empty result", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
			_, _ = w.Write([]byte("financing")) //nolint:errcheck
		}))
		defer server.Close()

		client := server.Client()
		client.Timeout = 50 * time.Millisecond

		res := NewHTTPFetcher(client).Fetch(context.Background(), server.URL)
		if res.OK() {
			t.Fatal("expected timeout error")
		}
		if res.StatusCode != 0 || res.Body != "" {
			t.Errorf("expected empty result, got status %d body %q", res.StatusCode, res.Body)
		}
	})

	t.Run("unreachable host yields empty result", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.NotFoundHandler())
		addr := server.URL
		server.Close()

		res := NewHTTPFetcher(http.DefaultClient).Fetch(context.Background(), addr)
		if res.OK() {
			t.Fatal("expected connection error")
		}
		if res.StatusCode != 0 {
			t.Errorf("expected status 0, got %d", res.StatusCode)
		}
	})
}

// TestRobotsAgent tests product token extraction.
func TestRobotsAgent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{DefaultUserAgent, "OfferScan"},
		{"Mozilla/5.0 (X11)", "Mozilla"},
		{"plainbot", "plainbot"},
		{"", "*"},
	}
	for _, tt := range tests {
		if got := robotsAgent(tt.in); got != tt.want {
			t.Errorf("robotsAgent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
