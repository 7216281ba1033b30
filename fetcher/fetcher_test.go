package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestFetcher(timeout time.Duration) *Fetcher {
	return New(Options{Timeout: timeout}, zerolog.Nop())
}

func TestFetchInvalidURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{name: "empty url", url: ""},
		{name: "missing scheme", url: "example.com/page"},
		{name: "missing host", url: "http://"},
		{name: "garbage", url: "://not-a-url"},
	}

	f := newTestFetcher(0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Fetch(context.Background(), tt.url)
			if !errors.Is(err, ErrInvalidURL) {
				t.Errorf("expected ErrInvalidURL, got %v", err)
			}
		})
	}
}

func TestFetchSuccess(t *testing.T) {
	const body = "<html><head><title>ok</title></head></html>"
	var gotUserAgent string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Write([]byte(body))
	}))
	defer srv.Close()

	html, err := newTestFetcher(0).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if html != body {
		t.Errorf("expected body %q, got %q", body, html)
	}
	if gotUserAgent == "" {
		t.Error("expected a browser-emulating User-Agent header")
	}
}

func TestFetchHTTPErrorsAreDistinguishable(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{name: "forbidden", status: http.StatusForbidden},
		{name: "not found", status: http.StatusNotFound},
		{name: "server error", status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := newTestFetcher(0).Fetch(context.Background(), srv.URL)

			var httpErr *HTTPError
			if !errors.As(err, &httpErr) {
				t.Fatalf("expected *HTTPError, got %v", err)
			}
			if httpErr.Status != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, httpErr.Status)
			}
		})
	}
}

func TestFetch403And404Differ(t *testing.T) {
	messages := make(map[int]string)
	for _, status := range []int{http.StatusForbidden, http.StatusNotFound} {
		messages[status] = (&HTTPError{Status: status}).Error()
	}
	if messages[http.StatusForbidden] == messages[http.StatusNotFound] {
		t.Error("403 and 404 must produce distinguishable messages")
	}
}

func TestFetchConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	deadURL := srv.URL
	srv.Close()

	_, err := newTestFetcher(0).Fetch(context.Background(), deadURL)
	if !errors.Is(err, ErrConnection) {
		t.Errorf("expected ErrConnection, got %v", err)
	}
}

func TestFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Write([]byte("late"))
	}))
	defer srv.Close()

	_, err := newTestFetcher(50 * time.Millisecond).Fetch(context.Background(), srv.URL)
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
}

func TestFetchRespectsRobots(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html></html>"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f := New(Options{RespectRobots: true}, zerolog.Nop())

	if _, err := f.Fetch(context.Background(), srv.URL+"/public/page"); err != nil {
		t.Errorf("allowed path should fetch, got %v", err)
	}

	_, err := f.Fetch(context.Background(), srv.URL+"/private/page")
	if !errors.Is(err, ErrBlocked) {
		t.Errorf("expected ErrBlocked for disallowed path, got %v", err)
	}
}
