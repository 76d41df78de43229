package scraper

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"

	"github.com/aluiziolira/go-scrape-reviews/config"
)

func newTestFetcher(t *testing.T) (*Fetcher, *httpmock.MockTransport) {
	t.Helper()
	f := NewFetcher(config.DefaultConfig())
	transport := httpmock.NewMockTransport()
	f.client.SetTransport(transport)
	return f, transport
}

func TestFetcherReturnsDocument(t *testing.T) {
	f, transport := newTestFetcher(t)

	body := `<html><body><div class="review-item"><h3 class="review-title">Nice</h3></div></body></html>`
	transport.RegisterResponder("GET", "http://example.test/reviews",
		httpmock.NewStringResponder(http.StatusOK, body))

	doc, err := f.Fetch(context.Background(), "http://example.test/reviews")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got := doc.Find("div.review-item").Length(); got != 1 {
		t.Fatalf("containers=%d, want 1", got)
	}
}

func TestFetcherNonSuccessStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{name: "not found", status: http.StatusNotFound},
		{name: "forbidden", status: http.StatusForbidden},
		{name: "server error", status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, transport := newTestFetcher(t)
			transport.RegisterResponder("GET", "http://example.test/reviews",
				httpmock.NewStringResponder(tt.status, "nope"))

			doc, err := f.Fetch(context.Background(), "http://example.test/reviews")
			if doc != nil {
				t.Fatalf("expected no document on status %d", tt.status)
			}
			var fetchErr FetchError
			if !errors.As(err, &fetchErr) {
				t.Fatalf("expected FetchError, got %v", err)
			}
			if fetchErr.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", fetchErr.StatusCode, tt.status)
			}
		})
	}
}

func TestFetcherTransportFailure(t *testing.T) {
	f, transport := newTestFetcher(t)
	transport.RegisterResponder("GET", "http://example.test/reviews",
		httpmock.NewErrorResponder(errors.New("connection refused")))

	_, err := f.Fetch(context.Background(), "http://example.test/reviews")
	var fetchErr FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fetchErr.URL != "http://example.test/reviews" {
		t.Fatalf("url = %q", fetchErr.URL)
	}
}

func TestFetcherSendsHeaders(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Headers = map[string]string{"Accept-Language": "en-US"}

	f := NewFetcher(cfg)
	transport := httpmock.NewMockTransport()
	f.client.SetTransport(transport)

	var gotUA, gotLang string
	transport.RegisterResponder("GET", "http://example.test/reviews",
		func(req *http.Request) (*http.Response, error) {
			gotUA = req.Header.Get("User-Agent")
			gotLang = req.Header.Get("Accept-Language")
			return httpmock.NewStringResponse(http.StatusOK, "<html></html>"), nil
		})

	if _, err := f.Fetch(context.Background(), "http://example.test/reviews"); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if gotUA != cfg.UserAgent {
		t.Fatalf("user agent = %q, want %q", gotUA, cfg.UserAgent)
	}
	if gotLang != "en-US" {
		t.Fatalf("accept-language = %q, want en-US", gotLang)
	}
}
