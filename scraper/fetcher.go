package scraper

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/aluiziolira/go-scrape-reviews/config"
)

// Fetcher retrieves single pages and parses them into documents.
type Fetcher struct {
	client *resty.Client
}

// NewFetcher builds a fetcher with the configured timeout and header set.
// Caller-supplied headers are applied on top of the default User-Agent.
func NewFetcher(cfg *config.Config) *Fetcher {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeaders(cfg.Headers).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(10)).
		SetTransport(&http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   cfg.Timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		})

	return &Fetcher{client: client}
}

// Fetch issues one GET and returns the body parsed into a document. Transport
// failures and statuses >= 400 return a FetchError; the caller decides how to
// record it.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		Get(pageURL)
	if err != nil {
		return nil, FetchError{URL: pageURL, Err: err}
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, FetchError{URL: pageURL, StatusCode: resp.StatusCode()}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, FetchError{URL: pageURL, Err: err}
	}
	return doc, nil
}
