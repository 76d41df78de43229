package scraper

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// FetchError indicates a failed page retrieval: transport failure, timeout,
// or an unsuccessful HTTP status.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Failed to fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("Failed to fetch %s: HTTP status %d", e.URL, e.StatusCode)
}

func (e FetchError) Unwrap() error {
	return e.Err
}

// ExtractError indicates a review container missing an expected sub-field.
type ExtractError struct {
	Field string
}

func (e ExtractError) Error() string {
	return fmt.Sprintf("Failed to parse review: missing %s", e.Field)
}

// ExportError indicates a failed file write during export.
type ExportError struct {
	Format string
	Err    error
}

func (e ExportError) Error() string {
	return fmt.Sprintf("Failed to export %s: %v", e.Format, e.Err)
}

func (e ExportError) Unwrap() error {
	return e.Err
}

// errorTypeLabel maps an error to a metric label.
func errorTypeLabel(err error) string {
	if err == nil {
		return "unknown"
	}

	var extract ExtractError
	if errors.As(err, &extract) {
		return "parse"
	}
	var export ExportError
	if errors.As(err, &export) {
		return "export"
	}

	var fetch FetchError
	if errors.As(err, &fetch) {
		switch {
		case fetch.StatusCode >= 500:
			return "http_5xx"
		case fetch.StatusCode >= 400:
			return "http_4xx"
		}
		if errors.Is(fetch.Err, context.DeadlineExceeded) {
			return "timeout"
		}
		var netErr net.Error
		if errors.As(fetch.Err, &netErr) && netErr.Timeout() {
			return "timeout"
		}
		var opErr *net.OpError
		if errors.As(fetch.Err, &opErr) {
			return "connection"
		}
		return "fetch"
	}

	return "other"
}
