// Package scraper fetches review pages, extracts review records, and
// accumulates them across a sequential run.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/aluiziolira/go-scrape-reviews/config"
	"github.com/aluiziolira/go-scrape-reviews/export"
	"github.com/aluiziolira/go-scrape-reviews/models"
)

// Scraper sequences fetching and extraction over a URL list and owns the
// accumulated session state. Reviews and errors gathered by a run live on the
// Scraper until a new one is constructed; runs append, nothing clears.
//
// A Scraper is not safe for concurrent use. Processing is deliberately
// sequential: the inter-request delay is the sole throttle on the target.
type Scraper struct {
	cfg       *config.Config
	fetcher   *Fetcher
	extractor *Extractor
	Metrics   *Metrics

	reviews []models.Review
	errLog  []string

	errorsByType map[string]int
	failedURLs   []string

	// sleep pauses between requests; swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewScraper builds a scraper configured from cfg with an empty accumulator.
func NewScraper(cfg *config.Config) (*Scraper, error) {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("base url must include a host")
	}
	if cfg.Delay < 0 {
		return nil, fmt.Errorf("delay cannot be negative")
	}

	return &Scraper{
		cfg:          cfg,
		fetcher:      NewFetcher(cfg),
		extractor:    NewExtractor(cfg.Selectors),
		Metrics:      NewMetrics(),
		errorsByType: make(map[string]int),
		sleep:        sleepCtx,
	}, nil
}

// Run processes pageURLs strictly in order: fetch, extract, accumulate, then
// pause for the configured delay before every URL except the last. A failed
// fetch is logged and final for that URL; nothing aborts the run. Cancelling
// ctx ends the run early with whatever was accumulated so far.
func (s *Scraper) Run(ctx context.Context, pageURLs []string) *models.ScrapeResult {
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	startReviews := len(s.reviews)
	startErrors := len(s.errLog)
	pages := 0

	for i, pageURL := range pageURLs {
		if ctx.Err() != nil {
			slog.Info("run cancelled", slog.Int("pages_done", pages))
			break
		}

		slog.Debug("scraping page",
			slog.Int("page", i+1),
			slog.Int("total", len(pageURLs)),
			slog.String("url", pageURL),
		)

		s.scrapeOne(ctx, pageURL)
		pages++

		if i < len(pageURLs)-1 && s.cfg.Delay > 0 {
			if err := s.sleep(ctx, s.cfg.Delay); err != nil {
				slog.Info("run cancelled during delay", slog.Int("pages_done", pages))
				break
			}
		}
	}

	return &models.ScrapeResult{
		Reviews:      s.Reviews(),
		Errors:       s.Errors(),
		StartTime:    start,
		EndTime:      time.Now(),
		PageCount:    pages,
		ReviewCount:  len(s.reviews) - startReviews,
		ErrorCount:   len(s.errLog) - startErrors,
		FailedURLs:   append([]string(nil), s.failedURLs...),
		ErrorsByType: s.snapshotErrorsByType(),
	}
}

func (s *Scraper) scrapeOne(ctx context.Context, pageURL string) {
	fetchStart := time.Now()
	doc, err := s.fetcher.Fetch(ctx, pageURL)
	s.Metrics.ObserveFetch(time.Since(fetchStart))
	if err != nil {
		s.record(err)
		s.failedURLs = append(s.failedURLs, pageURL)
		s.Metrics.IncPage("failed")
		slog.Error("fetch failed", slog.String("url", pageURL), slog.Any("error", err))
		return
	}

	reviews, extractErrs := s.extractor.Extract(doc)
	for _, extractErr := range extractErrs {
		s.record(extractErr)
	}
	s.reviews = append(s.reviews, reviews...)
	s.Metrics.IncPage("ok")
	s.Metrics.AddReviews(len(reviews))

	slog.Debug("page scraped",
		slog.String("url", pageURL),
		slog.Int("reviews", len(reviews)),
		slog.Int("skipped", len(extractErrs)),
	)
}

// Reviews returns a copy of the accumulated review sequence.
func (s *Scraper) Reviews() []models.Review {
	out := make([]models.Review, len(s.reviews))
	copy(out, s.reviews)
	return out
}

// Errors returns a copy of the accumulated error log.
func (s *Scraper) Errors() []string {
	out := make([]string, len(s.errLog))
	copy(out, s.errLog)
	return out
}

// ExportCSV writes the accumulated reviews to a CSV file. It reports false
// when there is nothing to export or the write failed; write failures are
// also appended to the error log.
func (s *Scraper) ExportCSV(filename string) bool {
	return s.export(filename, "CSV", export.ToCSV)
}

// ExportJSON writes the accumulated reviews to a JSON file with the same
// no-data and failure behavior as ExportCSV.
func (s *Scraper) ExportJSON(filename string) bool {
	return s.export(filename, "JSON", export.ToJSON)
}

// ExportBoth writes the accumulated reviews to a CSV file and a JSON file
// side by side.
func (s *Scraper) ExportBoth(csvFilename, jsonFilename string) bool {
	return s.export(csvFilename, "dual", func(filename string, reviews []models.Review) error {
		return export.ToBoth(filename, jsonFilename, reviews)
	})
}

func (s *Scraper) export(filename, format string, fn func(string, []models.Review) error) bool {
	err := fn(filename, s.reviews)
	if errors.Is(err, export.ErrNoData) {
		slog.Info("no reviews to export", slog.String("format", format))
		return false
	}
	if err != nil {
		s.record(ExportError{Format: format, Err: err})
		slog.Error("export failed", slog.String("format", format), slog.Any("error", err))
		return false
	}

	slog.Info("exported reviews",
		slog.String("format", format),
		slog.String("file", filename),
		slog.Int("count", len(s.reviews)),
	)
	return true
}

// Statistics summarizes the session state. The second return is false when
// nothing has been accumulated yet.
func (s *Scraper) Statistics() (models.Statistics, bool) {
	if len(s.reviews) == 0 {
		return models.Statistics{}, false
	}
	return models.Statistics{
		TotalReviews: len(s.reviews),
		TotalErrors:  len(s.errLog),
		ScrapeDate:   time.Now(),
	}, true
}

func (s *Scraper) record(err error) {
	s.errLog = append(s.errLog, err.Error())
	label := errorTypeLabel(err)
	s.errorsByType[label]++
	s.Metrics.IncError(label)
}

func (s *Scraper) snapshotErrorsByType() map[string]int {
	out := make(map[string]int, len(s.errorsByType))
	for k, v := range s.errorsByType {
		out[k] = v
	}
	return out
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
