package scraper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the scraper.
type Metrics struct {
	Registry            *prometheus.Registry
	PagesTotal          *prometheus.CounterVec
	FetchDuration       prometheus.Histogram
	ReviewsScrapedTotal prometheus.Counter
	ErrorsTotal         *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	pages := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_pages_total",
			Help: "Total pages processed by the scraper, by outcome.",
		},
		[]string{"outcome"},
	)
	fetchDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scraper_fetch_duration_seconds",
			Help:    "HTTP fetch latency per page.",
			Buckets: prometheus.DefBuckets,
		},
	)
	reviewsScraped := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_reviews_scraped_total",
			Help: "Total number of reviews extracted.",
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_errors_total",
			Help: "Total number of scraper errors by type.",
		},
		[]string{"error_type"},
	)

	registry.MustRegister(pages, fetchDuration, reviewsScraped, errorsTotal)

	return &Metrics{
		Registry:            registry,
		PagesTotal:          pages,
		FetchDuration:       fetchDuration,
		ReviewsScrapedTotal: reviewsScraped,
		ErrorsTotal:         errorsTotal,
	}
}

// IncPage increments the pages counter for an outcome label.
func (m *Metrics) IncPage(outcome string) {
	if m == nil {
		return
	}
	m.PagesTotal.WithLabelValues(outcome).Inc()
}

// ObserveFetch records one fetch duration.
func (m *Metrics) ObserveFetch(d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.Observe(d.Seconds())
}

// AddReviews increments the reviews scraped counter.
func (m *Metrics) AddReviews(n int) {
	if m == nil {
		return
	}
	m.ReviewsScrapedTotal.Add(float64(n))
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}
