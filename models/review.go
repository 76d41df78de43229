// Package models defines data structures for the review scraper.
package models

import "time"

// Review represents one product review extracted from a page. All fields are
// trimmed text taken verbatim from the markup; the rating and helpful count
// intentionally stay strings.
type Review struct {
	Title   string `csv:"title" json:"title"`
	Author  string `csv:"author" json:"author"`
	Rating  string `csv:"rating" json:"rating"`
	Date    string `csv:"date" json:"date"`
	Text    string `csv:"text" json:"text"`
	Helpful string `csv:"helpful" json:"helpful"`
}

// FieldNames returns the review field names in record order. CSV headers and
// export column order derive from this.
func FieldNames() []string {
	return []string{"title", "author", "rating", "date", "text", "helpful"}
}

// ScrapeResult holds the outcome of one scrape run. Reviews and Errors are
// the full session accumulator; the counts cover this run only.
type ScrapeResult struct {
	Reviews      []Review
	Errors       []string
	StartTime    time.Time
	EndTime      time.Time
	PageCount    int
	ReviewCount  int
	ErrorCount   int
	FailedURLs   []string
	ErrorsByType map[string]int
}

// Statistics summarizes the session state after a run.
type Statistics struct {
	TotalReviews int       `json:"total_reviews"`
	TotalErrors  int       `json:"total_errors"`
	ScrapeDate   time.Time `json:"scrape_date"`
}
