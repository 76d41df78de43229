package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/aluiziolira/go-scrape-reviews/config"
	"github.com/aluiziolira/go-scrape-reviews/models"
)

// Extractor pulls review records out of parsed documents using a fixed
// selector schema.
type Extractor struct {
	sel config.Selectors
}

// NewExtractor builds an extractor for the given markup schema.
func NewExtractor(sel config.Selectors) *Extractor {
	return &Extractor{sel: sel}
}

// Extract walks every review container in doc and returns the successfully
// extracted records in document order. A container missing any sub-field
// contributes one ExtractError instead of a record; the remaining containers
// are unaffected. A document with no containers yields both slices empty.
func (x *Extractor) Extract(doc *goquery.Document) ([]models.Review, []error) {
	var reviews []models.Review
	var errs []error

	doc.Find(x.sel.Container).Each(func(_ int, container *goquery.Selection) {
		review, err := x.extractOne(container)
		if err != nil {
			errs = append(errs, err)
			return
		}
		reviews = append(reviews, review)
	})

	return reviews, errs
}

func (x *Extractor) extractOne(container *goquery.Selection) (models.Review, error) {
	var review models.Review

	fields := []struct {
		name     string
		selector string
		dst      *string
	}{
		{"title", x.sel.Title, &review.Title},
		{"author", x.sel.Author, &review.Author},
		{"rating", x.sel.Rating, &review.Rating},
		{"date", x.sel.Date, &review.Date},
		{"text", x.sel.Text, &review.Text},
		{"helpful", x.sel.Helpful, &review.Helpful},
	}

	for _, field := range fields {
		node := container.Find(field.selector).First()
		if node.Length() == 0 {
			return models.Review{}, ExtractError{Field: field.name}
		}
		*field.dst = strings.TrimSpace(node.Text())
	}

	return review, nil
}
