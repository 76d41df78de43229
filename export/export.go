// Package export serializes accumulated review sets to flat files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aluiziolira/go-scrape-reviews/models"
)

// ErrNoData is returned when there are no reviews to export. No file is
// created in that case.
var ErrNoData = errors.New("export: no reviews to export")

// ToCSV writes reviews to a UTF-8 CSV file: one header row in record field
// order, then one row per review in accumulation order.
func ToCSV(filename string, reviews []models.Review) error {
	if len(reviews) == 0 {
		return ErrNoData
	}
	if err := ensureDir(filename); err != nil {
		return err
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}

	writer := csv.NewWriter(f)
	if err := writer.Write(models.FieldNames()); err != nil {
		f.Close()
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, review := range reviews {
		record := []string{
			review.Title,
			review.Author,
			review.Rating,
			review.Date,
			review.Text,
			review.Helpful,
		}
		if err := writer.Write(record); err != nil {
			f.Close()
			return fmt.Errorf("write csv record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush csv records: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close csv file: %w", err)
	}
	return nil
}

// ToJSON writes reviews as a single JSON array, indented with two spaces.
// Non-ASCII text is written verbatim, not escaped.
func ToJSON(filename string, reviews []models.Review) error {
	if len(reviews) == 0 {
		return ErrNoData
	}
	if err := ensureDir(filename); err != nil {
		return err
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create json file: %w", err)
	}

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(reviews); err != nil {
		f.Close()
		return fmt.Errorf("encode json: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close json file: %w", err)
	}
	return nil
}

// ToBoth writes the same review set to a CSV file and a JSON file.
func ToBoth(csvFilename, jsonFilename string, reviews []models.Review) error {
	if err := ToCSV(csvFilename, reviews); err != nil {
		return fmt.Errorf("csv: %w", err)
	}
	if err := ToJSON(jsonFilename, reviews); err != nil {
		return fmt.Errorf("json: %w", err)
	}
	return nil
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
