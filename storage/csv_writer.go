package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"ozon-radar/models"
)

// utf8BOM lets spreadsheet tools in Cyrillic locales detect the encoding.
const utf8BOM = "\ufeff"

var csvHeader = []string{
	"rank", "title_original", "title_local", "price", "price_local",
	"net_profit", "roi_percent", "review_count", "rating", "estimated_sales",
	"estimated_gmv", "opportunity_score", "verdict", "authoritative", "url",
}

// CSVWriter exports ranked listings to a UTF-8 CSV file with a byte-order
// mark. It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

var _ ReportWriter = (*CSVWriter)(nil)

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the BOM and header row. Intermediate directories are created
// automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	if _, err := f.WriteString(utf8BOM); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write bom: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// WriteListings appends one row per listing in the given order.
func (c *CSVWriter) WriteListings(listings []*models.Listing) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, l := range listings {
		if err := c.writer.Write(listingRow(i+1, l)); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

func listingRow(rank int, l *models.Listing) []string {
	return []string{
		strconv.Itoa(rank),
		l.TitleOriginal,
		l.TitleLocal,
		decimalString(l.PriceMinor),
		decimalString(l.PriceLocal),
		decimalString(l.NetProfit),
		decimalString(l.ROIPercent),
		strconv.Itoa(l.ReviewCount),
		decimalString(l.Rating),
		strconv.Itoa(l.EstimatedSales),
		decimalString(l.EstimatedGMV),
		strconv.Itoa(l.OpportunityScore),
		string(l.Verdict),
		strconv.FormatBool(l.IsAuthoritative),
		l.SourceURL,
	}
}

// decimalString formats f as a plain decimal without exponent or grouping.
func decimalString(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
