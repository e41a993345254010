package report

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"sitecensus/internal/model"
)

// CSVWriter outputs the page corpus as CSV, one row per page.
// Classification results do not fit a flat table, so this format covers
// the corpus only; use JSON for the full result.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{
		baseWriter: newBaseWriter(output),
	}
}

// csvHeader is the fixed column set for page rows.
var csvHeader = []string{"title", "url", "word_count", "scraped_at", "status"}

// Write outputs all pages of the result as CSV rows.
// Failed pages are included with their error in the status column so
// the export accounts for the whole crawl, not just the successes.
func (w *CSVWriter) Write(result *model.CollectionResult) (int, error) {
	// Encode into a buffer first so the byte count is exact and a
	// mid-write encoding error does not leave a torn file.
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	if err := cw.Write(csvHeader); err != nil {
		return 0, err
	}

	for _, page := range result.Pages {
		if err := cw.Write(pageRow(page)); err != nil {
			return 0, err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, err
	}

	return w.output.Write(buf.Bytes())
}

// pageRow converts one page record into its CSV row.
func pageRow(page *model.PageRecord) []string {
	status := "ok"
	if page.Failed() {
		status = "error: " + page.Error
	}

	scrapedAt := ""
	if !page.FetchedAt.IsZero() {
		scrapedAt = page.FetchedAt.Format(time.RFC3339)
	}

	return []string{
		page.Title,
		page.DisplayURL(),
		strconv.Itoa(page.WordCount),
		scrapedAt,
		status,
	}
}
