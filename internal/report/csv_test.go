package report

import (
	"bytes"
	"encoding/csv"
	"reflect"
	"testing"
)

func TestCSVWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n, err := NewCSVWriter(&buf).Write(sampleResult())
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n != buf.Len() {
		t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header plus 2 pages", len(rows))
	}

	if !reflect.DeepEqual(rows[0], csvHeader) {
		t.Errorf("header = %v, want %v", rows[0], csvHeader)
	}

	home := rows[1]
	if home[0] != "Home" || home[1] != "https://example.com" || home[2] != "4" {
		t.Errorf("page row = %v", home)
	}
	if home[3] != "2026-03-14T11:55:00Z" {
		t.Errorf("scraped_at = %q", home[3])
	}
	if home[4] != "ok" {
		t.Errorf("status = %q, want ok", home[4])
	}

	failed := rows[2]
	if failed[4] != "error: unexpected status 500 for https://example.com/broken" {
		t.Errorf("failed status = %q", failed[4])
	}
}

func TestCSVWriterEmptyCorpus(t *testing.T) {
	t.Parallel()

	result := sampleResult()
	result.Pages = nil

	var buf bytes.Buffer
	if _, err := NewCSVWriter(&buf).Write(result); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("got %d rows, want header only", len(rows))
	}
}
