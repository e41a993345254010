package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"sitecensus/internal/model"
)

// sampleResult builds a small but fully populated result for writer tests.
func sampleResult() *model.CollectionResult {
	return &model.CollectionResult{
		SourceURL:        "https://example.com",
		OrganizationName: "Acme Academy",
		CollectedAt:      time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		Summary:          "Acme Academy teaches practical crafts.",
		Pages: []*model.PageRecord{
			{
				Title:         "Home",
				NormalizedURL: "https://example.com",
				Content:       "Welcome to Acme Academy.",
				WordCount:     4,
				FetchedAt:     time.Date(2026, 3, 14, 11, 55, 0, 0, time.UTC),
			},
			{
				URL:       "https://example.com/broken",
				Error:     "unexpected status 500 for https://example.com/broken",
				FetchedAt: time.Date(2026, 3, 14, 11, 56, 0, 0, time.UTC),
			},
		},
		Sections: []model.SectionResult{
			{
				Name:       "Academics at Acme Academy",
				Definition: "Teaching programs",
				Subsections: []model.SubsectionResult{
					{
						Name:       "Curriculum",
						Definition: "Course offerings",
						RelevantPages: []model.PageMatch{
							{
								PageTitle:      "Home",
								URL:            "https://example.com",
								Content:        "Welcome to Acme Academy.",
								WordCount:      4,
								RelevanceScore: 8.0,
								Reasoning:      "mentions courses",
							},
						},
					},
					{Name: "Research", Definition: "Research work", RelevantPages: []model.PageMatch{}},
				},
				TotalRelevantPages: 1,
				MeanRelevanceScore: 8.0,
				Coverage:           model.CoverageExcellent,
			},
		},
	}
}

// failingWriter always errors after reporting a fixed byte count.
type failingWriter struct{}

func (failingWriter) Write(_ *model.CollectionResult) (int, error) {
	return 3, errors.New("disk full")
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to every writer", func(t *testing.T) {
		t.Parallel()

		var first, second bytes.Buffer
		mw := NewMultiWriter(NewJSONWriter(&first), NewJSONWriter(&second))

		n, err := mw.Write(sampleResult())
		if err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if first.Len() == 0 || second.Len() == 0 {
			t.Error("both writers should receive output")
		}
		if n != first.Len()+second.Len() {
			t.Errorf("total bytes = %d, want %d", n, first.Len()+second.Len())
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		var after bytes.Buffer
		mw := NewMultiWriter(failingWriter{}, NewJSONWriter(&after))

		n, err := mw.Write(sampleResult())
		if err == nil {
			t.Fatal("Write() error = nil, want the writer error")
		}
		if n != 3 {
			t.Errorf("total bytes = %d, want bytes up to the failure", n)
		}
		if after.Len() != 0 {
			t.Error("writers after the failure should not be reached")
		}
	})
}

func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("report structure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewSimpleWriter(&buf).Write(sampleResult())
		if err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if n != buf.Len() {
			t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
		}

		out := buf.String()
		for _, want := range []string{
			"SITE COLLECTION REPORT",
			"Acme Academy",
			"https://example.com",
			"Status:         Complete",
			"SUMMARY",
			"[EXCELLENT] Academics at Acme Academy (1 pages, mean 8.0)",
			"Curriculum",
			"[+] Home (4 words)",
			"[x] https://example.com/broken",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q", want)
			}
		}

		// Empty subsections are hidden by default, reasoning needs verbose.
		if strings.Contains(out, "Research") {
			t.Error("empty subsection shown without WithShowEmpty")
		}
		if strings.Contains(out, "Reasoning:") {
			t.Error("reasoning shown without WithVerbose")
		}
	})

	t.Run("verbose and show-empty options", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true), WithShowEmpty(true)).Write(sampleResult()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "Research") {
			t.Error("empty subsection hidden despite WithShowEmpty")
		}
		if !strings.Contains(out, "Reasoning: mentions courses") {
			t.Error("reasoning hidden despite WithVerbose")
		}
	})

	t.Run("failed run status", func(t *testing.T) {
		t.Parallel()

		result := sampleResult()
		result.ErrorMessage = "crawl failed: fetch layer failed to start"

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(result); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if !strings.Contains(buf.String(), "Status:         ERROR - crawl failed") {
			t.Error("output missing error status line")
		}
	})
}
