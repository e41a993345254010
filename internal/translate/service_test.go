package translate

import (
	"context"
	"errors"
	"sync"
	"testing"

	"sitecensus/internal/model"
)

// countingTranslator records how many distinct translation calls it served.
type countingTranslator struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingTranslator) Translate(_ context.Context, text, target string) (string, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	if c.err != nil {
		return text, c.err
	}
	return "[" + target + "] " + text, nil
}

func serviceResult() *model.CollectionResult {
	return &model.CollectionResult{
		SourceURL:        "https://example.com",
		OrganizationName: "Acme Academy",
		Summary:          "A school.",
		Pages: []*model.PageRecord{
			{Title: "Home", NormalizedURL: "https://example.com", Content: "Welcome.", WordCount: 1},
			{URL: "https://example.com/broken", Error: "timeout"},
		},
		Sections: []model.SectionResult{{
			Name:       "Academics",
			Definition: "Programs",
			Subsections: []model.SubsectionResult{{
				Name:       "Curriculum",
				Definition: "Courses",
				RelevantPages: []model.PageMatch{{
					PageTitle:      "Home",
					URL:            "https://example.com",
					Content:        "Welcome.",
					WordCount:      1,
					RelevanceScore: 8.0,
					Reasoning:      "lists courses",
				}},
			}},
			TotalRelevantPages: 1,
			MeanRelevanceScore: 8.0,
			Coverage:           model.CoverageExcellent,
		}},
	}
}

func TestServiceTranslateResult(t *testing.T) {
	t.Parallel()

	t.Run("textual fields translated, structural fields untouched", func(t *testing.T) {
		t.Parallel()

		svc := NewService(&countingTranslator{})
		got, err := svc.TranslateResult(context.Background(), serviceResult(), "es")
		if err != nil {
			t.Fatalf("TranslateResult() error = %v", err)
		}

		if got.OrganizationName != "[es] Acme Academy" {
			t.Errorf("OrganizationName = %q", got.OrganizationName)
		}
		if got.Summary != "[es] A school." {
			t.Errorf("Summary = %q", got.Summary)
		}
		if got.Pages[0].Title != "[es] Home" {
			t.Errorf("page title = %q", got.Pages[0].Title)
		}

		// URLs, scores and counts never change.
		if got.SourceURL != "https://example.com" {
			t.Errorf("SourceURL = %q", got.SourceURL)
		}
		if got.Pages[0].NormalizedURL != "https://example.com" {
			t.Errorf("NormalizedURL = %q", got.Pages[0].NormalizedURL)
		}
		if got.Pages[0].WordCount != 1 {
			t.Errorf("WordCount = %d", got.Pages[0].WordCount)
		}

		match := got.Sections[0].Subsections[0].RelevantPages[0]
		if match.URL != "https://example.com" {
			t.Errorf("match URL = %q", match.URL)
		}
		if match.RelevanceScore != 8.0 {
			t.Errorf("match score = %v", match.RelevanceScore)
		}
		if match.PageTitle != "[es] Home" {
			t.Errorf("match title = %q", match.PageTitle)
		}
		if got.Sections[0].Name != "[es] Academics" {
			t.Errorf("section name = %q", got.Sections[0].Name)
		}
	})

	t.Run("failed pages are not translated", func(t *testing.T) {
		t.Parallel()

		svc := NewService(&countingTranslator{})
		got, err := svc.TranslateResult(context.Background(), serviceResult(), "es")
		if err != nil {
			t.Fatalf("TranslateResult() error = %v", err)
		}
		if got.Pages[1].Error != "timeout" {
			t.Errorf("failed page error = %q", got.Pages[1].Error)
		}
		if got.Pages[1].Title != "" {
			t.Errorf("failed page title = %q, want untouched", got.Pages[1].Title)
		}
	})

	t.Run("input is not modified", func(t *testing.T) {
		t.Parallel()

		original := serviceResult()
		svc := NewService(&countingTranslator{})
		if _, err := svc.TranslateResult(context.Background(), original, "es"); err != nil {
			t.Fatalf("TranslateResult() error = %v", err)
		}

		if original.OrganizationName != "Acme Academy" {
			t.Error("TranslateResult modified the input result")
		}
		if original.Pages[0].Title != "Home" {
			t.Error("TranslateResult modified the input pages")
		}
		if original.Sections[0].Name != "Academics" {
			t.Error("TranslateResult modified the input sections")
		}
	})

	t.Run("translator failure keeps originals", func(t *testing.T) {
		t.Parallel()

		svc := NewService(&countingTranslator{err: errors.New("offline")})
		got, err := svc.TranslateResult(context.Background(), serviceResult(), "es")
		if err != nil {
			t.Fatalf("TranslateResult() error = %v, failures must not drop content", err)
		}
		if got.OrganizationName != "Acme Academy" {
			t.Errorf("OrganizationName = %q, want original kept", got.OrganizationName)
		}
		if got.Pages[0].Content != "Welcome." {
			t.Errorf("page content = %q, want original kept", got.Pages[0].Content)
		}
	})

	t.Run("invalid language", func(t *testing.T) {
		t.Parallel()

		svc := NewService(&countingTranslator{})
		if _, err := svc.TranslateResult(context.Background(), serviceResult(), "!!bad!!"); !errors.Is(err, ErrInvalidLanguage) {
			t.Errorf("error = %v, want ErrInvalidLanguage", err)
		}
	})

	t.Run("repeated text served from cache", func(t *testing.T) {
		t.Parallel()

		tr := &countingTranslator{}
		svc := NewService(tr)

		// "Home" and "Welcome." each appear twice (page and match copy).
		if _, err := svc.TranslateResult(context.Background(), serviceResult(), "es"); err != nil {
			t.Fatalf("TranslateResult() error = %v", err)
		}

		firstRun := tr.calls
		if svc.CacheSize() == 0 {
			t.Fatal("cache empty after a translation run")
		}
		if firstRun >= svc.CacheSize()+2 {
			t.Errorf("translator called %d times for %d distinct texts", firstRun, svc.CacheSize())
		}

		// A second identical run is fully cached.
		if _, err := svc.TranslateResult(context.Background(), serviceResult(), "es"); err != nil {
			t.Fatalf("TranslateResult() error = %v", err)
		}
		if tr.calls != firstRun {
			t.Errorf("translator called %d more times on a cached run", tr.calls-firstRun)
		}
	})
}
