package filter

import (
	"context"
	"errors"
	"strings"
	"testing"

	"sitecensus/internal/config"
	"sitecensus/internal/model"
)

// stubJudge returns a canned completion.
type stubJudge struct {
	output     string
	err        error
	lastPrompt string
}

func (j *stubJudge) Complete(_ context.Context, prompt string) (string, error) {
	j.lastPrompt = prompt
	return j.output, j.err
}

func samplePage() *model.PageRecord {
	return &model.PageRecord{
		URL:     "https://example.com",
		Title:   "Home",
		Content: "Welcome to our school.",
	}
}

func TestFilterAdmit(t *testing.T) {
	t.Parallel()

	t.Run("nil judge admits with neutral score", func(t *testing.T) {
		t.Parallel()

		got := New(nil).Admit(context.Background(), samplePage(), "https://example.com/a", "About")
		if !got.WorthChecking {
			t.Error("WorthChecking = false, want true")
		}
		if got.RelevanceScore != model.NeutralScore {
			t.Errorf("RelevanceScore = %v, want neutral", got.RelevanceScore)
		}
		if got.Reasoning != "link filtering disabled" {
			t.Errorf("Reasoning = %q", got.Reasoning)
		}
	})

	t.Run("judge error fails open", func(t *testing.T) {
		t.Parallel()

		f := New(&stubJudge{err: errors.New("timeout")})
		got := f.Admit(context.Background(), samplePage(), "https://example.com/a", "")
		if !got.WorthChecking {
			t.Error("WorthChecking = false, want fail-open admission")
		}
		if got.RelevanceScore != model.NeutralScore {
			t.Errorf("RelevanceScore = %v, want neutral", got.RelevanceScore)
		}
		if !strings.Contains(got.Reasoning, "admitted without judgment") {
			t.Errorf("Reasoning = %q", got.Reasoning)
		}
	})

	t.Run("unparseable response fails open", func(t *testing.T) {
		t.Parallel()

		f := New(&stubJudge{output: "this link seems fine to me"})
		got := f.Admit(context.Background(), samplePage(), "https://example.com/a", "")
		if !got.WorthChecking {
			t.Error("WorthChecking = false, want fail-open admission")
		}
		if got.Reasoning != "admitted without judgment: unparseable response" {
			t.Errorf("Reasoning = %q", got.Reasoning)
		}
	})

	t.Run("parsed verdict is honored", func(t *testing.T) {
		t.Parallel()

		f := New(&stubJudge{output: `{"relevance_score": 2.0, "worth_checking": false, "reasoning": "privacy policy", "confidence": "high"}`})
		got := f.Admit(context.Background(), samplePage(), "https://example.com/privacy", "Privacy")
		if got.WorthChecking {
			t.Error("WorthChecking = true, want the judge's rejection")
		}
		if got.RelevanceScore != 2.0 {
			t.Errorf("RelevanceScore = %v, want 2.0", got.RelevanceScore)
		}
		if got.URL != "https://example.com/privacy" {
			t.Errorf("URL = %q, want the judged link", got.URL)
		}
	})

	t.Run("fenced verdict is decoded", func(t *testing.T) {
		t.Parallel()

		f := New(&stubJudge{output: "```json\n{\"relevance_score\": 9, \"worth_checking\": true}\n```"})
		got := f.Admit(context.Background(), samplePage(), "https://example.com/programs", "Programs")
		if !got.WorthChecking || got.RelevanceScore != 9 {
			t.Errorf("judgment = %+v, want fenced payload decoded", got)
		}
	})
}

func TestFilterPrompt(t *testing.T) {
	t.Parallel()

	taxonomy := &config.Taxonomy{Sections: []config.Section{{
		Name:       "Academics",
		Definition: "Teaching programs",
		Subsections: []config.Subsection{
			{Name: "Curriculum", Definition: "Course offerings"},
		},
	}}}

	j := &stubJudge{output: `{"worth_checking": true}`}
	f := New(j, WithTaxonomy(taxonomy), WithExcerptLimit(10))
	f.Admit(context.Background(), samplePage(), "https://example.com/courses", "Our courses")

	for _, want := range []string{
		"https://example.com/courses",
		"Our courses",
		"Title: Home",
		"Academics",
		"Curriculum",
	} {
		if !strings.Contains(j.lastPrompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	// Excerpt limit applies to the embedded page content.
	if strings.Contains(j.lastPrompt, "Welcome to our school.") {
		t.Error("prompt contains unbounded page content")
	}
}
