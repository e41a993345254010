package classify

import (
	"context"
	"reflect"
	"testing"

	"sitecensus/internal/config"
	"sitecensus/internal/model"
)

func TestKeywords(t *testing.T) {
	t.Parallel()

	t.Run("tokenization and filtering", func(t *testing.T) {
		t.Parallel()

		sub := config.Subsection{
			Name:       "Admission Requirements",
			Definition: "How to apply, and the requirements for admission.",
		}

		got := Keywords(sub)
		want := []string{"admission", "requirements", "apply"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Keywords() = %v, want %v", got, want)
		}
	})

	t.Run("short tokens dropped", func(t *testing.T) {
		t.Parallel()

		got := Keywords(config.Subsection{Name: "Art", Definition: "the of an to"})
		if len(got) != 0 {
			t.Errorf("Keywords() = %v, want none", got)
		}
	})

	t.Run("stopwords dropped", func(t *testing.T) {
		t.Parallel()

		got := Keywords(config.Subsection{Name: "Programs", Definition: "programs offered about their campus"})
		want := []string{"programs", "campus"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Keywords() = %v, want %v", got, want)
		}
	})
}

func TestKeywordScorer(t *testing.T) {
	t.Parallel()

	sub := config.Subsection{Name: "Admissions", Definition: "admission and application process"}

	corpus := []*model.PageRecord{
		{Title: "Apply Now", Content: "Our admission process is simple. Admission is open."},
		{Title: "History", Content: "Founded long ago."},
		{Title: "Broken", Error: "fetch failed", Content: "admission admission"},
	}

	judgments, err := NewKeywordScorer().ScoreSubsection(context.Background(), corpus, sub)
	if err != nil {
		t.Fatalf("ScoreSubsection() error = %v", err)
	}

	if len(judgments) != 1 {
		t.Fatalf("got %d judgments, want 1", len(judgments))
	}

	j := judgments[0]
	if j.PageTitle != "Apply Now" {
		t.Errorf("PageTitle = %q", j.PageTitle)
	}
	if !j.Belongs {
		t.Error("Belongs = false, want true")
	}
	// "admission" twice plus "process" once.
	if j.RelevanceScore != 3 {
		t.Errorf("RelevanceScore = %v, want 3", j.RelevanceScore)
	}
	if len(j.KeyThemes) != 2 {
		t.Errorf("KeyThemes = %v, want the two matched keywords", j.KeyThemes)
	}
}

func TestKeywordScorerThreshold(t *testing.T) {
	t.Parallel()

	if got := NewKeywordScorer().Threshold(); got != 1 {
		t.Errorf("Threshold() = %v, want 1", got)
	}
}

func TestKeywordScorerEmptyKeywords(t *testing.T) {
	t.Parallel()

	corpus := []*model.PageRecord{{Title: "Page", Content: "text"}}
	judgments, err := NewKeywordScorer().ScoreSubsection(context.Background(), corpus, config.Subsection{Name: "Art", Definition: "an"})
	if err != nil {
		t.Fatalf("ScoreSubsection() error = %v", err)
	}
	if judgments != nil {
		t.Errorf("judgments = %v, want nil for an empty keyword set", judgments)
	}
}
