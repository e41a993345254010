package classify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sitecensus/internal/config"
	"sitecensus/internal/judge"
	"sitecensus/internal/model"
)

// Scorer rates the corpus against one subsection. Implementations return
// one judgment per page they considered; pages they skipped simply have
// no judgment. The Threshold method is the minimum score a judgment needs
// to be retained as a match.
type Scorer interface {
	ScoreSubsection(ctx context.Context, corpus []*model.PageRecord, sub config.Subsection) ([]model.PageJudgment, error)
	Threshold() float64
}

// ErrMalformedJudgment is returned by the judge-backed scorer when the
// judgment source's output cannot be decoded into page judgments.
var ErrMalformedJudgment = errors.New("judgment response is not valid page-judgment JSON")

// JudgeScorer rates pages by sending the judgment source one request per
// subsection containing an excerpt of every non-error page.
type JudgeScorer struct {
	// judge is the judgment source.
	judge judge.Judge

	// organization names the organization in prompts.
	organization string

	// excerptLimit bounds the per-page content excerpt in prompts.
	excerptLimit int
}

// NewJudgeScorer creates a judge-backed scorer.
func NewJudgeScorer(j judge.Judge, organization string) *JudgeScorer {
	return &JudgeScorer{
		judge:        j,
		organization: organization,
		excerptLimit: config.DefaultExcerptLimit,
	}
}

// Threshold returns the minimum 1-10 score for a retained match.
func (s *JudgeScorer) Threshold() float64 {
	return config.DefaultMinRelevanceScore
}

// subsectionResponse is the expected shape of a classification response.
type subsectionResponse struct {
	Judgments []model.PageJudgment `json:"judgments"`
}

// ScoreSubsection sends one judgment request covering the whole corpus
// and parses the per-page verdicts out of the response.
func (s *JudgeScorer) ScoreSubsection(ctx context.Context, corpus []*model.PageRecord, sub config.Subsection) ([]model.PageJudgment, error) {
	output, err := s.judge.Complete(ctx, s.buildPrompt(corpus, sub))
	if err != nil {
		return nil, fmt.Errorf("subsection %q: %w", sub.Name, err)
	}

	decoded := judge.Decode[subsectionResponse](output)
	if decoded.Malformed {
		return nil, fmt.Errorf("subsection %q: %w", sub.Name, ErrMalformedJudgment)
	}

	return decoded.Payload.Judgments, nil
}

// buildPrompt assembles the classification request for one subsection.
func (s *JudgeScorer) buildPrompt(corpus []*model.PageRecord, sub config.Subsection) string {
	var sb strings.Builder

	sb.WriteString("You are classifying pages collected from the website of ")
	sb.WriteString(s.organization)
	sb.WriteString(".\n\n")
	sb.WriteString("Subsection: ")
	sb.WriteString(sub.Name)
	sb.WriteString("\nDefinition: ")
	sb.WriteString(sub.Definition)
	sb.WriteString("\n\nPages:\n")

	for _, page := range corpus {
		if page.Failed() {
			continue
		}
		sb.WriteString("\n--- Page: ")
		sb.WriteString(page.Title)
		sb.WriteString(" (")
		sb.WriteString(page.DisplayURL())
		sb.WriteString(") ---\n")
		sb.WriteString(page.Excerpt(s.excerptLimit))
		sb.WriteString("\n")
	}

	sb.WriteString(`
For every page that belongs to the subsection, emit a judgment. Return a
JSON object with this structure:
{
  "judgments": [
    {
      "page_title": "exact page title as given above",
      "belongs": true,
      "relevance_score": 8.0,
      "reasoning": "short rationale",
      "key_themes": ["theme"],
      "quotes": ["verbatim quote from the page"],
      "confidence": "high"
    }
  ]
}

Rules:
- page_title must match the page heading above exactly
- relevance_score is 1-10
- include verbatim quotes from the source material when possible
- omit pages that clearly do not belong

Return ONLY the JSON, no other text.`)

	return sb.String()
}
