package classify

import (
	"context"
	"strings"
	"unicode"

	"sitecensus/internal/config"
	"sitecensus/internal/model"
)

// stopwords are excluded from taxonomy keyword extraction.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "that": {}, "this": {}, "with": {}, "from": {},
	"for": {}, "are": {}, "was": {}, "will": {}, "has": {}, "have": {},
	"had": {}, "but": {}, "not": {}, "your": {}, "you": {}, "our": {},
	"their": {}, "them": {}, "they": {}, "what": {}, "which": {},
	"about": {}, "into": {}, "such": {}, "other": {}, "offered": {},
}

// minKeywordLength excludes short tokens from keyword extraction.
const minKeywordLength = 3

// KeywordScorer is the fallback scorer used when no judgment source is
// configured. It extracts a keyword set from a subsection's name and
// definition and scores each page by how often those keywords occur in
// its title and content. The hit count is used directly as the relevance
// score, so scores are small integers rather than the judge's 1-10 scale.
type KeywordScorer struct{}

// NewKeywordScorer creates a keyword fallback scorer.
func NewKeywordScorer() *KeywordScorer {
	return &KeywordScorer{}
}

// Threshold returns the retention minimum: any page with at least one
// keyword hit is a match.
func (s *KeywordScorer) Threshold() float64 {
	return 1
}

// ScoreSubsection counts keyword hits for every non-error page.
func (s *KeywordScorer) ScoreSubsection(_ context.Context, corpus []*model.PageRecord, sub config.Subsection) ([]model.PageJudgment, error) {
	keywords := Keywords(sub)
	if len(keywords) == 0 {
		return nil, nil
	}

	var judgments []model.PageJudgment
	for _, page := range corpus {
		if page.Failed() {
			continue
		}

		haystack := strings.ToLower(page.Title + " " + page.Content)
		hits := 0
		var matched []string
		for _, kw := range keywords {
			n := strings.Count(haystack, kw)
			if n > 0 {
				hits += n
				matched = append(matched, kw)
			}
		}
		if hits == 0 {
			continue
		}

		judgments = append(judgments, model.PageJudgment{
			PageTitle:      page.Title,
			Belongs:        true,
			RelevanceScore: float64(hits),
			Reasoning:      "keyword match: " + strings.Join(matched, ", "),
			KeyThemes:      matched,
		})
	}

	return judgments, nil
}

// Keywords extracts the lowercased keyword set from a subsection's name
// and definition: word tokens longer than minKeywordLength, minus
// stopwords, deduplicated in first-seen order.
func Keywords(sub config.Subsection) []string {
	isSeparator := func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	}
	tokens := strings.FieldsFunc(strings.ToLower(sub.Name+" "+sub.Definition), isSeparator)

	seen := make(map[string]struct{})
	var keywords []string
	for _, token := range tokens {
		if len(token) <= minKeywordLength {
			continue
		}
		if _, stop := stopwords[token]; stop {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		keywords = append(keywords, token)
	}

	return keywords
}
