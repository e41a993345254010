package model

import "time"

// Coverage rates how well a section of the taxonomy is covered by the
// collected corpus, derived from the mean relevance score of its matches.
type Coverage int

const (
	// CoverageLimited indicates a mean relevance score below 4,
	// or no matched pages at all.
	CoverageLimited Coverage = iota

	// CoverageGood indicates a mean relevance score of at least 4.
	CoverageGood

	// CoverageExcellent indicates a mean relevance score of at least 7.
	CoverageExcellent
)

// Coverage label thresholds on the 1-10 relevance scale.
const (
	ExcellentCoverageThreshold = 7.0
	GoodCoverageThreshold      = 4.0
)

// String returns the human-readable coverage label.
func (c Coverage) String() string {
	switch c {
	case CoverageExcellent:
		return "excellent"
	case CoverageGood:
		return "good"
	default:
		return "limited"
	}
}

// MarshalJSON serializes the coverage as its label so exported reports
// stay readable without a lookup table.
func (c Coverage) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// UnmarshalJSON parses a coverage label back into the enum.
// Unknown labels decode as CoverageLimited.
func (c *Coverage) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"excellent"`:
		*c = CoverageExcellent
	case `"good"`:
		*c = CoverageGood
	default:
		*c = CoverageLimited
	}
	return nil
}

// CoverageForMean derives the coverage label from a mean relevance score.
// A section with no matches has mean 0 and is therefore limited.
func CoverageForMean(mean float64) Coverage {
	switch {
	case mean >= ExcellentCoverageThreshold:
		return CoverageExcellent
	case mean >= GoodCoverageThreshold:
		return CoverageGood
	default:
		return CoverageLimited
	}
}

// PageMatch links a corpus page to a subsection with a relevance score.
// It carries the page's display fields plus optional judgment metadata.
type PageMatch struct {
	// PageTitle is the matched page's title.
	PageTitle string `json:"page_title"`

	// URL is the matched page's display URL. Structural: never translated.
	URL string `json:"url"`

	// Content is a truncated preview of the page content.
	Content string `json:"content"`

	// WordCount is the matched page's full word count.
	WordCount int `json:"word_count"`

	// RelevanceScore is the 1-10 score the match was ranked by.
	// In keyword fallback mode this is the raw keyword hit count.
	RelevanceScore float64 `json:"relevance_score"`

	// Reasoning is the judgment source's rationale, when available.
	Reasoning string `json:"reasoning,omitempty"`

	// KeyThemes are the judge's themes for the page, when available.
	KeyThemes []string `json:"key_themes,omitempty"`

	// Quotes are verbatim supporting quotes, when available.
	Quotes []string `json:"quotes,omitempty"`

	// Confidence is the judge's confidence label, when available.
	Confidence string `json:"confidence,omitempty"`
}

// SubsectionResult holds the scored matches for one taxonomy subsection.
// RelevantPages is ordered by descending score, ties broken by corpus
// order, and never exceeds MaxMatchesPerSubsection entries.
type SubsectionResult struct {
	// Name is the subsection name after placeholder substitution.
	Name string `json:"subsection_name"`

	// Definition describes what content the subsection covers.
	Definition string `json:"subsection_definition"`

	// RelevantPages are the top matches for this subsection. Empty when
	// nothing matched or the judgment source failed for this subsection.
	RelevantPages []PageMatch `json:"relevant_pages"`
}

// MaxMatchesPerSubsection caps how many page matches a subsection keeps.
const MaxMatchesPerSubsection = 5

// SectionResult aggregates the subsection results of one taxonomy section.
type SectionResult struct {
	// Name is the section name after placeholder substitution.
	Name string `json:"section_name"`

	// Definition describes what content the section covers.
	Definition string `json:"section_definition"`

	// Subsections are the per-subsection results, in taxonomy order.
	Subsections []SubsectionResult `json:"subsections"`

	// TotalRelevantPages is the sum of matches across all subsections.
	TotalRelevantPages int `json:"total_relevant_pages"`

	// MeanRelevanceScore is the arithmetic mean across all matches in
	// the section, 0 when the section has no matches.
	MeanRelevanceScore float64 `json:"mean_relevance_score"`

	// Coverage is the quality label derived from MeanRelevanceScore.
	Coverage Coverage `json:"coverage"`
}

// Aggregate recomputes TotalRelevantPages, MeanRelevanceScore and Coverage
// from the current subsection results.
func (s *SectionResult) Aggregate() {
	total := 0
	sum := 0.0
	for _, sub := range s.Subsections {
		total += len(sub.RelevantPages)
		for _, m := range sub.RelevantPages {
			sum += m.RelevanceScore
		}
	}

	s.TotalRelevantPages = total
	if total > 0 {
		s.MeanRelevanceScore = sum / float64(total)
	} else {
		s.MeanRelevanceScore = 0
	}
	s.Coverage = CoverageForMean(s.MeanRelevanceScore)
}

// CollectionResult is the final artifact of one collection run. It is
// created once per run and treated as immutable afterwards.
type CollectionResult struct {
	// SourceURL is the start URL the run was launched with.
	SourceURL string `json:"source_url"`

	// OrganizationName is the supplied or derived organization name.
	OrganizationName string `json:"organization_name"`

	// Pages is the full page corpus in crawl order, including failures.
	Pages []*PageRecord `json:"pages"`

	// Sections are the classification results, in taxonomy order.
	Sections []SectionResult `json:"sections,omitempty"`

	// Summary is the optional free-text holistic summary. When summary
	// generation fails the field holds a placeholder string instead.
	Summary string `json:"summary,omitempty"`

	// CollectedAt is when the run completed.
	CollectedAt time.Time `json:"collected_at"`

	// PerformedSteps lists the pipeline step names that ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Error holds the fatal error that stopped the run, if any.
	// Not serialized; ErrorMessage carries the text into exports.
	Error error `json:"-"`

	// ErrorMessage is the string form of Error for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// NewCollectionResult creates an empty result for the given start URL.
func NewCollectionResult(sourceURL string) *CollectionResult {
	return &CollectionResult{
		SourceURL: sourceURL,
		Pages:     make([]*PageRecord, 0),
	}
}

// SuccessfulPages returns the number of pages fetched without error.
func (r *CollectionResult) SuccessfulPages() int {
	n := 0
	for _, p := range r.Pages {
		if !p.Failed() {
			n++
		}
	}
	return n
}

// TotalWords returns the word count summed over all successful pages.
func (r *CollectionResult) TotalWords() int {
	total := 0
	for _, p := range r.Pages {
		if !p.Failed() {
			total += p.WordCount
		}
	}
	return total
}
