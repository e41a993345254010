package model

// NeutralScore is the relevance score assigned when no judgment is
// available: filtering disabled, or the judgment source failed and the
// fail-open path admitted the item anyway. Midpoint of the 1-10 scale.
const NeutralScore = 5.0

// LinkJudgment is the verdict of the link relevance filter for a single
// candidate link. Judgments are transient: they exist only to decide
// frontier admission and are not persisted.
type LinkJudgment struct {
	// URL is the candidate link the judgment applies to.
	URL string `json:"url"`

	// RelevanceScore is a 1-10 estimate of how likely the link is to
	// lead to content relevant to the active taxonomy.
	RelevanceScore float64 `json:"relevance_score"`

	// WorthChecking is the admission decision: true means enqueue.
	WorthChecking bool `json:"worth_checking"`

	// Reasoning is the judgment source's free-text rationale. On the
	// fail-open path it notes the failure instead.
	Reasoning string `json:"reasoning,omitempty"`

	// Confidence is a label such as "high", "medium", "low".
	Confidence string `json:"confidence,omitempty"`

	// Priority is a scheduling hint label; informational only, the
	// frontier remains strictly FIFO.
	Priority string `json:"priority,omitempty"`
}

// PageJudgment is one per-page verdict inside a subsection classification
// response. The judgment source returns zero or more of these per request.
type PageJudgment struct {
	// PageTitle identifies the judged page. Mapping back to the corpus
	// is by title match.
	PageTitle string `json:"page_title"`

	// Belongs reports whether the page belongs to the subsection.
	Belongs bool `json:"belongs"`

	// RelevanceScore rates the match on a 1-10 scale.
	RelevanceScore float64 `json:"relevance_score"`

	// Reasoning is the free-text rationale for the verdict.
	Reasoning string `json:"reasoning,omitempty"`

	// KeyThemes are the dominant themes the judge saw on the page.
	KeyThemes []string `json:"key_themes,omitempty"`

	// Quotes are verbatim supporting quotes from the page content.
	Quotes []string `json:"quotes,omitempty"`

	// Confidence is a label such as "high", "medium", "low".
	Confidence string `json:"confidence,omitempty"`
}
