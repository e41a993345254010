package classify

import (
	"context"
	"log/slog"
	"sort"

	"sitecensus/internal/config"
	"sitecensus/internal/model"
)

// Engine classifies a page corpus against a taxonomy.
type Engine struct {
	// scorer rates pages per subsection.
	scorer Scorer

	// previewLength truncates the content preview on each PageMatch.
	previewLength int

	// logger for structured logging.
	logger *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithPreviewLength sets the PageMatch content preview length.
func WithPreviewLength(n int) EngineOption {
	return func(e *Engine) {
		e.previewLength = n
	}
}

// WithEngineLogger sets a custom logger for the engine.
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates a classification engine backed by the given scorer.
func NewEngine(scorer Scorer, opts ...EngineOption) *Engine {
	e := &Engine{
		scorer:        scorer,
		previewLength: config.DefaultPreviewLength,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Classify scores every subsection of the taxonomy against the corpus and
// returns the section results in taxonomy order. A scorer failure for one
// subsection empties that subsection's matches and the run continues;
// Classify never fails as a whole.
func (e *Engine) Classify(ctx context.Context, corpus []*model.PageRecord, taxonomy *config.Taxonomy) []model.SectionResult {
	results := make([]model.SectionResult, 0, len(taxonomy.Sections))

	for _, section := range taxonomy.Sections {
		sectionResult := model.SectionResult{
			Name:        section.Name,
			Definition:  section.Definition,
			Subsections: make([]model.SubsectionResult, 0, len(section.Subsections)),
		}

		for _, sub := range section.Subsections {
			sectionResult.Subsections = append(sectionResult.Subsections,
				e.classifySubsection(ctx, corpus, sub))
		}

		sectionResult.Aggregate()
		results = append(results, sectionResult)
	}

	return results
}

// classifySubsection scores one subsection and selects its top matches.
func (e *Engine) classifySubsection(ctx context.Context, corpus []*model.PageRecord, sub config.Subsection) model.SubsectionResult {
	result := model.SubsectionResult{
		Name:          sub.Name,
		Definition:    sub.Definition,
		RelevantPages: []model.PageMatch{},
	}

	judgments, err := e.scorer.ScoreSubsection(ctx, corpus, sub)
	if err != nil {
		// Fail closed for this subsection only; the run continues.
		e.logger.Warn("subsection scoring failed",
			"subsection", sub.Name,
			"error", err,
		)
		return result
	}

	result.RelevantPages = e.selectMatches(corpus, judgments)
	return result
}

// indexedMatch pairs a match with its source page's corpus position for
// tie-breaking.
type indexedMatch struct {
	match      model.PageMatch
	corpusIdx  int
	arrivalIdx int
}

// selectMatches retains judgments that belong and meet the scorer's
// threshold, maps them back to corpus pages by title, and returns the top
// matches sorted by descending score with ties in corpus order.
func (e *Engine) selectMatches(corpus []*model.PageRecord, judgments []model.PageJudgment) []model.PageMatch {
	var matches []indexedMatch

	for i, j := range judgments {
		if !j.Belongs || j.RelevanceScore < e.scorer.Threshold() {
			continue
		}

		idx := findByTitle(corpus, j.PageTitle)
		if idx < 0 {
			e.logger.Debug("judgment references unknown page title", "title", j.PageTitle)
			continue
		}

		page := corpus[idx]
		matches = append(matches, indexedMatch{
			match: model.PageMatch{
				PageTitle:      page.Title,
				URL:            page.DisplayURL(),
				Content:        page.Excerpt(e.previewLength),
				WordCount:      page.WordCount,
				RelevanceScore: j.RelevanceScore,
				Reasoning:      j.Reasoning,
				KeyThemes:      j.KeyThemes,
				Quotes:         j.Quotes,
				Confidence:     j.Confidence,
			},
			corpusIdx:  idx,
			arrivalIdx: i,
		})
	}

	// Base order: corpus position, so the stable score sort breaks ties
	// in corpus order regardless of judgment arrival order.
	sort.SliceStable(matches, func(a, b int) bool {
		if matches[a].corpusIdx != matches[b].corpusIdx {
			return matches[a].corpusIdx < matches[b].corpusIdx
		}
		return matches[a].arrivalIdx < matches[b].arrivalIdx
	})
	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].match.RelevanceScore > matches[b].match.RelevanceScore
	})

	if len(matches) > model.MaxMatchesPerSubsection {
		matches = matches[:model.MaxMatchesPerSubsection]
	}

	selected := make([]model.PageMatch, len(matches))
	for i, m := range matches {
		selected[i] = m.match
	}
	return selected
}

// findByTitle returns the corpus index of the first non-error page whose
// title matches exactly, or -1. Title collisions resolve to the first
// page; a page may legitimately appear twice in one subsection when the
// judgment source emits two judgments with the same title.
func findByTitle(corpus []*model.PageRecord, title string) int {
	for i, page := range corpus {
		if !page.Failed() && page.Title == title {
			return i
		}
	}
	return -1
}
