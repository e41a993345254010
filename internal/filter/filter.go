// Package filter decides which outbound links are worth crawling.
//
// The filter asks the judgment source, per link, whether following it is
// likely to surface content relevant to the active taxonomy. It fails
// open: when the judgment source errors or returns an unparseable
// response, the link is admitted with a neutral score. The deliberate
// bias is toward over-collection, because a wrongly dropped link is
// unrecoverable while a wrongly admitted one merely costs a page fetch.
//
// The filter keeps no memory across calls; identical links are judged
// independently every time.
package filter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"sitecensus/internal/config"
	"sitecensus/internal/judge"
	"sitecensus/internal/model"
)

// Filter is the link relevance filter consulted by the crawl controller
// before links enter the frontier.
type Filter struct {
	// judge is the judgment source. Nil disables filtering: every link
	// is admitted with a neutral score.
	judge judge.Judge

	// taxonomy, when set, is included in judgment requests as the
	// relevance rubric.
	taxonomy *config.Taxonomy

	// excerptLimit bounds the page-content excerpt embedded in prompts.
	excerptLimit int

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures a Filter.
type Option func(*Filter)

// WithTaxonomy supplies the taxonomy used as the relevance rubric.
func WithTaxonomy(t *config.Taxonomy) Option {
	return func(f *Filter) {
		f.taxonomy = t
	}
}

// WithExcerptLimit bounds the page-content excerpt sent with each
// judgment request.
func WithExcerptLimit(limit int) Option {
	return func(f *Filter) {
		f.excerptLimit = limit
	}
}

// WithLogger sets a custom logger for the filter.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Filter) {
		f.logger = logger
	}
}

// New creates a Filter backed by the given judgment source. A nil judge
// yields a disabled filter that admits everything.
func New(j judge.Judge, opts ...Option) *Filter {
	f := &Filter{
		judge:        j,
		excerptLimit: config.DefaultExcerptLimit,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Admit judges one outbound link of a page and returns the admission
// decision. It implements crawler.LinkFilter.
func (f *Filter) Admit(ctx context.Context, page *model.PageRecord, link, anchorText string) model.LinkJudgment {
	if f.judge == nil {
		return admitted(link, "link filtering disabled")
	}

	output, err := f.judge.Complete(ctx, f.buildPrompt(page, link, anchorText))
	if err != nil {
		f.logger.Warn("link judgment failed, admitting link", "url", link, "error", err)
		return admitted(link, fmt.Sprintf("admitted without judgment: %v", err))
	}

	decoded := judge.Decode[model.LinkJudgment](output)
	if decoded.Malformed {
		f.logger.Warn("link judgment unparseable, admitting link", "url", link)
		return admitted(link, "admitted without judgment: unparseable response")
	}

	verdict := decoded.Payload
	verdict.URL = link
	return verdict
}

// admitted builds the fail-open/disabled judgment for a link.
func admitted(link, reasoning string) model.LinkJudgment {
	return model.LinkJudgment{
		URL:            link,
		RelevanceScore: model.NeutralScore,
		WorthChecking:  true,
		Reasoning:      reasoning,
	}
}

// buildPrompt assembles the judgment request for one link.
func (f *Filter) buildPrompt(page *model.PageRecord, link, anchorText string) string {
	var sb strings.Builder

	sb.WriteString("You are deciding whether a crawler should follow a link on an organization's website.\n\n")
	sb.WriteString("Link URL: ")
	sb.WriteString(link)
	sb.WriteString("\n")

	if anchorText != "" {
		sb.WriteString("Link text: ")
		sb.WriteString(anchorText)
		sb.WriteString("\n")
	}

	sb.WriteString("\nThe link appears on this page:\n")
	sb.WriteString("Title: ")
	sb.WriteString(page.Title)
	sb.WriteString("\n")
	sb.WriteString("Content excerpt: ")
	sb.WriteString(page.Excerpt(f.excerptLimit))
	sb.WriteString("\n")

	if f.taxonomy != nil {
		sb.WriteString("\nWe are collecting pages relevant to these topics:\n")
		for _, section := range f.taxonomy.Sections {
			sb.WriteString("- ")
			sb.WriteString(section.Name)
			sb.WriteString(": ")
			sb.WriteString(section.Definition)
			sb.WriteString("\n")
			for _, sub := range section.Subsections {
				sb.WriteString("  - ")
				sb.WriteString(sub.Name)
				sb.WriteString(": ")
				sb.WriteString(sub.Definition)
				sb.WriteString("\n")
			}
		}
	}

	sb.WriteString(`
Return a JSON object with this structure:
{
  "relevance_score": 7.5,
  "worth_checking": true,
  "reasoning": "short rationale",
  "confidence": "high",
  "priority": "medium"
}

Rules:
- relevance_score is 1-10: how likely the link leads to relevant content
- worth_checking is the decision: true means the crawler should follow it
- confidence and priority are one of "high", "medium", "low"

Return ONLY the JSON, no other text.`)

	return sb.String()
}
