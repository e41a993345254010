package collect

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"sitecensus/internal/classify"
	"sitecensus/internal/config"
	"sitecensus/internal/crawler"
	"sitecensus/internal/judge"
	"sitecensus/internal/model"
)

// CrawlStep walks the target site and fills the result's page corpus.
// It is the only step whose failure aborts the run: every later step
// works off the corpus this one produces.
type CrawlStep struct {
	// spider performs the bounded crawl.
	spider *crawler.Spider

	// budget caps how many pages one run may visit.
	budget int

	// logger for structured logging.
	logger *slog.Logger
}

// CrawlStepOption configures a CrawlStep.
type CrawlStepOption func(*CrawlStep)

// WithCrawlBudget sets the page budget for the crawl.
func WithCrawlBudget(n int) CrawlStepOption {
	return func(s *CrawlStep) {
		if n > 0 {
			s.budget = n
		}
	}
}

// WithCrawlLogger sets a custom logger for the crawl step.
func WithCrawlLogger(logger *slog.Logger) CrawlStepOption {
	return func(s *CrawlStep) {
		s.logger = logger
	}
}

// NewCrawlStep creates a crawl step around the given spider.
func NewCrawlStep(spider *crawler.Spider, opts ...CrawlStepOption) *CrawlStep {
	s := &CrawlStep{
		spider: spider,
		budget: config.DefaultPageBudget,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *CrawlStep) Name() string {
	return "crawl"
}

// Do executes the crawl step.
func (s *CrawlStep) Do(ctx context.Context, result *model.CollectionResult) error {
	job := crawler.NewJob(result.SourceURL, s.budget)

	pages, err := s.spider.Crawl(ctx, job)
	if err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}

	result.Pages = pages

	s.logger.Info("crawl complete",
		"source", result.SourceURL,
		"pages", len(pages),
		"successful", result.SuccessfulPages(),
		"words", result.TotalWords(),
	)
	return nil
}

// titleSuffixes are decorations sites append to their homepage title.
// They are stripped repeatedly, so "Acme - Home | Official" reduces to
// "Acme".
var titleSuffixes = []string{
	" - Home",
	" | Home",
	" - Official Site",
	" | Official Website",
	" - Official",
	" | Official",
}

// NameStep derives the organization name used in taxonomy substitution
// and judge prompts. An explicit name wins; otherwise the first
// successfully fetched page's title is cleaned up, and failing that the
// site hostname stands in.
type NameStep struct {
	// override is an operator-supplied name that skips derivation.
	override string

	// logger for structured logging.
	logger *slog.Logger
}

// NameStepOption configures a NameStep.
type NameStepOption func(*NameStep)

// WithNameOverride sets an explicit organization name.
func WithNameOverride(name string) NameStepOption {
	return func(s *NameStep) {
		s.override = name
	}
}

// WithNameLogger sets a custom logger for the name step.
func WithNameLogger(logger *slog.Logger) NameStepOption {
	return func(s *NameStep) {
		s.logger = logger
	}
}

// NewNameStep creates an organization name derivation step.
func NewNameStep(opts ...NameStepOption) *NameStep {
	s := &NameStep{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *NameStep) Name() string {
	return "derive_name"
}

// Do executes the name derivation step.
func (s *NameStep) Do(_ context.Context, result *model.CollectionResult) error {
	if s.override != "" {
		result.OrganizationName = s.override
		return nil
	}

	result.OrganizationName = deriveName(result)

	s.logger.Debug("organization name derived",
		"source", result.SourceURL,
		"organization", result.OrganizationName,
	)
	return nil
}

// deriveName picks the organization name from the corpus, falling back
// to the source hostname when no page offered a usable title.
func deriveName(result *model.CollectionResult) string {
	for _, page := range result.Pages {
		if page.Failed() || page.Title == model.NoTitle {
			continue
		}
		if name := stripTitleSuffixes(page.Title); name != "" {
			return name
		}
	}

	if u, err := url.Parse(crawler.Normalize(result.SourceURL)); err == nil && u.Hostname() != "" {
		return u.Hostname()
	}
	return result.SourceURL
}

// stripTitleSuffixes removes trailing title decorations until none match.
func stripTitleSuffixes(title string) string {
	name := strings.TrimSpace(title)
	for {
		stripped := false
		for _, suffix := range titleSuffixes {
			if strings.HasSuffix(name, suffix) {
				name = strings.TrimSpace(strings.TrimSuffix(name, suffix))
				stripped = true
			}
		}
		if !stripped {
			return name
		}
	}
}

// ClassifyStep maps the collected corpus onto the taxonomy. When no
// judge is available it falls back to keyword scoring, so classification
// always produces sections as long as a taxonomy was loaded.
type ClassifyStep struct {
	// judge scores pages when available; nil selects keyword fallback.
	judge judge.Judge

	// taxonomy is the section tree before placeholder substitution.
	// A nil taxonomy skips classification entirely.
	taxonomy *config.Taxonomy

	// previewLength truncates the content carried on each match.
	previewLength int

	// logger for structured logging.
	logger *slog.Logger
}

// ClassifyStepOption configures a ClassifyStep.
type ClassifyStepOption func(*ClassifyStep)

// WithClassifyPreviewLength sets the match content preview length.
func WithClassifyPreviewLength(n int) ClassifyStepOption {
	return func(s *ClassifyStep) {
		if n > 0 {
			s.previewLength = n
		}
	}
}

// WithClassifyLogger sets a custom logger for the classify step.
func WithClassifyLogger(logger *slog.Logger) ClassifyStepOption {
	return func(s *ClassifyStep) {
		s.logger = logger
	}
}

// NewClassifyStep creates a classification step. The judge may be nil.
func NewClassifyStep(j judge.Judge, taxonomy *config.Taxonomy, opts ...ClassifyStepOption) *ClassifyStep {
	s := &ClassifyStep{
		judge:         j,
		taxonomy:      taxonomy,
		previewLength: config.DefaultPreviewLength,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *ClassifyStep) Name() string {
	return "classify"
}

// Do executes the classification step.
func (s *ClassifyStep) Do(ctx context.Context, result *model.CollectionResult) error {
	if s.taxonomy == nil {
		s.logger.Debug("no taxonomy loaded, skipping classification",
			"source", result.SourceURL,
		)
		return nil
	}

	taxonomy := s.taxonomy.Substitute(result.OrganizationName)

	var scorer classify.Scorer
	if s.judge != nil {
		scorer = classify.NewJudgeScorer(s.judge, result.OrganizationName)
	} else {
		s.logger.Info("no judge configured, using keyword scoring",
			"source", result.SourceURL,
		)
		scorer = classify.NewKeywordScorer()
	}

	engine := classify.NewEngine(scorer,
		classify.WithPreviewLength(s.previewLength),
		classify.WithEngineLogger(s.logger),
	)

	result.Sections = engine.Classify(ctx, result.Pages, taxonomy)

	s.logger.Info("classification complete",
		"source", result.SourceURL,
		"sections", len(result.Sections),
	)
	return nil
}

// SummaryStep asks the judge for a short holistic summary of the site.
// Summaries are best-effort: without a judge the step is a no-op, and a
// judge failure leaves a placeholder instead of failing the run.
type SummaryStep struct {
	// judge produces the summary text; nil disables the step.
	judge judge.Judge

	// excerptLimit caps the per-page content sent in the prompt.
	excerptLimit int

	// logger for structured logging.
	logger *slog.Logger
}

// SummaryStepOption configures a SummaryStep.
type SummaryStepOption func(*SummaryStep)

// WithSummaryExcerptLimit sets the per-page excerpt limit for prompts.
func WithSummaryExcerptLimit(n int) SummaryStepOption {
	return func(s *SummaryStep) {
		if n > 0 {
			s.excerptLimit = n
		}
	}
}

// WithSummaryLogger sets a custom logger for the summary step.
func WithSummaryLogger(logger *slog.Logger) SummaryStepOption {
	return func(s *SummaryStep) {
		s.logger = logger
	}
}

// NewSummaryStep creates a summary step. The judge may be nil.
func NewSummaryStep(j judge.Judge, opts ...SummaryStepOption) *SummaryStep {
	s := &SummaryStep{
		judge:        j,
		excerptLimit: config.DefaultExcerptLimit,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *SummaryStep) Name() string {
	return "summarize"
}

// Do executes the summary step.
func (s *SummaryStep) Do(ctx context.Context, result *model.CollectionResult) error {
	if s.judge == nil {
		s.logger.Debug("no judge configured, skipping summary",
			"source", result.SourceURL,
		)
		return nil
	}

	text, err := s.judge.Complete(ctx, s.buildPrompt(result))
	if err != nil {
		s.logger.Warn("summary generation failed",
			"source", result.SourceURL,
			"error", err,
		)
		result.Summary = fmt.Sprintf("summary unavailable: %v", err)
		return nil
	}

	result.Summary = strings.TrimSpace(text)
	return nil
}

// buildPrompt assembles the summary prompt from page excerpts.
func (s *SummaryStep) buildPrompt(result *model.CollectionResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are reviewing the website of %s (%s).\n\n",
		result.OrganizationName, result.SourceURL)
	b.WriteString("Page excerpts from the site:\n\n")

	for _, page := range result.Pages {
		if page.Failed() {
			continue
		}
		fmt.Fprintf(&b, "--- Page: %s (%s) ---\n", page.Title, page.DisplayURL())
		b.WriteString(page.Excerpt(s.excerptLimit))
		b.WriteString("\n\n")
	}

	b.WriteString("Write a concise summary (3-5 sentences) of what this organization does,\n")
	b.WriteString("who it serves, and what the website covers. Respond with the summary\n")
	b.WriteString("text only, no preamble.")

	return b.String()
}
