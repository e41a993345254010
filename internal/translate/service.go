package translate

import (
	"context"
	"log/slog"
	"sync"

	"sitecensus/internal/model"
)

// Service translates collection results field by field, caching repeated
// text. Structural fields (URLs, scores, counts, timestamps) are never
// touched; a failed field keeps its original text so translation can
// never lose content.
type Service struct {
	// translator performs the actual text conversion.
	translator Translator

	// logger for structured logging.
	logger *slog.Logger

	// cache maps (text, language) to translated text. Taxonomy names
	// repeat across sections and runs, so caching saves real calls.
	cache map[cacheKey]string
	mu    sync.Mutex
}

// cacheKey identifies one cached translation.
type cacheKey struct {
	text string
	lang string
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets a custom logger for the service.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a translation service around the given translator.
func NewService(translator Translator, opts ...ServiceOption) *Service {
	s := &Service{
		translator: translator,
		logger:     slog.Default(),
		cache:      make(map[cacheKey]string),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// translate converts one text through the cache. On failure the
// original text is returned and the miss is logged at debug level.
func (s *Service) translate(ctx context.Context, text, target string) string {
	if text == "" {
		return text
	}

	key := cacheKey{text: text, lang: target}

	s.mu.Lock()
	if cached, ok := s.cache[key]; ok {
		s.mu.Unlock()
		return cached
	}
	s.mu.Unlock()

	translated, err := s.translator.Translate(ctx, text, target)
	if err != nil {
		s.logger.Debug("translation failed, keeping original",
			"language", target,
			"error", err,
		)
		return text
	}

	s.mu.Lock()
	s.cache[key] = translated
	s.mu.Unlock()

	return translated
}

// TranslateResult returns a deep copy of the result with its textual
// fields rendered in the target language. The input is not modified.
func (s *Service) TranslateResult(ctx context.Context, result *model.CollectionResult, target string) (*model.CollectionResult, error) {
	lang, err := ValidateLanguage(target)
	if err != nil {
		return nil, err
	}

	out := *result
	out.OrganizationName = s.translate(ctx, result.OrganizationName, lang)
	out.Summary = s.translate(ctx, result.Summary, lang)
	out.Pages = s.translatePages(ctx, result.Pages, lang)
	out.Sections = s.translateSections(ctx, result.Sections, lang)

	return &out, nil
}

// translatePages copies and translates the page corpus.
func (s *Service) translatePages(ctx context.Context, pages []*model.PageRecord, lang string) []*model.PageRecord {
	out := make([]*model.PageRecord, len(pages))
	for i, page := range pages {
		copied := *page
		if !page.Failed() {
			copied.Title = s.translate(ctx, page.Title, lang)
			copied.Content = s.translate(ctx, page.Content, lang)
			copied.MetaDescription = s.translate(ctx, page.MetaDescription, lang)
		}
		out[i] = &copied
	}
	return out
}

// translateSections copies and translates the classification results.
func (s *Service) translateSections(ctx context.Context, sections []model.SectionResult, lang string) []model.SectionResult {
	out := make([]model.SectionResult, len(sections))
	for i, section := range sections {
		copied := section
		copied.Name = s.translate(ctx, section.Name, lang)
		copied.Definition = s.translate(ctx, section.Definition, lang)

		copied.Subsections = make([]model.SubsectionResult, len(section.Subsections))
		for j, sub := range section.Subsections {
			subCopy := sub
			subCopy.Name = s.translate(ctx, sub.Name, lang)
			subCopy.Definition = s.translate(ctx, sub.Definition, lang)

			subCopy.RelevantPages = make([]model.PageMatch, len(sub.RelevantPages))
			for k, m := range sub.RelevantPages {
				matchCopy := m
				matchCopy.PageTitle = s.translate(ctx, m.PageTitle, lang)
				matchCopy.Content = s.translate(ctx, m.Content, lang)
				matchCopy.Reasoning = s.translate(ctx, m.Reasoning, lang)
				subCopy.RelevantPages[k] = matchCopy
			}
			copied.Subsections[j] = subCopy
		}
		out[i] = copied
	}
	return out
}

// CacheSize returns the number of cached translations.
func (s *Service) CacheSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cache)
}
