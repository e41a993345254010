package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. The crawl defaults are deliberately
// conservative: collection targets are ordinary organization websites and
// a slow, bounded crawl is both polite and sufficient for classification.
const (
	// DefaultPageBudget is the maximum number of pages collected per run.
	// Enough to cover the main sections of a typical organization site
	// without runaway crawling.
	DefaultPageBudget = 20

	// MaxPageBudget bounds user-supplied budgets.
	MaxPageBudget = 50

	// DefaultCrawlDelay is the politeness pause between page fetches.
	DefaultCrawlDelay = 1 * time.Second

	// DefaultTimeout is the per-request fetch timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultBatchSize is the number of concurrent collection jobs when
	// multiple start URLs are given. Jobs are isolated; only the batch
	// runs them side by side.
	DefaultBatchSize = 4

	// DefaultExcerptLimit is the per-page content excerpt length embedded
	// into judgment requests.
	DefaultExcerptLimit = 2000

	// DefaultPreviewLength is the truncated content preview stored on
	// each PageMatch in the result tree.
	DefaultPreviewLength = 500

	// DefaultMinRelevanceScore is the minimum 1-10 score a judged page
	// needs to be retained as a subsection match.
	DefaultMinRelevanceScore = 3.0

	// AppName is the application name used for XDG directory paths.
	AppName = "sitecensus"
)

// Config holds all options for a collection run.
//
// Design decision: a single flat struct instead of nested sub-structs.
// The option count is manageable and nesting would add complexity without
// benefit.
type Config struct {
	// StartURLs are the websites to collect. At least one is required.
	StartURLs []string

	// PageBudget is the maximum pages to crawl per start URL.
	PageBudget int

	// CrawlDelay is the politeness pause between page fetches.
	CrawlDelay time.Duration

	// Timeout is the per-request fetch timeout.
	Timeout time.Duration

	// UserAgent overrides the fetch layer's User-Agent when non-empty.
	UserAgent string

	// OrganizationName names the organization being collected. When
	// empty it is derived from the first crawled page's title.
	OrganizationName string

	// TaxonomyPath is the taxonomy YAML file. When empty the tool looks
	// for taxonomy.yaml in the current directory and the XDG config
	// directory; if none exists, classification runs on the built-in
	// default taxonomy.
	TaxonomyPath string

	// JudgeAPIKey authenticates against the judgment source. When empty
	// the link filter is disabled and classification falls back to
	// keyword scoring.
	JudgeAPIKey string

	// JudgeModel overrides the judgment source model when non-empty.
	JudgeModel string

	// DisableLinkFilter turns off link-relevance filtering even when a
	// judgment source is configured.
	DisableLinkFilter bool

	// Summarize requests the optional free-text holistic summary.
	Summarize bool

	// Screenshots enables the optional screenshot side artifact when the
	// fetch layer supports capture.
	Screenshots bool

	// TargetLanguage, when non-empty, translates the result
	// field-by-field into the given BCP 47 language code.
	TargetLanguage string

	// BatchSize is the number of concurrent collection jobs.
	BatchSize int

	// JSONReport selects JSON output instead of the plain text report.
	// Mutually exclusive with MarkdownReport and CSVReport.
	JSONReport bool

	// MarkdownReport selects Markdown output.
	MarkdownReport bool

	// CSVReport selects the flattened per-page CSV summary.
	CSVReport bool

	// ReportFile, when set, writes the report there instead of stdout.
	ReportFile string

	// DBDir is the directory of the SQLite run-history database.
	// Empty means runs are not persisted.
	DBDir string

	// SaveToDB records each finished run in the database.
	SaveToDB bool

	// Verbose enables debug-level logging.
	Verbose bool
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		PageBudget: DefaultPageBudget,
		CrawlDelay: DefaultCrawlDelay,
		Timeout:    DefaultTimeout,
		BatchSize:  DefaultBatchSize,
	}
}

// XDGDataDir returns the XDG data directory for sitecensus.
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for sitecensus.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if len(c.StartURLs) == 0 {
		return ErrNoStartURL
	}

	if c.PageBudget <= 0 || c.PageBudget > MaxPageBudget {
		return ErrInvalidPageBudget
	}

	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	formats := 0
	for _, selected := range []bool{c.JSONReport, c.MarkdownReport, c.CSVReport} {
		if selected {
			formats++
		}
	}
	if formats > 1 {
		return ErrConflictingReportFormats
	}

	return nil
}
