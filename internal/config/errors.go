package config

import "errors"

// Configuration errors returned by Config.Validate.
var (
	// ErrNoStartURL is returned when no start URL was provided.
	ErrNoStartURL = errors.New("at least one start URL is required")

	// ErrInvalidPageBudget is returned when the page budget is not in
	// the range 1..MaxPageBudget.
	ErrInvalidPageBudget = errors.New("page budget must be between 1 and 50")

	// ErrInvalidCrawlDelay is returned for a negative politeness delay.
	ErrInvalidCrawlDelay = errors.New("crawl delay must not be negative")

	// ErrInvalidTimeout is returned for a non-positive fetch timeout.
	ErrInvalidTimeout = errors.New("timeout must be positive")

	// ErrInvalidBatchSize is returned for a non-positive batch size.
	ErrInvalidBatchSize = errors.New("batch size must be positive")

	// ErrConflictingReportFormats is returned when more than one report
	// format flag is set.
	ErrConflictingReportFormats = errors.New("report formats are mutually exclusive")
)
