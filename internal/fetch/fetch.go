package fetch

import "context"

// Result is what the fetch layer returns for one successfully loaded URL.
type Result struct {
	// ResolvedURL is the URL actually landed on after redirects.
	ResolvedURL string

	// Document is the rendered document markup, decoded to UTF-8.
	Document string
}

// Fetcher loads pages for the crawler.
//
// Start must be called once before Fetch; a Start error is the one fatal
// failure mode of a crawl job. Fetch errors are per-page and recoverable.
type Fetcher interface {
	// Start prepares the fetch layer (launching a browser, building a
	// client). An error here aborts the whole job.
	Start(ctx context.Context) error

	// Fetch loads url and returns the resolved URL plus document markup.
	Fetch(ctx context.Context, url string) (*Result, error)

	// Close tears down the fetch layer.
	Close() error
}

// Screenshotter is the optional full-page screenshot capability of a fetch
// layer. The screenshot is a side artifact stored under the given
// generated filename; it never influences extraction.
type Screenshotter interface {
	Screenshot(ctx context.Context, url, filename string) error
}
