package model

import (
	"strings"
	"time"
	"unicode/utf8"
)

// NoTitle is the sentinel title used when a page has no <title> element.
const NoTitle = "No title"

// PageRecord represents one fetched and extracted page.
// A record is created for every dequeued URL, whether the fetch succeeded
// or not; failures carry only the original URL, an error string, and a
// timestamp. Records are never mutated after creation, and the corpus of a
// crawl is the ordered list of records in crawl order.
type PageRecord struct {
	// URL is the URL as it was dequeued from the frontier.
	URL string `json:"url"`

	// NormalizedURL is the canonical form of URL used for deduplication.
	NormalizedURL string `json:"normalized_url,omitempty"`

	// ActualURL is the URL the fetch layer actually landed on after
	// redirects. May differ from NormalizedURL.
	ActualURL string `json:"actual_url,omitempty"`

	// Title is the trimmed text of the first <title> element,
	// or NoTitle when the document has none.
	Title string `json:"title,omitempty"`

	// Content is the visible text of the page with script, style, nav,
	// footer and header regions removed and whitespace collapsed to
	// single spaces.
	Content string `json:"content,omitempty"`

	// MetaDescription is the content attribute of the
	// <meta name="description"> tag, or empty.
	MetaDescription string `json:"meta_description,omitempty"`

	// Links are the in-scope outbound links of the page, resolved to
	// absolute URLs. Duplicates within one page are preserved;
	// deduplication happens at the frontier, not here.
	Links []string `json:"links,omitempty"`

	// WordCount is the number of whitespace-delimited tokens in Content.
	WordCount int `json:"word_count"`

	// FetchedAt is when the page was fetched (or the fetch failed).
	FetchedAt time.Time `json:"scraped_at"`

	// Screenshot is the filename of the optional full-page screenshot
	// side artifact, when the fetch layer supports capture.
	Screenshot string `json:"screenshot,omitempty"`

	// Anchors pairs each entry of Links with its anchor text, in the same
	// order. Transient: used as context by the link relevance filter and
	// not serialized.
	Anchors []Anchor `json:"-"`

	// Error holds the fetch or extraction error, if any. A record with a
	// non-empty Error never contributes links to the frontier.
	Error string `json:"error,omitempty"`
}

// Anchor is one outbound link with its surrounding anchor text.
type Anchor struct {
	// URL is the absolute, in-scope link target.
	URL string

	// Text is the collapsed anchor text, possibly empty.
	Text string
}

// Failed reports whether the page's fetch or extraction failed.
func (p *PageRecord) Failed() bool {
	return p.Error != ""
}

// Excerpt returns at most limit bytes of the page content, cut on a rune
// boundary so the result is always valid UTF-8.
// Used when embedding page text into judgment requests.
func (p *PageRecord) Excerpt(limit int) string {
	if limit <= 0 || len(p.Content) <= limit {
		return p.Content
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(p.Content[cut]) {
		cut--
	}
	return p.Content[:cut]
}

// DisplayURL returns the most specific URL known for the page: the
// post-redirect URL when available, otherwise the normalized URL,
// otherwise the URL as requested.
func (p *PageRecord) DisplayURL() string {
	if p.ActualURL != "" {
		return p.ActualURL
	}
	if p.NormalizedURL != "" {
		return p.NormalizedURL
	}
	return p.URL
}

// CountWords computes the whitespace-delimited token count of s.
func CountWords(s string) int {
	return len(strings.Fields(s))
}
