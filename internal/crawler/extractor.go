package crawler

import (
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"sitecensus/internal/model"
)

// strippedRegions are removed from the document before deriving visible
// text, so navigation chrome and boilerplate do not pollute the corpus.
var strippedRegions = "script, style, nav, footer, header"

// Extractor turns fetched documents into PageRecords.
//
// Design decision: We use goquery rather than walking x/net/html nodes by
// hand because the extraction rules are selector-shaped: remove whole
// regions, read the first title element, read one meta attribute. goquery
// handles malformed real-world HTML the same way browsers do.
type Extractor struct{}

// NewExtractor creates an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses a fetched document into a PageRecord.
// requestedURL is the URL as it was dequeued from the frontier and
// resolvedURL is the URL the fetch layer landed on after redirects.
// Outbound links are resolved against resolvedURL, not the requested one,
// but scope is anchored to requestedURL: a redirect that lands on another
// host must not widen the crawl to that host's links. Duplicates within a
// page are preserved because deduplication is a frontier concern.
func (e *Extractor) Extract(document, requestedURL, resolvedURL string) (*model.PageRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return nil, err
	}

	// Region stripping happens before text and link extraction, so
	// anchors inside nav/footer/header never reach the frontier.
	doc.Find(strippedRegions).Remove()

	record := &model.PageRecord{
		URL:           requestedURL,
		NormalizedURL: Normalize(requestedURL),
		ActualURL:     resolvedURL,
		Title:         extractTitle(doc),
		FetchedAt:     time.Now(),
	}

	record.Content = collapseWhitespace(doc.Text())
	record.WordCount = model.CountWords(record.Content)

	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		record.MetaDescription = desc
	}

	record.Links, record.Anchors = extractLinks(doc, resolvedURL, requestedURL)

	return record, nil
}

// FailedRecord builds the PageRecord for a URL whose fetch or extraction
// failed. It carries only the original URL, the error, and a timestamp;
// such a record never contributes links to the frontier.
func FailedRecord(requestedURL string, err error) *model.PageRecord {
	return &model.PageRecord{
		URL:       requestedURL,
		Error:     err.Error(),
		FetchedAt: time.Now(),
	}
}

// extractTitle returns the trimmed text of the first title element,
// or the sentinel when the document has none.
func extractTitle(doc *goquery.Document) string {
	title := doc.Find("title").First()
	if title.Length() == 0 {
		return model.NoTitle
	}

	text := strings.TrimSpace(title.Text())
	if text == "" {
		return model.NoTitle
	}
	return text
}

// extractLinks resolves every anchor href against the resolved page URL
// and keeps the ones in scope of scopeURL, pairing each with its anchor
// text for the link relevance filter. Resolution and scope use different
// bases on purpose: relative hrefs are relative to wherever the fetch
// landed, but the crawl boundary stays on the host that was asked for.
func extractLinks(doc *goquery.Document, resolvedURL, scopeURL string) ([]string, []model.Anchor) {
	base, err := url.Parse(Normalize(resolvedURL))
	if err != nil {
		return nil, nil
	}

	var links []string
	var anchors []model.Anchor

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}

		absolute := base.ResolveReference(ref).String()
		if !InScope(absolute, scopeURL) {
			return
		}

		links = append(links, absolute)
		anchors = append(anchors, model.Anchor{
			URL:  absolute,
			Text: collapseWhitespace(sel.Text()),
		})
	})

	return links, anchors
}

// collapseWhitespace reduces all runs of whitespace to single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
