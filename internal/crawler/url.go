package crawler

import (
	"net/url"
	"strings"
)

// skippedExtensions are file extensions that indicate non-HTML content.
// URLs containing any of these are excluded from the crawl scope.
var skippedExtensions = []string{
	".pdf", ".doc", ".docx",
	".jpg", ".jpeg", ".png", ".gif",
	".mp4", ".mp3",
	".zip", ".exe",
}

// skippedPrefixes are link targets that never lead to a fetchable page.
var skippedPrefixes = []string{"mailto:", "tel:", "javascript:", "#"}

// Normalize canonicalizes a URL: it trims surrounding whitespace and
// prepends "https://" when no scheme is present. Empty input yields empty
// output. Normalize is pure and idempotent.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}

	return raw
}

// InScope reports whether raw belongs to the crawl scope anchored at base.
// Both sides are normalized first. A URL is in scope when it has the same
// network location (host[:port]) as base, does not carry a known non-HTML
// file extension, and is not a mailto:, tel:, javascript:, or
// fragment-only target. Any parse failure yields false; scope checks fail
// closed and never raise.
//
// The extension check is a substring match over the lowercased URL rather
// than a path-suffix check, so query strings like "?file=x.pdf" are also
// rejected.
func InScope(raw, base string) bool {
	lower := strings.ToLower(strings.TrimSpace(raw))
	for _, prefix := range skippedPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return false
		}
	}

	target, err := url.Parse(Normalize(raw))
	if err != nil {
		return false
	}
	baseURL, err := url.Parse(Normalize(base))
	if err != nil {
		return false
	}

	if target.Host == "" || baseURL.Host == "" {
		return false
	}
	if !strings.EqualFold(target.Host, baseURL.Host) {
		return false
	}

	for _, ext := range skippedExtensions {
		if strings.Contains(lower, ext) {
			return false
		}
	}

	return true
}
