package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"
)

// Default transport settings. The user agent mirrors a desktop browser
// because some sites serve stripped-down or blocked pages to unknown
// agents, which would starve the extractor.
const (
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultTimeout     = 30 * time.Second
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB
)

// ErrNotStarted is returned by Fetch when Start was never called.
var ErrNotStarted = errors.New("fetch layer not started")

// HTTPFetcher implements Fetcher over net/http.
//
// It does not execute JavaScript; pages that render entirely client-side
// come back with whatever markup the server ships.
type HTTPFetcher struct {
	// client is built by Start and nil before that.
	client *http.Client

	// userAgent is sent with every request.
	userAgent string

	// timeout bounds each page load.
	timeout time.Duration

	// maxBodySize caps how many bytes of a response body are read.
	maxBodySize int64
}

// HTTPFetcherOption configures an HTTPFetcher.
type HTTPFetcherOption func(*HTTPFetcher)

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		f.userAgent = ua
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		f.timeout = d
	}
}

// WithMaxBodySize sets the maximum response body size to read.
func WithMaxBodySize(size int64) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		f.maxBodySize = size
	}
}

// NewHTTPFetcher creates an HTTP fetch layer with sensible defaults.
func NewHTTPFetcher(opts ...HTTPFetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		userAgent:   DefaultUserAgent,
		timeout:     DefaultTimeout,
		maxBodySize: DefaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Start builds the HTTP client. It never fails for the plain HTTP layer,
// but the error return is part of the Fetcher contract because
// browser-automation implementations can fail to launch.
func (f *HTTPFetcher) Start(_ context.Context) error {
	f.client = &http.Client{
		Timeout: f.timeout,
	}
	return nil
}

// Fetch loads url and returns the post-redirect URL plus the document
// markup decoded to UTF-8.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Result, error) {
	if f.client == nil {
		return nil, ErrNotStarted
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	// Decode to UTF-8 based on the declared charset before handing the
	// markup to the extractor.
	bodyReader := io.LimitReader(resp.Body, f.maxBodySize)
	decoded, err := charset.NewReader(bodyReader, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	body, err := io.ReadAll(decoded)
	if err != nil {
		return nil, err
	}

	resolved := url
	if resp.Request != nil && resp.Request.URL != nil {
		resolved = resp.Request.URL.String()
	}

	return &Result{
		ResolvedURL: resolved,
		Document:    string(body),
	}, nil
}

// Close tears down the fetch layer.
func (f *HTTPFetcher) Close() error {
	f.client = nil
	return nil
}
