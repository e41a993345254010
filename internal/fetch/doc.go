// Package fetch defines the fetch-layer seam between the crawler and the
// transport that actually loads pages.
//
// The Fetcher interface models a browser-automation engine: it must be
// started before use (a startup failure aborts the whole crawl job), loads
// one URL at a time, and reports the post-redirect URL together with the
// rendered document markup. The concrete HTTPFetcher implements the seam
// over net/http; engines that execute JavaScript can be slotted in behind
// the same interface.
//
// Screenshot capture is an optional capability: implementations that
// support it additionally satisfy Screenshotter, and callers feature-test
// with a type assertion.
package fetch
