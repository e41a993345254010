// Package main provides the entry point for the sitecensus CLI.
//
// sitecensus crawls an organization's website, filters links for
// relevance, classifies the collected pages against a content taxonomy,
// and produces a scored collection report.
//
// Usage:
//
//	sitecensus collect <url>
//	sitecensus collect https://example.edu https://example.org
//
// See --help for all available options.
package main

// main is the entry point for sitecensus.
func main() {
	Execute()
}
