// Package crawler provides bounded, breadth-first website crawling.
//
// # Architecture
//
// The crawler package is designed around the Spider type, which drives the
// fetch → extract → filter → enqueue loop for one CrawlJob. A CrawlJob owns
// the frontier (pending-URL queue) and the visited set for its run; no other
// component mutates them.
//
// Design decision: We implement our own crawler rather than using a
// third-party library because:
//  1. The page budget and FIFO discovery order must be exactly reproducible
//  2. Link admission is delegated to an external relevance filter
//  3. We need tight control over request timing between pages
//  4. Reduces external dependencies
//
// # Components
//
//   - Normalize / InScope: URL canonicalization and domain scoping
//   - Extractor: turns a fetched document into a model.PageRecord
//   - Spider: the crawl controller owning the frontier and visited set
//
// # Politeness
//
// The spider sleeps for a fixed delay after every page iteration,
// regardless of whether the fetch succeeded.
//
// # Usage
//
//	spider := crawler.NewSpider(fetcher, crawler.WithDelay(time.Second))
//	job := crawler.NewJob("https://example.edu", 20)
//	pages, err := spider.Crawl(ctx, job)
package crawler
