// Package model defines the core data structures used throughout sitecensus.
//
// This package contains the following main types:
//   - PageRecord: Structured result of fetching and extracting one URL
//   - LinkJudgment: Per-link verdict from the link relevance filter
//   - PageJudgment: Per-page verdict from the section classification engine
//   - SectionResult / SubsectionResult: The scored taxonomy tree
//   - CollectionResult: The final artifact of a collection run
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (crawler, filter, classify, report) need to
// use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
