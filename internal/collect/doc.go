// Package collect orchestrates a collection run as a sequence of steps.
//
// A run takes a start URL through crawling, organization name derivation,
// taxonomy classification, and summary generation. Each stage is
// implemented as a Step that receives the accumulated CollectionResult
// and can modify it.
//
// Design decision: We use a pipeline pattern instead of direct function
// calls because:
// 1. It allows easy addition/removal of steps without modifying core logic
// 2. It provides consistent error handling and logging across steps
// 3. It supports cancellation via context for long-running crawls
//
// The package supports both individual runs and batch processing of
// multiple sites with concurrency control using errgroup.
package collect
