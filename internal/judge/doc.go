// Package judge wraps the external judgment source: a large-language-model
// service that turns free-text prompts into free-text verdicts.
//
// The package has two halves. Client speaks the messages API over HTTP and
// returns raw model output. Decode defensively extracts a structured
// payload from that output, tolerating a fenced code block wrapper, and
// returns a tagged result so every call site must handle the malformed
// case explicitly. Whether a malformed payload fails open (link filter) or
// closed (section classification) is the caller's policy, never this
// package's.
package judge
