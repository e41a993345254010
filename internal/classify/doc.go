// Package classify maps a crawled page corpus onto a taxonomy of sections
// and subsections, producing scored results.
//
// The Engine walks the taxonomy in document order and, for each
// subsection, asks a Scorer to rate every page. Two scorers exist: the
// judge-backed scorer sends one judgment request per subsection covering
// the whole corpus, and the keyword scorer counts taxonomy-keyword hits
// when no judgment source is configured. The engine itself is identical
// regardless of which scorer backs it.
//
// Failure isolation: a scorer failure empties exactly one subsection's
// matches and the run continues. Nothing in this package returns a fatal
// error for a judgment problem.
package classify
