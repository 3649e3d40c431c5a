// Package keyword holds the financing/quoting keyword taxonomy and the
// scorer that turns normalized page text into matches, a confidence and
// a classification.
//
// The taxonomy is a static ordered table built once at package init and
// never mutated, so a single Scorer may be shared by concurrent analyses.
//
// Matching is literal: phrases are never interpreted as patterns. By
// default occurrences are counted as non-overlapping substrings with no
// word-boundary check, which accepts "financing" inside "refinancing".
// That bias toward recall is deliberate; MatchWordBoundary is the
// stricter alternative.
package keyword
