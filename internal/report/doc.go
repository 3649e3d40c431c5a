// Package report renders analysis results.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: GitHub Flavored Markdown for sharing
//
// Design decision: We separate report writing from result data structures
// (which are in the model package). The crawler exposes normalized page
// text on every result; whether it is shown, and how much of it, is a
// presentation choice made here through WithPageText.
package report
