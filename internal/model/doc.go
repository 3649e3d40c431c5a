// Package model defines the core data structures used throughout OfferScan.
//
// This package contains the following main types:
//   - KeywordEntry: One weighted phrase of the keyword taxonomy
//   - MatchRecord: A keyword found in page text with its occurrence count
//   - PageResult: Per-page diagnostics collected during a crawl
//   - AnalysisResult: The verdict of one analysis
//   - CrawlState: Visited set and queue owned by a single crawl
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The keyword, crawler, and report packages all need these
// types, so centralizing them prevents import cycles.
package model
