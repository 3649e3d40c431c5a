package model

import (
	"encoding/json"
	"fmt"
)

// Classification is the verdict of an analysis.
type Classification int

const (
	// NonUser means no sufficient evidence of financing or quoting was found.
	// It is also the verdict when every page was unreachable.
	NonUser Classification = iota

	// Proactive means the site actively advertises financing or quotes.
	Proactive
)

// String returns the canonical name of the classification.
func (c Classification) String() string {
	switch c {
	case Proactive:
		return "proactive"
	case NonUser:
		return "non-user"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the classification as its canonical name.
func (c Classification) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes a classification from its canonical name.
func (c *Classification) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "proactive":
		*c = Proactive
	case "non-user":
		*c = NonUser
	default:
		return fmt.Errorf("unknown classification %q", s)
	}
	return nil
}

// CrawlOutcome is the terminal state of a crawl.
type CrawlOutcome string

const (
	// OutcomeFound means a page produced a positive classification
	// and the crawl stopped early.
	OutcomeFound CrawlOutcome = "found"

	// OutcomeExhausted means the queue emptied or the page budget was
	// spent without a positive classification.
	OutcomeExhausted CrawlOutcome = "exhausted"
)

// MatchRecord describes one distinct keyword found in text.
type MatchRecord struct {
	// Keyword is the matched taxonomy phrase.
	Keyword string `json:"keyword"`

	// OccurrenceCount is the number of non-overlapping occurrences.
	OccurrenceCount int `json:"occurrence_count"`

	// IsHighConfidence is true when the keyword carries the high weight.
	IsHighConfidence bool `json:"is_high_confidence"`
}

// PageResult holds per-page diagnostics collected during a crawl.
type PageResult struct {
	// URL is the fetched page.
	URL string `json:"url"`

	// StatusCode is the HTTP status, 0 when the request never completed.
	StatusCode int `json:"status_code,omitempty"`

	// FetchError describes why the page contributed no content, if it did not.
	FetchError string `json:"fetch_error,omitempty"`

	// NormalizedText is the canonical text of the page body.
	// Excluded from JSON; the analysis exposes it through FullText.
	NormalizedText string `json:"-"`

	// Matches lists keywords found on this page in taxonomy order.
	Matches []MatchRecord `json:"matches,omitempty"`

	// ConfidenceContribution is this page's clamped score.
	ConfidenceContribution float64 `json:"confidence_contribution"`
}

// AnalysisResult is the terminal output of one analysis.
// It is never mutated after the spider returns it.
type AnalysisResult struct {
	// SeedURL is the normalized URL the crawl started from.
	SeedURL string `json:"seed_url"`

	// Classification is the verdict.
	Classification Classification `json:"classification"`

	// Confidence is in [0, 1]; zero whenever the verdict is NonUser.
	Confidence float64 `json:"confidence"`

	// MatchedKeywords is non-empty if and only if the verdict is Proactive.
	MatchedKeywords []MatchRecord `json:"matched_keywords"`

	// CrawledPages lists visited URLs in visit order.
	CrawledPages []string `json:"crawled_pages"`

	// TriggeredURL is the page that produced the positive verdict.
	// Nil if and only if the verdict is NonUser.
	TriggeredURL *string `json:"triggered_url"`

	// FullText is the normalized text of every crawled page joined by
	// newlines. Nil when no page was crawled.
	FullText *string `json:"full_text,omitempty"`

	// Outcome is the terminal crawl state.
	Outcome CrawlOutcome `json:"outcome"`

	// Pages holds per-page diagnostics in visit order.
	Pages []PageResult `json:"pages,omitempty"`
}

// IsProactive reports whether the verdict is Proactive.
func (r *AnalysisResult) IsProactive() bool {
	return r.Classification == Proactive
}

// HighConfidenceMatches returns how many matched keywords are high-confidence.
func (r *AnalysisResult) HighConfidenceMatches() int {
	n := 0
	for _, m := range r.MatchedKeywords {
		if m.IsHighConfidence {
			n++
		}
	}
	return n
}
