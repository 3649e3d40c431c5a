package report

import "github.com/nao1215/offerscan/internal/model"

// Summary aggregates a batch of results.
type Summary struct {
	// Total is the number of analyzed sites.
	Total int `json:"total"`

	// Proactive is the number of sites classified Proactive.
	Proactive int `json:"proactive"`

	// NonUser is the number of sites classified NonUser.
	NonUser int `json:"non_user"`

	// PagesCrawled is the number of pages fetched across the batch.
	PagesCrawled int `json:"pages_crawled"`
}

// Summarize counts verdicts over results. Nil entries are skipped.
func Summarize(results []*model.AnalysisResult) Summary {
	var s Summary
	for _, r := range results {
		if r == nil {
			continue
		}
		s.Total++
		s.PagesCrawled += len(r.CrawledPages)
		if r.IsProactive() {
			s.Proactive++
		} else {
			s.NonUser++
		}
	}
	return s
}
