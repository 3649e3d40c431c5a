package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/offerscan/internal/model"
)

// MarkdownWriter outputs reports in GitHub Flavored Markdown.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation, which gives us tables, alerts and mermaid charts without
// hand-escaping.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...Option) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output, opts)}
}

// Write outputs one result in Markdown format.
func (w *MarkdownWriter) Write(result *model.AnalysisResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("OfferScan Report")
	md.PlainText("")
	w.writeResult(md, result, func(title string) { md.H2(title) })
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteAll outputs a batch: a summary with a verdict chart, then one
// section per site.
func (w *MarkdownWriter) WriteAll(results []*model.AnalysisResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("OfferScan Batch Report")
	md.PlainText("")
	w.writeBatchSummary(md, Summarize(results))

	for _, r := range results {
		if r == nil {
			continue
		}
		md.H2(r.SeedURL)
		md.PlainText("")
		w.writeResult(md, r, func(title string) { md.PlainText("### " + title) })
	}
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeResult writes the sections of one result using heading for
// section titles.
func (w *MarkdownWriter) writeResult(md *markdown.Markdown, result *model.AnalysisResult, heading func(string)) {
	w.writeOverview(md, result)
	w.writeAlert(md, result)

	heading("Matched Keywords")
	md.PlainText("")
	w.writeKeywords(md, result)

	if len(result.Pages) > 0 {
		heading("Crawled Pages")
		md.PlainText("")
		w.writePages(md, result)
	}

	if text, truncated, ok := w.pageText(result); ok {
		heading("Page Text")
		md.PlainText("")
		summary := "Normalized text of crawled pages"
		if truncated {
			text += " [...]"
			summary += " (truncated)"
		}
		md.Details(summary, text)
		md.PlainText("")
	}
}

// writeOverview writes the verdict table.
func (w *MarkdownWriter) writeOverview(md *markdown.Markdown, result *model.AnalysisResult) {
	triggered := "-"
	if result.TriggeredURL != nil {
		triggered = "`" + *result.TriggeredURL + "`"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Site", "`" + result.SeedURL + "`"},
			{"Classification", classificationText(result.Classification)},
			{"Confidence", strconv.FormatFloat(result.Confidence, 'f', 2, 64)},
			{"Pages Crawled", strconv.Itoa(len(result.CrawledPages))},
			{"Outcome", string(result.Outcome)},
			{"Triggered By", triggered},
		},
	})
	md.PlainText("")
}

// writeAlert writes an alert describing the verdict.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, result *model.AnalysisResult) {
	switch {
	case result.IsProactive() && result.HighConfidenceMatches() > 0:
		md.Importantf(
			"This site advertises financing or quotes: %d high-confidence keyword(s) matched.",
			result.HighConfidenceMatches(),
		)
	case result.IsProactive():
		md.Note(fmt.Sprintf("This site advertises financing or quotes: %d keyword(s) matched.", len(result.MatchedKeywords)))
	case len(result.Pages) > 0 && countFetchErrors(result) == len(result.Pages):
		md.Warningf("None of the %d crawled page(s) could be fetched. The verdict is based on no content.", len(result.Pages))
	default:
		md.Tip("No financing or quote offers were found.")
	}
	md.PlainText("")
}

// writeKeywords writes the keyword table.
func (w *MarkdownWriter) writeKeywords(md *markdown.Markdown, result *model.AnalysisResult) {
	if len(result.MatchedKeywords) == 0 {
		md.PlainText("No keywords matched.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(result.MatchedKeywords))
	for i, m := range result.MatchedKeywords {
		weight := "standard"
		if m.IsHighConfidence {
			weight = "**high**"
		}
		rows[i] = []string{m.Keyword, weight, strconv.Itoa(m.OccurrenceCount)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Keyword", "Weight", "Occurrences"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writePages writes the per-page table.
func (w *MarkdownWriter) writePages(md *markdown.Markdown, result *model.AnalysisResult) {
	header := []string{"#", "URL", "Status", "Matches"}
	if w.verbose {
		header = append(header, "Confidence", "Error")
	}

	rows := make([][]string, len(result.Pages))
	for i, p := range result.Pages {
		status := "-"
		if p.StatusCode != 0 {
			status = strconv.Itoa(p.StatusCode)
		}
		row := []string{
			strconv.Itoa(i + 1),
			truncateString(p.URL, 80),
			status,
			strconv.Itoa(len(p.Matches)),
		}
		if w.verbose {
			fetchErr := "-"
			if p.FetchError != "" {
				fetchErr = truncateString(p.FetchError, 60)
			}
			row = append(row, strconv.FormatFloat(p.ConfidenceContribution, 'f', 2, 64), fetchErr)
		}
		rows[i] = row
	}
	md.Table(markdown.TableSet{Header: header, Rows: rows})
	md.PlainText("")
}

// writeBatchSummary writes verdict counts and a pie chart.
func (w *MarkdownWriter) writeBatchSummary(md *markdown.Markdown, s Summary) {
	md.H2("Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Verdict", "Sites"},
		Rows: [][]string{
			{"Proactive", strconv.Itoa(s.Proactive)},
			{"Non-user", strconv.Itoa(s.NonUser)},
			{"**Total**", "**" + strconv.Itoa(s.Total) + "**"},
		},
	})
	md.PlainText("")

	if s.Total == 0 {
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Classification"),
		piechart.WithShowData(true),
	)
	if s.Proactive > 0 {
		chart.LabelAndIntValue("Proactive", uint64(s.Proactive))
	}
	if s.NonUser > 0 {
		chart.LabelAndIntValue("Non-user", uint64(s.NonUser))
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
	md.PlainTextf("%d page(s) crawled in total.", s.PagesCrawled)
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	if ts := w.stamp(); ts != "" {
		md.PlainTextf("Analyzed at %s", ts)
		md.PlainText("")
	}
	if w.version != "" {
		md.PlainTextf("*Report generated by [OfferScan](https://github.com/nao1215/offerscan) %s*", w.version)
		return
	}
	md.PlainText("*Report generated by [OfferScan](https://github.com/nao1215/offerscan)*")
}

// classificationText returns the verdict with a status icon.
func classificationText(c model.Classification) string {
	if c == model.Proactive {
		return "✅ Proactive"
	}
	return "➖ Non-user"
}

// countFetchErrors returns how many pages failed to fetch.
func countFetchErrors(result *model.AnalysisResult) int {
	n := 0
	for _, p := range result.Pages {
		if p.FetchError != "" {
			n++
		}
	}
	return n
}
