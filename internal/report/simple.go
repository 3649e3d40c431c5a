package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/offerscan/internal/model"
)

// SimpleWriter outputs human-readable text reports.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors so that output can be piped to files or other tools.
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...Option) *SimpleWriter {
	return &SimpleWriter{baseWriter: newBaseWriter(output, opts)}
}

// Write outputs one result in human-readable format.
func (w *SimpleWriter) Write(result *model.AnalysisResult) (int, error) {
	var sb strings.Builder
	w.writeResult(&sb, result)
	w.writeFooter(&sb)
	return io.WriteString(w.output, sb.String())
}

// WriteAll outputs every result followed by a batch summary.
func (w *SimpleWriter) WriteAll(results []*model.AnalysisResult) (int, error) {
	var sb strings.Builder
	for _, r := range results {
		if r != nil {
			w.writeResult(&sb, r)
		}
	}
	w.writeBatchSummary(&sb, Summarize(results))
	w.writeFooter(&sb)
	return io.WriteString(w.output, sb.String())
}

// writeResult writes all sections for one result.
func (w *SimpleWriter) writeResult(sb *strings.Builder, result *model.AnalysisResult) {
	w.writeHeader(sb, result)
	w.writeKeywords(sb, result)
	w.writePages(sb, result)
	w.writeText(sb, result)
}

// writeHeader writes the verdict block.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, result *model.AnalysisResult) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         OFFERSCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Site:            %s\n", result.SeedURL)
	fmt.Fprintf(sb, "Classification:  %s\n", strings.ToUpper(result.Classification.String()))
	fmt.Fprintf(sb, "Confidence:      %.2f\n", result.Confidence)
	fmt.Fprintf(sb, "Pages Crawled:   %d\n", len(result.CrawledPages))
	fmt.Fprintf(sb, "Outcome:         %s\n", result.Outcome)
	if result.TriggeredURL != nil {
		fmt.Fprintf(sb, "Triggered By:    %s\n", *result.TriggeredURL)
	}
	if ts := w.stamp(); ts != "" {
		fmt.Fprintf(sb, "Analyzed At:     %s\n", ts)
	}
	sb.WriteString("\n")
}

// writeKeywords writes the matched keywords section.
func (w *SimpleWriter) writeKeywords(sb *strings.Builder, result *model.AnalysisResult) {
	writeSection(sb, "MATCHED KEYWORDS")

	if len(result.MatchedKeywords) == 0 {
		sb.WriteString("  No financing or quote keywords found\n\n")
		return
	}
	for _, m := range result.MatchedKeywords {
		fmt.Fprintf(sb, "  [%s] %s (x%d)\n", weightIndicator(m), m.Keyword, m.OccurrenceCount)
	}
	sb.WriteString("\n")
}

// writePages writes the crawled pages section.
func (w *SimpleWriter) writePages(sb *strings.Builder, result *model.AnalysisResult) {
	if len(result.Pages) == 0 {
		return
	}
	writeSection(sb, "CRAWLED PAGES")

	for i, p := range result.Pages {
		status := "-"
		if p.StatusCode != 0 {
			status = fmt.Sprintf("%d", p.StatusCode)
		}
		marker := ""
		if result.TriggeredURL != nil && *result.TriggeredURL == p.URL {
			marker = "  <- triggered"
		}
		fmt.Fprintf(sb, "  %d. %s [%s]%s\n", i+1, p.URL, status, marker)
		if p.FetchError != "" {
			fmt.Fprintf(sb, "     error: %s\n", p.FetchError)
		}
		if w.verbose {
			for _, m := range p.Matches {
				fmt.Fprintf(sb, "     - %s (x%d)\n", m.Keyword, m.OccurrenceCount)
			}
			fmt.Fprintf(sb, "     page confidence: %.2f\n", p.ConfidenceContribution)
		}
	}
	sb.WriteString("\n")
}

// writeText writes the normalized page text when enabled.
func (w *SimpleWriter) writeText(sb *strings.Builder, result *model.AnalysisResult) {
	text, truncated, ok := w.pageText(result)
	if !ok {
		return
	}
	writeSection(sb, "PAGE TEXT")
	sb.WriteString(text)
	if truncated {
		sb.WriteString(" [...]")
	}
	sb.WriteString("\n\n")
}

// writeBatchSummary writes verdict counts for a batch.
func (w *SimpleWriter) writeBatchSummary(sb *strings.Builder, s Summary) {
	sb.WriteString("\n")
	writeSection(sb, "BATCH SUMMARY")
	fmt.Fprintf(sb, "  Sites analyzed:  %d\n", s.Total)
	fmt.Fprintf(sb, "  Proactive:       %d\n", s.Proactive)
	fmt.Fprintf(sb, "  Non-user:        %d\n", s.NonUser)
	fmt.Fprintf(sb, "  Pages crawled:   %d\n", s.PagesCrawled)
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by OfferScan\n")
	sb.WriteString("https://github.com/nao1215/offerscan\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

func writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}

// weightIndicator returns a fixed-width tag for the keyword weight.
func weightIndicator(m model.MatchRecord) string {
	if m.IsHighConfidence {
		return "high    "
	}
	return "standard"
}
