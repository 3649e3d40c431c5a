package report

import (
	"io"
	"time"
	"unicode/utf8"

	"github.com/nao1215/offerscan/internal/model"
)

// Writer defines the interface for report output.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files or stdout with the same API.
type Writer interface {
	// Write outputs a single analysis result.
	// Returns the number of bytes written and any error encountered.
	Write(result *model.AnalysisResult) (int, error)

	// WriteAll outputs the results of a batch in the given order,
	// followed by a summary.
	WriteAll(results []*model.AnalysisResult) (int, error)
}

// Option configures any Writer.
type Option func(*baseWriter)

// WithPageText includes the normalized page text in the output, cut to
// limit runes. A limit of 0 shows the whole text.
func WithPageText(limit int) Option {
	return func(w *baseWriter) {
		w.showText = true
		if limit > 0 {
			w.textLimit = limit
		}
	}
}

// WithVerbose adds per-page match details to text and Markdown output.
func WithVerbose(verbose bool) Option {
	return func(w *baseWriter) {
		w.verbose = verbose
	}
}

// WithPrettyPrint enables two-space indented JSON output.
func WithPrettyPrint() Option {
	return func(w *baseWriter) {
		w.indent = true
	}
}

// WithVersion records the OfferScan version in batch output.
func WithVersion(version string) Option {
	return func(w *baseWriter) {
		w.version = version
	}
}

// WithTimestamp stamps reports with the time the analysis finished.
// Results carry no time of their own.
func WithTimestamp(t time.Time) Option {
	return func(w *baseWriter) {
		w.timestamp = t
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer

	// indent enables pretty-printed JSON output.
	indent bool

	// version is stamped on batch output.
	version string

	// showText enables the page text section.
	showText bool

	// textLimit is the maximum number of runes of page text, 0 for no limit.
	textLimit int

	// verbose enables per-page details.
	verbose bool

	// timestamp is shown when non-zero.
	timestamp time.Time
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer, opts []Option) baseWriter {
	b := baseWriter{output: output}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// pageText returns the text to show for result and whether it was cut.
// It returns ok=false when text display is off or no page was crawled.
func (b *baseWriter) pageText(result *model.AnalysisResult) (text string, truncated, ok bool) {
	if !b.showText || result.FullText == nil {
		return "", false, false
	}
	text, truncated = truncateRunes(*result.FullText, b.textLimit)
	return text, truncated, true
}

// stamp returns the report timestamp in RFC 3339 form, or "" when unset.
func (b *baseWriter) stamp() string {
	if b.timestamp.IsZero() {
		return ""
	}
	return b.timestamp.UTC().Format(time.RFC3339)
}

// truncateRunes cuts s to at most limit runes. A limit of 0 disables it.
func truncateRunes(s string, limit int) (string, bool) {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s, false
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i], true
		}
		n++
	}
	return s, false
}

// truncateString truncates a string to maxLen runes with an ellipsis.
func truncateString(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		cut, _ := truncateRunes(s, maxLen)
		return cut
	}
	cut, _ := truncateRunes(s, maxLen-3)
	return cut + "..."
}
