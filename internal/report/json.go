package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/nao1215/offerscan/internal/model"
)

// JSONWriter outputs results in JSON format for tool integration.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library because it is sufficient for our needs and keeps behavior
// consistent across Go versions.
type JSONWriter struct {
	baseWriter
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...Option) *JSONWriter {
	return &JSONWriter{baseWriter: newBaseWriter(output, opts)}
}

// resultDocument is one result with the optional report timestamp
// alongside its fields.
type resultDocument struct {
	*model.AnalysisResult

	AnalyzedAt *time.Time `json:"analyzed_at,omitempty"`
}

// Write outputs one result as a JSON object.
func (w *JSONWriter) Write(result *model.AnalysisResult) (int, error) {
	return w.writeJSON(resultDocument{
		AnalysisResult: w.shape(result),
		AnalyzedAt:     w.timestampPtr(),
	})
}

// BatchReport is the JSON document written for a batch.
type BatchReport struct {
	// Version is the OfferScan version that generated this report.
	Version string `json:"version,omitempty"`

	// GeneratedAt is when the batch finished, if known.
	GeneratedAt *time.Time `json:"generated_at,omitempty"`

	// Summary holds verdict counts.
	Summary Summary `json:"summary"`

	// Results lists the analyses in input order.
	Results []*model.AnalysisResult `json:"results"`
}

// WriteAll outputs a BatchReport.
func (w *JSONWriter) WriteAll(results []*model.AnalysisResult) (int, error) {
	shaped := make([]*model.AnalysisResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			shaped = append(shaped, w.shape(r))
		}
	}
	return w.writeJSON(BatchReport{
		Version:     w.version,
		GeneratedAt: w.timestampPtr(),
		Summary:     Summarize(results),
		Results:     shaped,
	})
}

// shape returns a copy of result whose FullText follows the text settings:
// omitted unless enabled, and cut to the configured limit.
func (w *JSONWriter) shape(result *model.AnalysisResult) *model.AnalysisResult {
	out := *result
	out.FullText = nil
	if text, _, ok := w.pageText(result); ok {
		out.FullText = &text
	}
	return &out
}

// timestampPtr returns the report timestamp, nil when unset.
func (w *JSONWriter) timestampPtr() *time.Time {
	if w.timestamp.IsZero() {
		return nil
	}
	ts := w.timestamp.UTC()
	return &ts
}

// writeJSON marshals v and writes it with a trailing newline.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
