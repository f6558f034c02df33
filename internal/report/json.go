package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/nao1215/valaw/internal/model"
)

// JSONWriter outputs run summaries in JSON format.
// This format is designed for tool integration, e.g. feeding a scheduler
// that decides whether a changed archive should be published.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// JSONSummary is the serialized form of a RunReport.
//
// Design decision: We wrap the report rather than tagging RunReport
// directly because the results slice is guarded by a mutex and must be
// read through Results().
type JSONSummary struct {
	StartedAt      time.Time             `json:"started_at"`
	FinishedAt     time.Time             `json:"finished_at"`
	BaseURL        string                `json:"base_url"`
	Cancelled      bool                  `json:"cancelled"`
	TotalRequests  int64                 `json:"total_requests"`
	TotalFailures  int64                 `json:"total_failures"`
	PerformedSteps []string              `json:"performed_steps"`
	Domains        []*model.DomainResult `json:"domains"`
}

// NewJSONSummary snapshots report for serialization.
func NewJSONSummary(report *model.RunReport) *JSONSummary {
	return &JSONSummary{
		StartedAt:      report.StartedAt,
		FinishedAt:     report.FinishedAt,
		BaseURL:        report.BaseURL,
		Cancelled:      report.Cancelled,
		TotalRequests:  report.TotalRequests(),
		TotalFailures:  report.TotalFailures(),
		PerformedSteps: report.PerformedSteps,
		Domains:        report.Results(),
	}
}

// Write outputs the run summary in JSON format.
func (w *JSONWriter) Write(report *model.RunReport) (int, error) {
	return w.writeJSON(NewJSONSummary(report))
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
