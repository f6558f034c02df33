package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/valaw/internal/model"
)

// SimpleWriter outputs human-readable run summaries for terminal display.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors so the output can be piped to files or cron mail unchanged.
type SimpleWriter struct {
	baseWriter

	// verbose adds checksums and elapsed time per domain.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the run summary in human-readable format.
func (w *SimpleWriter) Write(report *model.RunReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeDomains(&sb, report)
	w.writeFooter(&sb, report)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the run information block.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.RunReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        VALAW HARVEST SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "API:       %s\n", report.BaseURL)
	fmt.Fprintf(sb, "Started:   %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST"))
	if !report.FinishedAt.IsZero() {
		elapsed := report.FinishedAt.Sub(report.StartedAt).Round(time.Second)
		fmt.Fprintf(sb, "Duration:  %s\n", elapsed)
	}
	if report.Cancelled {
		sb.WriteString("Status:    CANCELLED (partial results)\n")
	}
	sb.WriteString("\n")
}

// writeDomains writes one block per harvested domain.
func (w *SimpleWriter) writeDomains(sb *strings.Builder, report *model.RunReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("DOMAINS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	results := report.Results()
	if len(results) == 0 {
		sb.WriteString("  No domains harvested\n\n")
		return
	}

	for _, r := range results {
		marker := "+"
		if !r.Complete() {
			marker = "!"
		}
		fmt.Fprintf(sb, "  [%s] %-20s %s\n", marker, r.Domain.Title(), statusText(r))
		if r.FilePath != "" {
			fmt.Fprintf(sb, "      File:     %s (%d bytes)\n", r.FilePath, r.Bytes)
		}
		fmt.Fprintf(sb, "      Requests: %d (failed: %d)\n", r.Requests, r.Failures)
		if w.verbose {
			if r.Checksum != "" {
				fmt.Fprintf(sb, "      SHA3-256: %s\n", r.Checksum)
			}
			fmt.Fprintf(sb, "      Changed:  %t\n", r.Changed)
			fmt.Fprintf(sb, "      Elapsed:  %s\n", r.Elapsed.Round(time.Millisecond))
		}
	}
	sb.WriteString("\n")
}

// writeFooter writes the totals line.
func (w *SimpleWriter) writeFooter(sb *strings.Builder, report *model.RunReport) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "Total requests: %d, failed: %d\n", report.TotalRequests(), report.TotalFailures())
	if report.TotalFailures() > 0 {
		sb.WriteString("Some branches could not be fetched; their output is incomplete.\n")
	}
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
