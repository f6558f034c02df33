package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/valaw/internal/model"
)

// SummaryFileName is the name of the markdown summary written next to the
// domain documents.
const SummaryFileName = "summary.md"

// MarkdownWriter outputs run summaries in Markdown format.
// This format is designed for committing alongside the archive.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which gives us tables, GitHub alerts, and mermaid charts
// without hand-escaping.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the run summary in Markdown format.
func (w *MarkdownWriter) Write(report *model.RunReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeDomains(md, report)
	w.writeChart(md, report)
	w.writeAlert(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the run information table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.RunReport) {
	md.H1("Virginia Law Harvest")
	md.PlainText("")

	status := "✅ Complete"
	if report.Cancelled {
		status = "⚠️ Cancelled (partial results)"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"API", "`" + report.BaseURL + "`"},
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Finished", report.FinishedAt.Format("2006-01-02 15:04:05 MST")},
			{"Requests", strconv.FormatInt(report.TotalRequests(), 10)},
			{"Failed Requests", strconv.FormatInt(report.TotalFailures(), 10)},
			{"Status", status},
		},
	})
	md.PlainText("")
}

// writeDomains writes the per-domain table.
func (w *MarkdownWriter) writeDomains(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Domains")
	md.PlainText("")

	results := report.Results()
	if len(results) == 0 {
		md.PlainText("No domains harvested.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(results))
	for i, r := range results {
		file := "-"
		if r.FilePath != "" {
			file = "`" + r.FilePath + "`"
		}
		sum := "-"
		if r.Checksum != "" {
			sum = "`" + shortChecksum(r.Checksum) + "`"
		}
		changed := "no"
		if r.Changed {
			changed = "yes"
		}
		rows[i] = []string{
			r.Domain.Title(),
			strconv.FormatInt(r.Requests, 10),
			strconv.FormatInt(r.Failures, 10),
			file,
			sum,
			changed,
			statusText(r),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Domain", "Requests", "Failed", "File", "SHA3-256", "Changed", "Status"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeChart writes a mermaid pie chart of requests per domain.
func (w *MarkdownWriter) writeChart(md *markdown.Markdown, report *model.RunReport) {
	if report.TotalRequests() == 0 {
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Requests per Domain"),
		piechart.WithShowData(true),
	)
	for _, r := range report.Results() {
		if r.Requests > 0 {
			chart.LabelAndIntValue(r.Domain.Title(), uint64(r.Requests))
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert describing how complete the archive is.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.RunReport) {
	failed := report.TotalFailures()
	switch {
	case report.Cancelled:
		md.Cautionf("The run was cancelled. Some domains are missing or incomplete.")
	case failed > 0:
		md.Warningf("%d request(s) failed. The affected branches are missing from the output.", failed)
	default:
		md.Tip("Every request succeeded.")
	}
	md.PlainText("")
}

// writeFooter writes the summary footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Generated by [valaw](https://github.com/nao1215/valaw)*")
}
