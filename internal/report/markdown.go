package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/refdocs/docmirror/internal/model"
)

// MarkdownWriter outputs run reports as GitHub-flavored markdown with
// an outcome table, a mermaid pie chart, and a failure listing. Used
// for the optional --report file.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given
// writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the report in markdown format.
func (w *MarkdownWriter) Write(report *model.RunReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeFailures(md, report)

	return len(md.String()), md.Build()
}

// writeHeader writes the run metadata table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.RunReport) {
	md.H1("Mirror Run Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Command", "`" + report.Command + "`"},
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Elapsed", report.Elapsed().String()},
			{"Targets", strconv.Itoa(report.Summary.Total)},
		},
	})
	md.PlainText("")
}

// writeSummary writes the outcome counts with a pie chart and an alert
// reflecting the run's health.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Outcome Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows: [][]string{
			{"✅ Downloaded", strconv.Itoa(report.Summary.Downloaded)},
			{"⏭️ Skipped", strconv.Itoa(report.Summary.Skipped)},
			{"❌ Failed", strconv.Itoa(report.Summary.Failed)},
			{"**Total**", "**" + strconv.Itoa(report.Summary.Total) + "**"},
		},
	})
	md.PlainText("")

	if report.Summary.Total > 0 {
		w.writePieChart(md, report)
	}

	switch {
	case report.Summary.HasFailures():
		md.Warningf("%d target(s) failed after exhausting retries. Re-run to retry the missing pages.", report.Summary.Failed)
	case report.Summary.Downloaded == 0 && report.Summary.Skipped > 0:
		md.Note("All targets were already present; nothing to download.")
	default:
		md.Tip("All targets mirrored successfully.")
	}
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of the outcome distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.RunReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Outcome Distribution"),
		piechart.WithShowData(true),
	)

	if report.Summary.Downloaded > 0 {
		chart.LabelAndIntValue("Downloaded", uint64(report.Summary.Downloaded))
	}
	if report.Summary.Skipped > 0 {
		chart.LabelAndIntValue("Skipped", uint64(report.Summary.Skipped))
	}
	if report.Summary.Failed > 0 {
		chart.LabelAndIntValue("Failed", uint64(report.Summary.Failed))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeFailures lists each failed target with its last error.
func (w *MarkdownWriter) writeFailures(md *markdown.Markdown, report *model.RunReport) {
	failures := report.Failures()
	if len(failures) == 0 {
		return
	}

	md.H2("Failures")
	md.PlainText("")

	rows := make([][]string, len(failures))
	for i, rec := range failures {
		rows[i] = []string{
			rec.URL,
			strconv.Itoa(rec.Attempts),
			truncate(rec.Error, 80),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Attempts", "Last Error"},
		Rows:   rows,
	})
	md.PlainText("")
}

// truncate shortens s to at most n runes with an ellipsis.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
