package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/refdocs/docmirror/internal/model"
)

// SimpleWriter outputs a human-readable run report. This is the format
// used by the status command when listing run history.
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given
// writer.
func NewSimpleWriter(output io.Writer) *SimpleWriter {
	return &SimpleWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the report as readable text.
func (w *SimpleWriter) Write(report *model.RunReport) (int, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "Run: %s\n", report.Command)
	fmt.Fprintf(&b, "Started:  %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "Elapsed:  %s\n", report.Elapsed().Round(10*time.Millisecond))
	fmt.Fprintf(&b, "Downloaded: %d  Skipped: %d  Failed: %d  Total: %d\n",
		report.Summary.Downloaded,
		report.Summary.Skipped,
		report.Summary.Failed,
		report.Summary.Total,
	)

	failures := report.Failures()
	if len(failures) > 0 {
		b.WriteString("\nFailures:\n")
		for _, rec := range failures {
			fmt.Fprintf(&b, "  %s (%d attempts): %s\n", rec.URL, rec.Attempts, rec.Error)
		}
	}

	return io.WriteString(w.output, b.String())
}
