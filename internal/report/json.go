package report

import (
	"encoding/json"
	"io"

	"github.com/refdocs/docmirror/internal/model"
)

// JSONWriter outputs run results as JSON. By default it emits only the
// summary object ({downloaded, skipped, failed, total}), which is the
// machine-readable line printed to stdout at the end of every bulk run.
type JSONWriter struct {
	baseWriter

	// full includes the per-target records, not just the summary.
	full bool

	// indent enables pretty-printed output.
	indent bool
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithFullReport includes per-target records in the output.
func WithFullReport() JSONWriterOption {
	return func(w *JSONWriter) {
		w.full = true
	}
}

// WithPrettyPrint enables indented output.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report in JSON format.
func (w *JSONWriter) Write(report *model.RunReport) (int, error) {
	var v any = report.Summary
	if w.full {
		v = report
	}

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
