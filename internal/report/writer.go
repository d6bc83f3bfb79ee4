package report

import (
	"io"

	"github.com/refdocs/docmirror/internal/model"
)

// Writer outputs a run report to some destination.
// Implementations render different formats over the same data.
type Writer interface {
	// Write outputs the report. Returns the number of bytes written
	// and any error encountered.
	Write(report *model.RunReport) (int, error)
}

// baseWriter provides the shared output destination for writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
