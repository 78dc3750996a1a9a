package report

import (
	"io"

	"github.com/simonhull/wsicheck/internal/slidemeta"
	"github.com/simonhull/wsicheck/internal/types"
)

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs the report for one validated file.
	Write(report *types.Report) (int, error)

	// WriteFailure outputs a file whose validation failed outright.
	WriteFailure(path string, err error) (int, error)

	// WriteLayout outputs the container structure of one file and its
	// descriptive tags.
	WriteLayout(path string, layout *types.Layout, tags []slidemeta.Tag) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for a terminal summary alongside a report file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(report *types.Report) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.Write(report) })
}

// WriteFailure outputs the failure to all configured Writers.
func (m *MultiWriter) WriteFailure(path string, err error) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteFailure(path, err) })
}

// WriteLayout outputs the layout to all configured Writers.
func (m *MultiWriter) WriteLayout(path string, layout *types.Layout, tags []slidemeta.Tag) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteLayout(path, layout, tags) })
}

func (m *MultiWriter) each(fn func(Writer) (int, error)) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := fn(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// verdict is the one-word outcome of a report.
func verdict(r *types.Report) string {
	switch {
	case r.InvalidCount() > 0:
		return "FAIL"
	case len(r.Warnings) > 0:
		return "WARN"
	default:
		return "OK"
	}
}

// truncateString truncates a string to maxLen bytes with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
