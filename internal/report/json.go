package report

import (
	"encoding/json"
	"io"

	"github.com/simonhull/wsicheck/internal/slidemeta"
	"github.com/simonhull/wsicheck/internal/types"
)

// JSONWriter outputs one JSON object per file, newline separated, so a
// batch can be streamed and read line by line.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = "  "
	}
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

// JSONReport wraps a report with derived fields.
type JSONReport struct {
	*types.Report

	Format       string `json:"format"`
	OK           bool   `json:"ok"`
	InvalidCount int    `json:"invalid_count"`
	ElapsedMS    int64  `json:"elapsed_ms"`
}

// JSONFailure describes a file that could not be validated.
type JSONFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// JSONLayout wraps a layout with its path.
type JSONLayout struct {
	Path        string                   `json:"path"`
	Format      string                   `json:"format"`
	Flavor      string                   `json:"flavor"`
	ByteOrder   string                   `json:"byte_order"`
	Directories []types.DirectorySummary `json:"directories"`
	TileCount   int                      `json:"tile_count"`
	Tags        []slidemeta.Tag          `json:"tags,omitempty"`
	Warnings    []types.Warning          `json:"warnings,omitempty"`
}

// Write outputs the report as JSON.
func (w *JSONWriter) Write(r *types.Report) (int, error) {
	return w.writeJSON(JSONReport{
		Report:       r,
		Format:       r.Format.String(),
		OK:           r.OK(),
		InvalidCount: r.InvalidCount(),
		ElapsedMS:    r.Elapsed.Milliseconds(),
	})
}

// WriteFailure outputs the failure as JSON.
func (w *JSONWriter) WriteFailure(path string, err error) (int, error) {
	return w.writeJSON(JSONFailure{Path: path, Error: err.Error()})
}

// WriteLayout outputs the layout as JSON.
func (w *JSONWriter) WriteLayout(path string, layout *types.Layout, tags []slidemeta.Tag) (int, error) {
	return w.writeJSON(JSONLayout{
		Path:        path,
		Format:      layout.Format.String(),
		Flavor:      layout.Flavor,
		ByteOrder:   layout.ByteOrder,
		Directories: layout.Directories,
		TileCount:   len(layout.Tiles),
		Tags:        tags,
		Warnings:    layout.Warnings,
	})
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent != "" {
		data, err = json.MarshalIndent(v, "", w.indent)
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
