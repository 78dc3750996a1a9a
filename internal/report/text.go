package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/simonhull/wsicheck/internal/slidemeta"
	"github.com/simonhull/wsicheck/internal/types"
)

// TextWriter outputs human-readable reports for terminal display.
type TextWriter struct {
	baseWriter

	// verbose lists every tile, not only problems.
	verbose bool

	// maxProblems caps the tiles listed per file; 0 means no limit.
	maxProblems int
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithVerbose lists every tile result.
func WithVerbose(verbose bool) TextWriterOption {
	return func(w *TextWriter) {
		w.verbose = verbose
	}
}

// WithMaxProblems limits how many tile lines are printed per file.
func WithMaxProblems(n int) TextWriterOption {
	return func(w *TextWriter) {
		w.maxProblems = n
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs one report.
func (w *TextWriter) Write(r *types.Report) (int, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s: %s\n", displayPath(r.Path), verdict(r))
	fmt.Fprintf(&sb, "  container: %s (%s, %s), %d bytes, %d directories\n",
		r.Format, r.Flavor, r.ByteOrder, r.Size, len(r.Directories))
	fmt.Fprintf(&sb, "  tiles:     %d total, %d valid, %d invalid, %d skipped (%s)\n",
		r.TotalTiles, r.ValidCount, r.InvalidCount(), r.SkippedCount, r.Elapsed.Round(time.Millisecond))

	counts := r.Counts()
	var parts []string
	for _, s := range types.Statuses {
		if s == types.StatusValid || counts[s] == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%d", s, counts[s]))
	}
	if len(parts) > 0 {
		fmt.Fprintf(&sb, "  statuses:  %s\n", strings.Join(parts, " "))
	}

	for _, warn := range r.Warnings {
		fmt.Fprintf(&sb, "  warning: %s\n", warn)
	}

	listed := 0
	for _, res := range r.Results {
		if !w.verbose && res.Status == types.StatusValid {
			continue
		}
		if !w.verbose && res.Status == types.StatusUnsupportedCompression {
			continue
		}
		if w.maxProblems > 0 && listed == w.maxProblems {
			sb.WriteString("  ... more tiles omitted\n")
			break
		}
		sb.WriteString("  ")
		sb.WriteString(tileLine(res))
		sb.WriteByte('\n')
		listed++
	}

	return io.WriteString(w.output, sb.String())
}

// WriteFailure outputs a failed run.
func (w *TextWriter) WriteFailure(path string, err error) (int, error) {
	return fmt.Fprintf(w.output, "%s: ERROR\n  %v\n", displayPath(path), err)
}

// WriteLayout outputs the directory structure.
func (w *TextWriter) WriteLayout(path string, layout *types.Layout, tags []slidemeta.Tag) (int, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s: %s (%s, %s), %d directories, %d tiles\n",
		displayPath(path), layout.Format, layout.Flavor, layout.ByteOrder, len(layout.Directories), len(layout.Tiles))
	for _, d := range layout.Directories {
		kind := "strips"
		size := ""
		if d.Tiled {
			kind = "tiles"
			size = fmt.Sprintf(" %dx%d", d.TileWidth, d.TileHeight)
		}
		fmt.Fprintf(&sb, "  ifd %d @ %d: %dx%d, %d %s%s, %s",
			d.Index, d.Offset, d.Width, d.Height, d.TileCount, kind, size, d.CompressionName)
		if d.HasTables() {
			fmt.Fprintf(&sb, ", tables %d bytes", d.TablesLength)
			if d.TablesError != "" {
				sb.WriteString(" (broken)")
			}
		}
		sb.WriteByte('\n')
		if d.Description != "" {
			fmt.Fprintf(&sb, "    %s\n", truncateString(d.Description, 100))
		}
	}
	for _, tag := range tags {
		fmt.Fprintf(&sb, "  %s: %s\n", tag.Name, tag.Value)
	}
	for _, warn := range layout.Warnings {
		fmt.Fprintf(&sb, "  warning: %s\n", warn)
	}

	return io.WriteString(w.output, sb.String())
}

func tileLine(res types.TileValidationResult) string {
	line := fmt.Sprintf("tile %d (ifd %d #%d) @ %d+%d: %s",
		res.TileIndex, res.Directory, res.TileInDirectory, res.Offset, res.ByteCount, res.Status)
	if res.Detail != "" {
		line += ": " + res.Detail
	}
	return line
}

func displayPath(path string) string {
	if path == "" {
		return "<memory>"
	}
	return path
}
