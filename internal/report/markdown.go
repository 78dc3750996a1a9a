package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/simonhull/wsicheck/internal/slidemeta"
	"github.com/simonhull/wsicheck/internal/types"
)

// markdownMaxProblems caps the problem table so a badly damaged slide
// does not produce a document with millions of rows.
const markdownMaxProblems = 200

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for attaching to tickets and sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(r *types.Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Slide Validation: " + displayPath(r.Path))
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Container", r.Format.String()},
			{"Flavor", r.Flavor},
			{"Byte Order", r.ByteOrder},
			{"File Size", strconv.FormatUint(r.Size, 10)},
			{"Directories", strconv.Itoa(len(r.Directories))},
			{"Tiles", strconv.Itoa(r.TotalTiles)},
			{"Elapsed", r.Elapsed.String()},
			{"Verdict", verdict(r)},
		},
	})
	md.PlainText("")

	w.writeStatuses(md, r)
	w.writeAlert(md, r)
	w.writeDirectories(md, r.Directories)
	w.writeWarnings(md, r.Warnings)
	w.writeProblems(md, r)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteFailure outputs a failed run in Markdown format.
func (w *MarkdownWriter) WriteFailure(path string, err error) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Slide Validation: " + displayPath(path))
	md.PlainText("")
	md.Cautionf("Validation failed: %v", err)
	md.PlainText("")
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteLayout outputs the container structure in Markdown format.
func (w *MarkdownWriter) WriteLayout(path string, layout *types.Layout, tags []slidemeta.Tag) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Slide Layout: " + displayPath(path))
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Container", layout.Format.String()},
			{"Flavor", layout.Flavor},
			{"Byte Order", layout.ByteOrder},
			{"Tiles", strconv.Itoa(len(layout.Tiles))},
		},
	})
	md.PlainText("")

	w.writeDirectories(md, layout.Directories)

	if len(tags) > 0 {
		md.H2("Descriptive Tags")
		md.PlainText("")
		rows := make([][]string, 0, len(tags))
		for _, tag := range tags {
			rows = append(rows, []string{tag.Name, tag.Value})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Tag", "Value"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	w.writeWarnings(md, layout.Warnings)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeStatuses writes the per-status table and pie chart.
func (w *MarkdownWriter) writeStatuses(md *markdown.Markdown, r *types.Report) {
	md.H2("Tile Statuses")
	md.PlainText("")

	counts := r.Counts()
	rows := make([][]string, 0, len(types.Statuses)+1)
	for _, s := range types.Statuses {
		rows = append(rows, []string{s.String(), strconv.Itoa(counts[s])})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(r.TotalTiles) + "**"})
	md.Table(markdown.TableSet{
		Header: []string{"Status", "Tiles"},
		Rows:   rows,
	})
	md.PlainText("")

	if r.TotalTiles == 0 {
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Tile Status Distribution"),
		piechart.WithShowData(true),
	)
	for _, s := range types.Statuses {
		if counts[s] > 0 {
			chart.LabelAndIntValue(s.String(), uint64(counts[s]))
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert matching the verdict.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, r *types.Report) {
	switch {
	case r.InvalidCount() > 0:
		md.Cautionf("%d of %d tiles failed structural validation.", r.InvalidCount(), r.TotalTiles)
	case len(r.Warnings) > 0:
		md.Warningf("All tiles passed but the container produced %d warning(s).", len(r.Warnings))
	case r.SkippedCount > 0:
		md.Note(strconv.Itoa(r.SkippedCount) + " tiles use a compression that is not inspected.")
	default:
		md.Tip("Every tile is a structurally complete JPEG stream.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeDirectories(md *markdown.Markdown, dirs []types.DirectorySummary) {
	md.H2("Directories")
	md.PlainText("")

	if len(dirs) == 0 {
		md.PlainText("No directories.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(dirs))
	for _, d := range dirs {
		tile := "strips"
		if d.Tiled {
			tile = strconv.FormatUint(d.TileWidth, 10) + "x" + strconv.FormatUint(d.TileHeight, 10)
		}
		tables := "-"
		if d.HasTables() {
			tables = strconv.FormatUint(d.TablesLength, 10)
			if d.TablesError != "" {
				tables += " (broken)"
			}
		}
		rows = append(rows, []string{
			strconv.Itoa(d.Index),
			strconv.FormatUint(d.Width, 10) + "x" + strconv.FormatUint(d.Height, 10),
			tile,
			strconv.Itoa(d.TileCount),
			d.CompressionName,
			tables,
			truncateString(d.Description, 60),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"IFD", "Size", "Tile", "Count", "Compression", "Tables", "Description"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeWarnings(md *markdown.Markdown, warnings []types.Warning) {
	if len(warnings) == 0 {
		return
	}

	md.H2("Warnings")
	md.PlainText("")
	items := make([]string, 0, len(warnings))
	for _, warn := range warnings {
		items = append(items, warn.String())
	}
	md.BulletList(items...)
	md.PlainText("")
}

// writeProblems writes a table of tiles that need attention.
func (w *MarkdownWriter) writeProblems(md *markdown.Markdown, r *types.Report) {
	md.H2("Problem Tiles")
	md.PlainText("")

	rows := [][]string{}
	total := 0
	for res := range r.Problems() {
		total++
		if len(rows) == markdownMaxProblems {
			continue
		}
		rows = append(rows, []string{
			strconv.Itoa(res.TileIndex),
			strconv.Itoa(res.Directory),
			strconv.FormatUint(res.Offset, 10),
			strconv.FormatUint(res.ByteCount, 10),
			res.Status.String(),
			truncateString(res.Detail, 80),
		})
	}

	if total == 0 {
		md.PlainText("No problem tiles.")
		md.PlainText("")
		return
	}

	md.Table(markdown.TableSet{
		Header: []string{"Tile", "IFD", "Offset", "Bytes", "Status", "Detail"},
		Rows:   rows,
	})
	md.PlainText("")
	if total > len(rows) {
		md.PlainTextf("%d more problem tiles not shown.", total-len(rows))
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("*Generated by wsicheck*")
}
