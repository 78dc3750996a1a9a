package types

import (
	"iter"
	"time"
)

// DirectorySummary describes one Image File Directory.
type DirectorySummary struct {
	Index  int    `json:"index"`
	Offset uint64 `json:"offset"`

	Width  uint64 `json:"width,omitempty"`
	Height uint64 `json:"height,omitempty"`

	// TileWidth and TileHeight are zero for stripped directories.
	TileWidth  uint64 `json:"tile_width,omitempty"`
	TileHeight uint64 `json:"tile_height,omitempty"`
	Tiled      bool   `json:"tiled"`

	Compression     uint16 `json:"compression"`
	CompressionName string `json:"compression_name"`

	// TileCount is the number of tiles (or strips) in the directory.
	TileCount int `json:"tile_count"`

	// Description is the first line of ImageDescription, if any.
	Description string `json:"description,omitempty"`

	// TablesOffset/TablesLength locate the JPEGTables stream, if present.
	TablesOffset uint64 `json:"tables_offset,omitempty"`
	TablesLength uint64 `json:"tables_length,omitempty"`

	// TablesError is set when the JPEGTables stream failed its check.
	TablesError string `json:"tables_error,omitempty"`
}

// HasTables reports whether the directory carries a JPEGTables stream.
func (d DirectorySummary) HasTables() bool {
	return d.TablesLength > 0
}

// Layout is what the container parser produces: every directory and every
// tile descriptor, in file order.
type Layout struct {
	Format      Format
	Flavor      string
	ByteOrder   string
	Directories []DirectorySummary
	Tiles       []TileDescriptor
	Warnings    []Warning
}

// Report is the aggregate outcome of validating one file.
type Report struct {
	Path      string `json:"path,omitempty"`
	Format    Format `json:"-"`
	Flavor    string `json:"flavor"`
	ByteOrder string `json:"byte_order"`
	Size      uint64 `json:"size"`

	TotalTiles   int `json:"total_tiles"`
	ValidCount   int `json:"valid_count"`
	SkippedCount int `json:"skipped_count"`

	// Results holds one entry per tile in ascending tile-index order.
	Results []TileValidationResult `json:"results"`

	Directories []DirectorySummary `json:"directories"`
	Warnings    []Warning          `json:"warnings,omitempty"`

	Elapsed time.Duration `json:"-"`
}

// InvalidCount returns the number of tiles that need attention.
func (r *Report) InvalidCount() int {
	return r.TotalTiles - r.ValidCount - r.SkippedCount
}

// OK reports whether every inspected tile is valid and the container
// produced no warnings.
func (r *Report) OK() bool {
	return r.InvalidCount() == 0 && len(r.Warnings) == 0
}

// Counts returns the number of tiles per status.
func (r *Report) Counts() map[Status]int {
	counts := make(map[Status]int, len(Statuses))
	for _, res := range r.Results {
		counts[res.Status]++
	}
	return counts
}

// Problems iterates over results whose status needs attention.
//
// Example:
//
//	for res := range report.Problems() {
//		fmt.Printf("tile %d: %s\n", res.TileIndex, res.Status)
//	}
func (r *Report) Problems() iter.Seq[TileValidationResult] {
	return func(yield func(TileValidationResult) bool) {
		for _, res := range r.Results {
			if !res.Status.Problem() {
				continue
			}
			if !yield(res) {
				return
			}
		}
	}
}
