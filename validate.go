package wsicheck

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/simonhull/wsicheck/internal/binary"
	"github.com/simonhull/wsicheck/internal/mmap"
	"github.com/simonhull/wsicheck/internal/registry"
	"github.com/simonhull/wsicheck/internal/tiff"
	"github.com/simonhull/wsicheck/internal/types"

	// Tile codecs register themselves.
	_ "github.com/simonhull/wsicheck/internal/jpeg"
)

// tilesPerTask is how many consecutive tiles one worker task validates.
// Neighbouring tiles share pages, so batching keeps each worker on a
// contiguous stretch of the file.
const tilesPerTask = 64

// Validate checks every tile of the TIFF/SVS image held in data.
//
// Validate is synchronous and never modifies data. Container-level
// corruption (bad header, cyclic IFD chain, unreadable tile arrays) fails
// the run with a typed error; every per-tile problem is recorded in the
// report instead.
//
// Example:
//
//	report, err := wsicheck.Validate(data)
//	if err != nil {
//		return err
//	}
//	fmt.Printf("%d/%d tiles valid\n", report.ValidCount, report.TotalTiles)
func Validate(data []byte, opts ...Option) (*Report, error) {
	return ValidateContext(context.Background(), data, opts...)
}

// ValidateContext is Validate with cancellation. Tile workers stop
// picking up work once ctx is done and ctx.Err() is returned.
func ValidateContext(ctx context.Context, data []byte, opts ...Option) (*Report, error) {
	return validate(ctx, data, "", applyOptions(opts))
}

// ValidateFile memory-maps the file at path and validates it.
//
// The mapping is released before ValidateFile returns; the report holds
// no references into it.
//
// Example:
//
//	report, err := wsicheck.ValidateFile("slide.svs", wsicheck.WithWorkers(8))
//	if err != nil {
//		return err
//	}
//	for res := range report.Problems() {
//		fmt.Printf("tile %d (ifd %d): %s %s\n", res.TileIndex, res.Directory, res.Status, res.Detail)
//	}
func ValidateFile(path string, opts ...Option) (*Report, error) {
	return ValidateFileContext(context.Background(), path, opts...)
}

// ValidateFileContext is ValidateFile with cancellation.
func ValidateFileContext(ctx context.Context, path string, opts ...Option) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return validate(ctx, f.Bytes(), path, applyOptions(opts))
}

// Result is the outcome for one file of a batch.
type Result struct {
	Path   string
	Report *Report
	Err    error
}

// ValidateMany validates files concurrently, one file per goroutine up to
// runtime.NumCPU(). Results are returned in the same order as paths.
//
// A file that fails to validate does not stop the batch; its error is
// stored in its Result. Only cancellation of ctx fails the whole call.
//
// Example:
//
//	results, err := wsicheck.ValidateMany(ctx, paths, wsicheck.WithFirstDirectoryOnly())
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, r := range results {
//		if r.Err != nil || !r.Report.OK() {
//			fmt.Println("needs attention:", r.Path)
//		}
//	}
func ValidateMany(ctx context.Context, paths []string, opts ...Option) ([]Result, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]Result, len(paths))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			report, err := ValidateFileContext(ctx, path, opts...)
			if err != nil && ctx.Err() != nil {
				return ctx.Err()
			}
			results[i] = Result{Path: path, Report: report, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Inspect parses the container structure without validating tiles.
func Inspect(data []byte, opts ...Option) (*Layout, error) {
	options := applyOptions(opts)
	_, layout, err := parse(data, "", options)
	if err != nil {
		return nil, err
	}
	if err := applyWarningPolicy(layout, options); err != nil {
		return nil, err
	}
	return layout, nil
}

// InspectFile memory-maps the file at path and parses its structure.
func InspectFile(path string, opts ...Option) (*Layout, error) {
	f, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	options := applyOptions(opts)
	_, layout, err := parse(f.Bytes(), path, options)
	if err != nil {
		return nil, err
	}
	if err := applyWarningPolicy(layout, options); err != nil {
		return nil, err
	}
	return layout, nil
}

func validate(ctx context.Context, data []byte, path string, options *validateOptions) (*Report, error) {
	start := time.Now()

	v, layout, err := parse(data, path, options)
	if err != nil {
		return nil, err
	}
	if err := applyWarningPolicy(layout, options); err != nil {
		return nil, err
	}

	results, err := validateTiles(ctx, v, layout.Tiles, options.workers)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Path:        path,
		Format:      layout.Format,
		Flavor:      layout.Flavor,
		ByteOrder:   layout.ByteOrder,
		Size:        v.Size(),
		TotalTiles:  len(results),
		Results:     results,
		Directories: layout.Directories,
		Warnings:    layout.Warnings,
	}
	for _, res := range results {
		switch res.Status {
		case types.StatusValid:
			report.ValidCount++
		case types.StatusUnsupportedCompression:
			report.SkippedCount++
		}
	}
	report.Elapsed = time.Since(start)

	options.logger.Info("validated",
		"path", path,
		"format", report.Format,
		"tiles", report.TotalTiles,
		"valid", report.ValidCount,
		"skipped", report.SkippedCount,
		"invalid", report.InvalidCount(),
		"warnings", len(report.Warnings),
		"elapsed", report.Elapsed,
	)
	return report, nil
}

// parse detects the format and walks the container. The returned view is
// the one tile workers must read through.
func parse(data []byte, path string, options *validateOptions) (*binary.View, *Layout, error) {
	v := binary.NewView(data, binary.LittleEndian, path)
	if options.readHook != nil {
		v = v.WithHook(options.readHook)
	}

	var (
		layout *Layout
		err    error
	)
	fault := mmap.Guard(func() {
		var format Format
		format, err = tiff.DetectFormat(v)
		if err != nil {
			return
		}

		parser := registry.Get(format)
		if parser == nil {
			err = &UnsupportedFormatError{
				Path:   path,
				Reason: fmt.Sprintf("no parser available for format %s", format),
			}
			return
		}

		layout, err = parser.Parse(v, registry.ParseOptions{
			FirstDirectoryOnly: options.firstDirectoryOnly,
			MaxDirectories:     options.maxDirectories,
		})
		if err != nil {
			err = fmt.Errorf("parse %s: %w", format, err)
		}
	})
	if fault != nil {
		return nil, nil, fmt.Errorf("parse container: %w", fault)
	}
	if err != nil {
		return nil, nil, err
	}

	for _, d := range layout.Directories {
		options.logger.Debug("directory",
			"path", path,
			"ifd", d.Index,
			"offset", d.Offset,
			"tiled", d.Tiled,
			"tiles", d.TileCount,
			"compression", d.CompressionName,
		)
	}
	for _, w := range layout.Warnings {
		options.logger.Warn("container warning", "path", path, "warning", w.String())
	}
	return v, layout, nil
}

func applyWarningPolicy(layout *Layout, options *validateOptions) error {
	if options.strictParsing && len(layout.Warnings) > 0 {
		return fmt.Errorf("strict parsing failed: %s", layout.Warnings[0])
	}
	if options.ignoreWarnings {
		layout.Warnings = nil
	}
	return nil
}

// validateTiles fans the descriptors out to a bounded worker pool. Each
// result is stored at its tile index, so the output order never depends
// on scheduling.
func validateTiles(ctx context.Context, v *binary.View, tiles []TileDescriptor, workers int) ([]TileValidationResult, error) {
	results := make([]TileValidationResult, len(tiles))
	if len(tiles) == 0 {
		return results, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	for lo := 0; lo < len(tiles); lo += tilesPerTask {
		hi := min(lo+tilesPerTask, len(tiles))
		g.Go(func() error {
			var cancelled error
			fault := mmap.Guard(func() {
				for i := lo; i < hi; i++ {
					if err := ctx.Err(); err != nil {
						cancelled = err
						return
					}
					results[i] = checkTile(v, tiles[i])
				}
			})
			if fault != nil {
				return fmt.Errorf("validate tiles %d-%d: %w", lo, hi-1, fault)
			}
			return cancelled
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// checkTile resolves one descriptor to a result.
func checkTile(v *binary.View, d TileDescriptor) TileValidationResult {
	if d.Precheck != types.StatusPending {
		return types.ResultFor(d, d.Precheck, d.PrecheckDetail)
	}

	codec := registry.Codec(d.Compression)
	if codec == nil {
		return types.ResultFor(d, types.StatusUnsupportedCompression,
			fmt.Sprintf("compression %d is not inspected", d.Compression))
	}

	data, err := v.Slice(d.Offset, d.ByteCount, "tile data")
	if err != nil {
		return types.ResultFor(d, types.StatusOffsetOutOfBounds, err.Error())
	}

	status, detail := codec.ValidateTile(data)
	return types.ResultFor(d, status, detail)
}
