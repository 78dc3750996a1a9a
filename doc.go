// Package wsicheck validates the JPEG tiles of whole-slide images without
// decoding them.
//
// A whole-slide image (Aperio SVS, pyramidal TIFF, BigTIFF) holds thousands
// of independently compressed tiles. wsicheck walks the container's Image
// File Directories to locate every tile, then checks each tile's bytes as a
// JPEG marker stream: SOI first, well-formed segment lengths, a frame and a
// scan header, and an EOI inside the declared byte range. Pixel data is
// never reconstructed, so a multi-gigabyte slide is checked in roughly the
// time it takes to read it.
//
// # Quick Start
//
// Validating a slide on disk:
//
//	report, err := wsicheck.ValidateFile("slide.svs")
//	if err != nil {
//		log.Fatal(err) // not a TIFF, cyclic IFD chain, ...
//	}
//
//	fmt.Printf("%d of %d tiles valid\n", report.ValidCount, report.TotalTiles)
//	for res := range report.Problems() {
//		fmt.Printf("tile %d: %s (%s)\n", res.TileIndex, res.Status, res.Detail)
//	}
//
// Validating bytes already in memory:
//
//	report, err := wsicheck.Validate(data)
//
// # Tile Statuses
//
//   - Valid: a complete marker stream ending in EOI
//   - Truncated: the stream runs past the declared byte count or has no EOI
//   - MalformedMarkerSequence: the marker chain breaks JPEG structure
//   - OffsetOutOfBounds: the tile's byte range lies outside the file
//   - UnsupportedCompression: the tile is not JPEG; reported, not judged
//
// # Error Handling
//
// wsicheck distinguishes between fatal errors and per-tile results:
//
//   - Fatal errors stop the run: *MalformedHeaderError,
//     *MalformedDirectoryError, *UnsupportedFormatError
//   - Tile problems never stop the run; they are results in the report
//   - Container issues that leave tiles reachable (a broken JPEGTables
//     stream, an unreadable trailing IFD) are Warnings
//
// Use errors.As to tell fatal errors apart:
//
//	var dirErr *wsicheck.MalformedDirectoryError
//	if errors.As(err, &dirErr) {
//		log.Printf("directory %d is corrupt: %s", dirErr.Directory, dirErr.Reason)
//	}
//
// # Performance
//
//   - Files are memory-mapped; tiles are validated in place without copies
//   - Tiles are checked in parallel by WithWorkers goroutines
//   - Each tile costs one linear scan bounded by its byte count
//   - ValidateMany checks many slides concurrently
package wsicheck
