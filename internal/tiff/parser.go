// Package tiff parses classic TIFF and BigTIFF containers, including Aperio
// SVS, into tile descriptors.
package tiff

import (
	"fmt"
	"math"
	"strings"

	"github.com/simonhull/wsicheck/internal/binary"
	"github.com/simonhull/wsicheck/internal/registry"
	"github.com/simonhull/wsicheck/internal/types"
)

// DefaultMaxDirectories bounds the IFD chain when ParseOptions does not.
const DefaultMaxDirectories = 4096

// Flavors reported on the layout.
const (
	FlavorTIFF = "tiff"
	FlavorSVS  = "svs"
)

// parser implements registry.ContainerParser for TIFF and BigTIFF.
type parser struct{}

func init() {
	registry.Register(types.FormatTIFF, &parser{})
	registry.Register(types.FormatBigTIFF, &parser{})
}

// Parse walks the IFD chain and assembles every tile descriptor.
//
// A bad header, a cyclic chain, an unreadable first directory and tile
// arrays that cannot be read or paired are fatal. A later directory that
// cannot be read ends the chain with a warning.
func (p *parser) Parse(v *binary.View, opts registry.ParseOptions) (*types.Layout, error) {
	h, err := ReadHeader(v)
	if err != nil {
		return nil, err
	}
	v = v.WithOrder(h.Order)

	layout := &types.Layout{
		Format:    h.Format,
		Flavor:    FlavorTIFF,
		ByteOrder: h.Order.String(),
	}

	limit := opts.MaxDirectories
	if limit <= 0 {
		limit = DefaultMaxDirectories
	}

	visited := make(map[uint64]int)
	off := h.FirstIFD
	for index := 0; off != 0; index++ {
		if prev, seen := visited[off]; seen {
			return nil, &types.MalformedDirectoryError{
				Path:      v.Path(),
				Reason:    fmt.Sprintf("next-IFD pointer loops back to directory %d", prev),
				Offset:    off,
				Directory: index,
			}
		}
		if index >= limit {
			layout.Warnings = append(layout.Warnings, types.Warning{
				Stage:     "directory",
				Message:   fmt.Sprintf("stopped after %d directories", limit),
				Offset:    off,
				Directory: index,
			})
			break
		}
		visited[off] = index

		dir, err := readDirectory(v, h, off, index)
		if err != nil {
			if index == 0 {
				return nil, &types.MalformedDirectoryError{
					Path:      v.Path(),
					Reason:    err.Error(),
					Offset:    off,
					Directory: index,
				}
			}
			layout.Warnings = append(layout.Warnings, types.Warning{
				Stage:     "directory",
				Message:   fmt.Sprintf("unreadable directory ends the chain: %v", err),
				Offset:    off,
				Directory: index,
			})
			break
		}

		if err := assemble(v, dir, layout); err != nil {
			return nil, &types.MalformedDirectoryError{
				Path:      v.Path(),
				Reason:    err.Error(),
				Offset:    off,
				Directory: index,
			}
		}

		if opts.FirstDirectoryOnly {
			break
		}
		off = dir.next
	}

	return layout, nil
}

// assemble turns one directory into a summary and tile descriptors.
func assemble(v *binary.View, dir *directory, layout *types.Layout) error {
	sum := types.DirectorySummary{
		Index:  dir.index,
		Offset: dir.offset,
	}

	code := uint64(compressionNone)
	if e, ok := dir.lookup(tagCompression); ok {
		c, err := e.scalar(v)
		if err != nil {
			return err
		}
		code = c
	}

	// Codes wider than a SHORT match no codec; Compression stays 0.
	var codec registry.TileValidator
	if code <= math.MaxUint16 {
		sum.Compression = uint16(code)
		sum.CompressionName = compressionName(sum.Compression)
		codec = registry.Codec(sum.Compression)
	} else {
		sum.CompressionName = fmt.Sprintf("unknown (%d)", code)
	}

	sum.Width = optional(v, dir, tagImageWidth, 0)
	sum.Height = optional(v, dir, tagImageLength, 0)

	if e, ok := dir.lookup(tagImageDescription); ok {
		if desc, err := e.text(v); err == nil {
			first, _, _ := strings.Cut(desc, "\n")
			sum.Description = strings.TrimSpace(first)
			if dir.index == 0 && strings.HasPrefix(desc, "Aperio") {
				layout.Flavor = FlavorSVS
			}
		}
	}

	offsets, counts, tiled, err := tileArrays(v, dir)
	if err != nil {
		return err
	}
	sum.Tiled = tiled
	sum.TileCount = len(offsets)
	if tiled {
		sum.TileWidth = optional(v, dir, tagTileWidth, 0)
		sum.TileHeight = optional(v, dir, tagTileLength, 0)
	}

	if want, ok := expectedTiles(v, dir, sum); ok && want != uint64(len(offsets)) {
		layout.Warnings = append(layout.Warnings, types.Warning{
			Stage:     "layout",
			Message:   fmt.Sprintf("image geometry implies %d tiles, directory lists %d", want, len(offsets)),
			Offset:    dir.offset,
			Directory: dir.index,
		})
	}

	checkTables(v, dir, codec, &sum, layout)

	size := v.Size()
	for i := range offsets {
		d := types.TileDescriptor{
			Index:           len(layout.Tiles),
			Directory:       dir.index,
			TileInDirectory: i,
			Offset:          offsets[i],
			ByteCount:       counts[i],
			Compression:     sum.Compression,
		}
		switch {
		case !v.Contains(d.Offset, d.ByteCount):
			d.Precheck = types.StatusOffsetOutOfBounds
			d.PrecheckDetail = fmt.Sprintf("%d bytes at offset %d exceed file size %d", d.ByteCount, d.Offset, size)
		case codec == nil:
			d.Precheck = types.StatusUnsupportedCompression
			d.PrecheckDetail = fmt.Sprintf("compression %d (%s) is not inspected", code, sum.CompressionName)
		}
		layout.Tiles = append(layout.Tiles, d)
	}

	layout.Directories = append(layout.Directories, sum)
	return nil
}

// tileArrays reads the offset and byte-count arrays, preferring tiles over
// strips. A directory with neither has no tiles.
func tileArrays(v *binary.View, dir *directory) (offsets, counts []uint64, tiled bool, err error) {
	offTag, countTag := uint16(tagTileOffsets), uint16(tagTileByteCounts)
	offEntry, ok := dir.lookup(offTag)
	if ok {
		tiled = true
	} else {
		offTag, countTag = tagStripOffsets, tagStripByteCounts
		if offEntry, ok = dir.lookup(offTag); !ok {
			return nil, nil, false, nil
		}
	}

	countEntry, ok := dir.lookup(countTag)
	if !ok {
		return nil, nil, false, fmt.Errorf("%s present without %s", tagName(offTag), tagName(countTag))
	}
	if offEntry.count != countEntry.count {
		return nil, nil, false, fmt.Errorf("%s has %d values but %s has %d",
			tagName(offTag), offEntry.count, tagName(countTag), countEntry.count)
	}

	if offsets, err = offEntry.values(v); err != nil {
		return nil, nil, false, err
	}
	if counts, err = countEntry.values(v); err != nil {
		return nil, nil, false, err
	}
	return offsets, counts, tiled, nil
}

// expectedTiles derives the tile (or strip) count from the image geometry.
// ok is false when the directory lacks the tags to do so.
func expectedTiles(v *binary.View, dir *directory, sum types.DirectorySummary) (uint64, bool) {
	if sum.Width == 0 || sum.Height == 0 {
		return 0, false
	}

	var n uint64
	if sum.Tiled {
		if sum.TileWidth == 0 || sum.TileHeight == 0 {
			return 0, false
		}
		n = ceilDiv(sum.Width, sum.TileWidth) * ceilDiv(sum.Height, sum.TileHeight)
	} else {
		rows := optional(v, dir, tagRowsPerStrip, 1<<32-1)
		if rows == 0 {
			return 0, false
		}
		n = ceilDiv(sum.Height, rows)
	}

	if optional(v, dir, tagPlanarConfiguration, 1) == 2 {
		n *= optional(v, dir, tagSamplesPerPixel, 1)
	}
	return n, true
}

// checkTables locates JPEGTables and, when the codec understands table
// streams, checks it. Problems are warnings: tiles may still decode with
// their own tables.
func checkTables(v *binary.View, dir *directory, codec registry.TileValidator, sum *types.DirectorySummary, layout *types.Layout) {
	e, ok := dir.lookup(tagJPEGTables)
	if !ok {
		return
	}
	sum.TablesOffset = e.offset
	sum.TablesLength = e.length

	tv, ok := codec.(registry.TablesValidator)
	if !ok {
		return
	}

	data, err := e.data(v)
	if err == nil {
		err = tv.ValidateTables(data)
	}
	if err != nil {
		sum.TablesError = err.Error()
		layout.Warnings = append(layout.Warnings, types.Warning{
			Stage:     "tables",
			Message:   fmt.Sprintf("JPEGTables: %v", err),
			Offset:    e.offset,
			Directory: dir.index,
		})
	}
}

// optional reads a single-valued tag, returning def when it is absent or
// unreadable.
func optional(v *binary.View, dir *directory, tag uint16, def uint64) uint64 {
	e, ok := dir.lookup(tag)
	if !ok {
		return def
	}
	val, err := e.scalar(v)
	if err != nil {
		return def
	}
	return val
}

func compressionName(code uint16) string {
	if name := registry.CodecName(code); name != "" {
		return name
	}
	if name, ok := compressionNames[code]; ok {
		return name
	}
	return fmt.Sprintf("unknown (%d)", code)
}

func ceilDiv(a, b uint64) uint64 {
	return (a + b - 1) / b
}
