package tifftest

import (
	"cmp"
	"slices"

	"github.com/simonhull/wsicheck/internal/binary"
)

// TIFF field types used by the builder.
const (
	TypeByte      = 1
	TypeASCII     = 2
	TypeShort     = 3
	TypeLong      = 4
	TypeUndefined = 7
	TypeLong8     = 16
)

// Tags the builder generates.
const (
	TagImageWidth       = 256
	TagImageLength      = 257
	TagCompression      = 259
	TagImageDescription = 270
	TagStripOffsets     = 273
	TagRowsPerStrip     = 278
	TagStripByteCounts  = 279
	TagTileWidth        = 322
	TagTileLength       = 323
	TagTileOffsets      = 324
	TagTileByteCounts   = 325
	TagJPEGTables       = 347
)

// Entry is a raw directory entry. Numeric values go in Values, byte-typed
// values in Raw. Count defaults to the number of values.
type Entry struct {
	Tag    uint16
	Type   uint16
	Count  uint64
	Values []uint64
	Raw    []byte
}

// Tile is one tile or strip. Data is written into the file; Offset, when
// non-zero, places it at that absolute position. DeclaredOffset and
// DeclaredCount override what the directory records.
type Tile struct {
	Data           []byte
	Offset         uint64
	DeclaredOffset *uint64
	DeclaredCount  *uint64
}

// Directory describes one IFD.
type Directory struct {
	Tiles       []Tile
	Compression uint16 // 0 omits the tag
	Strips      bool
	Width       uint32
	Height      uint32
	TileWidth   uint32
	TileHeight  uint32
	Description string
	JPEGTables  []byte

	// Extra entries replace generated entries with the same tag.
	Extra []Entry
	// Drop removes generated entries.
	Drop []uint16
}

// File describes a whole container.
type File struct {
	Order       binary.Endianness
	BigTIFF     bool
	Directories []Directory

	// CycleTo, when non-nil, makes the last directory's next pointer refer
	// to the directory with that index.
	CycleTo *int
	// LastNext, when non-nil, is written as the last directory's next
	// pointer.
	LastNext *uint64
	// FirstIFD overrides the header's first-directory offset.
	FirstIFD *uint64
	// Trailer is appended after the last directory.
	Trailer []byte
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

// JPEGTiles wraps each stream in a Tile.
func JPEGTiles(streams ...[]byte) []Tile {
	tiles := make([]Tile, len(streams))
	for i, s := range streams {
		tiles[i] = Tile{Data: s}
	}
	return tiles
}

// Build lays the file out as header, tile data, then the directory chain.
func (f File) Build() []byte {
	w := binary.NewWriter(f.Order)
	if f.Order == binary.LittleEndian {
		w.WriteString("II")
	} else {
		w.WriteString("MM")
	}

	var firstPtr uint64
	if f.BigTIFF {
		binary.Write(w, uint16(43))
		binary.Write(w, uint16(8))
		binary.Write(w, uint16(0))
		firstPtr = w.Offset()
		binary.Write(w, uint64(0))
	} else {
		binary.Write(w, uint16(42))
		firstPtr = w.Offset()
		binary.Write(w, uint32(0))
	}

	offsets := make([][]uint64, len(f.Directories))
	for d, dir := range f.Directories {
		offsets[d] = make([]uint64, len(dir.Tiles))
		for t, tile := range dir.Tiles {
			if tile.Offset != 0 {
				must(w.PadTo(tile.Offset))
			}
			offsets[d][t] = w.Offset()
			w.WriteBytes(tile.Data)
		}
	}

	ifdStarts := make([]uint64, len(f.Directories))
	nextPtrs := make([]uint64, len(f.Directories))
	for d, dir := range f.Directories {
		if w.Offset()%2 == 1 {
			w.Pad(1)
		}
		ifdStarts[d] = w.Offset()
		nextPtrs[d] = f.writeIFD(w, dir.entries(offsets[d], f.BigTIFF))
	}
	w.WriteBytes(f.Trailer)

	for d := range f.Directories {
		var next uint64
		switch {
		case d+1 < len(f.Directories):
			next = ifdStarts[d+1]
		case f.CycleTo != nil:
			next = ifdStarts[*f.CycleTo]
		case f.LastNext != nil:
			next = *f.LastNext
		}
		f.patchOffset(w, nextPtrs[d], next)
	}

	switch {
	case f.FirstIFD != nil:
		f.patchOffset(w, firstPtr, *f.FirstIFD)
	case len(f.Directories) > 0:
		f.patchOffset(w, firstPtr, ifdStarts[0])
	}
	return w.Bytes()
}

func (f File) patchOffset(w *binary.Writer, at, val uint64) {
	if f.BigTIFF {
		must(binary.Patch(w, at, val))
		return
	}
	must(binary.Patch(w, at, uint32(val)))
}

// writeIFD writes entries with their out-of-line values directly after
// the next-directory pointer and returns the pointer's position.
func (f File) writeIFD(w *binary.Writer, entries []Entry) uint64 {
	inline := 4
	countSize, entrySize, ptrSize := uint64(2), uint64(12), uint64(4)
	if f.BigTIFF {
		inline = 8
		countSize, entrySize, ptrSize = 8, 20, 8
	}

	start := w.Offset()
	nextPtr := start + countSize + uint64(len(entries))*entrySize
	extra := nextPtr + ptrSize

	encoded := make([][]byte, len(entries))
	for i, e := range entries {
		encoded[i] = e.encode(f.Order)
	}

	if f.BigTIFF {
		binary.Write(w, uint64(len(entries)))
	} else {
		binary.Write(w, uint16(len(entries)))
	}

	var outOfLine []byte
	for i, e := range entries {
		binary.Write(w, e.Tag)
		binary.Write(w, e.Type)
		count := e.count()
		if f.BigTIFF {
			binary.Write(w, count)
		} else {
			binary.Write(w, uint32(count))
		}

		val := encoded[i]
		if len(val) <= inline {
			w.WriteBytes(val)
			w.Pad(inline - len(val))
			continue
		}
		at := extra + uint64(len(outOfLine))
		if f.BigTIFF {
			binary.Write(w, at)
		} else {
			binary.Write(w, uint32(at))
		}
		outOfLine = append(outOfLine, val...)
		if len(outOfLine)%2 == 1 {
			outOfLine = append(outOfLine, 0)
		}
	}

	if f.BigTIFF {
		binary.Write(w, uint64(0))
	} else {
		binary.Write(w, uint32(0))
	}
	w.WriteBytes(outOfLine)
	return nextPtr
}

func (e Entry) count() uint64 {
	switch {
	case e.Count != 0:
		return e.Count
	case e.Raw != nil:
		return uint64(len(e.Raw))
	default:
		return uint64(len(e.Values))
	}
}

func (e Entry) encode(order binary.Endianness) []byte {
	if e.Raw != nil {
		return e.Raw
	}
	w := binary.NewWriter(order)
	for _, v := range e.Values {
		switch e.Type {
		case TypeByte, TypeUndefined, TypeASCII:
			binary.Write(w, uint8(v))
		case TypeShort:
			binary.Write(w, uint16(v))
		case TypeLong8:
			binary.Write(w, v)
		default:
			binary.Write(w, uint32(v))
		}
	}
	return w.Bytes()
}

func (d Directory) entries(written []uint64, big bool) []Entry {
	offType := uint16(TypeLong)
	if big {
		offType = TypeLong8
	}

	var entries []Entry
	add := func(e Entry) { entries = append(entries, e) }

	if d.Width > 0 {
		add(Entry{Tag: TagImageWidth, Type: TypeLong, Values: []uint64{uint64(d.Width)}})
	}
	if d.Height > 0 {
		add(Entry{Tag: TagImageLength, Type: TypeLong, Values: []uint64{uint64(d.Height)}})
	}
	if d.Compression != 0 {
		add(Entry{Tag: TagCompression, Type: TypeShort, Values: []uint64{uint64(d.Compression)}})
	}
	if d.Description != "" {
		add(Entry{Tag: TagImageDescription, Type: TypeASCII, Raw: append([]byte(d.Description), 0)})
	}

	if len(d.Tiles) > 0 {
		offs := make([]uint64, len(d.Tiles))
		counts := make([]uint64, len(d.Tiles))
		for i, t := range d.Tiles {
			offs[i] = written[i]
			if t.DeclaredOffset != nil {
				offs[i] = *t.DeclaredOffset
			}
			counts[i] = uint64(len(t.Data))
			if t.DeclaredCount != nil {
				counts[i] = *t.DeclaredCount
			}
		}
		if d.Strips {
			add(Entry{Tag: TagStripOffsets, Type: offType, Values: offs})
			add(Entry{Tag: TagStripByteCounts, Type: offType, Values: counts})
			if d.Height > 0 {
				rows := (uint64(d.Height) + uint64(len(d.Tiles)) - 1) / uint64(len(d.Tiles))
				add(Entry{Tag: TagRowsPerStrip, Type: TypeLong, Values: []uint64{rows}})
			}
		} else {
			if d.TileWidth > 0 {
				add(Entry{Tag: TagTileWidth, Type: TypeLong, Values: []uint64{uint64(d.TileWidth)}})
			}
			if d.TileHeight > 0 {
				add(Entry{Tag: TagTileLength, Type: TypeLong, Values: []uint64{uint64(d.TileHeight)}})
			}
			add(Entry{Tag: TagTileOffsets, Type: offType, Values: offs})
			add(Entry{Tag: TagTileByteCounts, Type: offType, Values: counts})
		}
	}
	if d.JPEGTables != nil {
		add(Entry{Tag: TagJPEGTables, Type: TypeUndefined, Raw: d.JPEGTables})
	}

	entries = slices.DeleteFunc(entries, func(e Entry) bool {
		if slices.Contains(d.Drop, e.Tag) {
			return true
		}
		return slices.ContainsFunc(d.Extra, func(x Entry) bool { return x.Tag == e.Tag })
	})
	entries = append(entries, d.Extra...)
	slices.SortStableFunc(entries, func(a, b Entry) int { return cmp.Compare(a.Tag, b.Tag) })
	return entries
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
