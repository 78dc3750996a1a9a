package tiff

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/simonhull/wsicheck/internal/binary"
)

// maxDumpValues bounds how many values of an array are rendered.
const maxDumpValues = 8

// DumpEntry is one directory entry as stored in the file.
type DumpEntry struct {
	Tag   uint16
	Name  string
	Type  string
	Count uint64

	// Inline is set when the value sits inside the entry itself. Offset is
	// then the position of the value field.
	Inline bool
	Offset uint64

	// Value is a short rendering of the value, or the reason it could not
	// be read.
	Value string
}

// DumpDirectory is one IFD with its raw entries sorted by tag.
type DumpDirectory struct {
	Index   int
	Offset  uint64
	Next    uint64
	Entries []DumpEntry
}

// Dump walks the IFD chain without interpreting it and returns every entry
// of every directory. It stops at the first directory it cannot read, or
// at a loop, and returns what it read so far with the error. A limit <= 0
// means DefaultMaxDirectories.
func Dump(v *binary.View, limit int) (Header, []DumpDirectory, error) {
	h, err := ReadHeader(v)
	if err != nil {
		return Header{}, nil, err
	}
	v = v.WithOrder(h.Order)

	if limit <= 0 {
		limit = DefaultMaxDirectories
	}

	var dirs []DumpDirectory
	visited := make(map[uint64]int)
	off := h.FirstIFD
	for index := 0; off != 0 && index < limit; index++ {
		if prev, seen := visited[off]; seen {
			return h, dirs, fmt.Errorf("directory %d at offset %d loops back to directory %d", index, off, prev)
		}
		visited[off] = index

		dir, err := readDirectory(v, h, off, index)
		if err != nil {
			return h, dirs, fmt.Errorf("directory %d at offset %d: %w", index, off, err)
		}

		dump := DumpDirectory{
			Index:   index,
			Offset:  off,
			Next:    dir.next,
			Entries: make([]DumpEntry, 0, len(dir.entries)),
		}
		for _, e := range dir.entries {
			dump.Entries = append(dump.Entries, DumpEntry{
				Tag:    e.tag,
				Name:   tagName(e.tag),
				Type:   typeName(e.typ),
				Count:  e.count,
				Inline: e.inline != nil,
				Offset: e.offset,
				Value:  renderValue(v, e),
			})
		}
		slices.SortFunc(dump.Entries, func(a, b DumpEntry) int {
			return int(a.Tag) - int(b.Tag)
		})
		dirs = append(dirs, dump)

		off = dir.next
	}
	return h, dirs, nil
}

func renderValue(v *binary.View, e entry) string {
	switch {
	case e.typ == typeASCII:
		s, err := e.text(v)
		if err != nil {
			return "<" + err.Error() + ">"
		}
		s, _, _ = strings.Cut(s, "\n")
		if len(s) > 60 {
			s = s[:57] + "..."
		}
		return strconv.Quote(s)

	case isUnsigned(e.typ):
		shown := e
		if e.count > maxDumpValues {
			shown.count = maxDumpValues
			shown.length = maxDumpValues * e.width
		}
		vals, err := shown.values(v)
		if err != nil {
			return "<" + err.Error() + ">"
		}
		parts := make([]string, len(vals))
		for i, val := range vals {
			parts[i] = strconv.FormatUint(val, 10)
		}
		out := strings.Join(parts, " ")
		if e.count > maxDumpValues {
			out += fmt.Sprintf(" ... (%d values)", e.count)
		}
		return out

	default:
		if e.width == 0 {
			return "<unknown type>"
		}
		return fmt.Sprintf("<%d bytes>", e.length)
	}
}
