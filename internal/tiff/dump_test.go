package tiff

import (
	"strings"
	"testing"

	"github.com/simonhull/wsicheck/internal/binary"
	"github.com/simonhull/wsicheck/internal/tifftest"
)

func TestDump(t *testing.T) {
	for _, big := range []bool{false, true} {
		data := tifftest.File{
			Order:   binary.BigEndian,
			BigTIFF: big,
			Directories: []tifftest.Directory{
				{Compression: 7, Tiles: jpegTiles(10), Description: "Aperio Image Library\nline two"},
				{Compression: 7, Tiles: jpegTiles(1), Strips: true},
			},
		}.Build()

		h, dirs, err := Dump(binary.NewView(data, binary.LittleEndian, "dump.tif"), 0)
		if err != nil {
			t.Fatalf("bigTIFF=%v: Dump() error = %v", big, err)
		}
		if h.Order != binary.BigEndian {
			t.Errorf("bigTIFF=%v: order = %v", big, h.Order)
		}
		if len(dirs) != 2 {
			t.Fatalf("bigTIFF=%v: got %d directories, want 2", big, len(dirs))
		}
		if dirs[0].Next != dirs[1].Offset || dirs[1].Next != 0 {
			t.Errorf("bigTIFF=%v: chain %d->%d, next %d", big, dirs[0].Offset, dirs[0].Next, dirs[1].Next)
		}

		byName := map[string]DumpEntry{}
		for i, e := range dirs[0].Entries {
			if i > 0 && dirs[0].Entries[i-1].Tag >= e.Tag {
				t.Errorf("bigTIFF=%v: entries not sorted at %d", big, i)
			}
			byName[e.Name] = e
		}

		if got := byName["Compression"]; got.Value != "7" || !got.Inline || got.Type != "SHORT" {
			t.Errorf("bigTIFF=%v: Compression = %+v", big, got)
		}
		if got := byName["ImageDescription"].Value; got != `"Aperio Image Library"` {
			t.Errorf("bigTIFF=%v: ImageDescription = %s", big, got)
		}
		offsets := byName["TileOffsets"]
		if offsets.Count != 10 || offsets.Inline || !strings.HasSuffix(offsets.Value, "... (10 values)") {
			t.Errorf("bigTIFF=%v: TileOffsets = %+v", big, offsets)
		}
		if got := len(strings.Fields(strings.TrimSuffix(offsets.Value, " ... (10 values)"))); got != maxDumpValues {
			t.Errorf("bigTIFF=%v: rendered %d offsets, want %d", big, got, maxDumpValues)
		}

		found := false
		for _, e := range dirs[1].Entries {
			found = found || e.Name == "StripOffsets"
		}
		if !found {
			t.Errorf("bigTIFF=%v: strip directory has no StripOffsets entry", big)
		}
	}
}

func TestDump_Errors(t *testing.T) {
	t.Run("loop", func(t *testing.T) {
		data := tifftest.File{
			Order:       binary.LittleEndian,
			Directories: []tifftest.Directory{{Compression: 7, Tiles: jpegTiles(1)}, {Compression: 7, Tiles: jpegTiles(1)}},
			CycleTo:     tifftest.Ptr(0),
		}.Build()

		_, dirs, err := Dump(binary.NewView(data, binary.LittleEndian, ""), 0)
		if err == nil || !strings.Contains(err.Error(), "loops back to directory 0") {
			t.Fatalf("Dump() error = %v", err)
		}
		if len(dirs) != 2 {
			t.Errorf("got %d directories before the loop, want 2", len(dirs))
		}
	})

	t.Run("limit", func(t *testing.T) {
		data := tifftest.File{
			Order:       binary.LittleEndian,
			Directories: []tifftest.Directory{{Compression: 7, Tiles: jpegTiles(1)}, {Compression: 7, Tiles: jpegTiles(1)}},
		}.Build()

		_, dirs, err := Dump(binary.NewView(data, binary.LittleEndian, ""), 1)
		if err != nil || len(dirs) != 1 {
			t.Errorf("Dump(limit 1) = %d dirs, %v", len(dirs), err)
		}
	})

	t.Run("bad header", func(t *testing.T) {
		if _, _, err := Dump(binary.NewView([]byte("not a tiff"), binary.LittleEndian, ""), 0); err == nil {
			t.Error("expected an error")
		}
	})
}
