package tiff

import (
	"slices"
	"testing"

	"github.com/simonhull/wsicheck/internal/binary"
	"github.com/simonhull/wsicheck/internal/tifftest"
)

func TestEntry_InlineAndIndirect(t *testing.T) {
	tests := []struct {
		name       string
		bigTIFF    bool
		typ        uint16
		values     []uint64
		wantInline bool
	}{
		{"classic two SHORTs", false, tifftest.TypeShort, []uint64{1, 2}, true},
		{"classic three SHORTs", false, tifftest.TypeShort, []uint64{1, 2, 3}, false},
		{"classic one LONG", false, tifftest.TypeLong, []uint64{70000}, true},
		{"classic two LONGs", false, tifftest.TypeLong, []uint64{70000, 80000}, false},
		{"BigTIFF two LONGs", true, tifftest.TypeLong, []uint64{70000, 80000}, true},
		{"BigTIFF one LONG8", true, tifftest.TypeLong8, []uint64{1 << 40}, true},
		{"BigTIFF two LONG8s", true, tifftest.TypeLong8, []uint64{1 << 40, 1 << 41}, false},
		{"classic no values", false, tifftest.TypeLong, []uint64{}, true},
	}

	for _, tt := range tests {
		for _, order := range []binary.Endianness{binary.LittleEndian, binary.BigEndian} {
			t.Run(tt.name+" "+order.String(), func(t *testing.T) {
				data := tifftest.File{
					Order:   order,
					BigTIFF: tt.bigTIFF,
					Directories: []tifftest.Directory{{
						Extra: []tifftest.Entry{{Tag: 65000, Type: tt.typ, Values: tt.values, Raw: nil}},
					}},
				}.Build()

				v := binary.NewView(data, order, "test.tif")
				h, err := ReadHeader(v)
				if err != nil {
					t.Fatalf("ReadHeader() unexpected error: %v", err)
				}
				dir, err := readDirectory(v, h, h.FirstIFD, 0)
				if err != nil {
					t.Fatalf("readDirectory() unexpected error: %v", err)
				}

				e, ok := dir.lookup(65000)
				if !ok {
					t.Fatal("entry not found")
				}
				if got := e.inline != nil; got != tt.wantInline {
					t.Errorf("inline = %v, want %v", got, tt.wantInline)
				}
				got, err := e.values(v)
				if err != nil {
					t.Fatalf("values() unexpected error: %v", err)
				}
				if !slices.Equal(got, tt.values) {
					t.Errorf("values() = %v, want %v", got, tt.values)
				}
			})
		}
	}
}

func TestEntry_Scalar(t *testing.T) {
	data := tifftest.File{
		Order: binary.BigEndian,
		Directories: []tifftest.Directory{{
			Extra: []tifftest.Entry{
				{Tag: 65000, Type: tifftest.TypeShort, Values: []uint64{7, 8, 9}},
				{Tag: 65001, Type: tifftest.TypeLong, Values: []uint64{}},
			},
		}},
	}.Build()

	v := binary.NewView(data, binary.BigEndian, "test.tif")
	h, _ := ReadHeader(v)
	dir, err := readDirectory(v, h, h.FirstIFD, 0)
	if err != nil {
		t.Fatalf("readDirectory() unexpected error: %v", err)
	}

	first, _ := dir.lookup(65000)
	if got, err := first.scalar(v); err != nil || got != 7 {
		t.Errorf("scalar() = %d, %v; want 7", got, err)
	}
	empty, _ := dir.lookup(65001)
	if _, err := empty.scalar(v); err == nil {
		t.Error("scalar() on empty entry should fail")
	}
}

func TestEntry_UnknownType(t *testing.T) {
	e := entry{tag: tagTileOffsets, typ: 99, count: 1, width: typeWidth(99)}
	if _, err := e.data(binary.NewView(nil, binary.LittleEndian, "test.tif")); err == nil {
		t.Error("data() with unknown type should fail")
	}
}
