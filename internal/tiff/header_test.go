package tiff

import (
	"errors"
	"testing"

	"github.com/simonhull/wsicheck/internal/binary"
	"github.com/simonhull/wsicheck/internal/types"
)

func TestReadHeader(t *testing.T) {
	tests := []struct {
		name       string
		data       []byte
		wantFormat types.Format
		wantOrder  binary.Endianness
		wantFirst  uint64
		wantErr    bool
	}{
		{
			name:       "classic little-endian",
			data:       []byte{'I', 'I', 0x2a, 0x00, 0x08, 0x00, 0x00, 0x00},
			wantFormat: types.FormatTIFF,
			wantOrder:  binary.LittleEndian,
			wantFirst:  8,
		},
		{
			name:       "classic big-endian",
			data:       []byte{'M', 'M', 0x00, 0x2a, 0x00, 0x00, 0x01, 0x00},
			wantFormat: types.FormatTIFF,
			wantOrder:  binary.BigEndian,
			wantFirst:  256,
		},
		{
			name: "BigTIFF little-endian",
			data: []byte{
				'I', 'I', 0x2b, 0x00, 0x08, 0x00, 0x00, 0x00,
				0x10, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			},
			wantFormat: types.FormatBigTIFF,
			wantOrder:  binary.LittleEndian,
			wantFirst:  16,
		},
		{
			name: "BigTIFF big-endian",
			data: []byte{
				'M', 'M', 0x00, 0x2b, 0x00, 0x08, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00,
			},
			wantFormat: types.FormatBigTIFF,
			wantOrder:  binary.BigEndian,
			wantFirst:  1 << 32,
		},
		{
			name:    "mixed byte-order mark",
			data:    []byte{'I', 'M', 0x2a, 0x00, 0x08, 0x00, 0x00, 0x00},
			wantErr: true,
		},
		{
			name:    "JPEG file",
			data:    []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F'},
			wantErr: true,
		},
		{
			name:    "unknown version",
			data:    []byte{'I', 'I', 0x2c, 0x00, 0x08, 0x00, 0x00, 0x00},
			wantErr: true,
		},
		{
			name:    "version in wrong byte order",
			data:    []byte{'M', 'M', 0x2a, 0x00, 0x00, 0x00, 0x00, 0x08},
			wantErr: true,
		},
		{
			name:    "too short",
			data:    []byte{'I', 'I', 0x2a, 0x00},
			wantErr: true,
		},
		{
			name:    "BigTIFF header cut short",
			data:    []byte{'I', 'I', 0x2b, 0x00, 0x08, 0x00, 0x00, 0x00, 0x10, 0x00},
			wantErr: true,
		},
		{
			name: "BigTIFF with 4-byte offsets",
			data: []byte{
				'I', 'I', 0x2b, 0x00, 0x04, 0x00, 0x00, 0x00,
				0x10, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			},
			wantErr: true,
		},
		{
			name:    "first IFD offset zero",
			data:    []byte{'I', 'I', 0x2a, 0x00, 0x00, 0x00, 0x00, 0x00},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := ReadHeader(binary.NewView(tt.data, binary.LittleEndian, "test.tif"))
			if tt.wantErr {
				var hdrErr *types.MalformedHeaderError
				if !errors.As(err, &hdrErr) {
					t.Fatalf("ReadHeader() error = %v, want *types.MalformedHeaderError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadHeader() unexpected error: %v", err)
			}
			if h.Format != tt.wantFormat {
				t.Errorf("Format = %v, want %v", h.Format, tt.wantFormat)
			}
			if h.Order != tt.wantOrder {
				t.Errorf("Order = %v, want %v", h.Order, tt.wantOrder)
			}
			if h.FirstIFD != tt.wantFirst {
				t.Errorf("FirstIFD = %d, want %d", h.FirstIFD, tt.wantFirst)
			}
		})
	}
}

func TestDetectFormat(t *testing.T) {
	data := []byte{'M', 'M', 0x00, 0x2b, 0x00, 0x08, 0x00, 0x00, 0, 0, 0, 0, 0, 0, 0, 0x10}
	format, err := DetectFormat(binary.NewView(data, binary.LittleEndian, "test.tif"))
	if err != nil {
		t.Fatalf("DetectFormat() unexpected error: %v", err)
	}
	if format != types.FormatBigTIFF {
		t.Errorf("DetectFormat() = %v, want BigTIFF", format)
	}
}
