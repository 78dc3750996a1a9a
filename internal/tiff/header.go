package tiff

import (
	"fmt"

	"github.com/simonhull/wsicheck/internal/binary"
	"github.com/simonhull/wsicheck/internal/types"
)

const (
	versionClassic = 42
	versionBig     = 43
)

// Header is the decoded file header.
type Header struct {
	Format   types.Format
	Order    binary.Endianness
	FirstIFD uint64
}

// layout returns the on-disk sizes of directory structures for the format.
func (h Header) layout() (countSize, entrySize, valueSize uint64) {
	if h.Format == types.FormatBigTIFF {
		return 8, 20, 8
	}
	return 2, 12, 4
}

// ReadHeader decodes the byte-order mark, version and first-IFD pointer.
//
// Classic TIFF: "II"/"MM", 42, 4-byte offset.
// BigTIFF: "II"/"MM", 43, offset size (8), reserved (0), 8-byte offset.
func ReadHeader(v *binary.View) (Header, error) {
	malformed := func(format string, args ...any) (Header, error) {
		return Header{}, &types.MalformedHeaderError{Path: v.Path(), Reason: fmt.Sprintf(format, args...)}
	}

	if v.Size() < 8 {
		return malformed("file is %d bytes, too short for a TIFF header", v.Size())
	}
	mark, err := v.Slice(0, 2, "byte-order mark")
	if err != nil {
		return Header{}, err
	}

	var h Header
	switch string(mark) {
	case "II":
		h.Order = binary.LittleEndian
	case "MM":
		h.Order = binary.BigEndian
	default:
		return malformed("byte-order mark %q is neither II nor MM", mark)
	}
	v = v.WithOrder(h.Order)

	version, err := v.U16(2, "format version")
	if err != nil {
		return Header{}, err
	}

	switch version {
	case versionClassic:
		h.Format = types.FormatTIFF
		first, err := v.U32(4, "first IFD offset")
		if err != nil {
			return Header{}, err
		}
		h.FirstIFD = uint64(first)
	case versionBig:
		h.Format = types.FormatBigTIFF
		if v.Size() < 16 {
			return malformed("file is %d bytes, too short for a BigTIFF header", v.Size())
		}
		cr := binary.NewChainReader(binary.NewReader(v, 4))
		offsetSize := binary.ReadChained[uint16](cr, "BigTIFF offset size")
		reserved := binary.ReadChained[uint16](cr, "BigTIFF reserved field")
		first := binary.ReadChained[uint64](cr, "first IFD offset")
		if err := cr.Error(); err != nil {
			return Header{}, err
		}
		if offsetSize != 8 {
			return malformed("BigTIFF offset size is %d, expected 8", offsetSize)
		}
		if reserved != 0 {
			return malformed("BigTIFF reserved field is %d, expected 0", reserved)
		}
		h.FirstIFD = first
	default:
		return malformed("unrecognized version %d", version)
	}

	if h.FirstIFD == 0 {
		return malformed("first IFD offset is zero")
	}
	return h, nil
}

// DetectFormat identifies the container format from the file header.
func DetectFormat(v *binary.View) (types.Format, error) {
	h, err := ReadHeader(v)
	if err != nil {
		return types.FormatUnknown, err
	}
	return h.Format, nil
}
