package tiff

import (
	"fmt"
	"math/bits"

	"github.com/simonhull/wsicheck/internal/binary"
)

// entry is one decoded directory entry.
//
// Whether the value lives inside the entry or elsewhere in the file is
// decided once, when the entry is read: inline holds the value bytes when
// count*width fits in the entry's value field, otherwise the value is the
// length bytes at offset. Later code only ever calls data.
type entry struct {
	tag    uint16
	typ    uint16
	count  uint64
	width  uint64
	inline []byte
	offset uint64
	length uint64
}

// readEntry decodes one entry at the reader's position.
func readEntry(cr *binary.ChainReader, h Header) entry {
	_, _, valueSize := h.layout()

	var e entry
	e.tag = binary.ReadChained[uint16](cr, "entry tag")
	e.typ = binary.ReadChained[uint16](cr, "entry type")
	if h.Format.OffsetSize() == 8 {
		e.count = binary.ReadChained[uint64](cr, "entry count")
	} else {
		e.count = uint64(binary.ReadChained[uint32](cr, "entry count"))
	}
	field := cr.Bytes(valueSize, "entry value")
	if cr.Error() != nil {
		return entry{}
	}

	e.width = typeWidth(e.typ)
	hi, total := bits.Mul64(e.count, e.width)
	if hi != 0 {
		// Unrepresentable; data reports it.
		e.length = ^uint64(0)
		e.offset = decodeOffset(field, cr.Order())
		return e
	}
	e.length = total

	if total <= valueSize {
		e.inline = field[:total]
		e.offset = cr.Offset() - valueSize
		return e
	}
	e.offset = decodeOffset(field, cr.Order())
	return e
}

func decodeOffset(field []byte, order binary.Endianness) uint64 {
	if len(field) == 8 {
		return order.ByteOrder().Uint64(field)
	}
	return uint64(order.ByteOrder().Uint32(field))
}

// data returns the entry's value bytes, bounds-checked against the file.
func (e entry) data(v *binary.View) ([]byte, error) {
	if e.width == 0 {
		return nil, fmt.Errorf("%s has unknown field type %d", tagName(e.tag), e.typ)
	}
	if e.inline != nil {
		return e.inline, nil
	}
	if e.length == ^uint64(0) {
		return nil, fmt.Errorf("%s declares %d values, too many to address", tagName(e.tag), e.count)
	}
	return v.Slice(e.offset, e.length, tagName(e.tag)+" values")
}

// values decodes the entry as an array of unsigned integers.
func (e entry) values(v *binary.View) ([]uint64, error) {
	if !isUnsigned(e.typ) {
		return nil, fmt.Errorf("%s has field type %d, expected an unsigned integer type", tagName(e.tag), e.typ)
	}
	b, err := e.data(v)
	if err != nil {
		return nil, err
	}

	order := v.Order().ByteOrder()
	out := make([]uint64, e.count)
	for i := range out {
		p := uint64(i) * e.width
		switch e.width {
		case 1:
			out[i] = uint64(b[p])
		case 2:
			out[i] = uint64(order.Uint16(b[p:]))
		case 4:
			out[i] = uint64(order.Uint32(b[p:]))
		default:
			out[i] = order.Uint64(b[p:])
		}
	}
	return out, nil
}

// scalar returns the first value of a single-valued numeric entry.
func (e entry) scalar(v *binary.View) (uint64, error) {
	if e.count == 0 {
		return 0, fmt.Errorf("%s has no values", tagName(e.tag))
	}
	one := e
	one.count = 1
	one.length = e.width
	if e.inline != nil {
		one.inline = e.inline[:e.width]
	}
	vals, err := one.values(v)
	if err != nil {
		return 0, err
	}
	return vals[0], nil
}

// text returns an ASCII entry without its NUL terminator.
func (e entry) text(v *binary.View) (string, error) {
	if e.typ != typeASCII {
		return "", fmt.Errorf("%s has field type %d, expected ASCII", tagName(e.tag), e.typ)
	}
	b, err := e.data(v)
	if err != nil {
		return "", err
	}
	for i, c := range b {
		if c == 0 {
			b = b[:i]
			break
		}
	}
	return string(b), nil
}
