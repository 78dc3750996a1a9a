package binary

import "encoding/binary"

// Endianness represents byte order for multi-byte values.
type Endianness int

const (
	// BigEndian uses big-endian byte order.
	// Used by: "MM" TIFF files, every JPEG segment length.
	BigEndian Endianness = iota

	// LittleEndian uses little-endian byte order.
	// Used by: "II" TIFF files, which is what most slide scanners write.
	LittleEndian
)

// String returns the TIFF byte-order mark for the endianness.
func (e Endianness) String() string {
	if e == LittleEndian {
		return "II"
	}
	return "MM"
}

// ByteOrder returns the encoding/binary implementation for e.
func (e Endianness) ByteOrder() binary.ByteOrder {
	if e == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// ReadEndian reads a numeric value of type T at the given offset with an
// explicit byte order, ignoring the order the view was built with.
//
// The TIFF header parser uses this before the byte order is known to the view.
//
// Example:
//
//	version, err := binary.ReadEndian[uint16](v, 2, "format version", binary.LittleEndian)
func ReadEndian[T uint8 | uint16 | uint32 | uint64](v *View, off uint64, what string, endian Endianness) (T, error) {
	var zero T
	b, err := v.Slice(off, uint64(sizeOf[T]()), what)
	if err != nil {
		return zero, err
	}

	order := endian.ByteOrder()
	var val T
	switch any(zero).(type) {
	case uint8:
		val = T(b[0])
	case uint16:
		val = T(order.Uint16(b))
	case uint32:
		val = T(order.Uint32(b))
	case uint64:
		val = T(order.Uint64(b))
	}

	return val, nil
}

// sizeOf returns the encoded width of T in bytes.
func sizeOf[T uint8 | uint16 | uint32 | uint64]() int {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return 1
	case uint16:
		return 2
	case uint32:
		return 4
	default:
		return 8
	}
}
