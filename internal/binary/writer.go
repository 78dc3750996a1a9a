package binary

import (
	"encoding/binary"
	"fmt"
)

// Writer accumulates bytes in memory with position tracking.
//
// It is the write-side counterpart of View and is used to assemble
// synthetic containers whose offsets must be known while writing.
type Writer struct {
	buf   []byte
	order Endianness
}

// NewWriter creates a Writer that encodes integers in the given order.
func NewWriter(order Endianness) *Writer {
	return &Writer{order: order}
}

// Offset returns the current position (number of bytes written).
func (w *Writer) Offset() uint64 {
	return uint64(len(w.buf))
}

// Bytes returns everything written so far.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// WriteBytes appends raw bytes.
func (w *Writer) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteString appends a string as bytes.
func (w *Writer) WriteString(s string) {
	w.buf = append(w.buf, s...)
}

// Pad appends n zero bytes.
func (w *Writer) Pad(n int) {
	w.buf = append(w.buf, make([]byte, n)...)
}

// PadTo appends zero bytes until Offset() == off.
func (w *Writer) PadTo(off uint64) error {
	if off < w.Offset() {
		return fmt.Errorf("pad to %d: already at offset %d", off, w.Offset())
	}
	w.Pad(int(off - w.Offset()))
	return nil
}

// Write appends a value of type T in the writer's byte order.
// T must be uint8, uint16, uint32, or uint64.
func Write[T uint8 | uint16 | uint32 | uint64](w *Writer, val T) {
	w.buf = appendValue(w.buf, val, w.order)
}

// Patch overwrites an already written value of type T at off.
func Patch[T uint8 | uint16 | uint32 | uint64](w *Writer, off uint64, val T) error {
	size := uint64(sizeOf[T]())
	if off+size > w.Offset() {
		return fmt.Errorf("patch at %d: only %d bytes written", off, w.Offset())
	}
	appendValue(w.buf[off:off], val, w.order)
	return nil
}

// appendValue encodes val onto dst.
func appendValue[T uint8 | uint16 | uint32 | uint64](dst []byte, val T, endian Endianness) []byte {
	var order binary.AppendByteOrder = binary.BigEndian
	if endian == LittleEndian {
		order = binary.LittleEndian
	}
	var zero T
	switch any(zero).(type) {
	case uint8:
		return append(dst, byte(val))
	case uint16:
		return order.AppendUint16(dst, uint16(val))
	case uint32:
		return order.AppendUint32(dst, uint32(val))
	default:
		return order.AppendUint64(dst, uint64(val))
	}
}
