// Package binary provides bounds-checked binary reading primitives over an
// in-memory file image.
package binary

import (
	"github.com/simonhull/wsicheck/internal/types"
)

// ReadHook observes every byte range a View hands out. Tests use it to
// prove that no access ever leaves the range a caller was entitled to.
type ReadHook func(off, n uint64)

// View is a read-only, bounds-checked window over the bytes of a file.
//
// Every multi-byte read uses the byte order fixed at construction. A
// request for [off, off+n) that does not fit inside the buffer fails with
// *types.OutOfBoundsError; nothing is ever truncated or wrapped.
//
// View never mutates the buffer and is safe for concurrent use.
type View struct {
	data  []byte
	path  string
	hook  ReadHook
	order Endianness
}

// NewView creates a View over data.
func NewView(data []byte, order Endianness, path string) *View {
	return &View{
		data:  data,
		order: order,
		path:  path,
	}
}

// WithOrder returns a copy of v that decodes integers in the given order.
func (v *View) WithOrder(order Endianness) *View {
	c := *v
	c.order = order
	return &c
}

// WithHook returns a copy of v that reports every granted range to hook.
func (v *View) WithHook(hook ReadHook) *View {
	c := *v
	c.hook = hook
	return &c
}

// Path returns the file path associated with this view.
func (v *View) Path() string {
	return v.path
}

// Size returns the total number of bytes in the view.
func (v *View) Size() uint64 {
	return uint64(len(v.data))
}

// Order returns the byte order used for integer reads.
func (v *View) Order() Endianness {
	return v.order
}

// Contains reports whether [off, off+n) lies inside the view.
func (v *View) Contains(off, n uint64) bool {
	size := v.Size()
	return off <= size && n <= size-off
}

// Slice returns the n bytes starting at off without copying.
//
// The returned slice aliases the underlying buffer and must not be modified.
func (v *View) Slice(off, n uint64, what string) ([]byte, error) {
	if !v.Contains(off, n) {
		return nil, &types.OutOfBoundsError{
			Path:   v.path,
			What:   what,
			Offset: off,
			Length: n,
			Size:   v.Size(),
		}
	}
	if v.hook != nil {
		v.hook(off, n)
	}
	return v.data[off : off+n : off+n], nil
}

// U16 reads a 16-bit value at off.
func (v *View) U16(off uint64, what string) (uint16, error) {
	return Read[uint16](v, off, what)
}

// U32 reads a 32-bit value at off.
func (v *View) U32(off uint64, what string) (uint32, error) {
	return Read[uint32](v, off, what)
}

// U64 reads a 64-bit value at off.
func (v *View) U64(off uint64, what string) (uint64, error) {
	return Read[uint64](v, off, what)
}

// Read reads a value of type T from the given offset in the view's byte order.
// T must be uint8, uint16, uint32, or uint64.
func Read[T uint8 | uint16 | uint32 | uint64](v *View, off uint64, what string) (T, error) {
	return ReadEndian[T](v, off, what, v.order)
}

// Reader provides sequential reading with automatic offset tracking.
type Reader struct {
	*View
	offset uint64
}

// NewReader creates a new Reader starting at the given offset.
func NewReader(v *View, offset uint64) *Reader {
	return &Reader{
		View:   v,
		offset: offset,
	}
}

// ReadValue reads a numeric value and advances the offset.
func ReadValue[T uint8 | uint16 | uint32 | uint64](r *Reader, what string) (T, error) {
	val, err := Read[T](r.View, r.offset, what)
	if err != nil {
		var zero T
		return zero, err
	}

	r.offset += uint64(sizeOf[T]())
	return val, nil
}

// ReadBytes returns the next n bytes and advances the offset.
func (r *Reader) ReadBytes(n uint64, what string) ([]byte, error) {
	b, err := r.View.Slice(r.offset, n, what)
	if err != nil {
		return nil, err
	}

	r.offset += n
	return b, nil
}

// Offset returns the current offset.
func (r *Reader) Offset() uint64 {
	return r.offset
}

// ChainReader allows chaining multiple reads with deferred error checking.
// This avoids repetitive "if err != nil" checks.
type ChainReader struct {
	*Reader
	err error
}

// NewChainReader creates a new ChainReader.
func NewChainReader(r *Reader) *ChainReader {
	return &ChainReader{Reader: r}
}

// ReadChained reads a value with deferred error checking.
// If a previous read failed, returns zero value without attempting read.
func ReadChained[T uint8 | uint16 | uint32 | uint64](cr *ChainReader, what string) T {
	if cr.err != nil {
		var zero T
		return zero
	}

	val, err := ReadValue[T](cr.Reader, what)
	if err != nil {
		cr.err = err
		var zero T
		return zero
	}

	return val
}

// Bytes reads n raw bytes, accumulating any error.
func (cr *ChainReader) Bytes(n uint64, what string) []byte {
	if cr.err != nil {
		return nil
	}

	b, err := cr.Reader.ReadBytes(n, what)
	if err != nil {
		cr.err = err
		return nil
	}

	return b
}

// Error returns the accumulated error, if any.
func (cr *ChainReader) Error() error {
	return cr.err
}
