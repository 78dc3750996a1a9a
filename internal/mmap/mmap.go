// Package mmap loads a file's bytes for read-only access, memory-mapping
// it where the platform allows.
package mmap

import (
	"fmt"
	"runtime/debug"
)

// File is a read-only image of a file's bytes.
//
// Bytes may be read concurrently. The slice must not be modified and must
// not be used after Close.
type File struct {
	data   []byte
	path   string
	mapped bool
}

// Bytes returns the file contents.
func (f *File) Bytes() []byte {
	return f.data
}

// Len returns the file size in bytes.
func (f *File) Len() int {
	return len(f.data)
}

// Path returns the path the file was opened from.
func (f *File) Path() string {
	return f.path
}

// Mapped reports whether the bytes are a memory mapping rather than a copy.
func (f *File) Mapped() bool {
	return f.mapped
}

// FaultError reports an I/O error surfaced as a page fault while touching
// mapped memory, for example a file truncated by another process.
type FaultError struct {
	Addr  uintptr
	Cause any
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("page fault reading mapped file at address %#x: %v", e.Addr, e.Cause)
}

// Guard runs fn and converts a page fault inside it into a *FaultError.
//
// The setting is per goroutine: every goroutine that touches mapped bytes
// must run its reads under its own Guard. Panics that are not memory
// faults are re-raised.
func Guard(fn func()) (err error) {
	old := debug.SetPanicOnFault(true)
	defer func() {
		debug.SetPanicOnFault(old)
		if r := recover(); r != nil {
			fault, ok := r.(interface{ Addr() uintptr })
			if !ok {
				panic(r)
			}
			err = &FaultError{Addr: fault.Addr(), Cause: r}
		}
	}()

	fn()
	return nil
}
