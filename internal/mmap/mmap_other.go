//go:build !(darwin || linux)

package mmap

import (
	"fmt"
	"os"
)

// Open reads the whole file into memory.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return &File{data: data, path: path}, nil
}

// Close drops the buffer.
func (f *File) Close() error {
	f.data = nil
	return nil
}
