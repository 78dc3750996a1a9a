//go:build darwin || linux

package mmap

import (
	"fmt"
	"math"

	"golang.org/x/sys/unix"
)

// Open maps the file at path read-only. Empty files are returned with no
// mapping.
func Open(path string) (*File, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	// The mapping stays valid after the descriptor is closed.
	defer unix.Close(fd)

	var stat unix.Stat_t
	if err := unix.Fstat(fd, &stat); err != nil {
		return nil, fmt.Errorf("stating %s: %w", path, err)
	}
	if stat.Mode&unix.S_IFMT != unix.S_IFREG {
		return nil, fmt.Errorf("%s is not a regular file", path)
	}
	if stat.Size == 0 {
		return &File{path: path}, nil
	}
	if stat.Size > math.MaxInt {
		return nil, fmt.Errorf("%s is %d bytes, too large to map", path, stat.Size)
	}

	data, err := unix.Mmap(fd, 0, int(stat.Size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("memory-mapping %s: %w", path, err)
	}
	// Tiles are visited in file order.
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)

	return &File{data: data, path: path, mapped: true}, nil
}

// Close releases the mapping.
func (f *File) Close() error {
	if !f.mapped {
		f.data = nil
		return nil
	}
	err := unix.Munmap(f.data)
	f.data = nil
	f.mapped = false
	if err != nil {
		return fmt.Errorf("unmapping %s: %w", f.path, err)
	}
	return nil
}
