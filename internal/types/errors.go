package types

import "fmt"

// OutOfBoundsError is returned when a read would leave the file image.
type OutOfBoundsError struct {
	Path   string
	What   string
	Offset uint64
	Length uint64
	Size   uint64
}

func (e *OutOfBoundsError) Error() string {
	if e.Offset >= e.Size {
		return fmt.Sprintf("%s: offset %d out of bounds (file size: %d) while reading %s",
			e.Path, e.Offset, e.Size, e.What)
	}
	return fmt.Sprintf("%s: read of %d bytes at offset %d would exceed file size %d while reading %s",
		e.Path, e.Length, e.Offset, e.Size, e.What)
}

// MalformedHeaderError is returned when the file does not start with a
// recognizable TIFF-family header. The whole run fails.
type MalformedHeaderError struct {
	Path   string
	Reason string
}

func (e *MalformedHeaderError) Error() string {
	return fmt.Sprintf("%s: malformed header: %s", e.Path, e.Reason)
}

// MalformedDirectoryError is returned when the IFD structure cannot be
// trusted: a cyclic chain, an unreadable first directory, or tile arrays
// that disagree. The whole run fails.
type MalformedDirectoryError struct {
	Path      string
	Reason    string
	Offset    uint64
	Directory int
}

func (e *MalformedDirectoryError) Error() string {
	return fmt.Sprintf("%s: malformed directory %d at offset %d: %s",
		e.Path, e.Directory, e.Offset, e.Reason)
}

// UnsupportedFormatError is returned when no container parser is
// registered for a detected format.
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported format: %s", e.Path, e.Reason)
}

// Warning represents a non-fatal issue encountered while parsing the
// container.
//
// Warnings never describe a single tile (tiles carry their own status).
// Examples include:
//   - A broken JPEGTables stream
//   - A tile count that disagrees with the image geometry
//   - A later IFD that cannot be read
type Warning struct {
	// Stage where the warning occurred
	Stage string // "header", "directory", "tables", "layout"

	// Warning message
	Message string

	// File offset where the issue occurred (0 if not applicable)
	Offset uint64

	// Directory is the IFD index the warning refers to, or -1.
	Directory int
}

// String returns a human-readable warning message.
func (w Warning) String() string {
	prefix := w.Stage
	if w.Directory >= 0 {
		prefix = fmt.Sprintf("%s[ifd %d]", w.Stage, w.Directory)
	}
	if w.Offset > 0 {
		return fmt.Sprintf("%s (at offset %d): %s", prefix, w.Offset, w.Message)
	}
	return fmt.Sprintf("%s: %s", prefix, w.Message)
}
