package wsicheck

import (
	"github.com/simonhull/wsicheck/internal/mmap"
	"github.com/simonhull/wsicheck/internal/types"
)

// OutOfBoundsError is an alias to types.OutOfBoundsError.
// Re-exporting from internal/types to maintain public API.
type OutOfBoundsError = types.OutOfBoundsError

// MalformedHeaderError is an alias to types.MalformedHeaderError.
// The file is not a TIFF-family file.
type MalformedHeaderError = types.MalformedHeaderError

// MalformedDirectoryError is an alias to types.MalformedDirectoryError.
// The IFD chain or its tile arrays cannot be trusted.
type MalformedDirectoryError = types.MalformedDirectoryError

// UnsupportedFormatError is an alias to types.UnsupportedFormatError.
type UnsupportedFormatError = types.UnsupportedFormatError

// FaultError is an alias to mmap.FaultError. It is returned when the
// mapped file cannot be read, for example after being truncated on disk.
type FaultError = mmap.FaultError

// Warning is an alias to types.Warning.
type Warning = types.Warning
