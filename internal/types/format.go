package types

// Format represents the detected container format.
type Format int

const (
	// FormatUnknown represents an unknown or unsupported format.
	FormatUnknown Format = iota
	// FormatTIFF represents classic TIFF (version 42, 32-bit offsets).
	FormatTIFF
	// FormatBigTIFF represents BigTIFF (version 43, 64-bit offsets).
	FormatBigTIFF
)

// String returns the display name of the format.
func (f Format) String() string {
	switch f {
	case FormatTIFF:
		return "TIFF"
	case FormatBigTIFF:
		return "BigTIFF"
	default:
		return "Unknown"
	}
}

// Extensions returns common file extensions for this format.
func (f Format) Extensions() []string {
	switch f {
	case FormatTIFF, FormatBigTIFF:
		return []string{".svs", ".tif", ".tiff", ".scn", ".bif"}
	default:
		return nil
	}
}

// OffsetSize returns the width of file offsets in bytes.
func (f Format) OffsetSize() uint64 {
	if f == FormatBigTIFF {
		return 8
	}
	return 4
}
