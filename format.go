package wsicheck

import (
	"github.com/simonhull/wsicheck/internal/binary"
	"github.com/simonhull/wsicheck/internal/tiff"
	"github.com/simonhull/wsicheck/internal/types"
)

// Format is an alias to types.Format.
type Format = types.Format

// Re-export all format constants.
const (
	FormatUnknown = types.FormatUnknown
	FormatTIFF    = types.FormatTIFF
	FormatBigTIFF = types.FormatBigTIFF
)

// DetectFormat identifies the container format from the file header.
// It returns *MalformedHeaderError for anything that is not TIFF or BigTIFF.
func DetectFormat(data []byte) (Format, error) {
	return tiff.DetectFormat(binary.NewView(data, binary.LittleEndian, ""))
}
