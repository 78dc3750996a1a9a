// Package registry maps container formats to their directory parsers and
// TIFF compression codes to tile validators.
package registry

import (
	"sync"

	"github.com/simonhull/wsicheck/internal/binary"
	"github.com/simonhull/wsicheck/internal/types"
)

// ParseOptions controls how much of a container is walked.
type ParseOptions struct {
	// FirstDirectoryOnly stops after IFD 0 (the full-resolution level).
	FirstDirectoryOnly bool

	// MaxDirectories bounds the IFD chain; 0 means the parser default.
	MaxDirectories int
}

// ContainerParser is the interface all container parsers implement.
type ContainerParser interface {
	// Parse walks the container's directories and returns every tile
	// descriptor. Container-level corruption is returned as an error;
	// per-tile problems are recorded on the descriptors.
	Parse(v *binary.View, opts ParseOptions) (*types.Layout, error)
}

// TileValidator checks the bytes of one compressed tile.
type TileValidator interface {
	// ValidateTile inspects data, which is exactly the tile's declared
	// byte range, and never looks outside it.
	ValidateTile(data []byte) (types.Status, string)
}

// TablesValidator is an optional interface for codecs whose directories
// may carry shared table streams (TIFF JPEGTables).
type TablesValidator interface {
	ValidateTables(data []byte) error
}

var (
	mu       sync.RWMutex
	parsers  = make(map[types.Format]ContainerParser)
	codecs   = make(map[uint16]TileValidator)
	codecTag = make(map[uint16]string)
)

// Register registers a parser for a format.
// This is called by format packages during initialization (init functions).
func Register(format types.Format, parser ContainerParser) {
	mu.Lock()
	defer mu.Unlock()
	parsers[format] = parser
}

// Get returns the parser for a given format.
// Returns nil if no parser is registered for the format.
func Get(format types.Format) ContainerParser {
	mu.RLock()
	defer mu.RUnlock()
	return parsers[format]
}

// RegisterCodec registers a tile validator for a TIFF compression code.
// This is called by codec packages during initialization (init functions).
func RegisterCodec(compression uint16, name string, v TileValidator) {
	mu.Lock()
	defer mu.Unlock()
	codecs[compression] = v
	codecTag[compression] = name
}

// Codec returns the tile validator for a compression code.
// Returns nil if tiles with this compression cannot be inspected.
func Codec(compression uint16) TileValidator {
	mu.RLock()
	defer mu.RUnlock()
	return codecs[compression]
}

// CodecName returns the registered name for a compression code, or "".
func CodecName(compression uint16) string {
	mu.RLock()
	defer mu.RUnlock()
	return codecTag[compression]
}
