package types

// TileDescriptor locates one independently compressed tile (or strip)
// inside the container.
//
// Descriptors are created once by the directory parser, after the byte
// range has been checked against the file size, and are read-only after
// that.
type TileDescriptor struct {
	// Index is the position of the tile across all directories.
	Index int `json:"index"`

	// Directory is the IFD the tile belongs to.
	Directory int `json:"ifd_index"`

	// TileInDirectory is the tile's position inside its IFD.
	TileInDirectory int `json:"tile_in_ifd"`

	Offset    uint64 `json:"offset"`
	ByteCount uint64 `json:"byte_count"`

	// Compression is the TIFF Compression tag of the owning IFD.
	Compression uint16 `json:"compression"`

	// Precheck is set by the parser when the tile can be judged without
	// inspecting its bytes (out of bounds, unsupported compression).
	// StatusPending means the bytes must be validated.
	Precheck Status `json:"-"`

	// PrecheckDetail explains Precheck.
	PrecheckDetail string `json:"-"`
}

// End returns the offset one past the tile's last byte.
func (d TileDescriptor) End() uint64 {
	return d.Offset + d.ByteCount
}

// TileValidationResult is the outcome for one tile.
type TileValidationResult struct {
	TileIndex       int    `json:"tile_index"`
	Directory       int    `json:"ifd_index"`
	TileInDirectory int    `json:"tile_in_ifd"`
	Offset          uint64 `json:"offset"`
	ByteCount       uint64 `json:"byte_count"`
	Status          Status `json:"status"`
	Detail          string `json:"detail,omitempty"`
}

// ResultFor builds the result for d with the given status and detail.
func ResultFor(d TileDescriptor, status Status, detail string) TileValidationResult {
	return TileValidationResult{
		TileIndex:       d.Index,
		Directory:       d.Directory,
		TileInDirectory: d.TileInDirectory,
		Offset:          d.Offset,
		ByteCount:       d.ByteCount,
		Status:          status,
		Detail:          detail,
	}
}
