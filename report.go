package wsicheck

import "github.com/simonhull/wsicheck/internal/types"

// Report is the aggregate outcome of validating one file.
type Report = types.Report

// Layout is the container structure: directories, tile descriptors and
// warnings, without tile validation.
type Layout = types.Layout

// DirectorySummary describes one IFD.
type DirectorySummary = types.DirectorySummary

// TileDescriptor locates one tile inside the file.
type TileDescriptor = types.TileDescriptor

// TileValidationResult is the outcome for one tile.
type TileValidationResult = types.TileValidationResult

// Status classifies a tile.
type Status = types.Status

// Re-export all status constants.
const (
	StatusValid                   = types.StatusValid
	StatusTruncated               = types.StatusTruncated
	StatusMalformedMarkerSequence = types.StatusMalformedMarkerSequence
	StatusOffsetOutOfBounds       = types.StatusOffsetOutOfBounds
	StatusUnsupportedCompression  = types.StatusUnsupportedCompression
)

// Statuses lists every final status in report order.
var Statuses = types.Statuses
