package types

import "encoding/json"

// Status is the outcome of checking a single tile.
type Status int

const (
	// StatusPending marks a descriptor whose bytes still have to be inspected.
	// It never appears in a finished report.
	StatusPending Status = iota
	// StatusValid means the tile is a structurally complete JPEG stream.
	StatusValid
	// StatusTruncated means the marker chain runs past the declared byte
	// range or ends without an EOI marker.
	StatusTruncated
	// StatusMalformedMarkerSequence means the marker chain breaks JPEG
	// structural rules.
	StatusMalformedMarkerSequence
	// StatusOffsetOutOfBounds means offset+byte_count lies beyond the file.
	StatusOffsetOutOfBounds
	// StatusUnsupportedCompression means the tile is not JPEG compressed and
	// was not inspected.
	StatusUnsupportedCompression
)

var statusNames = [...]string{
	StatusPending:                 "Pending",
	StatusValid:                   "Valid",
	StatusTruncated:               "Truncated",
	StatusMalformedMarkerSequence: "MalformedMarkerSequence",
	StatusOffsetOutOfBounds:       "OffsetOutOfBounds",
	StatusUnsupportedCompression:  "UnsupportedCompression",
}

// Statuses lists every final status in report order.
var Statuses = []Status{
	StatusValid,
	StatusTruncated,
	StatusMalformedMarkerSequence,
	StatusOffsetOutOfBounds,
	StatusUnsupportedCompression,
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "Unknown"
	}
	return statusNames[s]
}

// Problem reports whether the status means the tile needs attention.
// Unsupported compression is reported but is not corruption.
func (s Status) Problem() bool {
	switch s {
	case StatusTruncated, StatusMalformedMarkerSequence, StatusOffsetOutOfBounds:
		return true
	default:
		return false
	}
}

// MarshalJSON encodes the status by name.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a status name.
func (s *Status) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	for i, n := range statusNames {
		if n == name {
			*s = Status(i)
			return nil
		}
	}
	*s = StatusPending
	return nil
}
