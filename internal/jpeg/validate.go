package jpeg

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/simonhull/wsicheck/internal/registry"
	"github.com/simonhull/wsicheck/internal/types"
)

// TIFF compression codes handled by this package.
const (
	CompressionOldJPEG = 6
	CompressionJPEG    = 7
)

// Validator implements registry.TileValidator and registry.TablesValidator
// for JPEG-compressed tiles.
type Validator struct{}

func init() {
	registry.RegisterCodec(CompressionOldJPEG, "Old-style JPEG", Validator{})
	registry.RegisterCodec(CompressionJPEG, "JPEG", Validator{})
}

// ValidateTile implements registry.TileValidator.
func (Validator) ValidateTile(data []byte) (types.Status, string) {
	return Check(data)
}

// ValidateTables implements registry.TablesValidator.
func (Validator) ValidateTables(data []byte) error {
	return CheckTables(data)
}

// Check walks the marker chain of one tile in a single forward pass.
//
// data must be exactly the tile's declared byte range. Segment payloads are
// skipped by their length field; entropy-coded data after SOS is skipped by
// searching for the next marker that is neither stuffed (0xFF00) nor a
// restart marker. Nothing is decoded and nothing outside data is touched.
//
// Offsets in the returned detail are relative to the start of the tile.
func Check(data []byte) (types.Status, string) {
	n := len(data)
	if n < 2 {
		return types.StatusTruncated, fmt.Sprintf("%d bytes cannot hold an SOI marker", n)
	}
	if data[0] != 0xff || data[1] != markerSOI {
		return types.StatusMalformedMarkerSequence,
			fmt.Sprintf("missing SOI marker: stream starts with %02X %02X", data[0], data[1])
	}

	var sawSOF, sawSOS bool
	pos := 2
	for {
		if pos >= n {
			return types.StatusTruncated, fmt.Sprintf("no EOI marker within %d bytes", n)
		}
		if data[pos] != 0xff {
			return types.StatusMalformedMarkerSequence,
				fmt.Sprintf("expected marker at offset %d, found 0x%02X", pos, data[pos])
		}
		// Any marker may be preceded by fill bytes.
		for pos+1 < n && data[pos+1] == 0xff {
			pos++
		}
		if pos+1 >= n {
			return types.StatusTruncated, fmt.Sprintf("stream ends inside marker at offset %d", pos)
		}
		at := pos
		code := data[pos+1]
		pos += 2

		switch {
		case code == markerEOI:
			if !sawSOF {
				return types.StatusMalformedMarkerSequence, fmt.Sprintf("EOI at offset %d before any SOF marker", at)
			}
			if !sawSOS {
				return types.StatusMalformedMarkerSequence, fmt.Sprintf("EOI at offset %d before any SOS marker", at)
			}
			if trailing := n - pos; trailing > 0 {
				return types.StatusValid, fmt.Sprintf("%d bytes after EOI", trailing)
			}
			return types.StatusValid, ""
		case code == 0x00:
			return types.StatusMalformedMarkerSequence,
				fmt.Sprintf("stuffed 0xFF00 at offset %d outside entropy-coded data", at)
		case code == markerSOI:
			return types.StatusMalformedMarkerSequence, fmt.Sprintf("unexpected SOI at offset %d", at)
		case isRST(code):
			if !sawSOS {
				return types.StatusMalformedMarkerSequence,
					fmt.Sprintf("%s at offset %d before any SOS marker", markerName(code), at)
			}
			// A trailing restart after the last entropy-coded segment is
			// tolerated, as libjpeg does.
			continue
		case code == markerTEM:
			continue
		case code < markerSOF0:
			return types.StatusMalformedMarkerSequence,
				fmt.Sprintf("reserved marker %s at offset %d", markerName(code), at)
		}

		if pos+2 > n {
			return types.StatusTruncated,
				fmt.Sprintf("%s at offset %d: length field runs past end of tile", markerName(code), at)
		}
		length := int(binary.BigEndian.Uint16(data[pos:]))
		if length < 2 {
			return types.StatusMalformedMarkerSequence,
				fmt.Sprintf("%s at offset %d: invalid segment length %d", markerName(code), at, length)
		}
		end := pos + length
		if end > n {
			return types.StatusTruncated,
				fmt.Sprintf("%s at offset %d declares %d bytes, only %d remain", markerName(code), at, length, n-pos)
		}
		body := data[pos+2 : end]

		switch {
		case isSOF(code):
			if sawSOF {
				return types.StatusMalformedMarkerSequence,
					fmt.Sprintf("second frame header %s at offset %d", markerName(code), at)
			}
			if err := checkFrameHeader(body); err != nil {
				return types.StatusMalformedMarkerSequence,
					fmt.Sprintf("%s at offset %d: %v", markerName(code), at, err)
			}
			sawSOF = true
		case code == markerSOS:
			if !sawSOF {
				return types.StatusMalformedMarkerSequence, fmt.Sprintf("SOS at offset %d before any SOF marker", at)
			}
			if err := checkScanHeader(body); err != nil {
				return types.StatusMalformedMarkerSequence, fmt.Sprintf("SOS at offset %d: %v", at, err)
			}
			sawSOS = true
			next, ok := skipEntropyCoded(data, end)
			if !ok {
				return types.StatusTruncated,
					fmt.Sprintf("entropy-coded data after SOS at offset %d runs to end of tile", at)
			}
			pos = next
			continue
		}
		pos = end
	}
}

// skipEntropyCoded returns the offset of the first real marker at or after
// from. Stuffed bytes (0xFF00) and restart markers belong to the scan.
func skipEntropyCoded(data []byte, from int) (int, bool) {
	i := from
	for {
		j := bytes.IndexByte(data[i:], 0xff)
		if j < 0 {
			return 0, false
		}
		i += j
		if i+1 >= len(data) {
			return 0, false
		}
		if c := data[i+1]; c == 0x00 || isRST(c) {
			i += 2
			continue
		}
		return i, true
	}
}

var (
	errShortFrame = errors.New("frame header too short")
	errShortScan  = errors.New("scan header too short")
)

// checkFrameHeader validates the fixed part of an SOFn payload:
// P(1) Y(2) X(2) Nf(1) followed by Nf three-byte component specs.
func checkFrameHeader(body []byte) error {
	if len(body) < 6 {
		return errShortFrame
	}
	if x := binary.BigEndian.Uint16(body[3:]); x == 0 {
		return errors.New("frame width is zero")
	}
	nf := int(body[5])
	if nf == 0 {
		return errors.New("frame declares no components")
	}
	if want := 6 + 3*nf; len(body) != want {
		return fmt.Errorf("frame header is %d bytes, %d components need %d", len(body), nf, want)
	}
	return nil
}

// checkScanHeader validates an SOS payload: Ns(1), Ns two-byte component
// selectors, then Ss, Se and Ah/Al.
func checkScanHeader(body []byte) error {
	if len(body) < 1 {
		return errShortScan
	}
	ns := int(body[0])
	if ns < 1 || ns > 4 {
		return fmt.Errorf("scan declares %d components", ns)
	}
	if want := 1 + 2*ns + 3; len(body) != want {
		return fmt.Errorf("scan header is %d bytes, %d components need %d", len(body), ns, want)
	}
	return nil
}
