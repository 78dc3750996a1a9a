package jpeg

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// CheckTables validates an abbreviated table-specification stream, the
// content of the TIFF JPEGTables tag: SOI, any number of table or
// application segments, then EOI. Frame and scan markers are not allowed.
func CheckTables(data []byte) error {
	n := len(data)
	if n < 2 || data[0] != 0xff || data[1] != markerSOI {
		return errors.New("table stream does not start with SOI")
	}

	pos := 2
	for {
		if pos >= n {
			return fmt.Errorf("table stream has no EOI marker within %d bytes", n)
		}
		if data[pos] != 0xff {
			return fmt.Errorf("expected marker at offset %d, found 0x%02X", pos, data[pos])
		}
		for pos+1 < n && data[pos+1] == 0xff {
			pos++
		}
		if pos+1 >= n {
			return fmt.Errorf("table stream ends inside marker at offset %d", pos)
		}
		at := pos
		code := data[pos+1]
		pos += 2

		if code == markerEOI {
			return nil
		}
		if !isTable(code) {
			return fmt.Errorf("unexpected %s at offset %d in table stream", markerName(code), at)
		}
		if pos+2 > n {
			return fmt.Errorf("%s at offset %d: length field runs past end of stream", markerName(code), at)
		}
		length := int(binary.BigEndian.Uint16(data[pos:]))
		if length < 2 || pos+length > n {
			return fmt.Errorf("%s at offset %d: segment length %d does not fit in %d remaining bytes",
				markerName(code), at, length, n-pos)
		}
		pos += length
	}
}
