// Package tifftest builds synthetic TIFF, BigTIFF and JPEG byte streams for
// tests.
package tifftest

// MinimalJPEG returns the smallest structurally complete baseline stream:
// SOI, SOF0 (one 8x8 component), SOS, one byte of scan data, EOI.
// Quantization and Huffman tables are omitted, as in TIFF tiles that
// rely on JPEGTables.
func MinimalJPEG() []byte {
	return []byte{
		0xff, 0xd8, // SOI
		0xff, 0xc0, 0x00, 0x0b, // SOF0, length 11
		0x08,       // precision
		0x00, 0x08, // height
		0x00, 0x08, // width
		0x01,             // components
		0x01, 0x11, 0x00, // id, sampling, quant table
		0xff, 0xda, 0x00, 0x08, // SOS, length 8
		0x01,       // components
		0x01, 0x00, // selector, tables
		0x00, 0x3f, 0x00, // Ss, Se, Ah/Al
		0x12,       // scan data
		0xff, 0xd9, // EOI
	}
}

// JPEGWithTables returns a full interchange stream with DQT, DHT, DRI, an
// APP0 segment, stuffed bytes and restart markers in the scan data.
func JPEGWithTables() []byte {
	b := []byte{0xff, 0xd8}

	// APP0 "JFIF"
	b = append(b, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0x01, 0x01, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00)

	// DQT: one 8-bit table, 64 entries
	b = append(b, 0xff, 0xdb, 0x00, 0x43, 0x00)
	for i := range 64 {
		b = append(b, byte(i+1))
	}

	// DHT: DC table 0 with a single 1-bit code
	b = append(b, 0xff, 0xc4, 0x00, 0x14, 0x00)
	b = append(b, 0x01)
	b = append(b, make([]byte, 15)...)
	b = append(b, 0x00)

	// DRI: restart every MCU
	b = append(b, 0xff, 0xdd, 0x00, 0x04, 0x00, 0x01)

	frame := MinimalJPEG()[2:]
	// frame = SOF0 ... EOI; splice stuffing and restarts into the scan data.
	sof := frame[:13]
	sos := frame[13:23]
	b = append(b, sof...)
	b = append(b, sos...)
	b = append(b, 0x12, 0xff, 0x00, 0x34, 0xff, 0xd0, 0x56, 0xff, 0x00, 0xff, 0xd1, 0x78)
	b = append(b, 0xff, 0xd9)
	return b
}

// TablesStream returns an abbreviated table-specification stream as
// stored in the TIFF JPEGTables tag.
func TablesStream() []byte {
	b := []byte{0xff, 0xd8}
	b = append(b, 0xff, 0xdb, 0x00, 0x43, 0x00)
	for i := range 64 {
		b = append(b, byte(64-i))
	}
	b = append(b, 0xff, 0xc4, 0x00, 0x14, 0x00, 0x01)
	b = append(b, make([]byte, 15)...)
	b = append(b, 0x00)
	b = append(b, 0xff, 0xd9)
	return b
}

// Padded returns data followed by zero bytes up to size.
func Padded(data []byte, size int) []byte {
	if len(data) >= size {
		return data
	}
	out := make([]byte, size)
	copy(out, data)
	return out
}
