// Package jpeg checks the marker structure of JPEG-compressed TIFF tiles
// without entropy decoding.
package jpeg

import "fmt"

// Marker codes, i.e. the byte that follows 0xFF.
const (
	markerTEM   = 0x01 // Temporary private use, stand-alone.
	markerSOF0  = 0xc0 // Start Of Frame (Baseline Sequential).
	markerSOF15 = 0xcf // Start Of Frame (Differential Lossless, arithmetic).
	markerDHT   = 0xc4 // Define Huffman Table.
	markerJPG   = 0xc8 // Reserved for JPEG extensions.
	markerDAC   = 0xcc // Define Arithmetic Coding conditioning.
	markerRST0  = 0xd0 // ReSTart (0).
	markerRST7  = 0xd7 // ReSTart (7).
	markerSOI   = 0xd8 // Start Of Image.
	markerEOI   = 0xd9 // End Of Image.
	markerSOS   = 0xda // Start Of Scan.
	markerDQT   = 0xdb // Define Quantization Table.
	markerDNL   = 0xdc // Define Number of Lines.
	markerDRI   = 0xdd // Define Restart Interval.
	markerAPP0  = 0xe0
	markerAPP15 = 0xef
	markerCOM   = 0xfe // COMment.
)

// isSOF reports whether code is one of the thirteen Start Of Frame markers.
func isSOF(code byte) bool {
	return code >= markerSOF0 && code <= markerSOF15 &&
		code != markerDHT && code != markerJPG && code != markerDAC
}

// isRST reports whether code is a restart marker.
func isRST(code byte) bool {
	return code >= markerRST0 && code <= markerRST7
}

// isAPP reports whether code is an application segment marker.
func isAPP(code byte) bool {
	return code >= markerAPP0 && code <= markerAPP15
}

// isTable reports whether code may appear in an abbreviated
// table-specification stream.
func isTable(code byte) bool {
	switch code {
	case markerDQT, markerDHT, markerDAC, markerDRI, markerCOM:
		return true
	}
	return isAPP(code)
}

// markerName returns a short display name for a marker code.
func markerName(code byte) string {
	switch {
	case isSOF(code):
		return fmt.Sprintf("SOF%d", code-markerSOF0)
	case isRST(code):
		return fmt.Sprintf("RST%d", code-markerRST0)
	case isAPP(code):
		return fmt.Sprintf("APP%d", code-markerAPP0)
	}
	switch code {
	case markerDHT:
		return "DHT"
	case markerDAC:
		return "DAC"
	case markerSOI:
		return "SOI"
	case markerEOI:
		return "EOI"
	case markerSOS:
		return "SOS"
	case markerDQT:
		return "DQT"
	case markerDNL:
		return "DNL"
	case markerDRI:
		return "DRI"
	case markerCOM:
		return "COM"
	}
	return fmt.Sprintf("0xFF%02X", code)
}
