package tiff

import "strconv"

// Field types.
const (
	typeByte      = 1
	typeASCII     = 2
	typeShort     = 3
	typeLong      = 4
	typeRational  = 5
	typeSByte     = 6
	typeUndefined = 7
	typeSShort    = 8
	typeSLong     = 9
	typeSRational = 10
	typeFloat     = 11
	typeDouble    = 12
	typeIFD       = 13
	typeLong8     = 16
	typeSLong8    = 17
	typeIFD8      = 18
)

// Tags needed to locate tile data and describe a directory.
const (
	tagImageWidth          = 256
	tagImageLength         = 257
	tagCompression         = 259
	tagImageDescription    = 270
	tagStripOffsets        = 273
	tagSamplesPerPixel     = 277
	tagRowsPerStrip        = 278
	tagStripByteCounts     = 279
	tagPlanarConfiguration = 284
	tagTileWidth           = 322
	tagTileLength          = 323
	tagTileOffsets         = 324
	tagTileByteCounts      = 325
	tagJPEGTables          = 347
)

const compressionNone = 1

// typeWidth returns the size in bytes of one value of the given field
// type, or 0 for types this package does not know.
func typeWidth(typ uint16) uint64 {
	switch typ {
	case typeByte, typeASCII, typeSByte, typeUndefined:
		return 1
	case typeShort, typeSShort:
		return 2
	case typeLong, typeSLong, typeFloat, typeIFD:
		return 4
	case typeRational, typeSRational, typeDouble, typeLong8, typeSLong8, typeIFD8:
		return 8
	default:
		return 0
	}
}

// isUnsigned reports whether values of typ decode as plain unsigned
// integers, which is what offset and count arrays must be.
func isUnsigned(typ uint16) bool {
	switch typ {
	case typeByte, typeShort, typeLong, typeIFD, typeLong8, typeIFD8:
		return true
	}
	return false
}

var typeNames = map[uint16]string{
	typeByte:      "BYTE",
	typeASCII:     "ASCII",
	typeShort:     "SHORT",
	typeLong:      "LONG",
	typeRational:  "RATIONAL",
	typeSByte:     "SBYTE",
	typeUndefined: "UNDEFINED",
	typeSShort:    "SSHORT",
	typeSLong:     "SLONG",
	typeSRational: "SRATIONAL",
	typeFloat:     "FLOAT",
	typeDouble:    "DOUBLE",
	typeIFD:       "IFD",
	typeLong8:     "LONG8",
	typeSLong8:    "SLONG8",
	typeIFD8:      "IFD8",
}

func typeName(typ uint16) string {
	if name, ok := typeNames[typ]; ok {
		return name
	}
	return "type " + strconv.Itoa(int(typ))
}

var tagNames = map[uint16]string{
	tagImageWidth:          "ImageWidth",
	tagImageLength:         "ImageLength",
	tagCompression:         "Compression",
	tagImageDescription:    "ImageDescription",
	tagStripOffsets:        "StripOffsets",
	tagSamplesPerPixel:     "SamplesPerPixel",
	tagRowsPerStrip:        "RowsPerStrip",
	tagStripByteCounts:     "StripByteCounts",
	tagPlanarConfiguration: "PlanarConfiguration",
	tagTileWidth:           "TileWidth",
	tagTileLength:          "TileLength",
	tagTileOffsets:         "TileOffsets",
	tagTileByteCounts:      "TileByteCounts",
	tagJPEGTables:          "JPEGTables",
}

func tagName(tag uint16) string {
	if name, ok := tagNames[tag]; ok {
		return name
	}
	return "tag " + strconv.Itoa(int(tag))
}

// compressionNames covers the codes slide scanners are known to write.
var compressionNames = map[uint16]string{
	1:     "None",
	2:     "CCITT RLE",
	5:     "LZW",
	6:     "Old-style JPEG",
	7:     "JPEG",
	8:     "Deflate",
	32773: "PackBits",
	32946: "Deflate",
	33003: "JPEG 2000 (Aperio YCbCr)",
	33005: "JPEG 2000 (Aperio RGB)",
	34712: "JPEG 2000",
	34887: "LERC",
	50001: "WebP",
	50002: "JPEG XL",
}
