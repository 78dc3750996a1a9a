// Package parsing extracts structured values from free-text TIFF fields.
package parsing

import (
	"regexp"
	"strconv"
	"strings"
)

// Property is one "key = value" pair of a slide description.
type Property struct {
	Key   string
	Value string
}

// Description is a parsed Aperio ImageDescription.
//
//	Aperio Image Library v10.0.51
//	46920x33014 [0,100 46000x32914] (256x256) JPEG/RGB Q=30|AppMag = 20|MPP = 0.4990
type Description struct {
	// Header is the text before the first "|", with line breaks folded.
	Header string

	// Properties in file order. Keys are unique; the first one wins.
	Properties []Property
}

// ParseAperioDescription splits an Aperio ImageDescription into its
// header and properties. It returns false when desc is not an Aperio
// description.
func ParseAperioDescription(desc string) (Description, bool) {
	if !strings.HasPrefix(desc, "Aperio") {
		return Description{}, false
	}

	fields := strings.Split(desc, "|")
	d := Description{Header: strings.Join(strings.Fields(fields[0]), " ")}

	seen := make(map[string]bool, len(fields))
	for _, field := range fields[1:] {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(strings.TrimRight(value, "\x00"))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		d.Properties = append(d.Properties, Property{Key: key, Value: value})
	}
	return d, true
}

// Get returns the value of key, or "" if absent.
func (d Description) Get(key string) string {
	for _, p := range d.Properties {
		if p.Key == key {
			return p.Value
		}
	}
	return ""
}

// Geometry is what an Aperio header line says about the level it
// describes.
type Geometry struct {
	Width, Height         int
	TileWidth, TileHeight int
	Codec                 string
	Quality               int
}

// "46920x33014 [0,100 46000x32914] (256x256) JPEG/RGB Q=30"
var geometryPattern = regexp.MustCompile(`(\d+)x(\d+)\s*(?:\[[^\]]*\])?\s*(?:->\s*\d+x\d+\s*)?\((\d+)x(\d+)\)\s*(?:-\s*)?(\S+)?(?:\s+Q=(\d+))?`)

// Geometry extracts level size, tile size, codec and JPEG quality from the
// header. Fields the header does not carry are left zero.
func (d Description) Geometry() (Geometry, bool) {
	m := geometryPattern.FindStringSubmatch(d.Header)
	if m == nil {
		return Geometry{}, false
	}

	atoi := func(s string) int {
		n, _ := strconv.Atoi(s)
		return n
	}
	return Geometry{
		Width:      atoi(m[1]),
		Height:     atoi(m[2]),
		TileWidth:  atoi(m[3]),
		TileHeight: atoi(m[4]),
		Codec:      m[5],
		Quality:    atoi(m[6]),
	}, true
}
