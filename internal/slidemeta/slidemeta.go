// Package slidemeta extracts descriptive tags (scanner make, software,
// timestamps) from the first directory of a classic TIFF slide. Aperio
// slides also contribute the key/value properties of their
// ImageDescription.
//
// It is informational only. Validation never depends on it, and a file
// whose tags cannot be decoded simply has no descriptive metadata.
package slidemeta

import (
	"errors"
	"strconv"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"

	"github.com/simonhull/wsicheck/internal/parsing"
)

// Tag is one descriptive tag.
type Tag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// descriptive lists the IFD0 tags worth showing, in display order.
var descriptive = []string{
	"Make",
	"Model",
	"Software",
	"HostComputer",
	"DateTime",
	"Artist",
	"Copyright",
	"XResolution",
	"YResolution",
	"ResolutionUnit",
}

// maxValueLen bounds displayed values.
const maxValueLen = 200

// Describe returns the descriptive IFD0 tags found in data, in a fixed
// order, followed by any Aperio description properties in file order and
// the JPEG quality named in the description header. A file without decodable tags yields an empty slice and no error;
// BigTIFF files are not understood by the decoder and always yield nothing.
func Describe(data []byte) ([]Tag, error) {
	rawExif, err := exif.SearchAndExtractExif(data)
	if errors.Is(err, exif.ErrNoExif) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return nil, err
	}

	found := make(map[string]string, len(descriptive))
	var description string
	for _, entry := range entries {
		if entry.IfdPath != "IFD" {
			continue
		}
		if _, seen := found[entry.TagName]; seen {
			continue
		}
		if entry.TagName == "ImageDescription" && description == "" {
			description = entry.Formatted
			continue
		}
		value := strings.TrimSpace(strings.TrimRight(entry.Formatted, "\x00"))
		if value == "" {
			continue
		}
		found[entry.TagName] = value
	}

	tags := make([]Tag, 0, len(found))
	for _, name := range descriptive {
		value, ok := found[name]
		if !ok {
			continue
		}
		tags = append(tags, Tag{Name: name, Value: clip(value)})
	}

	if d, ok := parsing.ParseAperioDescription(description); ok {
		for _, p := range d.Properties {
			if p.Value == "" {
				continue
			}
			tags = append(tags, Tag{Name: p.Key, Value: clip(p.Value)})
		}
		if g, ok := d.Geometry(); ok && g.Quality > 0 {
			tags = append(tags, Tag{Name: "Quality", Value: strconv.Itoa(g.Quality)})
		}
	}
	return tags, nil
}

func clip(value string) string {
	if len(value) > maxValueLen {
		return value[:maxValueLen-3] + "..."
	}
	return value
}
