package tiff

import (
	"fmt"
	"math/bits"

	"github.com/simonhull/wsicheck/internal/binary"
)

// directory is one decoded IFD.
type directory struct {
	index   int
	offset  uint64
	entries map[uint16]entry
	next    uint64
}

func (d *directory) lookup(tag uint16) (entry, bool) {
	e, ok := d.entries[tag]
	return e, ok
}

// readDirectory decodes the IFD at off: entry count, entries, and the
// next-IFD pointer.
func readDirectory(v *binary.View, h Header, off uint64, index int) (*directory, error) {
	countSize, entrySize, valueSize := h.layout()

	cr := binary.NewChainReader(binary.NewReader(v, off))
	var n uint64
	if countSize == 8 {
		n = binary.ReadChained[uint64](cr, "IFD entry count")
	} else {
		n = uint64(binary.ReadChained[uint16](cr, "IFD entry count"))
	}
	if err := cr.Error(); err != nil {
		return nil, err
	}

	// Check the whole entry table and next pointer up front so a corrupt
	// count fails before any allocation sized by it.
	hi, tableSize := bits.Mul64(n, entrySize)
	if hi != 0 || !v.Contains(cr.Offset(), tableSize) || !v.Contains(cr.Offset()+tableSize, valueSize) {
		return nil, fmt.Errorf("%d entries at offset %d do not fit in %d bytes", n, off, v.Size())
	}

	d := &directory{
		index:   index,
		offset:  off,
		entries: make(map[uint16]entry, n),
	}
	for range n {
		e := readEntry(cr, h)
		if err := cr.Error(); err != nil {
			return nil, err
		}
		// First occurrence wins, as in libtiff.
		if _, dup := d.entries[e.tag]; !dup {
			d.entries[e.tag] = e
		}
	}

	if valueSize == 8 {
		d.next = binary.ReadChained[uint64](cr, "next IFD offset")
	} else {
		d.next = uint64(binary.ReadChained[uint32](cr, "next IFD offset"))
	}
	if err := cr.Error(); err != nil {
		return nil, err
	}
	return d, nil
}
