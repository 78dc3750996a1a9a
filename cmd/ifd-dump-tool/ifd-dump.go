package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/simonhull/wsicheck/internal/binary"
	"github.com/simonhull/wsicheck/internal/mmap"
	"github.com/simonhull/wsicheck/internal/tiff"
)

// Debugging aid: prints every directory entry exactly as stored, without
// the interpretation the validator applies.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: ifd-dump <file.svs> [max-directories]")
		os.Exit(1)
	}

	limit := 0
	if len(os.Args) > 2 {
		n, err := strconv.Atoi(os.Args[2])
		if err != nil {
			fmt.Printf("Error: bad directory limit %q\n", os.Args[2])
			os.Exit(1)
		}
		limit = n
	}

	f, err := mmap.Open(os.Args[1])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	var (
		h    tiff.Header
		dirs []tiff.DumpDirectory
	)
	guardErr := mmap.Guard(func() {
		h, dirs, err = tiff.Dump(binary.NewView(f.Bytes(), binary.LittleEndian, f.Path()), limit)
	})
	if guardErr != nil {
		err = guardErr
	}

	if len(dirs) > 0 || err == nil {
		fmt.Printf("%s, %s, %d bytes, first IFD at %d\n", h.Format, h.Order, f.Len(), h.FirstIFD)
	}
	for _, d := range dirs {
		fmt.Printf("\nIFD %d (offset: %d, entries: %d, next: %d)\n", d.Index, d.Offset, len(d.Entries), d.Next)
		for _, e := range d.Entries {
			where := "@" + strconv.FormatUint(e.Offset, 10)
			if e.Inline {
				where = "inline"
			}
			fmt.Printf("  %5d %-20s %-9s x%-6d %-12s %s\n", e.Tag, e.Name, e.Type, e.Count, where, e.Value)
		}
	}

	if err != nil {
		fmt.Printf("\nError: %v\n", err)
		os.Exit(1)
	}
}
