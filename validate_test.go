package wsicheck_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/simonhull/wsicheck"
	"github.com/simonhull/wsicheck/internal/binary"
	"github.com/simonhull/wsicheck/internal/tifftest"
)

// slideWithTiles builds a single-IFD JPEG file with n valid tiles.
func slideWithTiles(order binary.Endianness, bigTIFF bool, n int) []byte {
	tiles := make([]tifftest.Tile, n)
	for i := range tiles {
		tiles[i] = tifftest.Tile{Data: tifftest.MinimalJPEG()}
	}
	return tifftest.File{
		Order:       order,
		BigTIFF:     bigTIFF,
		Directories: []tifftest.Directory{{Compression: 7, Tiles: tiles}},
	}.Build()
}

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

type readLog struct {
	mu    sync.Mutex
	reads [][2]uint64
}

func (l *readLog) hook(off, n uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reads = append(l.reads, [2]uint64{off, n})
}

// overlapping returns the recorded reads that touch [lo, hi).
func (l *readLog) overlapping(lo, hi uint64) [][2]uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out [][2]uint64
	for _, r := range l.reads {
		if r[0] < hi && r[0]+r[1] > lo {
			out = append(out, r)
		}
	}
	return out
}

func TestValidate_TwoTileScenario(t *testing.T) {
	data := tifftest.File{
		Order: binary.LittleEndian,
		Directories: []tifftest.Directory{{
			Compression: 7,
			Tiles: []tifftest.Tile{
				{Data: tifftest.Padded(tifftest.MinimalJPEG(), 50), Offset: 100},
				{Data: make([]byte, 60), Offset: 250},
			},
		}},
	}.Build()

	if !bytes.HasPrefix(data, []byte("II*\x00")) {
		t.Fatalf("unexpected header % x", data[:4])
	}

	report, err := wsicheck.Validate(data)
	if err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}

	if report.TotalTiles != 2 || report.ValidCount != 1 {
		t.Errorf("TotalTiles=%d ValidCount=%d, want 2 and 1", report.TotalTiles, report.ValidCount)
	}
	if report.Results[0].Status != wsicheck.StatusValid {
		t.Errorf("tile 0 status = %v", report.Results[0].Status)
	}
	if report.Results[1].Status != wsicheck.StatusMalformedMarkerSequence {
		t.Errorf("tile 1 status = %v", report.Results[1].Status)
	}
	if report.Results[1].Offset != 250 || report.Results[1].ByteCount != 60 {
		t.Errorf("tile 1 range = %d+%d", report.Results[1].Offset, report.Results[1].ByteCount)
	}
	if report.InvalidCount() != 1 || report.OK() {
		t.Errorf("InvalidCount()=%d OK()=%v", report.InvalidCount(), report.OK())
	}
	if report.Format != wsicheck.FormatTIFF || report.ByteOrder != "II" || report.Size != uint64(len(data)) {
		t.Errorf("unexpected file fields: %v %s %d", report.Format, report.ByteOrder, report.Size)
	}
}

func TestValidate_ResultsInTileOrder(t *testing.T) {
	for _, n := range []int{0, 1, 63, 64, 65, 500} {
		for _, workers := range []int{1, 3, 16} {
			data := slideWithTiles(binary.LittleEndian, false, n)

			report, err := wsicheck.Validate(data, wsicheck.WithWorkers(workers))
			if err != nil {
				t.Fatalf("n=%d workers=%d: unexpected error: %v", n, workers, err)
			}
			if report.TotalTiles != n || len(report.Results) != n || report.ValidCount != n {
				t.Fatalf("n=%d workers=%d: total=%d results=%d valid=%d",
					n, workers, report.TotalTiles, len(report.Results), report.ValidCount)
			}
			for i, res := range report.Results {
				if res.TileIndex != i {
					t.Fatalf("n=%d workers=%d: result %d has tile index %d", n, workers, i, res.TileIndex)
				}
			}
		}
	}
}

func TestValidate_UnsupportedCompression(t *testing.T) {
	data := tifftest.File{
		Order: binary.BigEndian,
		Directories: []tifftest.Directory{{
			Compression: 5,
			Tiles:       []tifftest.Tile{{Data: []byte("LZW data")}},
		}},
	}.Build()

	report, err := wsicheck.Validate(data)
	if err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}

	if got := report.Results[0].Status; got != wsicheck.StatusUnsupportedCompression {
		t.Errorf("status = %v, want UnsupportedCompression", got)
	}
	if report.SkippedCount != 1 || report.InvalidCount() != 0 || !report.OK() {
		t.Errorf("SkippedCount=%d InvalidCount()=%d OK()=%v", report.SkippedCount, report.InvalidCount(), report.OK())
	}
	for range report.Problems() {
		t.Error("unsupported compression is not a problem")
	}
}

func TestValidate_TruncatedAtEOI(t *testing.T) {
	minimal := tifftest.MinimalJPEG()
	data := tifftest.File{
		Order: binary.LittleEndian,
		Directories: []tifftest.Directory{{
			Compression: 7,
			Tiles:       []tifftest.Tile{{Data: minimal[:len(minimal)-2]}},
		}},
	}.Build()

	report, err := wsicheck.Validate(data)
	if err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if got := report.Results[0].Status; got != wsicheck.StatusTruncated {
		t.Errorf("status = %v, want Truncated", got)
	}
}

func TestValidate_TinyByteCountStaysInRange(t *testing.T) {
	data := tifftest.File{
		Order: binary.LittleEndian,
		Directories: []tifftest.Directory{{
			Compression: 7,
			Tiles:       []tifftest.Tile{{Data: tifftest.MinimalJPEG(), DeclaredCount: tifftest.Ptr(uint64(2))}},
		}},
	}.Build()

	var log readLog
	report, err := wsicheck.Validate(data, wsicheck.WithReadHook(log.hook))
	if err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}

	res := report.Results[0]
	if res.Status != wsicheck.StatusTruncated && res.Status != wsicheck.StatusMalformedMarkerSequence {
		t.Errorf("status = %v, want Truncated or MalformedMarkerSequence", res.Status)
	}

	// The rest of the JPEG sits right after the two declared bytes.
	if reads := log.overlapping(res.Offset+2, res.Offset+uint64(len(tifftest.MinimalJPEG()))); len(reads) > 0 {
		t.Errorf("reads beyond the declared byte count: %v", reads)
	}
}

func TestValidate_OffsetOutOfBounds(t *testing.T) {
	data := tifftest.File{
		Order: binary.LittleEndian,
		Directories: []tifftest.Directory{{
			Compression: 7,
			Tiles: []tifftest.Tile{
				{Data: tifftest.MinimalJPEG()},
				{Data: tifftest.MinimalJPEG(), DeclaredCount: tifftest.Ptr(uint64(1 << 20))},
				{Data: tifftest.MinimalJPEG(), DeclaredOffset: tifftest.Ptr(uint64(1 << 30))},
			},
		}},
	}.Build()
	size := uint64(len(data))

	var log readLog
	report, err := wsicheck.Validate(data, wsicheck.WithReadHook(log.hook))
	if err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}

	want := []wsicheck.Status{
		wsicheck.StatusValid,
		wsicheck.StatusOffsetOutOfBounds,
		wsicheck.StatusOffsetOutOfBounds,
	}
	for i, res := range report.Results {
		if res.Status != want[i] {
			t.Errorf("tile %d status = %v, want %v", i, res.Status, want[i])
		}
	}
	if report.ValidCount != 1 || report.InvalidCount() != 2 {
		t.Errorf("ValidCount=%d InvalidCount()=%d", report.ValidCount, report.InvalidCount())
	}

	for _, r := range log.overlapping(0, ^uint64(0)) {
		if r[0]+r[1] > size {
			t.Errorf("read [%d, +%d) past end of %d-byte file", r[0], r[1], size)
		}
	}
	if reads := log.overlapping(report.Results[1].Offset, report.Results[1].Offset+1); len(reads) > 0 {
		t.Errorf("out-of-bounds tile was read: %v", reads)
	}
}

func TestValidate_FatalErrors(t *testing.T) {
	t.Run("malformed header", func(t *testing.T) {
		_, err := wsicheck.Validate([]byte("GIF89a this is not a TIFF"))
		var hdrErr *wsicheck.MalformedHeaderError
		if !errors.As(err, &hdrErr) {
			t.Errorf("Validate() error = %v, want *MalformedHeaderError", err)
		}
	})

	t.Run("no first directory", func(t *testing.T) {
		data := tifftest.File{
			Order:       binary.LittleEndian,
			Directories: []tifftest.Directory{{Compression: 7, Tiles: tifftest.JPEGTiles(tifftest.MinimalJPEG())}},
			FirstIFD:    tifftest.Ptr(uint64(0)),
		}.Build()

		report, err := wsicheck.Validate(data)
		var hdrErr *wsicheck.MalformedHeaderError
		if !errors.As(err, &hdrErr) {
			t.Errorf("Validate() error = %v, want *MalformedHeaderError", err)
		}
		if report != nil {
			t.Errorf("expected no report, got %d tiles", report.TotalTiles)
		}
	})

	t.Run("cyclic IFD chain", func(t *testing.T) {
		data := tifftest.File{
			Order: binary.LittleEndian,
			Directories: []tifftest.Directory{
				{Compression: 7, Tiles: tifftest.JPEGTiles(tifftest.MinimalJPEG())},
				{Compression: 7, Tiles: tifftest.JPEGTiles(tifftest.MinimalJPEG())},
			},
			CycleTo: tifftest.Ptr(0),
		}.Build()

		_, err := wsicheck.Validate(data)
		var dirErr *wsicheck.MalformedDirectoryError
		if !errors.As(err, &dirErr) {
			t.Errorf("Validate() error = %v, want *MalformedDirectoryError", err)
		}
	})
}

func TestValidate_Idempotent(t *testing.T) {
	data := tifftest.File{
		Order: binary.BigEndian,
		Directories: []tifftest.Directory{
			{
				Compression: 7,
				Description: "Aperio Image Library",
				JPEGTables:  tifftest.TablesStream(),
				Tiles: []tifftest.Tile{
					{Data: tifftest.MinimalJPEG()},
					{Data: tifftest.JPEGWithTables()},
					{Data: make([]byte, 40)},
					{Data: tifftest.MinimalJPEG()[:20]},
				},
			},
			{Compression: 5, Tiles: []tifftest.Tile{{Data: []byte("lzw")}}},
		},
	}.Build()
	orig := bytes.Clone(data)

	r1, err := wsicheck.Validate(data, wsicheck.WithWorkers(1))
	if err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	r2, err := wsicheck.Validate(data, wsicheck.WithWorkers(8))
	if err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}

	if !bytes.Equal(data, orig) {
		t.Error("Validate modified its input")
	}
	if !reflect.DeepEqual(r1.Results, r2.Results) {
		t.Error("results differ between runs")
	}

	j1, _ := json.Marshal(r1)
	j2, _ := json.Marshal(r2)
	if !bytes.Equal(j1, j2) {
		t.Errorf("serialized reports differ:\n%s\n%s", j1, j2)
	}
}

func TestValidate_MultipleDirectories(t *testing.T) {
	data := tifftest.File{
		Order:   binary.LittleEndian,
		BigTIFF: true,
		Directories: []tifftest.Directory{
			{Compression: 7, Tiles: tifftest.JPEGTiles(tifftest.MinimalJPEG(), tifftest.MinimalJPEG(), tifftest.MinimalJPEG())},
			{Compression: 7, Tiles: tifftest.JPEGTiles(tifftest.MinimalJPEG(), make([]byte, 8))},
		},
	}.Build()

	report, err := wsicheck.Validate(data)
	if err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if report.Format != wsicheck.FormatBigTIFF || report.TotalTiles != 5 || report.ValidCount != 4 {
		t.Errorf("format=%v total=%d valid=%d", report.Format, report.TotalTiles, report.ValidCount)
	}
	last := report.Results[4]
	if last.Directory != 1 || last.TileInDirectory != 1 || last.Status != wsicheck.StatusMalformedMarkerSequence {
		t.Errorf("unexpected last result %+v", last)
	}
	if len(report.Directories) != 2 {
		t.Errorf("got %d directory summaries", len(report.Directories))
	}

	first, err := wsicheck.Validate(data, wsicheck.WithFirstDirectoryOnly())
	if err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if first.TotalTiles != 3 || !first.OK() {
		t.Errorf("first directory only: total=%d OK()=%v", first.TotalTiles, first.OK())
	}
}

func TestValidate_WarningPolicy(t *testing.T) {
	data := tifftest.File{
		Order: binary.LittleEndian,
		Directories: []tifftest.Directory{{
			Compression: 7,
			JPEGTables:  []byte{0xff, 0xd8, 0x00},
			Tiles:       tifftest.JPEGTiles(tifftest.MinimalJPEG()),
		}},
	}.Build()

	report, err := wsicheck.Validate(data)
	if err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if len(report.Warnings) != 1 || report.OK() {
		t.Errorf("expected one warning and OK()=false, got %v", report.Warnings)
	}

	if _, err := wsicheck.Validate(data, wsicheck.WithStrictParsing()); err == nil {
		t.Error("strict parsing should fail on a warning")
	}

	quiet, err := wsicheck.Validate(data, wsicheck.WithIgnoreWarnings())
	if err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if quiet.Warnings != nil || !quiet.OK() {
		t.Errorf("warnings should be dropped, got %v", quiet.Warnings)
	}
}

func TestValidate_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if _, err := wsicheck.Validate(slideWithTiles(binary.LittleEndian, false, 2), wsicheck.WithLogger(logger)); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"msg=directory", "msg=validated", "tiles=2", "valid=2"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestValidateContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := wsicheck.ValidateContext(ctx, slideWithTiles(binary.LittleEndian, false, 10))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ValidateContext() error = %v, want context.Canceled", err)
	}
}

func TestValidateFile(t *testing.T) {
	path := writeTemp(t, "slide.svs", slideWithTiles(binary.LittleEndian, false, 4))

	report, err := wsicheck.ValidateFile(path)
	if err != nil {
		t.Fatalf("ValidateFile() unexpected error: %v", err)
	}
	if report.Path != path || report.TotalTiles != 4 || !report.OK() {
		t.Errorf("path=%q total=%d OK()=%v", report.Path, report.TotalTiles, report.OK())
	}

	if _, err := wsicheck.ValidateFile(filepath.Join(t.TempDir(), "missing.svs")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ValidateFile() on missing file: %v", err)
	}
}

func TestValidateMany(t *testing.T) {
	paths := []string{
		writeTemp(t, "a.svs", slideWithTiles(binary.LittleEndian, false, 3)),
		writeTemp(t, "b.txt", []byte("not a slide")),
		writeTemp(t, "c.tif", slideWithTiles(binary.BigEndian, true, 5)),
	}

	results, err := wsicheck.ValidateMany(context.Background(), paths, wsicheck.WithWorkers(2))
	if err != nil {
		t.Fatalf("ValidateMany() unexpected error: %v", err)
	}
	if len(results) != len(paths) {
		t.Fatalf("got %d results, want %d", len(results), len(paths))
	}
	for i, r := range results {
		if r.Path != paths[i] {
			t.Errorf("result %d path = %q, want %q", i, r.Path, paths[i])
		}
	}
	if results[0].Err != nil || results[0].Report.TotalTiles != 3 {
		t.Errorf("a.svs: %+v", results[0])
	}
	var hdrErr *wsicheck.MalformedHeaderError
	if !errors.As(results[1].Err, &hdrErr) {
		t.Errorf("b.txt error = %v, want *MalformedHeaderError", results[1].Err)
	}
	if results[2].Err != nil || results[2].Report.TotalTiles != 5 {
		t.Errorf("c.tif: %+v", results[2])
	}
}

func TestValidateMany_Cancelled(t *testing.T) {
	paths := []string{writeTemp(t, "a.svs", slideWithTiles(binary.LittleEndian, false, 1))}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := wsicheck.ValidateMany(ctx, paths)
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if results != nil {
		t.Error("expected nil results on error")
	}
}

func TestInspect(t *testing.T) {
	data := tifftest.File{
		Order: binary.LittleEndian,
		Directories: []tifftest.Directory{
			{Compression: 7, Description: "Aperio Image Library v12", Tiles: tifftest.JPEGTiles(tifftest.MinimalJPEG())},
			{Compression: 33003, Tiles: []tifftest.Tile{{Data: []byte("j2k")}}},
		},
	}.Build()

	layout, err := wsicheck.Inspect(data)
	if err != nil {
		t.Fatalf("Inspect() unexpected error: %v", err)
	}
	if layout.Flavor != "svs" || len(layout.Directories) != 2 || len(layout.Tiles) != 2 {
		t.Errorf("flavor=%s dirs=%d tiles=%d", layout.Flavor, len(layout.Directories), len(layout.Tiles))
	}
	if got := layout.Directories[1].CompressionName; got != "JPEG 2000 (Aperio YCbCr)" {
		t.Errorf("CompressionName = %q", got)
	}

	path := writeTemp(t, "slide.svs", data)
	fromFile, err := wsicheck.InspectFile(path)
	if err != nil {
		t.Fatalf("InspectFile() unexpected error: %v", err)
	}
	if !reflect.DeepEqual(layout, fromFile) {
		t.Error("InspectFile and Inspect disagree")
	}
}

func BenchmarkValidate(b *testing.B) {
	data := slideWithTiles(binary.LittleEndian, false, 4096)
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()

	for b.Loop() {
		if _, err := wsicheck.Validate(data); err != nil {
			b.Fatal(err)
		}
	}
}
