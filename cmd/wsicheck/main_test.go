package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/simonhull/wsicheck/internal/binary"
	"github.com/simonhull/wsicheck/internal/tifftest"
)

// run executes the root command with args and returns stdout, stderr and
// the error.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// emptyConfig writes an empty configuration file so tests never pick up
// the developer's own configuration.
func emptyConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func cleanSlide() []byte {
	return tifftest.File{
		Order: binary.LittleEndian,
		Directories: []tifftest.Directory{{
			Tiles:       tifftest.JPEGTiles(tifftest.MinimalJPEG(), tifftest.MinimalJPEG()),
			Compression: 7,
			Width:       16,
			Height:      8,
			TileWidth:   8,
			TileHeight:  8,
			Description: "Aperio Image Library v12.0.15",
		}},
	}.Build()
}

func brokenSlide() []byte {
	jpeg := tifftest.MinimalJPEG()
	return tifftest.File{
		Order: binary.BigEndian,
		Directories: []tifftest.Directory{{
			Tiles:       tifftest.JPEGTiles(jpeg, jpeg[:len(jpeg)-2]),
			Compression: 7,
			Width:       16,
			Height:      8,
			TileWidth:   8,
			TileHeight:  8,
		}},
	}.Build()
}
