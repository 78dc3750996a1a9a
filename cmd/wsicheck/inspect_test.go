package main

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestInspectCmd(t *testing.T) {
	t.Parallel()

	t.Run("text", func(t *testing.T) {
		t.Parallel()

		slide := writeFile(t, t.TempDir(), "clean.svs", cleanSlide())
		stdout, _, err := run(t, "inspect", slide)
		if err != nil {
			t.Fatalf("inspect failed: %v", err)
		}
		for _, want := range []string{"TIFF (svs, II)", "1 directories, 2 tiles", "16x8, 2 tiles 8x8, JPEG", "Aperio Image Library"} {
			if !strings.Contains(stdout, want) {
				t.Errorf("output missing %q:\n%s", want, stdout)
			}
		}
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		slide := writeFile(t, t.TempDir(), "clean.svs", cleanSlide())
		stdout, _, err := run(t, "inspect", "--json", slide)
		if err != nil {
			t.Fatalf("inspect failed: %v", err)
		}
		var got struct {
			TileCount int    `json:"tile_count"`
			Flavor    string `json:"flavor"`
		}
		if err := json.Unmarshal([]byte(stdout), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if got.TileCount != 2 || got.Flavor != "svs" {
			t.Errorf("unexpected layout: %+v", got)
		}
	})

	t.Run("not a tiff", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "x.svs", []byte("GIF89a not a slide"))
		stdout, _, err := run(t, "inspect", path)
		if !errors.Is(err, errNotClean) {
			t.Fatalf("expected errNotClean, got %v", err)
		}
		if !strings.Contains(stdout, "ERROR") {
			t.Errorf("unexpected output:\n%s", stdout)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, _, err := run(t, "inspect", filepath.Join(t.TempDir(), "nope.svs"))
		if !errors.Is(err, errNotClean) {
			t.Fatalf("expected errNotClean, got %v", err)
		}
	})
}
