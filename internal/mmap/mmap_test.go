package mmap

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestOpen(t *testing.T) {
	want := []byte("II*\x00\x08\x00\x00\x00tile data")
	path := filepath.Join(t.TempDir(), "slide.svs")
	if err := os.WriteFile(path, want, 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open() unexpected error: %v", err)
	}
	defer f.Close()

	if !bytes.Equal(f.Bytes(), want) {
		t.Errorf("Bytes() = %q, want %q", f.Bytes(), want)
	}
	if f.Len() != len(want) {
		t.Errorf("Len() = %d, want %d", f.Len(), len(want))
	}
	if f.Path() != path {
		t.Errorf("Path() = %q", f.Path())
	}

	if err := f.Close(); err != nil {
		t.Errorf("Close() unexpected error: %v", err)
	}
	if f.Bytes() != nil {
		t.Error("Bytes() should be nil after Close")
	}
}

func TestOpen_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.tif")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open() unexpected error: %v", err)
	}
	if f.Len() != 0 || f.Mapped() {
		t.Errorf("empty file: Len() = %d, Mapped() = %v", f.Len(), f.Mapped())
	}
	if err := f.Close(); err != nil {
		t.Errorf("Close() unexpected error: %v", err)
	}
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.svs"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error should wrap ErrNotExist: %v", err)
	}
}

func TestGuard(t *testing.T) {
	if err := Guard(func() {}); err != nil {
		t.Errorf("Guard() unexpected error: %v", err)
	}

	defer func() {
		if r := recover(); r != "boom" {
			t.Errorf("non-fault panic should propagate, got %v", r)
		}
	}()
	_ = Guard(func() { panic("boom") })
	t.Error("Guard swallowed a non-fault panic")
}
