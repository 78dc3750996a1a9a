package jpeg

import (
	"strings"
	"testing"

	"github.com/simonhull/wsicheck/internal/tifftest"
)

func TestCheckTables(t *testing.T) {
	tables := tifftest.TablesStream()

	tests := []struct {
		name    string
		data    []byte
		wantErr string
	}{
		{name: "tables only", data: tables},
		{name: "empty tables stream", data: []byte{0xff, 0xd8, 0xff, 0xd9}},
		{name: "empty", data: nil, wantErr: "does not start with SOI"},
		{name: "no SOI", data: tables[2:], wantErr: "does not start with SOI"},
		{name: "no EOI", data: tables[:len(tables)-2], wantErr: "no EOI"},
		{name: "cut inside segment", data: tables[:30], wantErr: "does not fit"},
		{
			name:    "frame header not allowed",
			data:    concat(tables[:2], tifftest.MinimalJPEG()[2:]),
			wantErr: "unexpected SOF0",
		},
		{
			name:    "garbage between segments",
			data:    []byte{0xff, 0xd8, 0x00, 0xff, 0xd9},
			wantErr: "expected marker at offset 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckTables(tt.data)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("CheckTables() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("CheckTables() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("CheckTables() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
