package wsicheck

import (
	"runtime"
	"testing"
)

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()

	if info.Version != GetVersion() || info.Version != Version {
		t.Errorf("Version = %q, want %q", info.Version, Version)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}
	// Test binaries are never stamped.
	if info.GitCommit != "unknown" || info.BuildTime != "unknown" {
		t.Errorf("unstamped build reported commit %q, time %q", info.GitCommit, info.BuildTime)
	}
}
