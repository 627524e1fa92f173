package preflight

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	if res := CheckDirectoryAccess("Output directory", dir); !res.Passed {
		t.Fatalf("expected pass for %s: %s", dir, res.Detail)
	}

	missing := filepath.Join(dir, "nope")
	if res := CheckDirectoryAccess("Output directory", missing); res.Passed {
		t.Fatal("expected failure for missing directory")
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if res := CheckDirectoryAccess("Output directory", file); res.Passed {
		t.Fatal("expected failure for non-directory")
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()
	if res := CheckFreeSpace("Free space", dir, 1); !res.Passed {
		t.Fatalf("expected at least one byte free: %s", res.Detail)
	}
	if res := CheckFreeSpace("Free space", dir, 1<<62); res.Passed {
		t.Fatal("expected failure for absurd requirement")
	}
}

func TestRequire(t *testing.T) {
	dir := t.TempDir()
	if err := Require(dir, 1024); err != nil {
		t.Fatalf("Require: %v", err)
	}
	if err := Require(filepath.Join(dir, "missing"), 1024); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestEstimateBytes(t *testing.T) {
	// 8 Mbps for 10 seconds is 10 MB of payload.
	if got := EstimateBytes(8_000_000, 10); got != 10_000_000 {
		t.Fatalf("EstimateBytes = %d, want 10000000", got)
	}
}

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{1500, "1.5 kB"},
		{10_000_000, "10.0 MB"},
		{3_200_000_000, "3.2 GB"},
	}
	for _, tc := range cases {
		if got := formatBytes(tc.in); got != tc.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
